package cart

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cart.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(session string, price int) Record {
	return Record{
		SessionID:    session,
		PrintImage:   "data:image/jpeg;base64,/9j/4AAQ",
		PreviewImage: "data:image/png;base64,iVBORw==",
		FrameSize:    types.DefaultFrameSize,
		FrameColor:   "walnut",
		FrameTexture: types.TextureWood,
		Adjustments:  types.Adjustments{Brightness: 120, Contrast: 90, Highlights: 100, Shadows: 80, Vibrance: 110},
		Zoom:         0.42,
		Position:     types.Position{X: -12.5, Y: 3},
		Price:        price,
	}
}

func TestAddAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, sampleRecord("s1", 349))
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	require.False(t, added.Timestamp.IsZero())

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	require.Equal(t, added.ID, got.ID)
	require.Equal(t, added.PrintImage, got.PrintImage)
	require.Equal(t, added.PreviewImage, got.PreviewImage)
	require.Equal(t, added.FrameSize, got.FrameSize)
	require.Equal(t, added.Adjustments, got.Adjustments)
	require.Equal(t, added.Position, got.Position)
	require.InDelta(t, 0.42, got.Zoom, 1e-9)
	require.Equal(t, added.Timestamp.UnixMilli(), got.Timestamp.UnixMilli())
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Remove(context.Background(), "nope"), ErrNotFound)
}

func TestListRemoveAndTotal(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	a, err := s.Add(ctx, sampleRecord("s1", 349))
	require.NoError(t, err)
	b, err := s.Add(ctx, sampleRecord("s1", 249))
	require.NoError(t, err)
	_, err = s.Add(ctx, sampleRecord("s2", 249))
	require.NoError(t, err)

	list, err := s.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, b.ID, list[1].ID)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	count, total, err := s.Total(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, 598, total)

	require.NoError(t, s.Remove(ctx, a.ID))
	count, total, err = s.Total(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 249, total)
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	rec, err := s.Add(context.Background(), sampleRecord("s1", 349))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.PrintImage, got.PrintImage)
}
