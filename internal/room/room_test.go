package room

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/photoframer/internal/types"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// writeSet writes n grey photos of size w x h into dir/key.
func writeSet(t *testing.T, dir, key string, n, w, h int) {
	t.Helper()
	folder := filepath.Join(dir, key)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	for i := 0; i < n; i++ {
		img := solid(w, h, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		path := filepath.Join(folder, "room-"+string(rune('a'+i))+".jpg")
		require.NoError(t, imaging.Save(img, path, imaging.JPEGQuality(90)))
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		fs   types.FrameSize
		want string
	}{
		{types.FrameSize{Size: types.Size13x19, Orientation: types.Portrait}, "13x19 Portrait"},
		{types.FrameSize{Size: types.Size13x19, Orientation: types.Landscape}, "13x19 Landscape"},
		{types.FrameSize{Size: types.Size13x10, Orientation: types.Portrait}, "13x10 Vertical"},
		{types.FrameSize{Size: types.Size13x10, Orientation: types.Landscape}, "13x10 Landscape"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, Key(tt.fs))
		})
	}
	require.Len(t, Keys(), 4)
}

func TestDefaultTableCoversEveryKey(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	for _, key := range Keys() {
		for i := 0; i < PhotosPerKey; i++ {
			_, ok := table.Lookup(key, i)
			if i == ExcludedIndex {
				require.False(t, ok, "%s photo %d must have no box", key, i)
			} else {
				require.True(t, ok, "%s photo %d has no box", key, i)
			}
		}
	}
}

func TestScaleFollowsPhotoSize(t *testing.T) {
	table, err := ParseTable([]byte(`
rooms:
  "13x19 Portrait":
    - {index: 0, x: 100, y: 50, width: 80, height: 120}
`))
	require.NoError(t, err)

	b, ok := table.Lookup("13x19 Portrait", 0)
	require.True(t, ok)
	require.Equal(t, image.Rect(100, 50, 180, 170), table.Scale(b, 800, 600))
	require.Equal(t, image.Rect(200, 100, 360, 340), table.Scale(b, 1600, 1200))
	require.Equal(t, image.Rect(50, 50, 90, 170), table.Scale(b, 400, 600))
}

func TestParseTableRejectsBadBoxes(t *testing.T) {
	_, err := ParseTable([]byte(`
rooms:
  k:
    - {index: 4, x: 1, y: 1, width: 10, height: 10}
`))
	require.Error(t, err)

	_, err = ParseTable([]byte(`
rooms:
  k:
    - {index: 0, x: 790, y: 1, width: 40, height: 10}
`))
	require.Error(t, err)

	_, err = ParseTable([]byte(`rooms: [`))
	require.Error(t, err)
}

func TestRenderOverlaysAndExcludesPhotoFour(t *testing.T) {
	dir := t.TempDir()
	fs := types.DefaultFrameSize
	key := Key(fs)
	writeSet(t, dir, key, PhotosPerKey, 1600, 1200)

	r, err := NewRenderer(Config{Dir: dir, Workers: 3})
	require.NoError(t, err)

	preview := solid(44, 64, color.NRGBA{R: 20, G: 20, B: 220, A: 255})
	out, err := r.Render(context.Background(), fs, preview)
	require.NoError(t, err)
	require.Len(t, out, PhotosPerKey)

	set, err := r.Set(key)
	require.NoError(t, err)
	require.True(t, bytes.Equal(set.Photos[ExcludedIndex].Data, out[ExcludedIndex]),
		"excluded photo must be returned unmodified")

	for i := 0; i < PhotosPerKey; i++ {
		if i == ExcludedIndex {
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(out[i]))
		require.NoError(t, err)
		require.Equal(t, 1600, img.Bounds().Dx())

		rect := r.Place(key, i, fs, 1600, 1200)
		centre := color.NRGBAModel.Convert(img.At((rect.Min.X+rect.Max.X)/2, (rect.Min.Y+rect.Max.Y)/2)).(color.NRGBA)
		require.Greater(t, centre.B, uint8(150), "photo %d should show the preview", i)
		require.Less(t, centre.R, uint8(80), "photo %d should show the preview", i)
	}
}

func TestRenderFallsBackToPresets(t *testing.T) {
	dir := t.TempDir()
	fs := types.FrameSize{Size: types.Size13x10, Orientation: types.Landscape}
	key := Key(fs)
	writeSet(t, dir, key, PhotosPerKey, 800, 600)

	empty, err := ParseTable([]byte(`rooms: {}`))
	require.NoError(t, err)
	r, err := NewRenderer(Config{Dir: dir, Table: empty})
	require.NoError(t, err)

	require.Equal(t, PresetRect(0, fs.AspectRatio(), 800, 600), r.Place(key, 0, fs, 800, 600))
	require.Equal(t, PresetRect(3, fs.AspectRatio(), 800, 600), PresetRect(0, fs.AspectRatio(), 800, 600))

	preview := solid(20, 16, color.NRGBA{R: 230, G: 10, B: 10, A: 255})
	out, err := r.Render(context.Background(), fs, preview)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out[1]))
	require.NoError(t, err)
	rect := PresetRect(1, fs.AspectRatio(), 800, 600)
	centre := color.NRGBAModel.Convert(img.At((rect.Min.X+rect.Max.X)/2, (rect.Min.Y+rect.Max.Y)/2)).(color.NRGBA)
	require.Greater(t, centre.R, uint8(150))
}

func TestLoadPhotoSetRequiresFullSet(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "13x19 Landscape", 4, 80, 60)

	_, err := LoadPhotoSet(dir, "13x19 Landscape")
	require.Error(t, err)

	_, err = LoadPhotoSet(dir, "missing")
	require.Error(t, err)
}

func TestRenderCastsShadowBelowFrame(t *testing.T) {
	dir := t.TempDir()
	fs := types.FrameSize{Size: types.Size13x10, Orientation: types.Landscape}
	key := Key(fs)
	writeSet(t, dir, key, PhotosPerKey, 1600, 1200)

	empty, err := ParseTable([]byte(`rooms: {}`))
	require.NoError(t, err)
	preview := solid(20, 16, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	probe := func(opacity float64) uint8 {
		r, err := NewRenderer(Config{Dir: dir, Table: empty, ShadowOpacity: opacity})
		require.NoError(t, err)
		out, err := r.Render(context.Background(), fs, preview)
		require.NoError(t, err)
		img, err := imaging.Decode(bytes.NewReader(out[0]))
		require.NoError(t, err)

		rect := PresetRect(0, fs.AspectRatio(), 1600, 1200)
		// Just inside the far edge of the shadow, which ends sigma below the frame.
		below := int(ShadowRatio*float64(rect.Dx())) - 1
		c := color.NRGBAModel.Convert(img.At((rect.Min.X+rect.Max.X)/2, rect.Max.Y+below)).(color.NRGBA)
		return c.G
	}

	plain := probe(-1)
	shadowed := probe(0)
	require.InDelta(t, 200, int(plain), 8)
	require.Less(t, int(shadowed), int(plain)-15)
}
