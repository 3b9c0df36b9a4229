package cart

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/MeKo-Tech/photoframer/internal/types"
)

// Store is a sqlite-backed cart. Artifacts are stored gzip-compressed.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the cart database at path. ":memory:" keeps the cart
// in memory for the life of the store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps in-memory databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path, logger: logger, now: time.Now}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS cart_items (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			frame_size TEXT NOT NULL,
			frame_orientation TEXT NOT NULL,
			frame_color TEXT NOT NULL,
			frame_texture TEXT NOT NULL,
			adjustments TEXT NOT NULL,
			zoom REAL NOT NULL,
			position_x REAL NOT NULL,
			position_y REAL NOT NULL,
			price INTEGER NOT NULL,
			print_image BLOB,
			preview_image BLOB
		);

		CREATE INDEX IF NOT EXISTS cart_session_index ON cart_items (session_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Add stores rec, assigning its ID and timestamp when unset.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Record{}, fmt.Errorf("failed to generate id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC()
	}

	adj, err := json.Marshal(rec.Adjustments)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode adjustments: %w", err)
	}
	printBlob, err := gzipCompress([]byte(rec.PrintImage))
	if err != nil {
		return Record{}, fmt.Errorf("failed to compress print image: %w", err)
	}
	previewBlob, err := gzipCompress([]byte(rec.PreviewImage))
	if err != nil {
		return Record{}, fmt.Errorf("failed to compress preview image: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_items (
			id, session_id, created_at, frame_size, frame_orientation, frame_color,
			frame_texture, adjustments, zoom, position_x, position_y, price,
			print_image, preview_image
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Timestamp.UnixMilli(),
		string(rec.FrameSize.Size), string(rec.FrameSize.Orientation),
		rec.FrameColor, string(rec.FrameTexture), string(adj),
		rec.Zoom, rec.Position.X, rec.Position.Y, rec.Price,
		printBlob, previewBlob,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert cart item: %w", err)
	}

	s.log().Info("Cart item added",
		"id", rec.ID,
		"session_id", rec.SessionID,
		"frame_size", rec.FrameSize.String(),
		"price", rec.Price,
		"stored", humanize.Bytes(uint64(len(printBlob)+len(previewBlob))),
	)
	return rec, nil
}

const selectColumns = `
	SELECT id, session_id, created_at, frame_size, frame_orientation, frame_color,
		frame_texture, adjustments, zoom, position_x, position_y, price,
		print_image, preview_image
	FROM cart_items`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec                   Record
		created               int64
		size, orient, texture string
		adj                   string
		printBlob, preview    []byte
	)
	err := row.Scan(
		&rec.ID, &rec.SessionID, &created, &size, &orient, &rec.FrameColor,
		&texture, &adj, &rec.Zoom, &rec.Position.X, &rec.Position.Y, &rec.Price,
		&printBlob, &preview,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Timestamp = time.UnixMilli(created).UTC()
	rec.FrameSize = types.FrameSize{Size: types.Size(size), Orientation: types.Orientation(orient)}
	rec.FrameTexture = types.Texture(texture)
	if err := json.Unmarshal([]byte(adj), &rec.Adjustments); err != nil {
		return Record{}, fmt.Errorf("failed to decode adjustments: %w", err)
	}

	p, err := gzipDecompress(printBlob)
	if err != nil {
		return Record{}, fmt.Errorf("failed to decompress print image: %w", err)
	}
	v, err := gzipDecompress(preview)
	if err != nil {
		return Record{}, fmt.Errorf("failed to decompress preview image: %w", err)
	}
	rec.PrintImage, rec.PreviewImage = string(p), string(v)
	return rec, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to query cart item: %w", err)
	}
	return rec, nil
}

// List returns the records of a session, oldest first. An empty session ID
// lists every record.
func (s *Store) List(ctx context.Context, sessionID string) ([]Record, error) {
	query := selectColumns + " ORDER BY created_at, id"
	args := []any{}
	if sessionID != "" {
		query = selectColumns + " WHERE session_id = ? ORDER BY created_at, id"
		args = append(args, sessionID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}
	return out, nil
}

// Remove deletes the record with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.log().Info("Cart item removed", "id", id)
	return nil
}

// Total returns the item count and summed price of a session's cart.
func (s *Store) Total(ctx context.Context, sessionID string) (count, price int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(price), 0) FROM cart_items WHERE session_id = ?",
		sessionID,
	).Scan(&count, &price)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total cart: %w", err)
	}
	return count, price, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)

	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
