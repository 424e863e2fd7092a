// Package store persists exported ROI payloads in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/soocke/roi-annotator/domain/roi"
)

// ErrNotFound is returned by Get for an unknown annotation id.
var ErrNotFound = errors.New("store: annotation not found")

// Annotation is one saved export.
type Annotation struct {
	ID           string
	ImageRef     string
	NativeWidth  int
	NativeHeight int
	ROIs         []roi.ROI
	CreatedAt    time.Time
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps the annotation database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating when needed) the database at path. ":memory:" is
// accepted for throwaway stores.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("annotation store opened", "path", path)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save validates and records rois for the image identified by bg.
func (s *Store) Save(ctx context.Context, bg *roi.Background, rois []roi.ROI) (Annotation, error) {
	if bg == nil {
		return Annotation{}, roi.ErrNoBackground
	}
	payload, err := roi.EncodePayload(rois)
	if err != nil {
		return Annotation{}, fmt.Errorf("encode payload: %w", err)
	}
	if _, err := roi.DecodePayload(payload); err != nil {
		return Annotation{}, err
	}
	a := Annotation{
		ID:           uuid.NewString(),
		ImageRef:     bg.Ref,
		NativeWidth:  bg.NativeWidth,
		NativeHeight: bg.NativeHeight,
		ROIs:         rois,
		CreatedAt:    s.now().UTC(),
	}
	if a.ROIs == nil {
		a.ROIs = []roi.ROI{}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotation (id, image_ref, native_width, native_height, roi_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ImageRef, a.NativeWidth, a.NativeHeight, len(a.ROIs), string(payload), a.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Annotation{}, fmt.Errorf("insert annotation: %w", err)
	}
	s.logger.Info("annotation saved", "id", a.ID, "image", a.ImageRef, "rois", len(a.ROIs), "payload", humanize.Bytes(uint64(len(payload))))
	return a, nil
}

// Get loads one annotation by id.
func (s *Store) Get(ctx context.Context, id string) (Annotation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, image_ref, native_width, native_height, payload, created_at
		FROM annotation WHERE id = ?`, id)
	a, err := scanAnnotation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Annotation{}, ErrNotFound
	}
	return a, err
}

// List returns the most recent annotations first. An empty imageRef lists
// every image; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, imageRef string, limit int) ([]Annotation, error) {
	q := `SELECT id, image_ref, native_width, native_height, payload, created_at FROM annotation`
	var args []any
	if imageRef != "" {
		q += ` WHERE image_ref = ?`
		args = append(args, imageRef)
	}
	q += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()
	var out []Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an annotation. Unknown ids report ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM annotation WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(sc scanner) (Annotation, error) {
	var (
		a       Annotation
		payload string
		created string
	)
	if err := sc.Scan(&a.ID, &a.ImageRef, &a.NativeWidth, &a.NativeHeight, &payload, &created); err != nil {
		return Annotation{}, err
	}
	rois, err := roi.DecodePayload([]byte(payload))
	if err != nil {
		return Annotation{}, fmt.Errorf("annotation %s: %w", a.ID, err)
	}
	a.ROIs = rois
	if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Annotation{}, fmt.Errorf("annotation %s: created_at: %w", a.ID, err)
	}
	return a, nil
}
