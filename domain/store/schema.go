package store

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates the annotation tables. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS annotation (
    id TEXT PRIMARY KEY,
    image_ref TEXT NOT NULL,
    native_width INTEGER NOT NULL DEFAULT 0,
    native_height INTEGER NOT NULL DEFAULT 0,
    roi_count INTEGER NOT NULL CHECK (roi_count >= 0),
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotation_image_ref ON annotation(image_ref);
CREATE INDEX IF NOT EXISTS idx_annotation_created_at ON annotation(created_at);
`
