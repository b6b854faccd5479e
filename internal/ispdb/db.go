// Package ispdb persists device calibrations and pipeline run records in
// SQLite. Lens-shading maps are calibrated once per device and reused
// across bursts, so they live in the store rather than travelling with
// every burst; run records keep timing telemetry and burst statistics for
// comparing algorithm variants offline.
package ispdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle shared by the stores.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the database at path and applies any
// pending migrations.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite handles one writer; serialising through a single connection
	// avoids SQLITE_BUSY under interleaved store writes.
	sqldb.SetMaxOpenConns(1)

	db := &DB{sqldb}
	if err := db.MigrateUp(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}

// Calibrations returns the calibration store backed by this database.
func (db *DB) Calibrations() *CalibrationStore {
	return &CalibrationStore{db: db.DB}
}

// Runs returns the run-record store backed by this database.
func (db *DB) Runs() *RunStore {
	return &RunStore{db: db.DB}
}
