package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/photorad/photoRad/internal/domain"
)

// SoilRepository implements domain.SoilRepository with SQLite
type SoilRepository struct {
	db *sql.DB
}

// NewSoilRepository creates a SQLite-backed repository
func NewSoilRepository(dbPath string) (*SoilRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists; id order is dataset order
	schema := `
	CREATE TABLE IF NOT EXISTS soil_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_key TEXT NOT NULL UNIQUE,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		zone TEXT NOT NULL,
		t_min REAL NOT NULL,
		t_max REAL NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SoilRepository{db: db}, nil
}

const upsertRecord = `
	INSERT INTO soil_records (record_key, lon, lat, zone, t_min, t_max)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(record_key) DO UPDATE SET
		lon = excluded.lon,
		lat = excluded.lat,
		zone = excluded.zone,
		t_min = excluded.t_min,
		t_max = excluded.t_max
`

// SaveRecord stores a record; a replaced record keeps its position
func (r *SoilRepository) SaveRecord(ctx context.Context, record domain.SoilRecord) error {
	_, err := r.db.ExecContext(ctx, upsertRecord,
		record.Key, record.Longitude, record.Latitude, record.Zone, record.TMin, record.TMax)
	if err != nil {
		return fmt.Errorf("failed to insert soil record: %w", err)
	}
	return nil
}

// ImportRecords stores many records in one transaction, in order
func (r *SoilRepository) ImportRecords(ctx context.Context, records []domain.SoilRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Key, rec.Longitude, rec.Latitude, rec.Zone, rec.TMin, rec.TMax); err != nil {
			return fmt.Errorf("failed to insert soil record %s: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit soil records: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by key
func (r *SoilRepository) GetRecord(ctx context.Context, key string) (domain.SoilRecord, error) {
	query := `SELECT record_key, lon, lat, zone, t_min, t_max FROM soil_records WHERE record_key = ?`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SoilRecord{}, domain.ErrSoilRecordNotFound
	}
	if err != nil {
		return domain.SoilRecord{}, fmt.Errorf("failed to query soil record: %w", err)
	}
	return rec, nil
}

// ListRecords returns all records in dataset order
func (r *SoilRepository) ListRecords(ctx context.Context) ([]domain.SoilRecord, error) {
	query := `SELECT record_key, lon, lat, zone, t_min, t_max FROM soil_records ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query soil records: %w", err)
	}
	defer rows.Close()

	var records []domain.SoilRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan soil record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// NearestRecord returns the record with the smallest |Δlon| + |Δlat|;
// ties go to the earliest inserted record
func (r *SoilRepository) NearestRecord(ctx context.Context, lon, lat float64) (domain.SoilRecord, error) {
	query := `
		SELECT record_key, lon, lat, zone, t_min, t_max
		FROM soil_records
		ORDER BY abs(lon - ?) + abs(lat - ?) ASC, id ASC
		LIMIT 1
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, lon, lat))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SoilRecord{}, fmt.Errorf("%w: no record near (%.3f, %.3f)", domain.ErrSoilRecordNotFound, lon, lat)
	}
	if err != nil {
		return domain.SoilRecord{}, fmt.Errorf("failed to query nearest soil record: %w", err)
	}
	return rec, nil
}

// Count returns the number of stored records
func (r *SoilRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM soil_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count soil records: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (r *SoilRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.SoilRecord, error) {
	var rec domain.SoilRecord
	err := s.Scan(&rec.Key, &rec.Longitude, &rec.Latitude, &rec.Zone, &rec.TMin, &rec.TMax)
	return rec, err
}
