package domain

import (
	"context"
	"fmt"
	"math"
)

// SoilRecord is one entry of the soil hardiness dataset, keyed by a
// location identifier (a zip code in the bundled dataset)
type SoilRecord struct {
	Key       string  `json:"key"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Zone      string  `json:"zone"`
	TMin      float64 `json:"tMin"`
	TMax      float64 `json:"tMax"`
}

// SoilRepository defines access to the soil hardiness dataset.
// This is a PORT - adapters (Memory, SQLite) implement it.
type SoilRepository interface {
	// SaveRecord stores a record, replacing any record with the same key
	SaveRecord(ctx context.Context, record SoilRecord) error

	// GetRecord retrieves a record by key
	GetRecord(ctx context.Context, key string) (SoilRecord, error)

	// ListRecords returns every record in dataset order
	ListRecords(ctx context.Context) ([]SoilRecord, error)

	// NearestRecord returns the record closest to (lon, lat) by Manhattan
	// distance; ties go to the record that comes first in dataset order
	NearestRecord(ctx context.Context, lon, lat float64) (SoilRecord, error)
}

// NearestSoilRecord scans records in order and keeps the first one with the
// smallest |Δlon| + |Δlat|.
func NearestSoilRecord(records []SoilRecord, lon, lat float64) (SoilRecord, error) {
	best := -1
	bestDist := math.Inf(1)
	for i, r := range records {
		dist := math.Abs(r.Longitude-lon) + math.Abs(r.Latitude-lat)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return SoilRecord{}, fmt.Errorf("%w: no record near (%.3f, %.3f)", ErrSoilRecordNotFound, lon, lat)
	}
	return records[best], nil
}
