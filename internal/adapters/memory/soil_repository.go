package memory

import (
	"context"
	"sync"

	"github.com/photorad/photoRad/internal/domain"
)

// SoilRepository keeps the soil dataset in a map, loaded from the JSON
// dataset at startup. Lookups scan records in insertion order.
type SoilRepository struct {
	mu      sync.RWMutex
	records map[string]domain.SoilRecord
	order   []string // keys in first-insertion order
}

// NewSoilRepository creates an empty in-memory repository
func NewSoilRepository() *SoilRepository {
	return &SoilRepository{
		records: make(map[string]domain.SoilRecord),
	}
}

// SaveRecord stores a record in memory. A replaced record keeps its
// original position in dataset order.
func (r *SoilRepository) SaveRecord(ctx context.Context, record domain.SoilRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.Key]; !exists {
		r.order = append(r.order, record.Key)
	}
	r.records[record.Key] = record
	return nil
}

// GetRecord retrieves a record by key
func (r *SoilRepository) GetRecord(ctx context.Context, key string) (domain.SoilRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[key]
	if !exists {
		return domain.SoilRecord{}, domain.ErrSoilRecordNotFound
	}

	return record, nil
}

// ListRecords returns all records in dataset order
func (r *SoilRepository) ListRecords(ctx context.Context) ([]domain.SoilRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.SoilRecord, 0, len(r.order))
	for _, key := range r.order {
		results = append(results, r.records[key])
	}

	return results, nil
}

// NearestRecord returns the record closest to (lon, lat)
func (r *SoilRepository) NearestRecord(ctx context.Context, lon, lat float64) (domain.SoilRecord, error) {
	records, err := r.ListRecords(ctx)
	if err != nil {
		return domain.SoilRecord{}, err
	}

	return domain.NearestSoilRecord(records, lon, lat)
}
