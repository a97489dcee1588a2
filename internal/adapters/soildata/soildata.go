// Package soildata reads the soil hardiness dataset: a JSON object keyed by
// location identifier, e.g.
//
//	{"14850": {"lon": -76.49, "lat": 42.45, "zone": "5b", "tMin": -15, "tMax": -10}}
//
// Key order in the file is the dataset order used to break nearest-match ties.
package soildata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/photorad/photoRad/internal/domain"
)

// entry uses pointers so missing fields can be told apart from zero values
type entry struct {
	Lon  *float64 `json:"lon"`
	Lat  *float64 `json:"lat"`
	Zone *string  `json:"zone"`
	TMin *float64 `json:"tMin"`
	TMax *float64 `json:"tMax"`
}

// ReadFile decodes the dataset stored at path
func ReadFile(path string) ([]domain.SoilRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open soil dataset: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode reads the dataset in key order. Entries missing any field are
// skipped; an empty dataset is an error.
func Decode(r io.Reader) ([]domain.SoilRecord, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: soil dataset must be a JSON object", domain.ErrParse)
	}

	var records []domain.SoilRecord
	skipped := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		key, _ := tok.(string)

		var e entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", domain.ErrParse, key, err)
		}
		if e.Lon == nil || e.Lat == nil || e.Zone == nil || e.TMin == nil || e.TMax == nil {
			skipped++
			continue
		}
		records = append(records, domain.SoilRecord{
			Key:       key,
			Longitude: *e.Lon,
			Latitude:  *e.Lat,
			Zone:      *e.Zone,
			TMin:      *e.TMin,
			TMax:      *e.TMax,
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Soil records with missing fields ignored")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: soil dataset is empty", domain.ErrSoilRecordNotFound)
	}
	return records, nil
}

// Import saves records into repo in dataset order
func Import(ctx context.Context, repo domain.SoilRepository, records []domain.SoilRecord) error {
	for _, rec := range records {
		if err := repo.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("failed to import soil record %s: %w", rec.Key, err)
		}
	}
	log.Info().Int("records", len(records)).Msg("Soil dataset imported")
	return nil
}
