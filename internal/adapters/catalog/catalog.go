// Package catalog imports and exports plant catalogs as CSV.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/photorad/photoRad/internal/domain"
)

// BackupSuffix is appended to an overwritten catalog's path for its backup
const BackupSuffix = "bak"

// Read loads a catalog CSV file. The first row is a header; blank rows and
// rows without a plant name are skipped.
func Read(path string) ([]*domain.Plant, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	plants, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().Str("path", path).Int("plants", len(plants)).Msg("Plant catalog loaded")
	return plants, nil
}

// Decode parses catalog CSV from r
func Decode(r io.Reader) ([]*domain.Plant, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var plants []*domain.Plant
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		if row == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		p, err := domain.ParsePlantRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// ParseText reads plants from free text, one comma-separated entry per line
// in catalog column order, without a header.
func ParseText(text string) ([]*domain.Plant, error) {
	var plants []*domain.Plant
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if strings.TrimSpace(fields[0]) == "" {
			continue
		}

		p, err := domain.ParsePlantRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// Write exports plants to path. An existing file is refused unless
// overwrite is set, in which case it is first copied to path+BackupSuffix.
func Write(path string, plants []*domain.Plant, overwrite bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !overwrite:
		return fmt.Errorf("%w: %s (set overwrite to replace it)", domain.ErrFileExists, path)
	case err == nil:
		if err := copyFile(path, path+BackupSuffix); err != nil {
			return fmt.Errorf("failed to back up catalog: %w", err)
		}
		log.Warn().Str("path", path).Str("backup", path+BackupSuffix).Msg("Catalog overwritten, backup stored")
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat catalog: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, plants); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("plants", len(plants)).Msg("Plant catalog exported")
	return file.Close()
}

// Encode writes the header and one canonical record per plant
func Encode(w io.Writer, plants []*domain.Plant) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(domain.CatalogHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, p := range plants {
		if err := writer.Write(p.CSVRecord()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
