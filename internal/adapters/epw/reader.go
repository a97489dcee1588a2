// Package epw extracts the site location and the hourly diffuse horizontal
// irradiance from EnergyPlus weather files.
package epw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/photorad/photoRad/internal/domain"
)

// diffuseField is the column of diffuse horizontal irradiance in a data record
const diffuseField = 15

// ReadWeather reads the LOCATION header and every hourly record of path
func ReadWeather(path string) (domain.Weather, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Weather{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if err != nil {
		return domain.Weather{}, fmt.Errorf("failed to open weather file: %w", err)
	}
	defer f.Close()

	w, err := Parse(f)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse reads weather data from r. Lines that are neither the LOCATION
// header nor hourly records are ignored.
func Parse(r io.Reader) (domain.Weather, error) {
	var w domain.Weather
	located := false

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")

		if _, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err == nil {
			if len(fields) <= diffuseField {
				return domain.Weather{}, &domain.LineError{Line: line, Err: fmt.Errorf(
					"%w: %d fields, want more than %d", domain.ErrParse, len(fields), diffuseField)}
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[diffuseField]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return domain.Weather{}, &domain.LineError{Line: line, Err: fmt.Errorf(
					"%w: diffuse radiation %q is not a finite number", domain.ErrParse, fields[diffuseField])}
			}
			w.Diffuse = append(w.Diffuse, v)
			continue
		}

		if strings.EqualFold(strings.TrimSpace(fields[0]), "location") {
			if err := parseLocation(fields, &w); err != nil {
				return domain.Weather{}, &domain.LineError{Line: line, Err: err}
			}
			located = true
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Weather{}, fmt.Errorf("failed to read weather data: %w", err)
	}
	if !located {
		return domain.Weather{}, fmt.Errorf("%w: no LOCATION header", domain.ErrParse)
	}
	return w, nil
}

// parseLocation reads a header of the form
// LOCATION,city,state,country,source,WMO,latitude,longitude,timezone,elevation
func parseLocation(fields []string, w *domain.Weather) error {
	if len(fields) < 8 {
		return fmt.Errorf("%w: LOCATION header has %d fields, want at least 8", domain.ErrParse, len(fields))
	}

	place := make([]string, 3)
	for i, v := range fields[1:4] {
		place[i] = strings.ReplaceAll(v, " ", "_")
	}
	w.Location = strings.Join(place, "-")

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[len(fields)-4]), 64)
	if err != nil {
		return fmt.Errorf("%w: latitude %q is not a number", domain.ErrParse, fields[len(fields)-4])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[len(fields)-3]), 64)
	if err != nil {
		return fmt.Errorf("%w: longitude %q is not a number", domain.ErrParse, fields[len(fields)-3])
	}
	w.Latitude = round3(lat)
	w.Longitude = round3(lon)
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
