package epw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/photorad/photoRad/internal/domain"
)

const header = "LOCATION,New York Central Prk Obs Belv,NY,USA,TMY3,725033,40.78912,-73.96742,-5.0,40.0\n" +
	"DESIGN CONDITIONS,0\n" +
	"COMMENTS 1,\"Custom, with commas\"\n" +
	"DATA PERIODS,1,1,Data,Sunday, 1/ 1,12/31\n"

func record(hour int, diffuse string) string {
	return fmt.Sprintf("1999,1,1,%d,60,?9?9,-0.6,-3.3,81,101500,0,0,285,0,0,%s,0,0,0,0,0,0\n", hour, diffuse)
}

func TestParse(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(record(1, "0"))
	b.WriteString(record(2, "45"))
	b.WriteString("\n")
	b.WriteString(record(3, "12.5"))

	w, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Location != "New_York_Central_Prk_Obs_Belv-NY-USA" {
		t.Errorf("unexpected location %q", w.Location)
	}
	if w.Latitude != 40.789 || w.Longitude != -73.967 {
		t.Errorf("expected (40.789, -73.967), got (%v, %v)", w.Latitude, w.Longitude)
	}
	if len(w.Diffuse) != 3 || w.Diffuse[1] != 45 || w.Diffuse[2] != 12.5 {
		t.Errorf("unexpected diffuse series %v", w.Diffuse)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no location header", input: record(1, "0")},
		{name: "bad diffuse value", input: header + record(1, "cloudy")},
		{name: "NaN diffuse value", input: header + record(1, "NaN")},
		{name: "infinite diffuse value", input: header + record(1, "Inf")},
		{name: "short record", input: header + "1999,1,1,1,60\n"},
		{name: "bad latitude", input: "LOCATION,a,b,c,src,1,north,-73.9,-5,40\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); !errors.Is(err, domain.ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestReadWeather(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	for h := 0; h < domain.HoursPerYear; h++ {
		b.WriteString(record(h%24+1, "10"))
	}
	path := filepath.Join(t.TempDir(), "site.epw")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	w, err := ReadWeather(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Diffuse) != domain.HoursPerYear {
		t.Errorf("expected %d hourly values, got %d", domain.HoursPerYear, len(w.Diffuse))
	}

	if _, err := ReadWeather(filepath.Join(t.TempDir(), "missing.epw")); !errors.Is(err, domain.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
