package wire

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

func floatPtr(v float64) *float64 { return &v }

func TestDatasetRequest(t *testing.T) {
	meta := 0
	tests := []struct {
		name    string
		in      api.Dataset
		want    ports.DatasetRequest
		wantErr error
	}{
		{
			name: "defaults",
			in:   api.Dataset{ResultsPath: "a.ill", PointsPath: "a.pts"},
			want: ports.DatasetRequest{ResultsPath: "a.ill", PointsPath: "a.pts", Quantity: domain.Irradiance, MetaColumns: 3},
		},
		{
			name: "explicit",
			in:   api.Dataset{ResultsPath: "a.ill", PointsPath: "a.pts", Quantity: "illuminance", Factor: 18, MetaColumns: &meta},
			want: ports.DatasetRequest{ResultsPath: "a.ill", PointsPath: "a.pts", Quantity: domain.Illuminance, Factor: 18},
		},
		{
			name:    "unknown quantity",
			in:      api.Dataset{Quantity: "radiance"},
			wantErr: domain.ErrRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatasetRequest(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPlant_RoundTrip(t *testing.T) {
	in := []api.Plant{
		{Name: "Basil", DLI: "12 18", MinTemp: floatPtr(10), MaxTemp: floatPtr(30), GrowingSeason: "5 6 7"},
		{Name: "Kale", DLI: "10", HardinessZone: "5a 5b"},
		{Name: "Fern", DLI: "2 6", Photoperiod: "12"},
	}

	plants, err := Plants(in)
	if err != nil {
		t.Fatalf("Plants failed: %v", err)
	}

	again, err := Plants([]api.Plant{Plant(plants[0]), Plant(plants[1]), Plant(plants[2])})
	if err != nil {
		t.Fatalf("Plants failed on converted plants: %v", err)
	}
	for i := range plants {
		if again[i].Summary() != plants[i].Summary() || again[i].BandSource != plants[i].BandSource {
			t.Errorf("plant %d changed: %v -> %v", i, plants[i], again[i])
		}
	}

	if out := Plant(plants[1]); out.MinTemp != nil || out.HardinessZone != "5a 5b" {
		t.Errorf("expected zone-sourced plant without temperatures, got %+v", out)
	}
}

func TestPlants_FirstErrorWins(t *testing.T) {
	_, err := Plants([]api.Plant{{Name: "Good", DLI: "10"}, {Name: "Bad", DLI: "x"}})
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestDLIResponse(t *testing.T) {
	daily := mat.NewDense(2, domain.DaysPerYear, nil)
	for d := 0; d < domain.DaysPerYear; d++ {
		daily.Set(0, d, 1)
		daily.Set(1, d, 2)
	}
	dli, err := domain.NewDLIDataFromDaily(daily)
	if err != nil {
		t.Fatalf("NewDLIDataFromDaily: %v", err)
	}

	resp, err := DLIResponse(dli, &api.ComputeDLIRequest{Cumulative: true})
	if err != nil {
		t.Fatalf("DLIResponse failed: %v", err)
	}
	if len(resp.AnnualClass) != 2 || resp.AnnualClass[0] != "Low Light" {
		t.Errorf("expected low light points, got %v", resp.AnnualClass)
	}
	if resp.Monthly[1][1] != 2 {
		t.Errorf("expected February mean 2 at point 1, got %v", resp.Monthly[1][1])
	}
	// February has 28 days
	if resp.MonthlyCumulative[1][0] != 28 {
		t.Errorf("expected February sum 28 at point 0, got %v", resp.MonthlyCumulative[1][0])
	}
	if resp.AnnualCumulative[1] != 2*domain.DaysPerYear {
		t.Errorf("expected annual sum %d, got %v", 2*domain.DaysPerYear, resp.AnnualCumulative[1])
	}
}

func TestDLIResponse_DayAndPoint(t *testing.T) {
	daily := mat.NewDense(2, domain.DaysPerYear, nil)
	for d := 0; d < domain.DaysPerYear; d++ {
		daily.Set(0, d, float64(d))
		daily.Set(1, d, 100)
	}
	dli, err := domain.NewDLIDataFromDaily(daily)
	if err != nil {
		t.Fatalf("NewDLIDataFromDaily: %v", err)
	}

	day, point := 172, 0
	resp, err := DLIResponse(dli, &api.ComputeDLIRequest{Day: &day, Point: &point})
	if err != nil {
		t.Fatalf("DLIResponse failed: %v", err)
	}
	if len(resp.DayOfYear) != 2 || resp.DayOfYear[0] != 171 || resp.DayOfYear[1] != 100 {
		t.Errorf("expected day 172 values [171 100], got %v", resp.DayOfYear)
	}
	if len(resp.PointDaily) != domain.DaysPerYear || resp.PointDaily[364] != 364 {
		t.Errorf("expected the daily series of point 0, got %d values", len(resp.PointDaily))
	}
	if resp.MonthlyCumulative != nil {
		t.Error("expected no cumulative values unless requested")
	}

	missing := 2
	if _, err := DLIResponse(dli, &api.ComputeDLIRequest{Point: &missing}); !errors.Is(err, domain.ErrRange) {
		t.Errorf("expected ErrRange for point 2, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	secret := fmt.Errorf("%w: %q is not a finite number", domain.ErrParse, "db_password=hunter2")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "parse error keeps only the line",
			err:  fmt.Errorf("failed to read results file: /srv/secret.txt: %w", &domain.LineError{Line: 4, Err: secret}),
			want: "parse error on line 4",
		},
		{
			name: "missing file hides the path",
			err:  fmt.Errorf("%w: /srv/data/grid.ill", domain.ErrFileNotFound),
			want: "file not found",
		},
		{
			name: "outside the data directory",
			err:  fmt.Errorf("%w: /etc/passwd", domain.ErrPathOutsideRoot),
			want: "path outside the data directory",
		},
		{name: "range", err: fmt.Errorf("%w: day 400", domain.ErrRange), want: "value out of range"},
		{name: "internal", err: errors.New("disk on fire"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
