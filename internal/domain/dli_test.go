package domain

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// constantHourly builds an 8760 x points matrix filled with v
func constantHourly(t *testing.T, points int, v float64) *mat.Dense {
	t.Helper()
	data := make([]float64, HoursPerYear*points)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(HoursPerYear, points, data)
}

// dailyByMonth builds point-major daily data where every day of month m
// carries m*scale[p] for point p
func dailyByMonth(t *testing.T, scale []float64) *DLIData {
	t.Helper()
	daily := mat.NewDense(len(scale), DaysPerYear, nil)
	for m := 1; m <= 12; m++ {
		start, end, err := MonthBounds(m)
		if err != nil {
			t.Fatalf("MonthBounds(%d): %v", m, err)
		}
		for p, s := range scale {
			for d := start; d < end; d++ {
				daily.Set(p, d, float64(m)*s)
			}
		}
	}
	dli, err := NewDLIDataFromDaily(daily)
	if err != nil {
		t.Fatalf("NewDLIDataFromDaily: %v", err)
	}
	return dli
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewDLIData(t *testing.T) {
	tests := []struct {
		name     string
		quantity Quantity
		factor   float64
		sample   float64
		want     float64
	}{
		{name: "illuminance default factor", quantity: Illuminance, factor: 20, sample: 24, want: 0.041472},
		{name: "irradiance default factor", quantity: Irradiance, factor: 3.72, sample: 100, want: 32.1408},
		{name: "zero samples", quantity: Irradiance, factor: 3.72, sample: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dli, err := NewDLIData(constantHourly(t, 2, tt.sample), 2, tt.quantity, tt.factor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			points, days := dli.Size()
			if points != 2 || days != DaysPerYear {
				t.Fatalf("expected size (2, 365), got (%d, %d)", points, days)
			}
			for _, v := range dli.AnnualAverage() {
				if !almostEqual(v, tt.want) {
					t.Errorf("expected annual average %v, got %v", tt.want, v)
				}
			}
		})
	}
}

func TestNewDLIData_Errors(t *testing.T) {
	negative := constantHourly(t, 2, 1)
	negative.Set(100, 1, -0.5)
	notANumber := constantHourly(t, 2, 1)
	notANumber.Set(7, 0, math.NaN())
	infinite := constantHourly(t, 2, 1)
	infinite.Set(8000, 1, math.Inf(1))

	tests := []struct {
		name    string
		hourly  *mat.Dense
		points  int
		factor  float64
		wantErr error
	}{
		{name: "points disagree with columns", hourly: constantHourly(t, 2, 1), points: 3, factor: 1, wantErr: ErrShapeMismatch},
		{name: "short year", hourly: mat.NewDense(8759, 2, nil), points: 2, factor: 1, wantErr: ErrShapeMismatch},
		{name: "negative sample", hourly: negative, points: 2, factor: 1, wantErr: ErrRange},
		{name: "NaN sample", hourly: notANumber, points: 2, factor: 1, wantErr: ErrRange},
		{name: "infinite sample", hourly: infinite, points: 2, factor: 1, wantErr: ErrRange},
		{name: "zero factor", hourly: constantHourly(t, 2, 1), points: 2, factor: 0, wantErr: ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDLIData(tt.hourly, tt.points, Irradiance, tt.factor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewDLIData_DailyMean(t *testing.T) {
	// one point whose first day ramps 0..23 and is dark afterwards
	hourly := mat.NewDense(HoursPerYear, 1, nil)
	for h := 0; h < HoursPerDay; h++ {
		hourly.Set(h, 0, float64(h))
	}

	dli, err := NewDLIData(hourly, 1, Irradiance, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day1, err := dli.DayOfYear(1)
	if err != nil {
		t.Fatalf("DayOfYear(1): %v", err)
	}
	if want := 11.5 * parConversion; !almostEqual(day1[0], want) {
		t.Errorf("expected day 1 DLI %v, got %v", want, day1[0])
	}

	day2, _ := dli.DayOfYear(2)
	if day2[0] != 0 {
		t.Errorf("expected day 2 DLI 0, got %v", day2[0])
	}
}

func TestDLIData_Monthly(t *testing.T) {
	dli := dailyByMonth(t, []float64{1, 2})

	total := 0
	for m := 1; m <= 12; m++ {
		start, end, _ := MonthBounds(m)
		total += end - start

		avg, err := dli.MonthlyAverage(m)
		if err != nil {
			t.Fatalf("MonthlyAverage(%d): %v", m, err)
		}
		if !almostEqual(avg[0], float64(m)) || !almostEqual(avg[1], 2*float64(m)) {
			t.Errorf("month %d: expected averages (%d, %d), got %v", m, m, 2*m, avg)
		}

		sum, err := dli.MonthlyCumulative(m)
		if err != nil {
			t.Fatalf("MonthlyCumulative(%d): %v", m, err)
		}
		if want := float64(m * (end - start)); !almostEqual(sum[0], want) {
			t.Errorf("month %d: expected cumulative %v, got %v", m, want, sum[0])
		}
	}
	if total != DaysPerYear {
		t.Errorf("expected months to cover %d days, got %d", DaysPerYear, total)
	}

	annual := dli.AnnualCumulative()
	monthlyTotal := 0.0
	for m := 1; m <= 12; m++ {
		sum, _ := dli.MonthlyCumulative(m)
		monthlyTotal += sum[0]
	}
	if !almostEqual(annual[0], monthlyTotal) {
		t.Errorf("expected annual cumulative %v to equal sum of months %v", annual[0], monthlyTotal)
	}
}

func TestDLIData_RangeErrors(t *testing.T) {
	dli := dailyByMonth(t, []float64{1})

	if _, err := dli.MonthlyAverage(0); !errors.Is(err, ErrRange) {
		t.Errorf("month 0: expected ErrRange, got %v", err)
	}
	if _, err := dli.MonthlyAverage(13); !errors.Is(err, ErrRange) {
		t.Errorf("month 13: expected ErrRange, got %v", err)
	}
	if _, err := dli.DayOfYear(366); !errors.Is(err, ErrRange) {
		t.Errorf("day 366: expected ErrRange, got %v", err)
	}
	if _, err := dli.DailySeries(1); !errors.Is(err, ErrRange) {
		t.Errorf("point 1: expected ErrRange, got %v", err)
	}
	if _, err := NewDLIDataFromDaily(mat.NewDense(1, 364, nil)); !errors.Is(err, ErrRange) {
		t.Errorf("364 days: expected ErrRange, got %v", err)
	}
}

func TestDLIData_DayMajor(t *testing.T) {
	dli := dailyByMonth(t, []float64{1, 3})

	dm := dli.DayMajor()
	r, c := dm.Dims()
	if r != DaysPerYear || c != 2 {
		t.Fatalf("expected 365x2, got %dx%d", r, c)
	}
	if dm.At(364, 1) != 36 {
		t.Errorf("expected 31 Dec of point 1 to be 36, got %v", dm.At(364, 1))
	}
	if got := dli.String(); got != "DLI data generated for 2 points for 365 days" {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{in: "", want: Irradiance},
		{in: "irradiance", want: Irradiance},
		{in: "Illuminance", want: Illuminance},
		{in: "lux", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrRange) {
					t.Errorf("expected ErrRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if Illuminance.DefaultFactor() != 20 || Irradiance.DefaultFactor() != 3.72 {
		t.Error("unexpected default conversion factors")
	}
}
