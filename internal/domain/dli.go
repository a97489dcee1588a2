package domain

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Quantity identifies what a simulation results file measures
type Quantity int

const (
	// Irradiance results are in W/m²
	Irradiance Quantity = iota
	// Illuminance results are in lux
	Illuminance
)

const (
	// parConversion turns a daily mean photon flux into mol/m²/day
	parConversion = 0.0864

	// DefaultIrradianceFactor converts W/m² to µmol/m²/s of PAR
	DefaultIrradianceFactor = 3.72

	// DefaultIlluminanceFactor converts klux to µmol/m²/s of PAR
	DefaultIlluminanceFactor = 20.0
)

// ParseQuantity maps "irradiance" or "illuminance" to a Quantity.
// An empty string means irradiance.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "irradiance":
		return Irradiance, nil
	case "illuminance":
		return Illuminance, nil
	}
	return Irradiance, fmt.Errorf("%w: unknown quantity %q (want irradiance or illuminance)", ErrRange, s)
}

func (q Quantity) String() string {
	if q == Illuminance {
		return "illuminance"
	}
	return "irradiance"
}

// DefaultFactor returns the conversion factor used when none is configured
func (q Quantity) DefaultFactor() float64 {
	if q == Illuminance {
		return DefaultIlluminanceFactor
	}
	return DefaultIrradianceFactor
}

// convert applies the fixed calibration constants to one daily mean.
// Illuminance needs the extra lux to klux step.
func (q Quantity) convert(avg, factor float64) float64 {
	if q == Illuminance {
		return avg * factor / 1000 * parConversion
	}
	return avg * factor * parConversion
}

// DLIData holds the daily light integral of every grid point for one year.
// The daily matrix is computed once; all aggregates are derived from it.
type DLIData struct {
	daily *mat.Dense // points x DaysPerYear
}

// NewDLIData reduces an hourly results matrix (rows = hours, columns = grid
// points) to daily DLI values. points is the row count of the points file
// and must match the number of columns.
func NewDLIData(hourly mat.Matrix, points int, quantity Quantity, factor float64) (*DLIData, error) {
	hours, cols := hourly.Dims()
	if points < 1 || cols != points {
		return nil, fmt.Errorf("%w: points file has %d points but results have %d values per hour",
			ErrShapeMismatch, points, cols)
	}
	if hours != HoursPerYear {
		return nil, fmt.Errorf("%w: results have %d hourly rows, want %d", ErrShapeMismatch, hours, HoursPerYear)
	}
	if factor <= 0 {
		return nil, fmt.Errorf("%w: conversion factor %v must be positive", ErrRange, factor)
	}

	var byPoint mat.Dense
	byPoint.CloneFrom(hourly.T())

	daily := mat.NewDense(points, DaysPerYear, nil)
	for p := 0; p < points; p++ {
		series := byPoint.RawRowView(p)
		if !finite(series) {
			return nil, fmt.Errorf("%w: point %d has a non-finite %s sample", ErrRange, p, quantity)
		}
		if lowest := floats.Min(series); lowest < 0 {
			return nil, fmt.Errorf("%w: point %d has negative %s sample %v", ErrRange, p, quantity, lowest)
		}
		for d := 0; d < DaysPerYear; d++ {
			avg := stat.Mean(series[d*HoursPerDay:(d+1)*HoursPerDay], nil)
			daily.Set(p, d, quantity.convert(avg, factor))
		}
	}

	return &DLIData{daily: daily}, nil
}

// NewDLIDataFromDaily wraps precomputed daily values (rows = points,
// columns = days). The matrix is copied.
func NewDLIDataFromDaily(daily mat.Matrix) (*DLIData, error) {
	_, days := daily.Dims()
	if days != DaysPerYear {
		return nil, fmt.Errorf("%w: dataset has %d values per point, want %d", ErrRange, days, DaysPerYear)
	}
	return &DLIData{daily: mat.DenseCopyOf(daily)}, nil
}

// Size returns the number of points and days
func (d *DLIData) Size() (points, days int) {
	return d.daily.Dims()
}

// Points returns the number of grid points
func (d *DLIData) Points() int {
	points, _ := d.daily.Dims()
	return points
}

// DailySeries returns a copy of the 365 daily values of one point
func (d *DLIData) DailySeries(point int) ([]float64, error) {
	if point < 0 || point >= d.Points() {
		return nil, fmt.Errorf("%w: point %d outside 0..%d", ErrRange, point, d.Points()-1)
	}
	return mat.Row(nil, point, d.daily), nil
}

// DayOfYear returns the DLI of every point on day doy (1..365)
func (d *DLIData) DayOfYear(doy int) ([]float64, error) {
	if doy < 1 || doy > DaysPerYear {
		return nil, fmt.Errorf("%w: day of year %d must be between 1 and %d", ErrRange, doy, DaysPerYear)
	}
	return mat.Col(nil, doy-1, d.daily), nil
}

// MonthlyAverage returns the mean DLI of every point over month (1..12)
func (d *DLIData) MonthlyAverage(month int) ([]float64, error) {
	start, end, err := MonthBounds(month)
	if err != nil {
		return nil, err
	}
	return d.reduce(start, end, mean), nil
}

// MonthlyCumulative returns the summed DLI of every point over month (1..12)
func (d *DLIData) MonthlyCumulative(month int) ([]float64, error) {
	start, end, err := MonthBounds(month)
	if err != nil {
		return nil, err
	}
	return d.reduce(start, end, floats.Sum), nil
}

// AnnualAverage returns the mean of all 365 daily values of every point
func (d *DLIData) AnnualAverage() []float64 {
	return d.reduce(0, DaysPerYear, mean)
}

// AnnualCumulative returns the sum of all 365 daily values of every point
func (d *DLIData) AnnualCumulative() []float64 {
	return d.reduce(0, DaysPerYear, floats.Sum)
}

// DayMajor returns a days x points copy of the daily values
func (d *DLIData) DayMajor() *mat.Dense {
	var t mat.Dense
	t.CloneFrom(d.daily.T())
	return &t
}

func (d *DLIData) String() string {
	points, days := d.Size()
	return fmt.Sprintf("DLI data generated for %d points for %d days", points, days)
}

// reduce applies fn to the day range [start, end) of every point
func (d *DLIData) reduce(start, end int, fn func([]float64) float64) []float64 {
	out := make([]float64, d.Points())
	for p := range out {
		out[p] = fn(d.daily.RawRowView(p)[start:end])
	}
	return out
}

// mean is stat.Mean with an empty slice averaging to zero
func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
