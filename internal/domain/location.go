package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Weather is the part of a weather file the analysis needs
type Weather struct {
	Location  string
	Longitude float64
	Latitude  float64
	Diffuse   []float64 // hourly diffuse horizontal irradiance, 8760 values
}

// LocationProfile describes a site: its geography, the matched soil
// hardiness record and its diffuse light series.
type LocationProfile struct {
	Name          string
	Longitude     float64
	Latitude      float64
	HardinessZone string
	TMin          float64
	TMax          float64
	Diffuse       []float64
	Match         SoilRecord
}

// NewLocationProfile combines weather data with its matched soil record
func NewLocationProfile(w Weather, soil SoilRecord) (*LocationProfile, error) {
	if len(w.Diffuse) != HoursPerYear {
		return nil, fmt.Errorf("%w: weather data for %s has %d diffuse radiation values, want %d",
			ErrShapeMismatch, w.Location, len(w.Diffuse), HoursPerYear)
	}
	return &LocationProfile{
		Name:          w.Location,
		Longitude:     w.Longitude,
		Latitude:      w.Latitude,
		HardinessZone: soil.Zone,
		TMin:          soil.TMin,
		TMax:          soil.TMax,
		Diffuse:       append([]float64(nil), w.Diffuse...),
		Match:         soil,
	}, nil
}

// ResolveLocation matches w against the nearest record of repo
func ResolveLocation(ctx context.Context, w Weather, repo SoilRepository) (*LocationProfile, error) {
	soil, err := repo.NearestRecord(ctx, w.Longitude, w.Latitude)
	if err != nil {
		return nil, err
	}
	return NewLocationProfile(w, soil)
}

// DailyPhotoperiod counts, for each day, the hours with nonzero diffuse
// irradiance. Only the first 23 hours of each day are counted; a fully lit
// day reports 23.
func (l *LocationProfile) DailyPhotoperiod() []int {
	days := make([]int, DaysPerYear)
	for d := range days {
		start := d * HoursPerDay
		for _, v := range l.Diffuse[start : start+HoursPerDay-1] {
			if v != 0 {
				days[d]++
			}
		}
	}
	return days
}

// MonthlyPhotoperiodAverage returns the mean daily photoperiod of each
// month, rounded to two decimals
func (l *LocationProfile) MonthlyPhotoperiodAverage() []float64 {
	daily := l.DailyPhotoperiod()
	months := make([]float64, 12)
	for m := range months {
		start, end, _ := MonthBounds(m + 1)
		sum := 0
		for _, h := range daily[start:end] {
			sum += h
		}
		months[m] = math.Round(float64(sum)/float64(end-start)*100) / 100
	}
	return months
}

func (l *LocationProfile) String() string {
	return "Geographical and Soil Data for " + l.Name
}

// Summary returns a human-readable description of the site
func (l *LocationProfile) Summary() string {
	monthly := l.MonthlyPhotoperiodAverage()
	hours := make([]string, len(monthly))
	for i, h := range monthly {
		hours[i] = fmt.Sprintf("%d", int(h))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Geographical and Soil Data for %s\n\n", l.Name)
	fmt.Fprintf(&b, "\tLatitude:%0.2f , Longitude: %0.2f\n", l.Latitude, l.Longitude)
	fmt.Fprintf(&b, "\tHardiness-Zone:%s , Tmin: %0.2f, Tmax: %0.2f\n", l.HardinessZone, l.TMin, l.TMax)
	fmt.Fprintf(&b, "\tAvg Photoperiod(Jan to Dec): (%s)\n", strings.Join(hours, ","))
	fmt.Fprintf(&b, "\n\nSoil-data matched in Database: Latitude:%0.2f , Longitude: %0.2f, ZipCode:%s\n",
		l.Match.Latitude, l.Match.Longitude, l.Match.Key)
	b.WriteString("Average Photoperiod calculated from diffuse radiation data in the weather file")
	return b.String()
}
