package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MinSupportedTemp is the lower bound of the coldest hardiness bucket
	MinSupportedTemp = -200.0

	// MaxSupportedTemp is the upper bound of the warmest hardiness bucket
	MaxSupportedTemp = 200.0
)

// zoneLabels are the USDA-style labels 0a..13b; label i belongs to zoneRanges[i].
var zoneLabels = buildZoneLabels()

// zoneRanges are 5-degree buckets from -65 to 65 with unbounded tails.
var zoneRanges = buildZoneRanges()

func buildZoneLabels() []string {
	labels := make([]string, 0, 28)
	for id := 0; id < 14; id++ {
		labels = append(labels, fmt.Sprintf("%da", id), fmt.Sprintf("%db", id))
	}
	return labels
}

func buildZoneRanges() [][2]float64 {
	ranges := [][2]float64{{MinSupportedTemp, -65}}
	for t := -65.0; t < 65; t += 5 {
		ranges = append(ranges, [2]float64{t, t + 5})
	}
	return append(ranges, [2]float64{65, MaxSupportedTemp})
}

// BandSource records which input fixed a plant's temperature band
type BandSource int

const (
	// BandDefault means neither temperature nor hardiness was given
	BandDefault BandSource = iota
	// BandTemperature means the band was derived from min/max temperature
	BandTemperature
	// BandHardiness means the band was derived from hardiness zone labels
	BandHardiness
)

func (s BandSource) String() string {
	switch s {
	case BandTemperature:
		return "temperature"
	case BandHardiness:
		return "hardiness"
	}
	return "default"
}

// Band is a resolved temperature range and the hardiness zones it spans
type Band struct {
	Min    float64
	Max    float64
	Zones  []string
	Source BandSource
}

// HardinessZones returns every supported zone label, coldest first
func HardinessZones() []string {
	return append([]string(nil), zoneLabels...)
}

// ZoneRange returns the temperature bucket of a zone label
func ZoneRange(label string) (low, high float64, err error) {
	idx := zoneIndex(label)
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: hardiness zone %q should be one of %s",
			ErrRange, label, strings.Join(zoneLabels, ","))
	}
	return zoneRanges[idx][0], zoneRanges[idx][1], nil
}

// ResolveBand derives the temperature band of a plant. Temperature, when
// given, wins over zones; a missing bound copies the other one.
func ResolveBand(minTemp, maxTemp *float64, zones []string) (Band, error) {
	switch {
	case minTemp != nil || maxTemp != nil:
		return bandFromTemperature(minTemp, maxTemp)
	case len(zones) > 0:
		return bandFromZones(zones)
	}
	return Band{
		Min:    MinSupportedTemp,
		Max:    MaxSupportedTemp,
		Zones:  HardinessZones(),
		Source: BandDefault,
	}, nil
}

func bandFromTemperature(minTemp, maxTemp *float64) (Band, error) {
	if minTemp == nil {
		minTemp = maxTemp
	}
	if maxTemp == nil {
		maxTemp = minTemp
	}
	lo, hi := *minTemp, *maxTemp
	if lo > hi {
		return Band{}, fmt.Errorf("%w: minTemp %v exceeds maxTemp %v", ErrRange, lo, hi)
	}

	start := lastBucket(lo)
	end := lastBucket(hi)
	if start < 0 || end < 0 {
		return Band{}, fmt.Errorf("%w: temperatures (%v, %v) outside supported range (%v, %v)",
			ErrRange, lo, hi, MinSupportedTemp, MaxSupportedTemp)
	}
	// Same bucket: widen so the half-open zone slice is never empty.
	if start == end {
		end++
	}

	return Band{
		Min:    lo,
		Max:    hi,
		Zones:  append([]string(nil), zoneLabels[start:end]...),
		Source: BandTemperature,
	}, nil
}

func bandFromZones(zones []string) (Band, error) {
	seen := make(map[string]bool, len(zones))
	var short, long []string
	for _, z := range zones {
		if zoneIndex(z) < 0 {
			return Band{}, fmt.Errorf("%w: hardiness zone %q should be one of %s",
				ErrRange, z, strings.Join(zoneLabels, ","))
		}
		if seen[z] {
			continue
		}
		seen[z] = true
		if len(z) == 2 {
			short = append(short, z)
		} else {
			long = append(long, z)
		}
	}
	sort.Strings(short)
	sort.Strings(long)
	sorted := append(short, long...)

	return Band{
		Min:    zoneRanges[zoneIndex(sorted[0])][0],
		Max:    zoneRanges[zoneIndex(sorted[len(sorted)-1])][1],
		Zones:  sorted,
		Source: BandHardiness,
	}, nil
}

// lastBucket returns the last bucket whose closed range contains t, so a
// boundary temperature belongs to the warmer bucket. -1 when none does.
func lastBucket(t float64) int {
	idx := -1
	for i, r := range zoneRanges {
		if r[0] <= t && t <= r[1] {
			idx = i
		}
	}
	return idx
}

func zoneIndex(label string) int {
	for i, z := range zoneLabels {
		if z == label {
			return i
		}
	}
	return -1
}
