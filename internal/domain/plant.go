package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// CatalogHeader is the header row of a plant catalog CSV file
var CatalogHeader = []string{
	"PlantSpecies", "DLI", "minTemp", "maxTemp", "HardinessZone", "Photoperiod", "GrowingSeason",
}

// PlantSpec holds the raw, unvalidated inputs describing one plant.
// Nil temperatures mean "not provided".
type PlantSpec struct {
	Name          string
	DLI           string
	MinTemp       *float64
	MaxTemp       *float64
	HardinessZone string
	Photoperiod   string
	GrowingSeason string
}

// Plant is one validated catalog entry. It is not modified after NewPlant.
type Plant struct {
	Name           string
	DLIRange       [2]float64
	MinTemp        float64
	MaxTemp        float64
	HardinessZones []string
	Photoperiod    []int // 12 monthly values, nil when not required
	GrowingSeason  []int // sorted months 1..12
	BandSource     BandSource
}

// NewPlant validates spec and resolves the plant's temperature band
func NewPlant(spec PlantSpec) (*Plant, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: plant name is required", ErrRange)
	}

	dli, err := ParseDLIRange(spec.DLI)
	if err != nil {
		return nil, fmt.Errorf("plant %q: %w", name, err)
	}
	photoperiod, err := ParsePhotoperiod(spec.Photoperiod)
	if err != nil {
		return nil, fmt.Errorf("plant %q: %w", name, err)
	}
	season, err := ParseGrowingSeason(spec.GrowingSeason)
	if err != nil {
		return nil, fmt.Errorf("plant %q: %w", name, err)
	}

	zones := strings.Fields(spec.HardinessZone)
	if (spec.MinTemp != nil || spec.MaxTemp != nil) && len(zones) > 0 {
		log.Warn().
			Err(ErrConfigConflict).
			Str("plant", name).
			Strs("hardiness_zones", zones).
			Msg("minTemp/maxTemp will be used to set hardiness; provided zones are overridden")
	}
	band, err := ResolveBand(spec.MinTemp, spec.MaxTemp, zones)
	if err != nil {
		return nil, fmt.Errorf("plant %q: %w", name, err)
	}

	return &Plant{
		Name:           name,
		DLIRange:       dli,
		MinTemp:        band.Min,
		MaxTemp:        band.Max,
		HardinessZones: band.Zones,
		Photoperiod:    photoperiod,
		GrowingSeason:  season,
		BandSource:     band.Source,
	}, nil
}

// ParseDLIRange accepts one value (broadcast to [x, x]) or two
// whitespace-separated values (sorted into [low, high]).
func ParseDLIRange(s string) ([2]float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return [2]float64{}, fmt.Errorf("%w: DLI %q needs one value or two space-separated values", ErrRange, s)
	}

	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return [2]float64{}, fmt.Errorf("%w: DLI value %q is not a number", ErrParse, f)
		}
		if v < 0 || math.IsNaN(v) {
			return [2]float64{}, fmt.Errorf("%w: DLI value %q should be greater than 0", ErrRange, f)
		}
		vals[i] = v
	}

	if len(vals) == 1 {
		return [2]float64{vals[0], vals[0]}, nil
	}
	return [2]float64{math.Min(vals[0], vals[1]), math.Max(vals[0], vals[1])}, nil
}

// ParsePhotoperiod accepts one value (broadcast to all 12 months) or 12
// monthly values, each between 1 and 24 hours. Empty input means the plant
// has no photoperiod requirement and returns nil.
func ParsePhotoperiod(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) != 1 && len(fields) != 12 {
		return nil, fmt.Errorf("%w: photoperiod %q needs 1 or 12 values, got %d", ErrRange, s, len(fields))
	}

	hours := make([]int, len(fields))
	for i, f := range fields {
		h, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: photoperiod value %q is not an integer", ErrParse, f)
		}
		if h < 1 || h > 24 {
			return nil, fmt.Errorf("%w: photoperiod %d should be between 1 and 24 hours", ErrRange, h)
		}
		hours[i] = h
	}

	if len(hours) == 1 {
		broadcast := make([]int, 12)
		for i := range broadcast {
			broadcast[i] = hours[0]
		}
		return broadcast, nil
	}
	return hours, nil
}

// ParseGrowingSeason accepts whitespace-separated months 1..12 and returns
// them sorted without duplicates. Empty input means all twelve months.
func ParseGrowingSeason(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, nil
	}

	seen := make(map[int]bool, len(fields))
	months := make([]int, 0, len(fields))
	for _, f := range fields {
		m, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: growing season month %q is not an integer", ErrParse, f)
		}
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: growing season month %d should be between 1 (January) and 12 (December)",
				ErrRange, m)
		}
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Ints(months)
	return months, nil
}

// DLILow returns the lower bound of the DLI tolerance range
func (p *Plant) DLILow() float64 { return p.DLIRange[0] }

// DLIHigh returns the upper bound of the DLI tolerance range
func (p *Plant) DLIHigh() float64 { return p.DLIRange[1] }

// DLIAverage returns the truncated midpoint of the DLI range
func (p *Plant) DLIAverage() int {
	return int((p.DLIRange[0] + p.DLIRange[1]) / 2)
}

// PhotoperiodAverage returns the truncated mean photoperiod, 0 when none is set
func (p *Plant) PhotoperiodAverage() int {
	if len(p.Photoperiod) == 0 {
		return 0
	}
	sum := 0
	for _, h := range p.Photoperiod {
		sum += h
	}
	return sum / len(p.Photoperiod)
}

// PhotoperiodMin returns the shortest monthly photoperiod, 0 when none is set
func (p *Plant) PhotoperiodMin() int {
	if len(p.Photoperiod) == 0 {
		return 0
	}
	lowest := p.Photoperiod[0]
	for _, h := range p.Photoperiod[1:] {
		lowest = min(lowest, h)
	}
	return lowest
}

// PhotoperiodMax returns the longest monthly photoperiod, 0 when none is set
func (p *Plant) PhotoperiodMax() int {
	highest := 0
	for _, h := range p.Photoperiod {
		highest = max(highest, h)
	}
	return highest
}

func (p *Plant) String() string {
	return "Plant data for " + p.Name
}

// Summary returns a human-readable description of the plant
func (p *Plant) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant data summary for '%s'\n\n", p.Name)
	fmt.Fprintf(&b, "\tDLI value(s): %s\n", joinFloats(p.DLIRange[:], ","))
	fmt.Fprintf(&b, "\tGrowing Season(s): %s\n", joinInts(p.GrowingSeason, ","))
	fmt.Fprintf(&b, "\tMinimum Temp: %s\n", formatFloat(p.MinTemp))
	fmt.Fprintf(&b, "\tMaximum Temp: %s\n", formatFloat(p.MaxTemp))
	fmt.Fprintf(&b, "\tHardiness Zone(s): %s\n", strings.Join(p.HardinessZones, ","))
	fmt.Fprintf(&b, "\tPhotoperiod(s): %s", joinInts(p.Photoperiod, ","))
	return b.String()
}

// CSVRecord returns the plant in catalog column order. Only the input that
// fixed the temperature band is written, so ParsePlantRecord reproduces the
// same entry.
func (p *Plant) CSVRecord() []string {
	var minTemp, maxTemp, zones string
	switch p.BandSource {
	case BandTemperature:
		minTemp, maxTemp = formatFloat(p.MinTemp), formatFloat(p.MaxTemp)
	case BandHardiness:
		zones = strings.Join(p.HardinessZones, " ")
	}

	dli := formatFloat(p.DLIRange[0])
	if p.DLIRange[0] != p.DLIRange[1] {
		dli += " " + formatFloat(p.DLIRange[1])
	}

	return []string{
		p.Name,
		dli,
		minTemp,
		maxTemp,
		zones,
		joinInts(p.Photoperiod, " "),
		joinInts(p.GrowingSeason, " "),
	}
}

// ParsePlantRecord builds a plant from catalog columns. Trailing columns may
// be omitted; blank temperatures are treated as not provided.
func ParsePlantRecord(record []string) (*Plant, error) {
	if len(record) > len(CatalogHeader) {
		return nil, fmt.Errorf("%w: plant record has %d columns, want at most %d",
			ErrParse, len(record), len(CatalogHeader))
	}
	fields := make([]string, len(CatalogHeader))
	for i, v := range record {
		fields[i] = strings.TrimSpace(v)
	}

	minTemp, err := parseOptionalFloat(fields[2])
	if err != nil {
		return nil, fmt.Errorf("plant %q: minTemp: %w", fields[0], err)
	}
	maxTemp, err := parseOptionalFloat(fields[3])
	if err != nil {
		return nil, fmt.Errorf("plant %q: maxTemp: %w", fields[0], err)
	}

	return NewPlant(PlantSpec{
		Name:          fields[0],
		DLI:           fields[1],
		MinTemp:       minTemp,
		MaxTemp:       maxTemp,
		HardinessZone: fields[4],
		Photoperiod:   fields[5],
		GrowingSeason: fields[6],
	})
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrParse, s)
	}
	return &v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinFloats(vals []float64, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, sep)
}

func joinInts(vals []int, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}
