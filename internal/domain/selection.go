package domain

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Label classifies one grid point against a plant's DLI range
type Label int

const (
	// LabelIncompatible marks every point when the temperature gate fails
	LabelIncompatible Label = -1
	// LabelBelow means the point's grow-season DLI is under the range
	LabelBelow Label = 0
	// LabelWithin means the point's grow-season DLI is inside the range
	LabelWithin Label = 1
	// LabelAbove means the point's grow-season DLI is over the range
	LabelAbove Label = 2
)

// DefaultQualificationThreshold is the within-range fraction a plant must
// exceed to be selected when no threshold is configured
const DefaultQualificationThreshold = 0.5

// SelectionOptions tunes AnalyzeSelection
type SelectionOptions struct {
	FilterBySoilTemp bool
	Threshold        float64 // <= 0 means DefaultQualificationThreshold
	Cumulative       bool
}

// Bands are descriptive means of the sorted grow-season values
type Bands struct {
	Low    float64
	Middle float64
	High   float64
}

// Selection is the result of matching one plant against one site
type Selection struct {
	Plant                *Plant
	GrowSeasonDLI        []float64
	GrowSeasonCumulative []float64 // nil unless requested
	Labels               []Label
	Compatible           bool
	Bands                Bands
	Fractions            [3]float64 // below, within, above
	Threshold            float64
	Report               string
	LegendTitle          string
	ChartTitle           string
}

// AnalyzeSelection classifies every grid point of dli against plant's DLI
// range over the plant's growing season. Neither plant nor location is
// modified.
func AnalyzeSelection(plant *Plant, location *LocationProfile, dli *DLIData, opts SelectionOptions) *Selection {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultQualificationThreshold
	}

	points := dli.Points()
	season := make([]float64, points)
	var cumulative []float64
	if opts.Cumulative {
		cumulative = make([]float64, points)
	}
	for _, month := range plant.GrowingSeason {
		start, end, _ := MonthBounds(month)
		avg := dli.reduce(start, end, mean)
		for p := range season {
			season[p] += avg[p]
		}
		if cumulative != nil {
			sum := dli.reduce(start, end, floats.Sum)
			for p := range cumulative {
				cumulative[p] += sum[p]
			}
		}
	}
	for p := range season {
		season[p] /= float64(len(plant.GrowingSeason))
	}

	sel := &Selection{
		Plant:                plant,
		GrowSeasonDLI:        season,
		GrowSeasonCumulative: cumulative,
		Labels:               make([]Label, points),
		Compatible:           true,
		Bands:                computeBands(season),
		Threshold:            threshold,
	}

	months := seasonMonthNames(plant.GrowingSeason)
	upper := strings.ToUpper(plant.Name)

	var report strings.Builder
	fmt.Fprintf(&report, "Report for: %s\n\n\n", upper)
	fmt.Fprintf(&report, "Growing season (months): %s\n\n", months)
	fmt.Fprintf(&report, "Growing season Plant DLI Range: (%s,%s)\n\n",
		formatFloat(plant.DLILow()), formatFloat(plant.DLIHigh()))
	fmt.Fprintf(&report, "Growing season Location DLI Averages (Q1,Q2-Q3,Q4):(%0.1f, %0.1f, %0.1f)\n\n",
		sel.Bands.Low, sel.Bands.Middle, sel.Bands.High)
	fmt.Fprintf(&report, "Plant Temperature Range(min,max): (%s,%s)\n\n",
		formatFloat(plant.MinTemp), formatFloat(plant.MaxTemp))

	sel.ChartTitle = "Daily Light Integral Averaged for Growing Season months\n\n" +
		fmt.Sprintf("Growing season months for %s: %s\n\n", upper, months)

	if opts.FilterBySoilTemp && !(plant.MinTemp <= location.TMin && plant.MaxTemp >= location.TMax) {
		fmt.Fprintf(&report, "The plant temperature range (%s,%s) is not compatible with the location temperature range (%s,%s)",
			formatFloat(plant.MinTemp), formatFloat(plant.MaxTemp),
			formatFloat(location.TMin), formatFloat(location.TMax))
		for p := range sel.Labels {
			sel.Labels[p] = LabelIncompatible
		}
		sel.Compatible = false
		sel.Report = report.String()
		sel.LegendTitle = "Not Applicable"
		return sel
	}

	var counts [3]int
	for p, v := range season {
		switch {
		case v > plant.DLIHigh():
			sel.Labels[p] = LabelAbove
		case v >= plant.DLILow():
			sel.Labels[p] = LabelWithin
		default:
			sel.Labels[p] = LabelBelow
		}
		counts[sel.Labels[p]]++
	}
	if points > 0 {
		for i, c := range counts {
			sel.Fractions[i] = float64(c) / float64(points)
		}
	}

	fmt.Fprintf(&report, "Site Temperature Range(min,max): (%s,%s)\n\n",
		formatFloat(location.TMin), formatFloat(location.TMax))
	sel.Report = report.String()
	sel.LegendTitle = fmt.Sprintf("0: BelowRange(%.1f%%), 1: WithinRange(%.1f%%), 2: AboveRange(%.1f%%)",
		100*sel.Fractions[0], 100*sel.Fractions[1], 100*sel.Fractions[2])
	return sel
}

// Selected reports whether the plant qualifies for the whole grid
func (s *Selection) Selected() bool {
	return s.Compatible && s.Fractions[LabelWithin] > s.Threshold
}

// LabelCounts returns how many points carry each label, keyed by label
func (s *Selection) LabelCounts() map[Label]int {
	counts := make(map[Label]int, 4)
	for _, l := range s.Labels {
		counts[l]++
	}
	return counts
}

func (s *Selection) String() string {
	return fmt.Sprintf("Selection:%t for %s with in-range DLI of %.3f and qualifying factor of %.3f",
		s.Selected(), s.Plant.Name, s.Fractions[LabelWithin], s.Threshold)
}

// computeBands splits the sorted values at n/4 and n/4 + n/5
func computeBands(values []float64) Bands {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := n / 4
	q23 := q1 + n/5
	return Bands{
		Low:    mean(sorted[:q1]),
		Middle: mean(sorted[q1:q23]),
		High:   mean(sorted[q23:]),
	}
}

func seasonMonthNames(months []int) string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = MonthName(m)
	}
	return strings.Join(names, ",")
}
