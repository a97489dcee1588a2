// Package report renders analyses as coloured terminal text
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
)

const barWidth = 40

var (
	headerColor = color.New(color.Bold)
	labelColors = map[domain.Label]*color.Color{
		domain.LabelBelow:  color.New(color.FgBlue),
		domain.LabelWithin: color.New(color.FgGreen),
		domain.LabelAbove:  color.New(color.FgYellow),
	}
	classColors = map[domain.LightClass]*color.Color{
		domain.LowLight:    color.New(color.FgBlue),
		domain.MediumLight: color.New(color.FgGreen),
		domain.HighLight:   color.New(color.FgYellow),
	}
	greyColor     = color.New(color.FgHiBlack)
	selectedColor = color.New(color.FgGreen, color.Bold)
	rejectedColor = color.New(color.FgRed)
)

// Render formats an analysis: the site, the grid's monthly light, one block
// per plant and the combination legend
func Render(a *ports.Analysis) string {
	var out strings.Builder

	out.WriteString(headerColor.Sprint(a.Location.Summary()))
	out.WriteString("\n")
	out.WriteString(strings.Repeat("─", 50) + "\n")
	out.WriteString(MonthlyChart(a.DLI))
	out.WriteString(Extremes(a.DLI))
	out.WriteString("\n")

	for _, sel := range a.Selections {
		out.WriteString(Selection(sel))
		out.WriteString("\n")
	}

	out.WriteString(headerColor.Sprint("Plant combinations per grid point"))
	out.WriteString("\n")
	used := make(map[int]bool, len(a.Map.UsedIndices))
	for _, i := range a.Map.UsedIndices {
		used[i] = true
	}
	for i := 0; i < a.Map.Combinations.Len(); i++ {
		label := a.Map.Combinations.Label(i)
		if used[i] {
			out.WriteString(label + "\n")
		} else {
			out.WriteString(greyColor.Sprint(label) + "\n")
		}
	}

	out.WriteString("\n")
	if len(a.Map.Selection) == 0 {
		out.WriteString(rejectedColor.Sprint("No plant qualifies for the whole grid") + "\n")
	} else {
		fmt.Fprintf(&out, "Selected: %s\n", selectedColor.Sprint(a.Map.Combinations.Label(a.Map.SelectionIndex)))
	}
	return out.String()
}

// MonthlyChart draws the grid-mean DLI of each month as a bar
func MonthlyChart(dli *domain.DLIData) string {
	var out strings.Builder
	means := make([]float64, 12)
	for m := 1; m <= 12; m++ {
		avg, err := dli.MonthlyAverage(m)
		if err != nil || len(avg) == 0 {
			continue
		}
		means[m-1] = stat.Mean(avg, nil)
	}

	peak := floats.Max(means)
	for m, v := range means {
		n := 0
		if peak > 0 {
			n = int(v / peak * barWidth)
		}
		fmt.Fprintf(&out, "%-9s %6.2f %-12s %s\n", domain.MonthName(m+1), v, domain.ClassifyDLI(v),
			classColors[domain.ClassifyDLI(v)].Sprint(strings.Repeat("█", n)))
	}
	return out.String()
}

// Extremes names the darkest and brightest day of the year by grid mean
func Extremes(dli *domain.DLIData) string {
	byDay := dli.DayMajor()
	days, _ := byDay.Dims()
	means := make([]float64, days)
	for d := range means {
		means[d] = stat.Mean(byDay.RawRowView(d), nil)
	}

	var out strings.Builder
	for _, e := range []struct {
		name string
		day  int
	}{
		{"Darkest day", floats.MinIdx(means)},
		{"Brightest day", floats.MaxIdx(means)},
	} {
		month, day, err := domain.DayDate(e.day + 1)
		if err != nil {
			continue
		}
		fmt.Fprintf(&out, "%-13s %3d (%s %d) %6.2f %s\n", e.name, e.day+1, domain.MonthName(month), day,
			means[e.day], domain.ClassifyDLI(means[e.day]))
	}
	return out.String()
}

// Selection formats one plant's report with a bar of its label fractions
func Selection(sel *domain.Selection) string {
	var out strings.Builder

	verdict := rejectedColor.Sprint("not selected")
	if sel.Selected() {
		verdict = selectedColor.Sprint("selected")
	}
	fmt.Fprintf(&out, "%s: %s\n", headerColor.Sprint(sel.Plant.Name), verdict)
	fmt.Fprintf(&out, "DLI %g-%g (mid %d)", sel.Plant.DLILow(), sel.Plant.DLIHigh(), sel.Plant.DLIAverage())
	if len(sel.Plant.Photoperiod) > 0 {
		fmt.Fprintf(&out, ", photoperiod %d-%d h (avg %d)",
			sel.Plant.PhotoperiodMin(), sel.Plant.PhotoperiodMax(), sel.Plant.PhotoperiodAverage())
	}
	out.WriteString("\n")
	out.WriteString(strings.TrimRight(sel.Report, "\n") + "\n")

	if !sel.Compatible {
		out.WriteString(greyColor.Sprint(strings.Repeat("░", barWidth)))
	} else {
		for _, l := range []domain.Label{domain.LabelBelow, domain.LabelWithin, domain.LabelAbove} {
			n := int(sel.Fractions[l]*barWidth + 0.5)
			out.WriteString(labelColors[l].Sprint(strings.Repeat("█", n)))
		}
	}
	out.WriteString(" " + sel.LegendTitle + "\n")
	return out.String()
}
