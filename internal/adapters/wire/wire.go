// Package wire converts between the api messages and the domain and ports
// types. Both transports share it.
package wire

import (
	"fmt"

	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

// DatasetRequest converts an api dataset, applying the default meta columns
func DatasetRequest(d api.Dataset) (ports.DatasetRequest, error) {
	quantity, err := domain.ParseQuantity(d.Quantity)
	if err != nil {
		return ports.DatasetRequest{}, err
	}
	meta := ports.DefaultMetaColumns
	if d.MetaColumns != nil {
		meta = *d.MetaColumns
	}
	return ports.DatasetRequest{
		ResultsPath: d.ResultsPath,
		PointsPath:  d.PointsPath,
		Quantity:    quantity,
		Factor:      d.Factor,
		MetaColumns: meta,
	}, nil
}

// Plants validates every api plant. The first invalid entry fails the batch.
func Plants(in []api.Plant) ([]*domain.Plant, error) {
	plants := make([]*domain.Plant, 0, len(in))
	for _, p := range in {
		plant, err := domain.NewPlant(domain.PlantSpec{
			Name:          p.Name,
			DLI:           p.DLI,
			MinTemp:       p.MinTemp,
			MaxTemp:       p.MaxTemp,
			HardinessZone: p.HardinessZone,
			Photoperiod:   p.Photoperiod,
			GrowingSeason: p.GrowingSeason,
		})
		if err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}
	return plants, nil
}

// Plant converts a validated plant back to its raw form, keeping only the
// input that fixed its temperature band
func Plant(p *domain.Plant) api.Plant {
	record := p.CSVRecord()
	out := api.Plant{
		Name:          record[0],
		DLI:           record[1],
		HardinessZone: record[4],
		Photoperiod:   record[5],
		GrowingSeason: record[6],
	}
	if p.BandSource == domain.BandTemperature {
		lo, hi := p.MinTemp, p.MaxTemp
		out.MinTemp, out.MaxTemp = &lo, &hi
	}
	return out
}

// AnalysisRequest converts a full api analysis request
func AnalysisRequest(req *api.AnalyzePlantsRequest) (ports.AnalysisRequest, error) {
	dataset, err := DatasetRequest(req.Dataset)
	if err != nil {
		return ports.AnalysisRequest{}, err
	}
	plants, err := Plants(req.Plants)
	if err != nil {
		return ports.AnalysisRequest{}, err
	}
	return ports.AnalysisRequest{
		Dataset:     dataset,
		WeatherPath: req.WeatherPath,
		Plants:      plants,
		Options: domain.SelectionOptions{
			FilterBySoilTemp: req.FilterBySoilTemp,
			Threshold:        req.Threshold,
			Cumulative:       req.Cumulative,
		},
	}, nil
}

// DLIResponse summarizes a dataset per point, with the day and point views
// req asks for
func DLIResponse(dli *domain.DLIData, req *api.ComputeDLIRequest) (*api.ComputeDLIResponse, error) {
	cumulative := req.Cumulative
	points, days := dli.Size()
	resp := &api.ComputeDLIResponse{
		Points:  points,
		Days:    days,
		Annual:  dli.AnnualAverage(),
		Monthly: make([][]float64, 12),
		Summary: dli.String(),
	}
	for _, c := range domain.ClassifyAll(resp.Annual) {
		resp.AnnualClass = append(resp.AnnualClass, c.String())
	}
	if cumulative {
		resp.AnnualCumulative = dli.AnnualCumulative()
		resp.MonthlyCumulative = make([][]float64, 12)
	}

	for m := 1; m <= 12; m++ {
		avg, err := dli.MonthlyAverage(m)
		if err != nil {
			return nil, fmt.Errorf("month %d: %w", m, err)
		}
		resp.Monthly[m-1] = avg
		if cumulative {
			if resp.MonthlyCumulative[m-1], err = dli.MonthlyCumulative(m); err != nil {
				return nil, fmt.Errorf("month %d: %w", m, err)
			}
		}
	}

	var err error
	if req.Day != nil {
		if resp.DayOfYear, err = dli.DayOfYear(*req.Day); err != nil {
			return nil, err
		}
	}
	if req.Point != nil {
		if resp.PointDaily, err = dli.DailySeries(*req.Point); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Location converts a site profile
func Location(loc *domain.LocationProfile) api.Location {
	return api.Location{
		Name:               loc.Name,
		Longitude:          loc.Longitude,
		Latitude:           loc.Latitude,
		HardinessZone:      loc.HardinessZone,
		TMin:               loc.TMin,
		TMax:               loc.TMax,
		MonthlyPhotoperiod: loc.MonthlyPhotoperiodAverage(),
		Match: api.SoilMatch{
			Key:       loc.Match.Key,
			Longitude: loc.Match.Longitude,
			Latitude:  loc.Match.Latitude,
		},
		Summary: loc.Summary(),
	}
}

// Selection converts one plant's result
func Selection(s *domain.Selection) api.Selection {
	labels := make([]int, len(s.Labels))
	for i, l := range s.Labels {
		labels[i] = int(l)
	}
	return api.Selection{
		Plant:                s.Plant.Name,
		Compatible:           s.Compatible,
		Selected:             s.Selected(),
		Labels:               labels,
		GrowSeasonDLI:        s.GrowSeasonDLI,
		GrowSeasonCumulative: s.GrowSeasonCumulative,
		Bands:                api.Bands{Low: s.Bands.Low, Middle: s.Bands.Middle, High: s.Bands.High},
		Fractions: api.Fractions{
			Below:  s.Fractions[domain.LabelBelow],
			Within: s.Fractions[domain.LabelWithin],
			Above:  s.Fractions[domain.LabelAbove],
		},
		Report:      s.Report,
		LegendTitle: s.LegendTitle,
		ChartTitle:  s.ChartTitle,
	}
}

// Analysis converts a completed analysis
func Analysis(a *ports.Analysis) *api.AnalyzePlantsResponse {
	resp := &api.AnalyzePlantsResponse{
		AnalysisID:     a.ID.String(),
		Location:       Location(a.Location),
		Selections:     make([]api.Selection, 0, len(a.Selections)),
		PointIndex:     a.Map.PointIndex,
		Selection:      a.Map.Selection,
		SelectionIndex: a.Map.SelectionIndex,
		Legend:         a.Map.Legend(),
	}
	for _, s := range a.Selections {
		resp.Selections = append(resp.Selections, Selection(s))
	}
	for i := 0; i < a.Map.Combinations.Len(); i++ {
		resp.Combinations = append(resp.Combinations, a.Map.Combinations.Label(i))
	}
	return resp
}
