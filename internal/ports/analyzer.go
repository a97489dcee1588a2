package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog/log"

	"github.com/photorad/photoRad/internal/adapters/epw"
	"github.com/photorad/photoRad/internal/adapters/textgrid"
	"github.com/photorad/photoRad/internal/domain"
)

// DefaultMetaColumns is the number of leading non-data columns in a results file
const DefaultMetaColumns = 3

// DatasetRequest identifies one simulation output
type DatasetRequest struct {
	ResultsPath string
	PointsPath  string
	Quantity    domain.Quantity
	Factor      float64 // <= 0 means the quantity's default
	MetaColumns int
}

// AnalysisRequest asks for the selection of plants at one site
type AnalysisRequest struct {
	Dataset     DatasetRequest
	WeatherPath string
	Plants      []*domain.Plant
	Options     domain.SelectionOptions
}

// Analysis is the outcome of one AnalysisRequest
type Analysis struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	DLI        *domain.DLIData
	Location   *domain.LocationProfile
	Selections []*domain.Selection
	Map        *domain.SelectionMap
}

// AnalyzerConfig tunes the analyzer's caches and selection defaults
type AnalyzerConfig struct {
	CacheSize int
	CacheTTL  time.Duration
	Threshold float64
	// DataDir, when set, is the only directory input files are read from
	DataDir string
}

// Analyzer loads simulation and weather data and runs plant selection
// Parsed datasets are cached, so repeated analyses of one model parse
// each file once.
type Analyzer struct {
	soil      domain.SoilRepository
	threshold float64
	root      dataRoot
	datasets  *otter.Cache[DatasetRequest, *domain.DLIData]
	locations *otter.Cache[string, *domain.LocationProfile]
}

// NewAnalyzer creates an analyzer backed by the given soil dataset
func NewAnalyzer(soil domain.SoilRepository, cfg AnalyzerConfig) (*Analyzer, error) {
	root, err := newDataRoot(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	return &Analyzer{
		soil:      soil,
		threshold: cfg.Threshold,
		root:      root,
		datasets: otter.Must(&otter.Options[DatasetRequest, *domain.DLIData]{
			MaximumSize:      cfg.CacheSize,
			ExpiryCalculator: otter.ExpiryWriting[DatasetRequest, *domain.DLIData](cfg.CacheTTL),
		}),
		locations: otter.Must(&otter.Options[string, *domain.LocationProfile]{
			MaximumSize:      cfg.CacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, *domain.LocationProfile](cfg.CacheTTL),
		}),
	}, nil
}

// LoadDLI parses a results file and its points file into daily DLI values
func (a *Analyzer) LoadDLI(ctx context.Context, req DatasetRequest) (*domain.DLIData, error) {
	var err error
	if req.ResultsPath, err = a.root.resolve(req.ResultsPath); err != nil {
		return nil, err
	}
	if req.PointsPath, err = a.root.resolve(req.PointsPath); err != nil {
		return nil, err
	}
	if req.Factor <= 0 {
		req.Factor = req.Quantity.DefaultFactor()
	}
	if dli, ok := a.datasets.GetIfPresent(req); ok {
		log.Debug().Str("results", req.ResultsPath).Msg("DLI dataset cache hit")
		return dli, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points, err := textgrid.CountRows(req.PointsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}
	hourly, err := textgrid.ReadMatrix(req.ResultsPath, textgrid.Options{SkipColumns: req.MetaColumns})
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	dli, err := domain.NewDLIData(hourly, points, req.Quantity, req.Factor)
	if err != nil {
		return nil, err
	}
	a.datasets.Set(req, dli)

	log.Info().
		Str("results", req.ResultsPath).
		Str("quantity", req.Quantity.String()).
		Float64("factor", req.Factor).
		Int("points", points).
		Msg("DLI dataset loaded")
	return dli, nil
}

// LoadLocation reads a weather file and matches it to the soil dataset
func (a *Analyzer) LoadLocation(ctx context.Context, weatherPath string) (*domain.LocationProfile, error) {
	weatherPath, err := a.root.resolve(weatherPath)
	if err != nil {
		return nil, err
	}
	if loc, ok := a.locations.GetIfPresent(weatherPath); ok {
		log.Debug().Str("weather", weatherPath).Msg("location cache hit")
		return loc, nil
	}

	weather, err := epw.ReadWeather(weatherPath)
	if err != nil {
		return nil, err
	}
	loc, err := domain.ResolveLocation(ctx, weather, a.soil)
	if err != nil {
		return nil, err
	}
	a.locations.Set(weatherPath, loc)

	log.Info().
		Str("location", loc.Name).
		Str("zone", loc.HardinessZone).
		Str("soil_key", loc.Match.Key).
		Msg("location resolved")
	return loc, nil
}

// Analyze runs the selection of every requested plant against one site
func (a *Analyzer) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	if len(req.Plants) == 0 {
		return nil, fmt.Errorf("%w: no plants to analyze", domain.ErrRange)
	}

	dli, err := a.LoadDLI(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	loc, err := a.LoadLocation(ctx, req.WeatherPath)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	if opts.Threshold <= 0 {
		opts.Threshold = a.threshold
	}

	analysis := &Analysis{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		DLI:       dli,
		Location:  loc,
	}
	for _, plant := range req.Plants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sel := domain.AnalyzeSelection(plant, loc, dli, opts)
		analysis.Selections = append(analysis.Selections, sel)

		log.Debug().
			Str("plant", plant.Name).
			Bool("compatible", sel.Compatible).
			Float64("within", sel.Fractions[domain.LabelWithin]).
			Bool("selected", sel.Selected()).
			Msg("plant analyzed")
	}

	analysis.Map, err = domain.MapSelections(analysis.Selections)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("analysis_id", analysis.ID.String()).
		Int("plants", len(req.Plants)).
		Strs("selected", analysis.Map.Selection).
		Msg("analysis complete")
	return analysis, nil
}

// Invalidate drops every cached dataset and location
func (a *Analyzer) Invalidate() {
	a.datasets.InvalidateAll()
	a.locations.InvalidateAll()
}
