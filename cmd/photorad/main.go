// Package main implements the photorad CLI: DLI analysis and plant
// selection for one simulation grid and site.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/photorad/photoRad/internal/adapters/catalog"
	"github.com/photorad/photoRad/internal/adapters/memory"
	"github.com/photorad/photoRad/internal/adapters/mock"
	"github.com/photorad/photoRad/internal/adapters/soildata"
	"github.com/photorad/photoRad/internal/adapters/wire"
	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/internal/report"
	"github.com/photorad/photoRad/pkg/api"
	"github.com/photorad/photoRad/pkg/tlsconfig"
)

// demoPlants is the catalog analyzed by -demo when no catalog is given
const demoPlants = `Lettuce,12 17,,,4a 9b,,3 4 5 6 7 8 9
Tomato,22 30,10,35,,14,5 6 7 8
Spinach,10 14,,,2a 9b,,3 4 5 9 10
Fern,2 6,,,,,`

type options struct {
	results    string
	points     string
	weather    string
	soil       string
	catalog    string
	quantity   string
	factor     float64
	meta       int
	threshold  float64
	filterSoil bool
	cumulative bool
	export     string
	overwrite  bool
	demo       string
	remote     string
	tls        tlsconfig.Files
	asJSON     bool
	noColor    bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	color.NoColor = color.NoColor || opts.noColor || opts.asJSON

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if opts.remote != "" {
		err = runRemote(ctx, opts, stdout)
	} else {
		err = runLocal(ctx, opts, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("photorad", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.results, "results", "", "simulation results file (one line per hour)")
	fs.StringVar(&o.points, "points", "", "grid points file (one line per point)")
	fs.StringVar(&o.weather, "weather", "", "EnergyPlus weather file of the site")
	fs.StringVar(&o.soil, "soil", "", "soil hardiness dataset (JSON)")
	fs.StringVar(&o.catalog, "catalog", "", "plant catalog (CSV)")
	fs.StringVar(&o.quantity, "quantity", "irradiance", "results quantity: irradiance or illuminance")
	fs.Float64Var(&o.factor, "factor", 0, "conversion factor to PAR (0 uses the quantity's default)")
	fs.IntVar(&o.meta, "meta", ports.DefaultMetaColumns, "leading metadata columns in the results file")
	fs.Float64Var(&o.threshold, "threshold", domain.DefaultQualificationThreshold, "within-range fraction a plant must exceed")
	fs.BoolVar(&o.filterSoil, "filter-soil", false, "reject plants whose temperature range excludes the site's")
	fs.BoolVar(&o.cumulative, "cumulative", false, "also compute grow-season cumulative DLI")
	fs.StringVar(&o.export, "export", "", "write the validated catalog to this CSV path")
	fs.BoolVar(&o.overwrite, "overwrite", false, "replace an existing export file, keeping a backup")
	fs.StringVar(&o.demo, "demo", "", "generate a synthetic model and site in this directory and analyze it")
	fs.StringVar(&o.remote, "remote", "", "send the analysis to a photorad gRPC server at host:port; input paths are read inside its DATA_DIR")
	fs.StringVar(&o.tls.Cert, "tls-cert", "", "client certificate for -remote")
	fs.StringVar(&o.tls.Key, "tls-key", "", "client key for -remote")
	fs.StringVar(&o.tls.CA, "tls-ca", "", "CA certificate for -remote")
	fs.BoolVar(&o.asJSON, "json", false, "print the analysis as JSON")
	fs.BoolVar(&o.noColor, "no-color", false, "disable coloured output")
	fs.BoolVar(&o.verbose, "verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.demo != "" {
		return o, nil
	}
	required := []struct{ name, value string }{
		{"results", o.results}, {"points", o.points}, {"weather", o.weather}, {"catalog", o.catalog},
	}
	for _, r := range required {
		if r.value == "" {
			return o, fmt.Errorf("-%s is required (or use -demo)", r.name)
		}
	}
	if o.soil == "" && o.remote == "" {
		return o, fmt.Errorf("-soil is required for a local analysis")
	}
	return o, nil
}

// loadPlants reads the catalog, or the built-in demo catalog, and exports
// it when requested
func loadPlants(o options) ([]*domain.Plant, error) {
	var plants []*domain.Plant
	var err error
	if o.catalog != "" {
		plants, err = catalog.Read(o.catalog)
	} else {
		plants, err = catalog.ParseText(demoPlants)
	}
	if err != nil {
		return nil, err
	}

	if o.export != "" {
		if err := catalog.Write(o.export, plants, o.overwrite); err != nil {
			return nil, err
		}
	}
	return plants, nil
}

// prepareDemo writes a synthetic scenario into o.demo and points o at it
func prepareDemo(ctx context.Context, o *options, soil domain.SoilRepository) error {
	if err := os.MkdirAll(o.demo, 0o755); err != nil {
		return fmt.Errorf("failed to create demo directory: %w", err)
	}
	sc, err := mock.NewSyntheticSky(600, 0.2, time.Now().UnixNano()).WriteScenario(o.demo, 25, "Ithaca", -76.5, 42.44)
	if err != nil {
		return err
	}
	o.results, o.points, o.weather = sc.ResultsPath, sc.PointsPath, sc.WeatherPath
	o.quantity, o.meta = domain.Irradiance.String(), ports.DefaultMetaColumns

	log.Info().Str("dir", o.demo).Msg("synthetic scenario written")
	return soil.SaveRecord(ctx, domain.SoilRecord{
		Key: "14850", Longitude: -76.49, Latitude: 42.45, Zone: "5b", TMin: -15, TMax: -10,
	})
}

func runLocal(ctx context.Context, o options, stdout io.Writer) error {
	soil := memory.NewSoilRepository()
	if o.demo != "" {
		if err := prepareDemo(ctx, &o, soil); err != nil {
			return err
		}
	}
	if o.soil != "" {
		records, err := soildata.ReadFile(o.soil)
		if err != nil {
			return err
		}
		if err := soildata.Import(ctx, soil, records); err != nil {
			return err
		}
	}

	plants, err := loadPlants(o)
	if err != nil {
		return err
	}
	quantity, err := domain.ParseQuantity(o.quantity)
	if err != nil {
		return err
	}

	analyzer, err := ports.NewAnalyzer(soil, ports.AnalyzerConfig{CacheSize: 1, Threshold: o.threshold})
	if err != nil {
		return err
	}
	analysis, err := analyzer.Analyze(ctx, ports.AnalysisRequest{
		Dataset: ports.DatasetRequest{
			ResultsPath: o.results,
			PointsPath:  o.points,
			Quantity:    quantity,
			Factor:      o.factor,
			MetaColumns: o.meta,
		},
		WeatherPath: o.weather,
		Plants:      plants,
		Options: domain.SelectionOptions{
			FilterBySoilTemp: o.filterSoil,
			Threshold:        o.threshold,
			Cumulative:       o.cumulative,
		},
	})
	if err != nil {
		return err
	}

	if o.asJSON {
		return writeJSON(stdout, wire.Analysis(analysis))
	}
	_, err = io.WriteString(stdout, report.Render(analysis))
	return err
}

func runRemote(ctx context.Context, o options, stdout io.Writer) error {
	if o.demo != "" {
		return fmt.Errorf("-demo writes local files and cannot be combined with -remote")
	}
	plants, err := loadPlants(o)
	if err != nil {
		return err
	}

	creds := insecure.NewCredentials()
	if o.tls.Enabled() {
		tlsCfg, err := o.tls.Client("")
		if err != nil {
			return err
		}
		creds = credentials.NewTLS(tlsCfg)
	}
	conn, err := grpc.NewClient(o.remote, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", o.remote, err)
	}
	defer conn.Close()

	req := &api.AnalyzePlantsRequest{
		Dataset: api.Dataset{
			ResultsPath: o.results,
			PointsPath:  o.points,
			Quantity:    o.quantity,
			Factor:      o.factor,
			MetaColumns: &o.meta,
		},
		WeatherPath:      o.weather,
		FilterBySoilTemp: o.filterSoil,
		Threshold:        o.threshold,
		Cumulative:       o.cumulative,
	}
	for _, p := range plants {
		req.Plants = append(req.Plants, wire.Plant(p))
	}

	resp, err := api.NewClient(conn).AnalyzePlants(ctx, req)
	if err != nil {
		return err
	}
	if o.asJSON {
		return writeJSON(stdout, resp)
	}

	fmt.Fprintln(stdout, resp.Location.Summary)
	for _, s := range resp.Selections {
		fmt.Fprintf(stdout, "\n%s (selected: %t)\n%s\n%s\n", s.Plant, s.Selected, s.Report, s.LegendTitle)
	}
	fmt.Fprintf(stdout, "\n%s\nSelected: %v\n", resp.Legend, resp.Selection)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
