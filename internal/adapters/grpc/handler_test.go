package grpc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/photorad/photoRad/internal/adapters/memory"
	"github.com/photorad/photoRad/internal/adapters/mock"
	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

// startTestServer creates an in-process gRPC server over a synthetic
// four-point model and returns a connected client with the scenario paths.
// The server is stopped when the test ends.
func startTestServer(t *testing.T) (*api.Client, mock.Scenario) {
	t.Helper()

	dir := t.TempDir()
	sc, err := mock.NewSyntheticSky(600, 0.1, 42).WriteScenario(dir, 4, "Ithaca", -76.5, 42.44)
	if err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}

	soil := memory.NewSoilRepository()
	_ = soil.SaveRecord(context.Background(), domain.SoilRecord{
		Key: "14850", Longitude: -76.49, Latitude: 42.45, Zone: "5b", TMin: -15, TMax: -10,
	})
	analyzer, err := ports.NewAnalyzer(soil, ports.AnalyzerConfig{CacheSize: 4, CacheTTL: time.Minute, DataDir: dir})
	if err != nil {
		t.Fatalf("failed to create analyzer: %v", err)
	}
	handler := NewPhotoRadHandler(analyzer)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := grpc.NewServer()
	api.RegisterPhotoRadServer(srv, handler)

	go srv.Serve(lis)
	t.Cleanup(func() {
		srv.GracefulStop()
	})

	conn, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return api.NewClient(conn), sc
}

func dataset(sc mock.Scenario) api.Dataset {
	return api.Dataset{ResultsPath: sc.ResultsPath, PointsPath: sc.PointsPath}
}

func TestComputeDLI(t *testing.T) {
	client, sc := startTestServer(t)
	ctx := context.Background()

	resp, err := client.ComputeDLI(ctx, &api.ComputeDLIRequest{Dataset: dataset(sc), Cumulative: true})
	if err != nil {
		t.Fatalf("ComputeDLI failed: %v", err)
	}
	if resp.Points != 4 || resp.Days != domain.DaysPerYear {
		t.Errorf("expected 4 points over %d days, got %d over %d", domain.DaysPerYear, resp.Points, resp.Days)
	}
	if len(resp.Monthly) != 12 || len(resp.Monthly[0]) != 4 {
		t.Fatalf("expected 12x4 monthly means, got %d months", len(resp.Monthly))
	}
	if len(resp.MonthlyCumulative) != 12 || len(resp.AnnualCumulative) != 4 {
		t.Error("expected cumulative values when requested")
	}
	// point 0 is unshaded, point 3 is the most shaded
	if resp.Annual[0] <= resp.Annual[3] {
		t.Errorf("expected point 0 brighter than point 3, got %v", resp.Annual)
	}
	// June is brighter than December in the northern hemisphere sky
	if resp.Monthly[5][0] <= resp.Monthly[11][0] {
		t.Errorf("expected June above December, got %v and %v", resp.Monthly[5][0], resp.Monthly[11][0])
	}
}

func TestComputeDLI_Errors(t *testing.T) {
	client, sc := startTestServer(t)
	ctx := context.Background()

	zero := 0
	cases := []struct {
		name string
		ds   api.Dataset
		code codes.Code
	}{
		{"missing path", api.Dataset{PointsPath: sc.PointsPath}, codes.InvalidArgument},
		{"unknown file", api.Dataset{ResultsPath: filepath.Join(filepath.Dir(sc.ResultsPath), "x.ill"), PointsPath: sc.PointsPath}, codes.NotFound},
		{"outside data directory", api.Dataset{ResultsPath: filepath.Join(t.TempDir(), "x.ill"), PointsPath: sc.PointsPath}, codes.InvalidArgument},
		{"bad quantity", api.Dataset{ResultsPath: sc.ResultsPath, PointsPath: sc.PointsPath, Quantity: "radiance"}, codes.InvalidArgument},
		{"shape mismatch", api.Dataset{ResultsPath: sc.ResultsPath, PointsPath: sc.PointsPath, MetaColumns: &zero}, codes.InvalidArgument},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ComputeDLI(ctx, &api.ComputeDLIRequest{Dataset: tt.ds})
			if status.Code(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestComputeDLI_StatusHidesContent(t *testing.T) {
	client, sc := startTestServer(t)

	secret := filepath.Join(filepath.Dir(sc.ResultsPath), "secret.txt")
	if err := os.WriteFile(secret, []byte("id x y db_password=hunter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := client.ComputeDLI(context.Background(), &api.ComputeDLIRequest{
		Dataset: api.Dataset{ResultsPath: secret, PointsPath: sc.PointsPath},
	})
	st, _ := status.FromError(err)
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if st.Message() != "parse error on line 1" {
		t.Errorf("expected only the kind and line, got %q", st.Message())
	}
}

func TestDescribeLocation(t *testing.T) {
	client, sc := startTestServer(t)
	ctx := context.Background()

	resp, err := client.DescribeLocation(ctx, &api.DescribeLocationRequest{WeatherPath: sc.WeatherPath})
	if err != nil {
		t.Fatalf("DescribeLocation failed: %v", err)
	}
	loc := resp.Location
	if loc.HardinessZone != "5b" || loc.Match.Key != "14850" {
		t.Errorf("expected zone 5b from record 14850, got %+v", loc)
	}
	if !strings.HasPrefix(loc.Name, "Ithaca") {
		t.Errorf("expected Ithaca location, got %q", loc.Name)
	}
	if len(loc.MonthlyPhotoperiod) != 12 {
		t.Errorf("expected 12 monthly photoperiods, got %d", len(loc.MonthlyPhotoperiod))
	}

	_, err = client.DescribeLocation(ctx, &api.DescribeLocationRequest{WeatherPath: filepath.Join(filepath.Dir(sc.WeatherPath), "none.epw")})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestAnalyzePlants(t *testing.T) {
	client, sc := startTestServer(t)
	ctx := context.Background()

	resp, err := client.AnalyzePlants(ctx, &api.AnalyzePlantsRequest{
		Dataset:     dataset(sc),
		WeatherPath: sc.WeatherPath,
		Plants: []api.Plant{
			{Name: "Anything", DLI: "0 1000"},
			{Name: "Nothing", DLI: "900 1000"},
		},
	})
	if err != nil {
		t.Fatalf("AnalyzePlants failed: %v", err)
	}

	if resp.AnalysisID == "" {
		t.Error("expected an analysis id")
	}
	if len(resp.Selections) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(resp.Selections))
	}
	if !resp.Selections[0].Selected || resp.Selections[1].Selected {
		t.Errorf("unexpected selected flags: %v, %v", resp.Selections[0].Selected, resp.Selections[1].Selected)
	}
	if resp.Selections[0].Fractions.Within != 1 {
		t.Errorf("expected every point within range, got %v", resp.Selections[0].Fractions)
	}
	if len(resp.Selection) != 1 || resp.Selection[0] != "Anything" {
		t.Errorf("expected [Anything], got %v", resp.Selection)
	}
	// combinations: {Anything, Nothing}, {Anything}, {Nothing}, {}
	if len(resp.Combinations) != 4 || resp.SelectionIndex != 1 {
		t.Errorf("expected 4 combinations with selection at 1, got %v at %d", resp.Combinations, resp.SelectionIndex)
	}
	for p, idx := range resp.PointIndex {
		if idx != 1 {
			t.Errorf("point %d: expected combination 1, got %d", p, idx)
		}
	}
}

func TestAnalyzePlants_InvalidPlant(t *testing.T) {
	client, sc := startTestServer(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		plants []api.Plant
	}{
		{"no plants", nil},
		{"missing dli", []api.Plant{{Name: "Basil"}}},
		{"unparsable dli", []api.Plant{{Name: "Basil", DLI: "ten"}}},
		{"month out of range", []api.Plant{{Name: "Basil", DLI: "10 20", GrowingSeason: "13"}}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AnalyzePlants(ctx, &api.AnalyzePlantsRequest{
				Dataset:     dataset(sc),
				WeatherPath: sc.WeatherPath,
				Plants:      tt.plants,
			})
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}
