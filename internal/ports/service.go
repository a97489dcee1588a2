package ports

import (
	"context"

	"github.com/photorad/photoRad/internal/domain"
)

// Service defines the operations the transports expose
// This is a PORT - Analyzer implements it; gRPC and HTTP adapters consume it
type Service interface {
	// LoadDLI returns the daily DLI values of a simulation output
	LoadDLI(ctx context.Context, req DatasetRequest) (*domain.DLIData, error)

	// LoadLocation returns the site profile of a weather file
	LoadLocation(ctx context.Context, weatherPath string) (*domain.LocationProfile, error)

	// Analyze runs plant selection for one site and grid
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)

	// Invalidate forgets every parsed input so edited files are read again
	Invalidate()
}

var _ Service = (*Analyzer)(nil)
