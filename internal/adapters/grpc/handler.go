package grpc

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/photorad/photoRad/internal/adapters/wire"
	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

// PhotoRadHandler implements the gRPC PhotoRad service
type PhotoRadHandler struct {
	api.UnimplementedPhotoRadServer
	service  ports.Service
	validate *validator.Validate
}

// NewPhotoRadHandler creates a new gRPC handler
func NewPhotoRadHandler(service ports.Service) *PhotoRadHandler {
	return &PhotoRadHandler{
		service:  service,
		validate: validator.New(),
	}
}

// ComputeDLI returns per-point DLI statistics of a simulation output
func (h *PhotoRadHandler) ComputeDLI(ctx context.Context, req *api.ComputeDLIRequest) (*api.ComputeDLIResponse, error) {
	log.Info().Str("results", req.Dataset.ResultsPath).Msg("ComputeDLI called")

	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	dataset, err := wire.DatasetRequest(req.Dataset)
	if err != nil {
		return nil, toStatus(err, "invalid dataset")
	}

	dli, err := h.service.LoadDLI(ctx, dataset)
	if err != nil {
		log.Error().Err(err).Msg("failed to load DLI dataset")
		return nil, toStatus(err, "failed to load DLI dataset")
	}

	resp, err := wire.DLIResponse(dli, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to summarize DLI dataset")
		return nil, toStatus(err, "failed to summarize DLI dataset")
	}
	return resp, nil
}

// DescribeLocation resolves a weather file to its site profile
func (h *PhotoRadHandler) DescribeLocation(ctx context.Context, req *api.DescribeLocationRequest) (*api.DescribeLocationResponse, error) {
	log.Info().Str("weather", req.WeatherPath).Msg("DescribeLocation called")

	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	loc, err := h.service.LoadLocation(ctx, req.WeatherPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve location")
		return nil, toStatus(err, "failed to resolve location")
	}
	return &api.DescribeLocationResponse{Location: wire.Location(loc)}, nil
}

// AnalyzePlants runs plant selection for one site and grid
func (h *PhotoRadHandler) AnalyzePlants(ctx context.Context, req *api.AnalyzePlantsRequest) (*api.AnalyzePlantsResponse, error) {
	log.Info().
		Str("results", req.Dataset.ResultsPath).
		Str("weather", req.WeatherPath).
		Int("plants", len(req.Plants)).
		Msg("AnalyzePlants called")

	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	analysisReq, err := wire.AnalysisRequest(req)
	if err != nil {
		return nil, toStatus(err, "invalid analysis request")
	}

	analysis, err := h.service.Analyze(ctx, analysisReq)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return nil, toStatus(err, "analysis failed")
	}
	return wire.Analysis(analysis), nil
}

// toStatus maps domain errors to gRPC codes. Messages carry the kind of
// failure only; anything unrecognized is Internal with a generic message.
func toStatus(err error, internalMsg string) error {
	msg := wire.ErrorMessage(err)
	switch {
	case errors.Is(err, domain.ErrFileNotFound), errors.Is(err, domain.ErrSoilRecordNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, domain.ErrPathOutsideRoot), errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrRange), errors.Is(err, domain.ErrShapeMismatch):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, context.Canceled.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, context.DeadlineExceeded.Error())
	}
	return status.Error(codes.Internal, internalMsg)
}
