// Package httpapi exposes the PhotoRad service as a JSON HTTP API
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/photorad/photoRad/internal/adapters/wire"
	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

var validate = validator.New()

// NewApp builds the Fiber app with the health endpoint and API routes
func NewApp(service ports.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "photorad",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             16 * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "photorad",
		})
	})

	RegisterRoutes(app, service)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app
func RegisterRoutes(app *fiber.App, service ports.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/dli", func(c *fiber.Ctx) error {
		var req api.ComputeDLIRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		dataset, err := wire.DatasetRequest(req.Dataset)
		if err != nil {
			return toFiberError(err, "invalid dataset")
		}

		dli, err := service.LoadDLI(c.UserContext(), dataset)
		if err != nil {
			return toFiberError(err, "failed to load DLI dataset")
		}
		resp, err := wire.DLIResponse(dli, &req)
		if err != nil {
			return toFiberError(err, "failed to summarize DLI dataset")
		}
		return c.JSON(resp)
	})

	v1.Post("/location", func(c *fiber.Ctx) error {
		var req api.DescribeLocationRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		loc, err := service.LoadLocation(c.UserContext(), req.WeatherPath)
		if err != nil {
			return toFiberError(err, "failed to resolve location")
		}
		return c.JSON(api.DescribeLocationResponse{Location: wire.Location(loc)})
	})

	v1.Post("/analysis", func(c *fiber.Ctx) error {
		var req api.AnalyzePlantsRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		analysisReq, err := wire.AnalysisRequest(&req)
		if err != nil {
			return toFiberError(err, "invalid analysis request")
		}

		analysis, err := service.Analyze(c.UserContext(), analysisReq)
		if err != nil {
			return toFiberError(err, "analysis failed")
		}
		return c.Status(fiber.StatusCreated).JSON(wire.Analysis(analysis))
	})

	// inputs edited in place are only re-read after the cache is dropped
	v1.Delete("/cache", func(c *fiber.Ctx) error {
		service.Invalidate()
		log.Info().Msg("input cache invalidated")
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// bind decodes and validates a JSON request body
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// toFiberError maps domain errors to HTTP statuses. Messages carry the kind
// of failure only, never paths or file content.
func toFiberError(err error, internalMsg string) error {
	msg := wire.ErrorMessage(err)
	if msg != "" {
		log.Warn().Err(err).Msg(internalMsg)
	}
	switch {
	case errors.Is(err, domain.ErrFileNotFound), errors.Is(err, domain.ErrSoilRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, msg)
	case errors.Is(err, domain.ErrPathOutsideRoot), errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrRange), errors.Is(err, domain.ErrShapeMismatch):
		return fiber.NewError(fiber.StatusBadRequest, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, context.DeadlineExceeded.Error())
	}
	log.Error().Err(err).Msg(internalMsg)
	return fiber.NewError(fiber.StatusInternalServerError, internalMsg)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("http request")
	return err
}
