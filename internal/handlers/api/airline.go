package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/jszwec/csvutil"

	"airlinelookup/internal/metrics"
	"airlinelookup/internal/models"
	"airlinelookup/internal/sources"
	"airlinelookup/internal/validation"
)

// Lookuper resolves a query to a merged airline record.
type Lookuper interface {
	Lookup(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error)
}

// AirlineHandler serves airline lookups via JSON API.
type AirlineHandler struct {
	svc Lookuper
}

// NewAirlineHandler creates a new airline handler.
func NewAirlineHandler(svc Lookuper) *AirlineHandler {
	return &AirlineHandler{svc: svc}
}

// Get looks up an airline by name, iata or icao query parameter. The record is
// returned as JSON, or as a one-row CSV when format=csv.
func (h *AirlineHandler) Get(c fiber.Ctx) error {
	q, err := validation.ParseQuery(c.Query("name"), c.Query("iata"), c.Query("icao"))
	if err != nil {
		metrics.RecordLookup(q.CacheKey(), models.OutcomeInvalid)
		return jsonError(c, fiber.StatusBadRequest, "Provide name, iata, or icao")
	}

	rec, err := h.svc.Lookup(c.Context(), q)
	if err != nil {
		status, message := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			slog.Warn("airline lookup failed", "query", q.SearchTerm(), "status", status, "error", err)
		} else {
			slog.Info("airline lookup failed", "query", q.SearchTerm(), "status", status, "error", err)
		}
		return jsonError(c, status, message)
	}

	if c.Query("format") == "csv" {
		return sendCSV(c, rec)
	}
	return c.JSON(rec)
}

// errorStatus maps lookup errors to an HTTP status and a short client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, validation.ErrInvalidRequest):
		return fiber.StatusBadRequest, "Provide name, iata, or icao"
	case errors.Is(err, sources.ErrNotFound):
		return fiber.StatusNotFound, "Airline not found"
	case errors.Is(err, sources.ErrTimeout):
		return fiber.StatusGatewayTimeout, "Upstream source timed out"
	case errors.Is(err, sources.ErrUpstreamUnavailable):
		return fiber.StatusServiceUnavailable, "Upstream source unavailable"
	default:
		return fiber.StatusInternalServerError, "Server Error"
	}
}

func sendCSV(c fiber.Ctx, rec *models.AirlineRecord) error {
	body, err := csvutil.Marshal([]models.AirlineRecord{*rec})
	if err != nil {
		slog.Error("failed to encode csv", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Server Error")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="airline.csv"`)
	return c.Send(body)
}
