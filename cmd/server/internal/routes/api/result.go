package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/cmd/server/internal/response"
	"github.com/psytestlab/results-api/internal/types"
)

// AddResult validates and persists one test submission.
//
// The submitter's network address comes from the inbound connection, never
// from the request data. Clients must not be able to spoof it.
func (h *Handler) AddResult(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "AddResult")
	defer span.End()

	span.AddEvent("received result submission")

	requestTime, ok := c.Get("time").(time.Time)
	if !ok {
		span.RecordError(errMissingRequestTime)
		span.SetStatus(codes.Error, fmt.Sprintf("time: %s", errMissingRequestTime))
		return response.InternalServerError
	}

	type requestData struct {
		ProjectName      string `query:"project_name"      validate:"required"`
		Name             string `query:"name"              validate:"required"`
		Duration         string `query:"duration"          validate:"required"`
		ResultParameters string `query:"result_parameters"`
	}
	var rdata requestData

	span.AddEvent("parsing request query parameters")
	err := (&echo.DefaultBinder{}).BindQueryParams(c, &rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	span.AddEvent("validating request data")
	err = c.Validate(rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	span.SetAttributes(
		attribute.String("project.name", rdata.ProjectName),
		attribute.String("submitter.name", rdata.Name),
	)

	span.AddEvent("parsing duration as whole seconds")
	duration, err := strconv.ParseInt(rdata.Duration, 10, 64)
	if err != nil {
		span.SetStatus(codes.Ok, "duration is not an integer")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(response.MsgInvalidTestResults),
		)
	}

	span.AddEvent("checking project against the manifest")
	m := h.Manifest.Current()
	if !m.Has(rdata.ProjectName) {
		span.SetStatus(codes.Ok, "unknown project")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(response.MsgNoSuchTest),
		)
	}

	span.AddEvent("parsing result parameters")
	parameters, err := models.ParseParameters(rdata.ResultParameters)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse result parameters")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(response.MsgInvalidTestResults),
		)
	}

	result := models.TestResult{
		ProjectName: rdata.ProjectName,
		Name:        rdata.Name,
		IP:          c.RealIP(),
		EndTime:     requestTime,
		Duration:    duration,
		Parameters:  parameters,
	}

	span.AddEvent("checking parameter names against the manifest")
	if !m.Matches(rdata.ProjectName, result.ParameterNames()) {
		span.SetStatus(codes.Ok, "parameter names do not match the manifest")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(response.MsgInvalidTestResults),
		)
	}

	span.AddEvent("inserting into database")
	err = models.CreateResult(ctx, h.DB, &result)
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int64("result.id", result.ID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "stored result")
	return c.JSON(http.StatusOK, result.AsResponse())
}
