package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/cmd/server/internal/report"
	"github.com/psytestlab/results-api/cmd/server/internal/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadAll serves a workbook with one sheet per project.
func (h *Handler) DownloadAll(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DownloadAll")
	defer span.End()

	grouped, err := models.ResultsGrouped(ctx, h.DB)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query results")
		return response.InternalServerError
	}

	return h.serveWorkbook(c, grouped)
}

// DownloadProject serves a single-sheet workbook for one project.
func (h *Handler) DownloadProject(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DownloadProject")
	defer span.End()

	project := c.Param("project_name")
	span.SetAttributes(attribute.String("project.name", project))

	if !h.Manifest.Current().Has(project) {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "unknown project")
		return response.NotFoundError
	}

	results, err := models.ResultsByProject(ctx, h.DB, project)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query results")
		return response.InternalServerError
	}

	return h.serveWorkbook(c, map[string][]models.TestResult{project: results})
}

func (h *Handler) serveWorkbook(c echo.Context, grouped map[string][]models.TestResult) error {
	_, span := tracer.Start(c.Request().Context(), "serveWorkbook")
	defer span.End()

	span.SetAttributes(attribute.Int("projects", len(grouped)))

	workbook, err := report.Workbook(grouped)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build workbook")
		return response.InternalServerError
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		`attachment; filename="`+report.FileName+`"`,
	)
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().WriteHeader(http.StatusOK)

	err = workbook.Write(c.Response())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to stream workbook")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "served workbook")
	return nil
}
