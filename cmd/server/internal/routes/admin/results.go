package admin

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/cmd/server/internal/render"
	"github.com/psytestlab/results-api/cmd/server/internal/response"
)

// ViewProject renders one project's results, most recent first.
func (h *Handler) ViewProject(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ViewProject")
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

	page := render.ResultsPage{
		Tables: []render.ProjectTable{
			render.ProjectTableFrom(project, csrfToken(), results),
		},
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "rendered project results")
	return c.Render(http.StatusOK, "results.html", page)
}

// ViewAll renders every project's results grouped by project name.
func (h *Handler) ViewAll(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ViewAll")
	defer span.End()

	grouped, err := models.ResultsGrouped(ctx, h.DB)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query results")
		return response.InternalServerError
	}

	projects := make([]string, 0, len(grouped))
	for project := range grouped {
		projects = append(projects, project)
	}
	sort.Strings(projects)

	token := csrfToken()
	page := render.ResultsPage{Tables: make([]render.ProjectTable, 0, len(projects))}
	for _, project := range projects {
		page.Tables = append(
			page.Tables,
			render.ProjectTableFrom(project, token, grouped[project]),
		)
	}

	span.SetAttributes(attribute.Int("projects", len(projects)))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "rendered grouped results")
	return c.Render(http.StatusOK, "results.html", page)
}
