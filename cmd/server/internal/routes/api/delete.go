package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/cmd/server/internal/response"
)

// DeleteResults removes the selected results and sends the admin back to the
// project view. Parameters go with their result via the cascade.
func (h *Handler) DeleteResults(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteResults")
	defer span.End()

	project := c.Param("project_name")
	span.SetAttributes(attribute.String("project.name", project))

	form, err := c.FormParams()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Ok, "failed to parse form")
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse form")
	}

	// the form carries a csrf_token field, drop it before touching the ids
	form.Del("csrf_token")

	ids := make([]int64, 0, len(form["result_id"]))
	for _, raw := range form["result_id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			span.AddEvent("skipping non-numeric id")
			continue
		}
		ids = append(ids, id)
	}

	span.SetAttributes(attribute.Int("ids", len(ids)))

	err = models.DeleteResults(ctx, h.DB, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete results")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "deleted results")
	return c.Redirect(http.StatusSeeOther, "/admin/view-results/"+project+"/")
}
