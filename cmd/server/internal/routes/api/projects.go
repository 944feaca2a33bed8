package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/psytestlab/results-api/cmd/server/internal/response"
)

// UpdateProjects reloads the project manifest from its configuration file.
// The snapshot is replaced wholesale, in-flight requests keep whichever
// manifest they already read.
func (h *Handler) UpdateProjects(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "UpdateProjects")
	defer span.End()

	err := h.Manifest.Reload(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload manifest")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "reloaded manifest")
	return c.JSON(http.StatusOK, map[string][]string{
		"projects": h.Manifest.Current().Projects(),
	})
}
