package api

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	servermiddleware "github.com/psytestlab/results-api/cmd/server/internal/middleware"
	"github.com/psytestlab/results-api/internal/config"
	"github.com/psytestlab/results-api/internal/manifest"
)

const name = "github.com/psytestlab/results-api/cmd/server/internal/routes/api"

var tracer = otel.Tracer(name)

var errMissingRequestTime = errors.New("request time missing from context")

type Handler struct {
	DB       *gorm.DB
	Manifest *manifest.Store
	config   *config.Config
}

func NewHandler(db *gorm.DB, manifestStore *manifest.Store, cfg *config.Config) Handler {
	return Handler{
		DB:       db,
		Manifest: manifestStore,
		config:   cfg,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api")

	// submission and manifest reload are open to the test-running client
	apiGroup.POST("/add-result/", h.AddResult)
	apiGroup.GET("/update-projects/", h.UpdateProjects)

	// export and delete are admin-only
	protected := apiGroup.Group("", servermiddleware.RequireAdmin())
	protected.GET("/download/", h.DownloadAll)
	protected.POST("/download/", h.DownloadAll)
	protected.GET("/download/:project_name/", h.DownloadProject)
	protected.POST("/download/:project_name/", h.DownloadProject)
	protected.POST("/results/:project_name/delete/", h.DeleteResults)
}
