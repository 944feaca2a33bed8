package admin

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	servermiddleware "github.com/psytestlab/results-api/cmd/server/internal/middleware"
	"github.com/psytestlab/results-api/internal/config"
	"github.com/psytestlab/results-api/internal/manifest"
)

const name = "github.com/psytestlab/results-api/cmd/server/internal/routes/admin"

var tracer = otel.Tracer(name)

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
	adminGroup := e.Group("/admin")

	adminGroup.GET("/login/", h.LoginForm)
	adminGroup.POST("/login/", h.Login)
	adminGroup.GET("/logout/", h.Logout)

	protected := adminGroup.Group("", servermiddleware.RequireAdmin())
	protected.GET("/view-results/", h.ViewAll)
	protected.GET("/view-results/:project_name/", h.ViewProject)
}

func csrfToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
