package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	servermiddleware "github.com/psytestlab/results-api/cmd/server/internal/middleware"
	"github.com/psytestlab/results-api/cmd/server/internal/render"
	"github.com/psytestlab/results-api/internal/validator"
)

func BuildEcho(logger *slog.Logger, sessionSecret string) (*echo.Echo, error) {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer: %w", err)
	}
	e.Renderer = renderer

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware("results-api"),
		slogecho.NewWithConfig(logger, slogecho.Config{}),
		// panics are logged with a stack, the caller only sees a generic 500
		middleware.Recover(),
		session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))),
		servermiddleware.Time("time"),
	)

	e.GET("/health/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	return e, nil
}
