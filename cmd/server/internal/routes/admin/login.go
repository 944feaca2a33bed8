package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	servermiddleware "github.com/psytestlab/results-api/cmd/server/internal/middleware"
	"github.com/psytestlab/results-api/cmd/server/internal/models"
	"github.com/psytestlab/results-api/cmd/server/internal/render"
	"github.com/psytestlab/results-api/cmd/server/internal/response"
)

func (h *Handler) LoginForm(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "LoginForm")
	defer span.End()

	if servermiddleware.IsAuthenticated(c) {
		span.AddEvent("already authenticated")
		return c.Redirect(http.StatusFound, h.firstProjectPath())
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "served login form")
	return c.Render(http.StatusOK, "login.html", render.LoginPage{})
}

// Login checks the submitted password and establishes the admin session.
// A wrong password stays on the login page without setting a cookie.
func (h *Handler) Login(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Login")
	defer span.End()

	password := c.FormValue("password")

	authenticated, err := models.AuthenticateAdmin(
		ctx,
		h.DB,
		password,
		h.config.Admin.DefaultPassword,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check admin password")
		return response.InternalServerError
	}

	if !authenticated {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "rejected login attempt")
		return c.Render(http.StatusOK, "login.html", render.LoginPage{Error: "Неверный пароль"})
	}

	err = servermiddleware.SignIn(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to establish session")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "established admin session")
	return c.Redirect(http.StatusFound, h.firstProjectPath())
}

func (h *Handler) Logout(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "Logout")
	defer span.End()

	err := servermiddleware.SignOut(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to tear down session")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "tore down session")
	return c.Redirect(http.StatusFound, servermiddleware.LoginPath)
}

// firstProjectPath is where a fresh session lands: the view page of the
// manifest's first project, or the global view when no projects exist.
func (h *Handler) firstProjectPath() string {
	projects := h.Manifest.Current().Projects()
	if len(projects) == 0 {
		return "/admin/view-results/"
	}

	return "/admin/view-results/" + projects[0] + "/"
}
