package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const name string = "github.com/psytestlab/results-api/cmd/server/internal/middleware"

var tracer = otel.Tracer(name)

// SessionName is the cookie holding the admin session.
const SessionName = "resultsapi_session"

const sessionKeyAdmin = "admin"

// LoginPath is where unauthenticated requests for protected pages land.
const LoginPath = "/admin/login/"

func adminSession(c echo.Context) (*sessions.Session, error) {
	return session.Get(SessionName, c)
}

func IsAuthenticated(c echo.Context) bool {
	sess, err := adminSession(c)
	if err != nil {
		return false
	}

	authed, ok := sess.Values[sessionKeyAdmin].(bool)
	return ok && authed
}

// SignIn marks the session authenticated and persists the cookie.
func SignIn(c echo.Context) error {
	sess, err := adminSession(c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values[sessionKeyAdmin] = true

	return sess.Save(c.Request(), c.Response())
}

// SignOut invalidates the session cookie.
func SignOut(c echo.Context) error {
	sess, err := adminSession(c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:   "/",
		MaxAge: -1,
	}
	delete(sess.Values, sessionKeyAdmin)

	return sess.Save(c.Request(), c.Response())
}

// RequireAdmin gates the view, delete and export endpoints behind the admin
// session. Unauthenticated callers are redirected to the login page, not
// served an error.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, span := tracer.Start(c.Request().Context(), "RequireAdmin")
			defer span.End()

			if !IsAuthenticated(c) {
				span.RecordError(nil)
				span.SetStatus(codes.Ok, "redirecting unauthenticated request to login")
				return c.Redirect(http.StatusFound, LoginPath)
			}

			span.RecordError(nil)
			span.SetStatus(codes.Ok, "validated admin session")
			return next(c)
		}
	}
}
