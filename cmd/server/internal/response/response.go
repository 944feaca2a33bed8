package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psytestlab/results-api/internal/types"
)

var (
	InternalServerError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError("something went wrong"),
	)
	NotFoundError = echo.NewHTTPError(http.StatusNotFound, types.StringError("not found"))
)

// Localized validation messages the submitting client displays verbatim.
const (
	MsgNoSuchTest         = "Нет такого теста"
	MsgInvalidTestResults = "Неверный результат теста"
)
