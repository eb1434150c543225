package handler

import (
	"errors"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/dto"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindValidation:        http.StatusBadRequest,
	apperror.KindNotFound:          http.StatusNotFound,
	apperror.KindConflict:          http.StatusConflict,
	apperror.KindInvalidTransition: http.StatusConflict,
	apperror.KindUnauthorized:      http.StatusUnauthorized,
	apperror.KindUnavailable:       http.StatusServiceUnavailable,
	apperror.KindInternal:          http.StatusInternalServerError,
}

// NewHTTPErrorHandler renders every error as {"message": ...}. Internal
// failures are logged and answered with a generic message.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, "internal server error"

		var he *echo.HTTPError
		var appErr *apperror.Error
		switch {
		case errors.As(err, &appErr):
			status = kindStatus[appErr.Kind]
			if status == 0 {
				status = http.StatusInternalServerError
			}
			if status != http.StatusInternalServerError {
				message = appErr.Message
			}
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, dto.MessageResponse{Message: message})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
