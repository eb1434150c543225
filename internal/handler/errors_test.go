package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-marketplace/internal/apperror"
	"food-marketplace/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.Validation("op", "email is required"), http.StatusBadRequest, "email is required"},
		{"not found", apperror.NotFound("op", "user not found"), http.StatusNotFound, "user not found"},
		{"conflict", apperror.Conflict("op", "cart is empty"), http.StatusConflict, "cart is empty"},
		{"invalid transition", apperror.InvalidTransition("op", "order is Delivered"), http.StatusConflict, "order is Delivered"},
		{"unauthorized", apperror.Unauthorized("op", "incorrect password"), http.StatusUnauthorized, "incorrect password"},
		{"unavailable", apperror.Unavailable("op", errors.New("dial"), "planner down"), http.StatusServiceUnavailable, "planner down"},
		{"internal hides cause", apperror.Internal("op", errors.New("no such table: orders")), http.StatusInternalServerError, "internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid req body"), http.StatusBadRequest, "invalid req body"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(logger.Discard())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			h(tc.err, c)

			assert.Equal(t, tc.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body["message"])
		})
	}
}
