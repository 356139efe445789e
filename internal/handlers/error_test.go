package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.gatehouse/internal/model"
)

func TestHTTPErrorHandler(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		err    error
		status int
	}{
		{model.ErrorValidation, http.StatusBadRequest},
		{model.ErrorNotAMember, http.StatusUnauthorized},
		{model.ErrorNoModeratorsAvailable, http.StatusUnprocessableEntity},
		{model.ErrorNotAuthorized, http.StatusForbidden},
		{model.ErrorPostNotFound, http.StatusNotFound},
		{model.ErrorNotificationNotFound, http.StatusNotFound},
		{model.ErrorAlreadyModerated, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", model.ErrorAlreadyModerated), http.StatusConflict},
		{fmt.Errorf("database on fire"), http.StatusInternalServerError},
	}

	server := echo.New()
	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			recorder := httptest.NewRecorder()
			context := server.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), recorder)
			HTTPErrorHandler(c.err, context)
			assert.Equal(c.status, recorder.Code)
		})
	}

	t.Run("storage errors do not leak detail", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		context := server.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), recorder)
		HTTPErrorHandler(fmt.Errorf("sqlite: disk I/O error at offset 4096"), context)
		assert.Equal(http.StatusInternalServerError, recorder.Code)
		assert.NotContains(recorder.Body.String(), "sqlite")
	})
}
