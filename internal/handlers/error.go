package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.gatehouse/internal/model"
)

// HTTPErrorHandler maps the moderation error taxonomy onto HTTP statuses.
// Anything unrecognised is a storage-layer failure and surfaces as a
// retryable 500 without leaking internals.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpError *echo.HTTPError
	if errors.As(err, &httpError) {
		_ = c.JSON(httpError.Code, map[string]interface{}{"message": httpError.Message})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, model.ErrorValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrorNotAMember):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, model.ErrorNoModeratorsAvailable):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrorNotAuthorized):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, model.ErrorPostNotFound),
		errors.Is(err, model.ErrorNotificationNotFound),
		errors.Is(err, model.ErrorCommunityNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, model.ErrorAlreadyModerated):
		status, message = http.StatusConflict, err.Error()
	default:
		c.Logger().Errorf("request failed: %+v", err)
	}

	_ = c.JSON(status, map[string]interface{}{"message": message})
}
