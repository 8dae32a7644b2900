package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized       = errors.New("user is not authorized")
	errInvalidClaims       = fmt.Errorf("%w: invalid token claims", errNotAuthorized)
	errInvalidID           = errors.New("invalid ID")
	errImageRequired       = errors.New("image file is required")
	errInvalidClientOrigin = errors.New("client origin must be an absolute http or https URL")
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrIntegrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(c *gin.Context, err error) {
	c.JSON(statusFromError(err), dto.NewErrorResponse(err))
}
