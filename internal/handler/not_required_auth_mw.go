package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware identifies the viewer when a valid token is present and
// lets the request through as anonymous when the token is missing or rejected. A failure
// to load the viewer is reported, not downgraded to anonymous.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	user, err := h.getUserDataFromAccessToken(c.Request.Context(), accessToken)
	if errors.Is(err, errNotAuthorized) {
		c.Next()
		return
	}
	if err != nil {
		newErrorResponse(c, err)
		c.Abort()
		return
	}

	c.Set(userContextKey, *user)

	c.Next()
}
