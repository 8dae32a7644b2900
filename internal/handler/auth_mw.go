package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func userFromClaims(claims jwt.MapClaims) (*model.User, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, errInvalidClaims
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return nil, errInvalidClaims
	}

	user := model.User{
		ID:       id,
		Username: username,
	}
	if displayName, ok := claims["display_name"].(string); ok && displayName != "" {
		user.DisplayName = &displayName
	}
	if iconURL, ok := claims["icon_url"].(string); ok && iconURL != "" {
		user.IconURL = &iconURL
	}

	return &user, nil
}

func (h *Handler) getUserDataFromAccessToken(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errNotAuthorized, err.Error())
	}

	identity, err := userFromClaims(claims)
	if err != nil {
		return nil, err
	}

	return h.services.UserCache.CreateOrGet(ctx, *identity)
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	user, err := h.getUserDataFromAccessToken(c.Request.Context(), accessToken)
	if err != nil {
		if errors.Is(err, errNotAuthorized) {
			c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		} else {
			newErrorResponse(c, err)
		}
		c.Abort()
		return
	}

	c.Set(userContextKey, *user)

	c.Next()
}
