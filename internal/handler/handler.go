package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const userContextKey = "user"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services     *service.Service
	db           Pinger
	clientOrigin string
}

// New fails if clientOrigin is not an absolute http(s) origin, which CORS requires.
func New(services *service.Service, db Pinger, clientOrigin string) (*Handler, error) {
	origin, err := url.Parse(clientOrigin)
	if err != nil || (origin.Scheme != "http" && origin.Scheme != "https") || origin.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidClientOrigin, clientOrigin)
	}

	return &Handler{
		services:     services,
		db:           db,
		clientOrigin: clientOrigin,
	}, nil
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), metricsMiddleware)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.clientOrigin},
		AllowMethods:     []string{"POST", "GET", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", h.notRequiredAuthMiddleware, h.postsFeed)
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.POST("/uploadImage", h.authMiddleware, h.postsUploadImage)
			posts.GET("/author/:userID", h.notRequiredAuthMiddleware, h.postsGetByAuthor)
			posts.GET("/bookmarks", h.authMiddleware, h.postsGetBookmarks)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetThread)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/comments", h.authMiddleware, h.commentsCreate)
				post.POST("/quote", h.authMiddleware, h.postsQuote)
				post.POST("/like", h.authMiddleware, h.postsToggleLike)
				post.POST("/bookmark", h.authMiddleware, h.postsToggleBookmark)
				post.POST("/repost", h.authMiddleware, h.postsToggleRepost)
			}
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.User {
	userReq, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}

	user, ok := userReq.(model.User)
	if !ok {
		return nil
	}

	return &user
}

// viewerID is nil for anonymous requests.
func (h *Handler) viewerID(c *gin.Context) *uuid.UUID {
	user := h.getUserFromRequest(c)
	if user == nil {
		return nil
	}

	return &user.ID
}
