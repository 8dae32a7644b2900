package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsToggleLike(c *gin.Context) {
	user := h.getUserFromRequest(c)

	resp, err := h.services.Interaction.ToggleLike(c.Request.Context(), user.ID, postIDParam(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) postsToggleBookmark(c *gin.Context) {
	user := h.getUserFromRequest(c)

	resp, err := h.services.Interaction.ToggleBookmark(c.Request.Context(), user.ID, postIDParam(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) postsToggleRepost(c *gin.Context) {
	user := h.getUserFromRequest(c)

	// the body is optional
	var input dto.RepostRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	resp, err := h.services.Interaction.ToggleRepost(c.Request.Context(), user.ID, postIDParam(c), input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) postsGetBookmarks(c *gin.Context) {
	user := h.getUserFromRequest(c)

	posts, err := h.services.Interaction.FindUserBookmarks(c.Request.Context(), user.ID)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
