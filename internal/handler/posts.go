package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func postIDParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("postID"))
}

func (h *Handler) postsFeed(c *gin.Context) {
	posts, err := h.services.Post.FindFeed(c.Request.Context(), h.viewerID(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsUploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errImageRequired.Error()))
		return
	}

	url, err := h.services.Media.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsGetThread(c *gin.Context) {
	thread, err := h.services.Post.FindThread(c.Request.Context(), postIDParam(c), h.viewerID(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	author, err := h.services.UserCache.FindByID(c.Request.Context(), userID)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), author.ID, h.viewerID(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author.Author(), "posts": posts})
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	resp, err := h.services.Post.Delete(c.Request.Context(), user.ID, postIDParam(c))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) postsQuote(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	quote, err := h.services.Post.CreateQuote(c.Request.Context(), user.ID, postIDParam(c), input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, *quote)
}
