package handler

import (
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	resp, err := h.services.Post.CreateComment(c.Request.Context(), user.ID, postIDParam(c), input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
