package dto

type CreatePostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CreateQuoteRequest struct {
	Text string `json:"text"`
}

type RepostRequest struct {
	Comment string `json:"comment"`
}
