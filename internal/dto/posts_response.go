package dto

import "github.com/BloggingApp/feed-service/internal/model"

type CreateCommentResponse struct {
	Comment      model.Post `json:"comment"`
	CommentCount int64      `json:"comment_count"`
}

type ToggleLikeResponse struct {
	IsLiked   bool  `json:"is_liked"`
	LikeCount int64 `json:"like_count"`
}

type ToggleBookmarkResponse struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

type ToggleRepostResponse struct {
	IsReposted  bool  `json:"is_reposted"`
	RepostCount int64 `json:"repost_count"`
}

type DeletePostResponse struct {
	Ok                 bool   `json:"ok"`
	ParentCommentCount *int64 `json:"parent_comment_count"`
}
