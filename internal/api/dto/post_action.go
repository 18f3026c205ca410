package dto

import "IQNet/internal/model"

// AddCommentReq 发表评论
type AddCommentReq struct {
	PostID uint64 `json:"post_id" binding:"required"`
	Body   string `json:"body" binding:"required,max=2000"`
}

// UpdateCommentReq 编辑评论
type UpdateCommentReq struct {
	PostID    uint64 `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
	Body      string `json:"body" binding:"required,max=2000"`
}

// DeleteCommentReq 删除评论
type DeleteCommentReq struct {
	PostID    uint64 `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
}

// AddReplyReq 回复评论
type AddReplyReq struct {
	PostID    uint64 `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
	Body      string `json:"body" binding:"required,max=2000"`
}

type UpdateReplyReq struct {
	PostID    uint64 `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
	ReplyID   string `json:"reply_id" binding:"required"`
	Body      string `json:"body" binding:"required,max=2000"`
}

type DeleteReplyReq struct {
	PostID    uint64 `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
	ReplyID   string `json:"reply_id" binding:"required"`
}

// PostReactionReq 帖子点赞/点踩，重复同类型即取消
type PostReactionReq struct {
	PostID uint64             `json:"post_id" binding:"required"`
	Type   model.ReactionType `json:"type" binding:"required,oneof=like dislike"`
}

type CommentReactionReq struct {
	PostID    uint64             `json:"post_id" binding:"required"`
	CommentID string             `json:"comment_id" binding:"required"`
	Type      model.ReactionType `json:"type" binding:"required,oneof=like dislike"`
}

type ReplyReactionReq struct {
	PostID    uint64             `json:"post_id" binding:"required"`
	CommentID string             `json:"comment_id" binding:"required"`
	ReplyID   string             `json:"reply_id" binding:"required"`
	Type      model.ReactionType `json:"type" binding:"required,oneof=like dislike"`
}

// ReactionStateDTO 操作后的反应状态
type ReactionStateDTO struct {
	State          string   `json:"state"` // none | like | dislike
	ReactionsCount int      `json:"reactions_count"`
	Post           *PostDTO `json:"post,omitempty"`
}
