package dto

import (
	"IQNet/internal/model"
	"time"
)

// UserBriefDTO 作者信息
type UserBriefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// PostDTO 帖子返回对象，Share 为被分享帖子或 "No Content"
type PostDTO struct {
	ID             uint64          `json:"id"`
	UserID         uint64          `json:"user_id"`
	User           *UserBriefDTO   `json:"user,omitempty"`
	Body           string          `json:"body"`
	Pictures       []string        `json:"pictures"`
	Accessibility  string          `json:"accessibility"`
	Status         string          `json:"status"`
	ShareID        *uint64         `json:"share_id,omitempty"`
	Share          any             `json:"share,omitempty"`
	ShareCount     int             `json:"share_count"`
	ReactionsCount int             `json:"reactions_count"`
	Reactions      model.Reactions `json:"reactions"`
	Comments       []model.Comment `json:"comments"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreatePostReq 发帖
type CreatePostReq struct {
	Body          string   `json:"body" binding:"required_without=Pictures,max=5000"`
	Pictures      []string `json:"pictures" binding:"max=10"`
	Accessibility string   `json:"accessibility" binding:"omitempty,oneof=public followersOnly"`
}

// UpdatePostReq 编辑帖子，空字段不修改
type UpdatePostReq struct {
	Body          *string  `json:"body" binding:"omitempty,max=5000"`
	Pictures      []string `json:"pictures" binding:"max=10"`
	Accessibility *string  `json:"accessibility" binding:"omitempty,oneof=public followersOnly"`
}

// SharePostReq 分享帖子
type SharePostReq struct {
	Body          string `json:"body" binding:"max=5000"`
	Accessibility string `json:"accessibility" binding:"omitempty,oneof=public followersOnly"`
}

// ReportPostReq 举报帖子
type ReportPostReq struct {
	Body string `json:"body" binding:"max=500"`
	Type string `json:"type" binding:"required,max=32"`
}

// SavedPostDTO 收藏的帖子
type SavedPostDTO struct {
	ID        uint64    `json:"id"`
	Post      *PostDTO  `json:"post"`
	CreatedAt time.Time `json:"created_at"`
}
