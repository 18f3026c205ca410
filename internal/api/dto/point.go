package dto

import "time"

// ScoreDTO 当前累计积分
type ScoreDTO struct {
	UserID uint64 `json:"user_id"`
	Points int64  `json:"points"`
}

type PointDTO struct {
	ID               uint64    `json:"id"`
	Context          string    `json:"context"`
	Points           int64     `json:"points"`
	CumulativePoints int64     `json:"cumulative_points"`
	InteractorID     uint64    `json:"interactor_id"`
	PostID           *uint64   `json:"post_id,omitempty"`
	CommentID        *string   `json:"comment_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
