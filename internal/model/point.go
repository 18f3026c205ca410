package model

import "time"

// Point 积分流水，只追加
type Point struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	UserID           uint64    `gorm:"not null;index:idx_user_id_id,priority:1" json:"userId"`
	Context          string    `gorm:"type:varchar(64);not null" json:"context"`
	Points           int64     `gorm:"not null" json:"points"`
	CumulativePoints int64     `gorm:"not null" json:"cumulativePoints"`
	InteractorID     uint64    `gorm:"not null" json:"interactorId"`
	PostID           *uint64   `json:"postId"`
	CommentID        *string   `gorm:"type:varchar(36)" json:"commentId"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Point) TableName() string {
	return "points"
}
