package model

import "time"

type SavedPost struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_post,priority:1" json:"userId"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_user_post,priority:2" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (SavedPost) TableName() string {
	return "saved_posts"
}
