package model

import "time"

type Report struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	PostID     uint64    `gorm:"not null;uniqueIndex:idx_post_reporter,priority:1" json:"postId"`
	ReporterID uint64    `gorm:"not null;uniqueIndex:idx_post_reporter,priority:2" json:"reporterId"`
	Body       string    `gorm:"type:varchar(500)" json:"body"`
	Type       string    `gorm:"type:varchar(32)" json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}
