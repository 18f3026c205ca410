package model

import "time"

const (
	ConnectionRequested = "requested"
	ConnectionAccepted  = "accepted"
	ConnectionDeclined  = "declined"
	ConnectionBlocked   = "blocked"
)

// Connection 关注关系 follower -> followee，每对有序用户至多一条
type Connection struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:idx_follower_followee,priority:1" json:"followerId"`
	FolloweeID uint64    `gorm:"not null;uniqueIndex:idx_follower_followee,priority:2;index:idx_followee_id" json:"followeeId"`
	Status     string    `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Connection) TableName() string {
	return "connections"
}
