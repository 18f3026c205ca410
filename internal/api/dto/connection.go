package dto

import "time"

// ConnectionDTO 关注关系
type ConnectionDTO struct {
	ID         uint64        `json:"id"`
	FollowerID uint64        `json:"follower_id"`
	FolloweeID uint64        `json:"followee_id"`
	Status     string        `json:"status"`
	User       *UserBriefDTO `json:"user,omitempty"` // 对端用户
	CreatedAt  time.Time     `json:"created_at"`
}

// ConnectionListDTO 列表 + 数量
type ConnectionListDTO struct {
	List  []*ConnectionDTO `json:"list"`
	Count int              `json:"count"`
}
