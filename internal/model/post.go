package model

import (
	"time"

	"github.com/samber/lo"
)

const (
	PostStatusActive  = "active"
	PostStatusBanned  = "banned"
	PostStatusDeleted = "deleted"
)

const (
	AccessibilityPublic        = "public"
	AccessibilityFollowersOnly = "followersOnly"
)

// Post 帖子聚合根，评论/回复/反应随帖子整体保存
type Post struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	Body           string    `gorm:"type:text" json:"body"`
	Pictures       []string  `gorm:"type:json;serializer:json" json:"pictures"`
	Accessibility  string    `gorm:"type:varchar(16);not null;default:public" json:"accessibility"`
	Status         string    `gorm:"type:varchar(16);not null;default:active;index:idx_status" json:"status"`
	ShareID        *uint64   `gorm:"index:idx_share_id" json:"shareId"`
	ShareCount     int       `gorm:"not null;default:0" json:"shareCount"`
	ReactionsCount int       `gorm:"not null;default:0" json:"reactionsCount"`
	Reactions      Reactions `gorm:"type:json;serializer:json" json:"reactions"`
	Comments       []Comment `gorm:"type:json;serializer:json" json:"comments"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) IsActive() bool {
	return p != nil && p.Status == PostStatusActive
}

// Comment 评论，无独立生命周期
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"userId"`
	Body      string    `json:"body"`
	Reactions Reactions `json:"reactions"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Reply struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"userId"`
	Body      string    `json:"body"`
	Reactions Reactions `json:"reactions"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FindComment 返回评论指针，便于原地修改
func (p *Post) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

func (p *Post) RemoveComment(commentID string) {
	p.Comments = lo.Reject(p.Comments, func(item Comment, _ int) bool {
		return item.ID == commentID
	})
}

func (p *Post) HasCommentFrom(userID uint64) bool {
	return lo.ContainsBy(p.Comments, func(item Comment) bool {
		return item.UserID == userID
	})
}

func (c *Comment) FindReply(replyID string) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}

func (c *Comment) RemoveReply(replyID string) {
	c.Replies = lo.Reject(c.Replies, func(item Reply, _ int) bool {
		return item.ID == replyID
	})
}

func (c *Comment) HasReplyFrom(userID uint64) bool {
	return lo.ContainsBy(c.Replies, func(item Reply) bool {
		return item.UserID == userID
	})
}
