package dto

import "time"

// NotificationDTO 通知返回对象
type NotificationDTO struct {
	ID            string        `json:"id"`
	UserID        uint64        `json:"user_id"`
	User          *UserBriefDTO `json:"user,omitempty"`
	RecipientID   uint64        `json:"recipient_id"`
	Type          string        `json:"type"`
	PostID        *uint64       `json:"post_id"`
	CommentID     *string       `json:"comment_id"`
	ReplyID       *string       `json:"reply_id"`
	Message       string        `json:"message"`
	Status        string        `json:"status"`
	ReadingStatus string        `json:"reading_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NotificationListDTO 全部 + 未读 + 未查看数
type NotificationListDTO struct {
	All         []*NotificationDTO `json:"all"`
	Unread      []*NotificationDTO `json:"unread"`
	UnseenCount int64              `json:"unseen_count"`
}
