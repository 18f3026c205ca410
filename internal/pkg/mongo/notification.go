package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationLike    = "like"
	NotificationDislike = "dislike"
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationMention = "mention"
	NotificationShare   = "share"
	NotificationRequest = "request"
	NotificationAccept  = "accept"
)

const (
	StatusSent = "sent"
	StatusSeen = "seen"

	ReadingUnread = "unread"
	ReadingRead   = "read"
)

// NotificationModel 通知文档，未关联的引用以 null 落库，保证按元组精确匹配
type NotificationModel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        uint64             `bson:"user_id" json:"userId"`           // 动作发起者
	RecipientID   uint64             `bson:"recipient_id" json:"recipientId"` // 接收者
	Type          string             `bson:"type" json:"type"`
	PostID        *uint64            `bson:"post_id" json:"postId"`
	CommentID     *string            `bson:"comment_id" json:"commentId"`
	ReplyID       *string            `bson:"reply_id" json:"replyId"`
	Message       string             `bson:"message" json:"message"`
	Status        string             `bson:"status" json:"status"`
	ReadingStatus string             `bson:"reading_status" json:"readingStatus"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NotificationKey 去重元组 (actor, type, recipient, post, comment, reply)
type NotificationKey struct {
	UserID      uint64
	Type        string
	RecipientID uint64
	PostID      *uint64
	CommentID   *string
	ReplyID     *string
}

func (n *NotificationModel) Key() NotificationKey {
	return NotificationKey{
		UserID:      n.UserID,
		Type:        n.Type,
		RecipientID: n.RecipientID,
		PostID:      n.PostID,
		CommentID:   n.CommentID,
		ReplyID:     n.ReplyID,
	}
}

// NotificationFilter 批量撤回条件，零值字段不参与过滤
type NotificationFilter struct {
	Types       []string
	UserID      uint64
	RecipientID uint64
	PostID      *uint64
	CommentID   *string
	ReplyID     *string
}
