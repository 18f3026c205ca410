package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollection = "notifications"

type NotificationRepo interface {
	FindByKey(ctx context.Context, key NotificationKey) (*NotificationModel, error)
	Insert(ctx context.Context, n *NotificationModel) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	FindOneAndDelete(ctx context.Context, key NotificationKey) (*NotificationModel, error)
	Find(ctx context.Context, filter NotificationFilter) ([]*NotificationModel, error)
	DeleteMany(ctx context.Context, filter NotificationFilter) (int64, error)
	ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int64) ([]*NotificationModel, error)
	CountUnseen(ctx context.Context, recipientID uint64) (int64, error)
	MarkAllSeen(ctx context.Context, recipientID uint64) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*NotificationModel, error)
	MarkRead(ctx context.Context, recipientID uint64, id primitive.ObjectID) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection(notificationCollection),
	}
}

// EnsureNotificationIndexes 去重元组索引 + 接收者时间线索引
func EnsureNotificationIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "type", Value: 1},
			{Key: "recipient_id", Value: 1},
			{Key: "post_id", Value: 1},
			{Key: "comment_id", Value: 1},
			{Key: "reply_id", Value: 1},
		}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func keyFilter(key NotificationKey) bson.M {
	return bson.M{
		"user_id":      key.UserID,
		"type":         key.Type,
		"recipient_id": key.RecipientID,
		"post_id":      key.PostID,
		"comment_id":   key.CommentID,
		"reply_id":     key.ReplyID,
	}
}

func toBson(f NotificationFilter) bson.M {
	m := bson.M{}
	if len(f.Types) > 0 {
		m["type"] = bson.M{"$in": f.Types}
	}
	if f.UserID > 0 {
		m["user_id"] = f.UserID
	}
	if f.RecipientID > 0 {
		m["recipient_id"] = f.RecipientID
	}
	if f.PostID != nil {
		m["post_id"] = *f.PostID
	}
	if f.CommentID != nil {
		m["comment_id"] = *f.CommentID
	}
	if f.ReplyID != nil {
		m["reply_id"] = *f.ReplyID
	}
	return m
}

// FindByKey 按去重元组查找，不存在返回 nil
func (s *notificationRepoImpl) FindByKey(ctx context.Context, key NotificationKey) (*NotificationModel, error) {
	var n NotificationModel
	err := s.col.FindOne(ctx, keyFilter(key)).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (s *notificationRepoImpl) Insert(ctx context.Context, n *NotificationModel) error {
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}
	return nil
}

func (s *notificationRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *notificationRepoImpl) FindOneAndDelete(ctx context.Context, key NotificationKey) (*NotificationModel, error) {
	var n NotificationModel
	err := s.col.FindOneAndDelete(ctx, keyFilter(key)).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (s *notificationRepoImpl) Find(ctx context.Context, filter NotificationFilter) ([]*NotificationModel, error) {
	cursor, err := s.col.Find(ctx, toBson(filter))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*NotificationModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *notificationRepoImpl) DeleteMany(ctx context.Context, filter NotificationFilter) (int64, error) {
	res, err := s.col.DeleteMany(ctx, toBson(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByRecipient 按时间倒序获取接收者的通知
func (s *notificationRepoImpl) ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int64) ([]*NotificationModel, error) {
	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["reading_status"] = ReadingUnread
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*NotificationModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *notificationRepoImpl) CountUnseen(ctx context.Context, recipientID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "status": StatusSent})
}

func (s *notificationRepoImpl) MarkAllSeen(ctx context.Context, recipientID uint64) error {
	filter := bson.M{"recipient_id": recipientID, "status": StatusSent}
	update := bson.M{"$set": bson.M{"status": StatusSeen, "updated_at": time.Now()}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

func (s *notificationRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*NotificationModel, error) {
	var n NotificationModel
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// MarkRead 标记单条已读，同时视为已查看
func (s *notificationRepoImpl) MarkRead(ctx context.Context, recipientID uint64, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"reading_status": ReadingRead, "status": StatusSeen, "updated_at": time.Now()}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteReadBefore 清理过期的已读通知
func (s *notificationRepoImpl) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{
		"reading_status": ReadingRead,
		"created_at":     bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
