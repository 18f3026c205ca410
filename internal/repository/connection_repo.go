package repository

import (
	"IQNet/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ConnectionRepo interface {
	GetConnection(ctx context.Context, followerID, followeeID uint64) (*model.Connection, error)
	GetConnectionByID(ctx context.Context, id uint64) (*model.Connection, error)
	CreateConnection(ctx context.Context, conn *model.Connection) error
	UpdateStatus(ctx context.Context, id, followeeID uint64, from, to string) (int64, error)
	DeleteByID(ctx context.Context, id uint64, followerID uint64, status string) (int64, error)
	DeleteEdge(ctx context.Context, followerID, followeeID uint64, status string) (int64, error)
	ListFollowers(ctx context.Context, userID uint64, status string) ([]*model.Connection, error)
	ListFollowing(ctx context.Context, userID uint64, status string) ([]*model.Connection, error)
	GetFolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type ConnectionRepoImpl struct {
	db *gorm.DB
}

func NewConnectionRepo(db *gorm.DB) ConnectionRepo {
	return &ConnectionRepoImpl{db: db}
}

// GetConnection 获取有序用户对之间的关系
func (s *ConnectionRepoImpl) GetConnection(ctx context.Context, followerID, followeeID uint64) (*model.Connection, error) {
	var conn model.Connection
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&conn)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &conn, nil
}

func (s *ConnectionRepoImpl) GetConnectionByID(ctx context.Context, id uint64) (*model.Connection, error) {
	var conn model.Connection
	result := s.db.WithContext(ctx).First(&conn, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &conn, nil
}

// CreateConnection 唯一索引冲突由调用方识别
func (s *ConnectionRepoImpl) CreateConnection(ctx context.Context, conn *model.Connection) error {
	return s.db.WithContext(ctx).Create(conn).Error
}

// UpdateStatus 仅当接收方与当前状态匹配时更新
func (s *ConnectionRepoImpl) UpdateStatus(ctx context.Context, id, followeeID uint64, from, to string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Connection{}).
		Where("id = ? AND followee_id = ? AND status = ?", id, followeeID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (s *ConnectionRepoImpl) DeleteByID(ctx context.Context, id uint64, followerID uint64, status string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND follower_id = ? AND status = ?", id, followerID, status).
		Delete(&model.Connection{})
	return result.RowsAffected, result.Error
}

func (s *ConnectionRepoImpl) DeleteEdge(ctx context.Context, followerID, followeeID uint64, status string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ? AND status = ?", followerID, followeeID, status).
		Delete(&model.Connection{})
	return result.RowsAffected, result.Error
}

// ListFollowers 关注 userID 的关系
func (s *ConnectionRepoImpl) ListFollowers(ctx context.Context, userID uint64, status string) ([]*model.Connection, error) {
	var list []*model.Connection
	result := s.db.WithContext(ctx).
		Where("followee_id = ? AND status = ?", userID, status).
		Order("created_at desc").
		Find(&list)
	if result.Error != nil {
		return nil, result.Error
	}
	return list, nil
}

// ListFollowing userID 关注的关系
func (s *ConnectionRepoImpl) ListFollowing(ctx context.Context, userID uint64, status string) ([]*model.Connection, error) {
	var list []*model.Connection
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND status = ?", userID, status).
		Order("created_at desc").
		Find(&list)
	if result.Error != nil {
		return nil, result.Error
	}
	return list, nil
}

func (s *ConnectionRepoImpl) GetFolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Connection{}).
		Where("follower_id = ? AND status = ?", userID, model.ConnectionAccepted).
		Pluck("followee_id", &ids).Error
	return ids, err
}
