package repository

import (
	"IQNet/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedPostRepo interface {
	Get(ctx context.Context, userID, postID uint64) (*model.SavedPost, error)
	Create(ctx context.Context, saved *model.SavedPost) error
	Delete(ctx context.Context, userID, postID uint64) (int64, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.SavedPost, error)
}

type SavedPostRepoImpl struct {
	db *gorm.DB
}

func NewSavedPostRepo(db *gorm.DB) SavedPostRepo {
	return &SavedPostRepoImpl{db: db}
}

func (s *SavedPostRepoImpl) Get(ctx context.Context, userID, postID uint64) (*model.SavedPost, error) {
	var saved model.SavedPost
	err := s.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &saved, nil
}

func (s *SavedPostRepoImpl) Create(ctx context.Context, saved *model.SavedPost) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			DoNothing: true,
		}).
		Create(saved).Error
}

// Delete 收藏为硬删除
func (s *SavedPostRepoImpl) Delete(ctx context.Context, userID, postID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.SavedPost{})
	return result.RowsAffected, result.Error
}

func (s *SavedPostRepoImpl) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.SavedPost, error) {
	var list []*model.SavedPost
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
