package repository

import (
	"IQNet/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetActivePost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	SavePost(ctx context.Context, post *model.Post) error
	SoftDeletePost(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64, publicOnly bool, limit, offset int) ([]*model.Post, error)
	ListByUsers(ctx context.Context, userIDs []uint64, limit, offset int) ([]*model.Post, error)
	ListActive(ctx context.Context, viewerID uint64, limit, offset int) ([]*model.Post, error)
	FindActiveShare(ctx context.Context, userID uint64, shareIDs ...uint64) (*model.Post, error)
	CountActiveShares(ctx context.Context, originalID uint64) (int64, error)
	UpdateShareCount(ctx context.Context, id uint64, count int64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetActivePost 只返回 active 状态的帖子
func (s *PostRepoImpl) GetActivePost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.PostStatusActive).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*model.Post
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// SavePost 整体写回聚合
func (s *PostRepoImpl) SavePost(ctx context.Context, post *model.Post) error {
	post.ReactionsCount = len(post.Reactions)
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (s *PostRepoImpl) SoftDeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("status", model.PostStatusDeleted).Error
}

// ListByUser publicOnly 时过滤仅关注者可见的帖子
func (s *PostRepoImpl) ListByUser(ctx context.Context, userID uint64, publicOnly bool, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.PostStatusActive)
	if publicOnly {
		query = query.Where("accessibility = ?", model.AccessibilityPublic)
	}
	err := query.
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) ListByUsers(ctx context.Context, userIDs []uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", userIDs, model.PostStatusActive).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListActive 公开帖子加上自己的帖子
func (s *PostRepoImpl) ListActive(ctx context.Context, viewerID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("status = ? AND (accessibility = ? OR user_id = ?)", model.PostStatusActive, model.AccessibilityPublic, viewerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FindActiveShare 用户是否已分享过其中任一帖子
func (s *PostRepoImpl) FindActiveShare(ctx context.Context, userID uint64, shareIDs ...uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND share_id IN ? AND status = ?", userID, shareIDs, model.PostStatusActive).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) CountActiveShares(ctx context.Context, originalID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("share_id = ? AND status = ?", originalID, model.PostStatusActive).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) UpdateShareCount(ctx context.Context, id uint64, count int64) error {
	return s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("share_count", count).Error
}
