package repository

import (
	"IQNet/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PointRepo interface {
	// Append 在事务内读取最近一条并写入 prior+delta
	Append(ctx context.Context, entry *model.Point) error
	GetLatest(ctx context.Context, userID uint64) (*model.Point, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Point, error)
}

type PointRepoImpl struct {
	db *gorm.DB
}

func NewPointRepo(db *gorm.DB) PointRepo {
	return &PointRepoImpl{db: db}
}

func latestPoint(tx *gorm.DB, userID uint64) (*model.Point, error) {
	var p model.Point
	err := tx.Where("user_id = ?", userID).Order("id desc").First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *PointRepoImpl) Append(ctx context.Context, entry *model.Point) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := latestPoint(tx, entry.UserID)
		if err != nil {
			return err
		}
		entry.CumulativePoints = entry.Points
		if prior != nil {
			entry.CumulativePoints = prior.CumulativePoints + entry.Points
		}
		return tx.Create(entry).Error
	})
}

func (s *PointRepoImpl) GetLatest(ctx context.Context, userID uint64) (*model.Point, error) {
	return latestPoint(s.db.WithContext(ctx), userID)
}

func (s *PointRepoImpl) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Point, error) {
	var list []*model.Point
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
