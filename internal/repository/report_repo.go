package repository

import (
	"IQNet/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepo interface {
	Exists(ctx context.Context, postID, reporterID uint64) (bool, error)
	Create(ctx context.Context, report *model.Report) (bool, error)
}

type ReportRepoImpl struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &ReportRepoImpl{db: db}
}

func (s *ReportRepoImpl) Exists(ctx context.Context, postID, reporterID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("post_id = ? AND reporter_id = ?", postID, reporterID).
		Count(&count).Error
	return count > 0, err
}

// Create 返回是否真正插入
func (s *ReportRepoImpl) Create(ctx context.Context, report *model.Report) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(report)
	return result.RowsAffected > 0, result.Error
}
