package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/lock"
	"IQNet/internal/pkg/metrics"
	"IQNet/internal/pkg/util"
	"IQNet/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

// PointService 积分流水：只追加，累计值写入时计算
type PointService interface {
	Record(ctx context.Context, entry *model.Point) error
	GetScore(ctx context.Context, userID uint64) (*dto.ScoreDTO, error)
	GetHistory(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PointDTO, error)
}

type pointServiceImpl struct {
	pointRepo repository.PointRepo
	locks     *lock.Manager
}

func NewPointService(pointRepo repository.PointRepo, locks *lock.Manager) PointService {
	return &pointServiceImpl{
		pointRepo: pointRepo,
		locks:     locks,
	}
}

// Record 同一用户的写入串行化，读最近一条与写入在同一事务
func (s *pointServiceImpl) Record(ctx context.Context, entry *model.Point) error {
	if entry == nil || entry.UserID == 0 || entry.Points == 0 || entry.Context == "" {
		return ErrParamInvalid
	}

	release, err := s.locks.Acquire(ctx, lock.Key{Actor: entry.UserID, Op: lock.OpLedger})
	if err != nil {
		return err
	}
	defer release()

	if err = s.pointRepo.Append(ctx, entry); err != nil {
		return err
	}

	metrics.LedgerEntries.WithLabelValues(entry.Context).Inc()
	log.InfoContext(ctx, "point recorded",
		"user_id", entry.UserID,
		"context", entry.Context,
		"points", entry.Points,
		"cumulative", entry.CumulativePoints,
		"interactor_id", entry.InteractorID,
	)
	return nil
}

func (s *pointServiceImpl) GetScore(ctx context.Context, userID uint64) (*dto.ScoreDTO, error) {
	latest, err := s.pointRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := &dto.ScoreDTO{UserID: userID}
	if latest != nil {
		res.Points = latest.CumulativePoints
	}
	return res, nil
}

func (s *pointServiceImpl) GetHistory(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PointDTO, error) {
	limit, offset := util.Paginate(page, pageSize)
	list, err := s.pointRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.PointDTO, 0, len(list))
	if err = copier.Copy(&res, &list); err != nil {
		return nil, err
	}
	return res, nil
}
