package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ConnectionService 关注关系：请求、接受、拒绝、取消与列表
type ConnectionService interface {
	SendRequest(ctx context.Context, userID, followeeID uint64) (*dto.ConnectionDTO, error)
	Accept(ctx context.Context, userID, connectionID uint64) error
	Decline(ctx context.Context, userID, connectionID uint64) error
	Cancel(ctx context.Context, userID, connectionID uint64) error
	Unfollow(ctx context.Context, userID, followeeID uint64) error
	RemoveFollower(ctx context.Context, userID, followerID uint64) error
	GetFollowers(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error)
	GetFollowing(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error)
	GetRequests(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error)
}

type connectionServiceImpl struct {
	connectionRepo repository.ConnectionRepo
	userRepo       repository.UserRepo
	notifySvc      NotificationService
}

func NewConnectionService(connectionRepo repository.ConnectionRepo, userRepo repository.UserRepo, notifySvc NotificationService) ConnectionService {
	return &connectionServiceImpl{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		notifySvc:      notifySvc,
	}
}

// SendRequest 被拒绝过的关系可以重新发起
func (s *connectionServiceImpl) SendRequest(ctx context.Context, userID, followeeID uint64) (*dto.ConnectionDTO, error) {
	if userID == followeeID {
		return nil, ErrUserFollowSelf
	}
	followee, err := s.userRepo.GetUserById(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	if followee == nil || !followee.IsActive() {
		return nil, ErrUserNotFound
	}

	conn, err := s.connectionRepo.GetConnection(ctx, userID, followeeID)
	if err != nil {
		return nil, err
	}
	switch {
	case conn == nil:
		conn = &model.Connection{FollowerID: userID, FolloweeID: followeeID, Status: model.ConnectionRequested}
		if err = s.connectionRepo.CreateConnection(ctx, conn); err != nil {
			if isDuplicateError(err) {
				return nil, ErrConnectionExist
			}
			return nil, err
		}
	case conn.Status == model.ConnectionDeclined:
		n, err := s.connectionRepo.UpdateStatus(ctx, conn.ID, followeeID, model.ConnectionDeclined, model.ConnectionRequested)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrConnectionExist
		}
		conn.Status = model.ConnectionRequested
	default:
		return nil, ErrConnectionExist
	}

	s.notify(ctx, &NotificationInput{
		Type:        mongo.NotificationRequest,
		ActorID:     userID,
		RecipientID: followeeID,
		Message:     "请求关注你",
	})
	return toConnectionDTO(conn, followee), nil
}

// Accept 只有被关注方可以处理 requested 状态的请求
func (s *connectionServiceImpl) Accept(ctx context.Context, userID, connectionID uint64) error {
	n, err := s.connectionRepo.UpdateStatus(ctx, connectionID, userID, model.ConnectionRequested, model.ConnectionAccepted)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}

	conn, err := s.connectionRepo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		log.ErrorContext(ctx, "load accepted connection failed", "connection_id", connectionID, "err", err)
		return nil
	}
	if conn != nil {
		s.notify(ctx, &NotificationInput{
			Type:        mongo.NotificationAccept,
			ActorID:     userID,
			RecipientID: conn.FollowerID,
			Message:     "接受了你的关注请求",
		})
	}
	return nil
}

// Decline 拒绝后撤回请求通知，重新发起时才能再次通知
func (s *connectionServiceImpl) Decline(ctx context.Context, userID, connectionID uint64) error {
	n, err := s.connectionRepo.UpdateStatus(ctx, connectionID, userID, model.ConnectionRequested, model.ConnectionDeclined)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}

	conn, err := s.connectionRepo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		log.ErrorContext(ctx, "load declined connection failed", "connection_id", connectionID, "err", err)
		return nil
	}
	if conn != nil {
		s.retractRequest(ctx, conn.FollowerID, conn.FolloweeID)
	}
	return nil
}

// Cancel 发起方撤回自己尚未处理的请求
func (s *connectionServiceImpl) Cancel(ctx context.Context, userID, connectionID uint64) error {
	conn, err := s.connectionRepo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}
	n, err := s.connectionRepo.DeleteByID(ctx, connectionID, userID, model.ConnectionRequested)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}
	s.retractRequest(ctx, userID, conn.FolloweeID)
	return nil
}

func (s *connectionServiceImpl) Unfollow(ctx context.Context, userID, followeeID uint64) error {
	n, err := s.connectionRepo.DeleteEdge(ctx, userID, followeeID, model.ConnectionAccepted)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}
	s.retractRequest(ctx, userID, followeeID)
	return nil
}

func (s *connectionServiceImpl) RemoveFollower(ctx context.Context, userID, followerID uint64) error {
	n, err := s.connectionRepo.DeleteEdge(ctx, followerID, userID, model.ConnectionAccepted)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}
	s.retractRequest(ctx, followerID, userID)
	return nil
}

// retractRequest 关系结束后撤回请求通知
func (s *connectionServiceImpl) retractRequest(ctx context.Context, followerID, followeeID uint64) {
	if err := s.notifySvc.RetractOne(ctx, mongo.NotificationKey{
		UserID:      followerID,
		Type:        mongo.NotificationRequest,
		RecipientID: followeeID,
	}); err != nil {
		log.ErrorContext(ctx, "retract request notification failed", "follower_id", followerID, "followee_id", followeeID, "err", err)
	}
}

func (s *connectionServiceImpl) GetFollowers(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error) {
	list, err := s.connectionRepo.ListFollowers(ctx, userID, model.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	return s.toListDTO(ctx, list, func(c *model.Connection) uint64 { return c.FollowerID })
}

func (s *connectionServiceImpl) GetFollowing(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error) {
	list, err := s.connectionRepo.ListFollowing(ctx, userID, model.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	return s.toListDTO(ctx, list, func(c *model.Connection) uint64 { return c.FolloweeID })
}

// GetRequests 别人发给我的待处理请求
func (s *connectionServiceImpl) GetRequests(ctx context.Context, userID uint64) (*dto.ConnectionListDTO, error) {
	list, err := s.connectionRepo.ListFollowers(ctx, userID, model.ConnectionRequested)
	if err != nil {
		return nil, err
	}
	return s.toListDTO(ctx, list, func(c *model.Connection) uint64 { return c.FollowerID })
}

// toListDTO peer 决定列表里展示关系的哪一端
func (s *connectionServiceImpl) toListDTO(ctx context.Context, list []*model.Connection, peer func(c *model.Connection) uint64) (*dto.ConnectionListDTO, error) {
	users, err := s.userRepo.GetUserByIds(ctx, lo.Uniq(lo.Map(list, func(c *model.Connection, _ int) uint64 {
		return peer(c)
	})))
	if err != nil {
		return nil, err
	}
	userMap := lo.KeyBy(users, func(u *model.User) uint64 { return u.ID })

	res := lo.FilterMap(list, func(c *model.Connection, _ int) (*dto.ConnectionDTO, bool) {
		u, ok := userMap[peer(c)]
		if !ok || !u.IsActive() {
			return nil, false
		}
		return toConnectionDTO(c, u), true
	})
	return &dto.ConnectionListDTO{List: res, Count: len(res)}, nil
}

func (s *connectionServiceImpl) notify(ctx context.Context, in *NotificationInput) {
	if err := s.notifySvc.Create(ctx, in); err != nil {
		log.ErrorContext(ctx, "create notification failed", "type", in.Type, "recipient_id", in.RecipientID, "err", err)
	}
}

func toConnectionDTO(c *model.Connection, peer *model.User) *dto.ConnectionDTO {
	return &dto.ConnectionDTO{
		ID:         c.ID,
		FollowerID: c.FollowerID,
		FolloweeID: c.FolloweeID,
		Status:     c.Status,
		User:       toUserBrief(peer),
		CreatedAt:  c.CreatedAt,
	}
}

// isDuplicateError 唯一索引冲突，兼容 mysql 与 sqlite
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
