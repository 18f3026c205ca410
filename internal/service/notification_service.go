package service

import (
	"IQNet/internal/api/config"
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/consts"
	"IQNet/internal/pkg/metrics"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/pkg/push"
	"IQNet/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// NotificationInput 创建通知的参数，未关联的引用保持 nil
type NotificationInput struct {
	Type        string
	ActorID     uint64
	RecipientID uint64
	PostID      *uint64
	CommentID   *string
	ReplyID     *string
	Message     string
}

func (in *NotificationInput) key() mongo.NotificationKey {
	return mongo.NotificationKey{
		UserID:      in.ActorID,
		Type:        in.Type,
		RecipientID: in.RecipientID,
		PostID:      in.PostID,
		CommentID:   in.CommentID,
		ReplyID:     in.ReplyID,
	}
}

// NotificationService 通知：去重持久化 + 实时推送
type NotificationService interface {
	Create(ctx context.Context, in *NotificationInput) error
	Ensure(ctx context.Context, in *NotificationInput) error
	Retract(ctx context.Context, filter mongo.NotificationFilter) error
	RetractOne(ctx context.Context, key mongo.NotificationKey) error
	List(ctx context.Context, userID uint64) (*dto.NotificationListDTO, error)
	MarkAllSeen(ctx context.Context, userID uint64) error
	MarkRead(ctx context.Context, userID uint64, id string) error
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
	userRepo         repository.UserRepo
	gateway          push.Gateway
	listLimit        int64
	unreadLimit      int64
}

func NewNotificationService(notificationRepo mongo.NotificationRepo, userRepo repository.UserRepo, gateway push.Gateway, cfg *config.NotificationConfig) NotificationService {
	s := &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		listLimit:        40,
		unreadLimit:      20,
	}
	if cfg != nil {
		if cfg.ListLimit > 0 {
			s.listLimit = cfg.ListLimit
		}
		if cfg.UnreadLimit > 0 {
			s.unreadLimit = cfg.UnreadLimit
		}
	}
	return s
}

// Create 元组已存在时：like/dislike 视为取消并撤回，其余类型不重复创建
func (s *notificationServiceImpl) Create(ctx context.Context, in *NotificationInput) error {
	existing, err := s.lookup(ctx, in)
	if err != nil || in.ActorID == in.RecipientID {
		return err
	}
	if existing != nil {
		if in.Type != mongo.NotificationLike && in.Type != mongo.NotificationDislike {
			return nil
		}
		if err = s.notificationRepo.DeleteByID(ctx, existing.ID); err != nil {
			return err
		}
		metrics.Notifications.WithLabelValues(in.Type, "toggled_off").Inc()
		s.emit(ctx, existing.RecipientID, consts.EventRemoveNotification, s.toDTO(existing, nil))
		return nil
	}
	return s.insert(ctx, in)
}

// Ensure 保证元组对应的通知存在，已存在时不做任何事 (不做取消)
func (s *notificationServiceImpl) Ensure(ctx context.Context, in *NotificationInput) error {
	existing, err := s.lookup(ctx, in)
	if err != nil || in.ActorID == in.RecipientID || existing != nil {
		return err
	}
	return s.insert(ctx, in)
}

// lookup 校验参数并按精确元组查询，自己对自己不查询
func (s *notificationServiceImpl) lookup(ctx context.Context, in *NotificationInput) (*mongo.NotificationModel, error) {
	if in == nil || in.ActorID == 0 || in.RecipientID == 0 || in.Type == "" {
		return nil, ErrParamInvalid
	}
	if in.ActorID == in.RecipientID {
		return nil, nil
	}
	return s.notificationRepo.FindByKey(ctx, in.key())
}

func (s *notificationServiceImpl) insert(ctx context.Context, in *NotificationInput) error {
	now := time.Now()
	n := &mongo.NotificationModel{
		UserID:        in.ActorID,
		RecipientID:   in.RecipientID,
		Type:          in.Type,
		PostID:        in.PostID,
		CommentID:     in.CommentID,
		ReplyID:       in.ReplyID,
		Message:       in.Message,
		Status:        mongo.StatusSent,
		ReadingStatus: mongo.ReadingUnread,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.notificationRepo.Insert(ctx, n); err != nil {
		return err
	}
	metrics.Notifications.WithLabelValues(in.Type, "created").Inc()

	actor, err := s.userRepo.GetUserById(ctx, in.ActorID)
	if err != nil {
		log.WarnContext(ctx, "load notification actor failed", "user_id", in.ActorID, "err", err)
	}
	s.emit(ctx, n.RecipientID, consts.EventNotification, s.toDTO(n, actor))
	return nil
}

// Retract 批量撤回，每条被删除的通知都会推送给接收者
func (s *notificationServiceImpl) Retract(ctx context.Context, filter mongo.NotificationFilter) error {
	list, err := s.notificationRepo.Find(ctx, filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}
	if _, err = s.notificationRepo.DeleteMany(ctx, filter); err != nil {
		return err
	}
	for _, n := range list {
		metrics.Notifications.WithLabelValues(n.Type, "retracted").Inc()
		s.emit(ctx, n.RecipientID, consts.EventRemoveNotification, s.toDTO(n, nil))
	}
	return nil
}

// RetractOne 按精确元组撤回，不存在时什么都不做
func (s *notificationServiceImpl) RetractOne(ctx context.Context, key mongo.NotificationKey) error {
	n, err := s.notificationRepo.FindOneAndDelete(ctx, key)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}
	metrics.Notifications.WithLabelValues(n.Type, "retracted").Inc()
	s.emit(ctx, n.RecipientID, consts.EventRemoveNotification, s.toDTO(n, nil))
	return nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uint64) (*dto.NotificationListDTO, error) {
	all, err := s.notificationRepo.ListByRecipient(ctx, userID, false, s.listLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.ListByRecipient(ctx, userID, true, s.unreadLimit)
	if err != nil {
		return nil, err
	}
	unseen, err := s.notificationRepo.CountUnseen(ctx, userID)
	if err != nil {
		return nil, err
	}

	actorIDs := lo.Uniq(lo.Map(append(append([]*mongo.NotificationModel{}, all...), unread...), func(n *mongo.NotificationModel, _ int) uint64 {
		return n.UserID
	}))
	users, err := s.userRepo.GetUserByIds(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	userMap := lo.KeyBy(users, func(u *model.User) uint64 { return u.ID })

	convert := func(list []*mongo.NotificationModel) []*dto.NotificationDTO {
		return lo.Map(list, func(n *mongo.NotificationModel, _ int) *dto.NotificationDTO {
			return s.toDTO(n, userMap[n.UserID])
		})
	}
	return &dto.NotificationListDTO{
		All:         convert(all),
		Unread:      convert(unread),
		UnseenCount: unseen,
	}, nil
}

func (s *notificationServiceImpl) MarkAllSeen(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllSeen(ctx, userID)
}

// MarkRead 只能标记自己的通知
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrParamInvalid
	}
	err = s.notificationRepo.MarkRead(ctx, userID, oid)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationServiceImpl) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	return s.notificationRepo.DeleteReadBefore(ctx, before)
}

// emit 推送失败只记录，不影响主流程
func (s *notificationServiceImpl) emit(ctx context.Context, userID uint64, event string, payload any) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Emit(ctx, userID, event, payload); err != nil {
		log.WarnContext(ctx, "push notification failed", "user_id", userID, "event", event, "err", err)
	}
}

func (s *notificationServiceImpl) toDTO(n *mongo.NotificationModel, actor *model.User) *dto.NotificationDTO {
	res := &dto.NotificationDTO{
		ID:            n.ID.Hex(),
		UserID:        n.UserID,
		RecipientID:   n.RecipientID,
		Type:          n.Type,
		PostID:        n.PostID,
		CommentID:     n.CommentID,
		ReplyID:       n.ReplyID,
		Message:       n.Message,
		Status:        n.Status,
		ReadingStatus: n.ReadingStatus,
		CreatedAt:     n.CreatedAt,
	}
	if actor != nil {
		res.User = toUserBrief(actor)
	}
	return res
}

func toUserBrief(u *model.User) *dto.UserBriefDTO {
	if u == nil {
		return nil
	}
	return &dto.UserBriefDTO{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
	}
}
