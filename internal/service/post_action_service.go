package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/lock"
	"IQNet/internal/pkg/metrics"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// PostActionService 帖子互动：评论、回复、反应
type PostActionService interface {
	AddComment(ctx context.Context, userID uint64, req *dto.AddCommentReq) (*dto.PostDTO, error)
	UpdateComment(ctx context.Context, userID uint64, req *dto.UpdateCommentReq) (*dto.PostDTO, error)
	DeleteComment(ctx context.Context, userID uint64, req *dto.DeleteCommentReq) (*dto.PostDTO, error)
	AddReply(ctx context.Context, userID uint64, req *dto.AddReplyReq) (*dto.PostDTO, error)
	UpdateReply(ctx context.Context, userID uint64, req *dto.UpdateReplyReq) (*dto.PostDTO, error)
	DeleteReply(ctx context.Context, userID uint64, req *dto.DeleteReplyReq) (*dto.PostDTO, error)
	TogglePostReaction(ctx context.Context, userID uint64, req *dto.PostReactionReq) (*dto.ReactionStateDTO, error)
	ToggleCommentReaction(ctx context.Context, userID uint64, req *dto.CommentReactionReq) (*dto.ReactionStateDTO, error)
	ToggleReplyReaction(ctx context.Context, userID uint64, req *dto.ReplyReactionReq) (*dto.ReactionStateDTO, error)
}

type postActionServiceImpl struct {
	postRepo  repository.PostRepo
	pointSvc  PointService
	notifySvc NotificationService
	locks     *lock.Manager
	viewer    *postViewer
}

// 删除评论/回复时需要撤回的通知类型
var (
	commentRetractTypes = []string{mongo.NotificationComment, mongo.NotificationReply, mongo.NotificationLike, mongo.NotificationDislike}
	replyRetractTypes   = []string{mongo.NotificationReply, mongo.NotificationLike, mongo.NotificationDislike}
)

func NewPostActionService(postRepo repository.PostRepo, userRepo repository.UserRepo, pointSvc PointService, notifySvc NotificationService, locks *lock.Manager) PostActionService {
	return &postActionServiceImpl{
		postRepo:  postRepo,
		pointSvc:  pointSvc,
		notifySvc: notifySvc,
		locks:     locks,
		viewer:    newPostViewer(postRepo, userRepo),
	}
}

func postTarget(postID uint64) string {
	return "post:" + strconv.FormatUint(postID, 10)
}

func commentTarget(commentID string) string {
	return "comment:" + commentID
}

// guard 同一 (用户, 目标, 操作) 已在处理中则直接拒绝
func (s *postActionServiceImpl) guard(key lock.Key) (func(), error) {
	release, ok := s.locks.TryAcquire(key)
	if !ok {
		metrics.LockConflicts.WithLabelValues(key.Op.String()).Inc()
		return nil, ErrActionLocked
	}
	return release, nil
}

func (s *postActionServiceImpl) loadPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// award 积分与通知都在聚合保存之后，失败只记录日志
func (s *postActionServiceImpl) award(ctx context.Context, entry *model.Point) {
	if err := s.pointSvc.Record(ctx, entry); err != nil {
		log.ErrorContext(ctx, "record point failed", "user_id", entry.UserID, "context", entry.Context, "err", err)
	}
}

func (s *postActionServiceImpl) notify(ctx context.Context, in *NotificationInput) {
	if err := s.notifySvc.Create(ctx, in); err != nil {
		log.ErrorContext(ctx, "create notification failed", "type", in.Type, "recipient_id", in.RecipientID, "err", err)
	}
}

func (s *postActionServiceImpl) retract(ctx context.Context, filter mongo.NotificationFilter) {
	if err := s.notifySvc.Retract(ctx, filter); err != nil {
		log.ErrorContext(ctx, "retract notifications failed", "post_id", lo.FromPtr(filter.PostID), "err", err)
	}
}

func (s *postActionServiceImpl) retractOne(ctx context.Context, key mongo.NotificationKey) {
	if err := s.notifySvc.RetractOne(ctx, key); err != nil {
		log.ErrorContext(ctx, "retract notification failed", "type", key.Type, "err", err)
	}
}

func (s *postActionServiceImpl) AddComment(ctx context.Context, userID uint64, req *dto.AddCommentReq) (*dto.PostDTO, error) {
	release, err := s.guard(lock.Key{Actor: userID, Target: postTarget(req.PostID), Op: lock.OpCommentAdd})
	if err != nil {
		return nil, err
	}
	defer release()

	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	// 每个用户在每个帖子上只有第一条评论计分
	first := !post.HasCommentFrom(userID)
	now := time.Now()
	comment := model.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Body:      req.Body,
		Reactions: model.Reactions{},
		Replies:   []model.Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.Comments = append(post.Comments, comment)
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if post.UserID != userID {
		if first {
			s.award(ctx, &model.Point{
				UserID:       post.UserID,
				Context:      PointComment,
				Points:       pointsComment,
				InteractorID: userID,
				PostID:       &post.ID,
				CommentID:    &comment.ID,
			})
		}
		s.notify(ctx, &NotificationInput{
			Type:        mongo.NotificationComment,
			ActorID:     userID,
			RecipientID: post.UserID,
			PostID:      &post.ID,
			CommentID:   &comment.ID,
			Message:     "评论了你的帖子",
		})
	}

	return s.viewer.one(ctx, post)
}

func (s *postActionServiceImpl) UpdateComment(ctx context.Context, userID uint64, req *dto.UpdateCommentReq) (*dto.PostDTO, error) {
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrNotAuthor
	}

	comment.Body = req.Body
	comment.UpdatedAt = time.Now()
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}
	return s.viewer.one(ctx, post)
}

// DeleteComment 连同回复一起删除，并撤回挂在该评论下的全部通知
func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID uint64, req *dto.DeleteCommentReq) (*dto.PostDTO, error) {
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrNotAuthor
	}

	post.RemoveComment(req.CommentID)
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	commentID := req.CommentID
	s.retract(ctx, mongo.NotificationFilter{
		Types:     commentRetractTypes,
		PostID:    &post.ID,
		CommentID: &commentID,
	})
	return s.viewer.one(ctx, post)
}

func (s *postActionServiceImpl) AddReply(ctx context.Context, userID uint64, req *dto.AddReplyReq) (*dto.PostDTO, error) {
	release, err := s.guard(lock.Key{Actor: userID, Target: commentTarget(req.CommentID), Op: lock.OpReplyAdd})
	if err != nil {
		return nil, err
	}
	defer release()

	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}

	// 每个用户在每条评论下只有第一条回复计分
	first := !comment.HasReplyFrom(userID)
	now := time.Now()
	reply := model.Reply{
		ID:        uuid.NewString(),
		UserID:    userID,
		Body:      req.Body,
		Reactions: model.Reactions{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	comment.Replies = append(comment.Replies, reply)
	ownerID := comment.UserID
	commentID := comment.ID
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if ownerID != userID {
		if first {
			s.award(ctx, &model.Point{
				UserID:       ownerID,
				Context:      PointReply,
				Points:       pointsReply,
				InteractorID: userID,
				PostID:       &post.ID,
				CommentID:    &commentID,
			})
		}
		s.notify(ctx, &NotificationInput{
			Type:        mongo.NotificationReply,
			ActorID:     userID,
			RecipientID: ownerID,
			PostID:      &post.ID,
			CommentID:   &commentID,
			ReplyID:     &reply.ID,
			Message:     "回复了你的评论",
		})
	}

	return s.viewer.one(ctx, post)
}

func (s *postActionServiceImpl) UpdateReply(ctx context.Context, userID uint64, req *dto.UpdateReplyReq) (*dto.PostDTO, error) {
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	reply := comment.FindReply(req.ReplyID)
	if reply == nil {
		return nil, ErrPostReplyNotFound
	}
	if reply.UserID != userID {
		return nil, ErrNotAuthor
	}

	reply.Body = req.Body
	reply.UpdatedAt = time.Now()
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}
	return s.viewer.one(ctx, post)
}

func (s *postActionServiceImpl) DeleteReply(ctx context.Context, userID uint64, req *dto.DeleteReplyReq) (*dto.PostDTO, error) {
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	reply := comment.FindReply(req.ReplyID)
	if reply == nil {
		return nil, ErrPostReplyNotFound
	}
	if reply.UserID != userID {
		return nil, ErrNotAuthor
	}

	comment.RemoveReply(req.ReplyID)
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	commentID, replyID := req.CommentID, req.ReplyID
	s.retract(ctx, mongo.NotificationFilter{
		Types:     replyRetractTypes,
		PostID:    &post.ID,
		CommentID: &commentID,
		ReplyID:   &replyID,
	})
	return s.viewer.one(ctx, post)
}

// TogglePostReaction 帖子反应会影响作者积分，评论/回复反应不计分
func (s *postActionServiceImpl) TogglePostReaction(ctx context.Context, userID uint64, req *dto.PostReactionReq) (*dto.ReactionStateDTO, error) {
	if !req.Type.Valid() {
		return nil, ErrParamInvalid
	}
	release, err := s.guard(lock.Key{Actor: userID, Target: postTarget(req.PostID), Op: lock.OpPostReaction})
	if err != nil {
		return nil, err
	}
	defer release()

	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	var tr ReactionTransition
	post.Reactions, tr = applyReaction(post.Reactions, userID, req.Type)
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if post.UserID != userID {
		if tr.Delta != 0 {
			s.award(ctx, &model.Point{
				UserID:       post.UserID,
				Context:      tr.Context,
				Points:       tr.Delta,
				InteractorID: userID,
				PostID:       &post.ID,
			})
		}
		s.reactionNotify(ctx, userID, post.UserID, tr, req.Type, &post.ID, nil, nil)
	}

	view, err := s.viewer.one(ctx, post)
	if err != nil {
		return nil, err
	}
	return &dto.ReactionStateDTO{
		State:          string(tr.To),
		ReactionsCount: len(post.Reactions),
		Post:           view,
	}, nil
}

func (s *postActionServiceImpl) ToggleCommentReaction(ctx context.Context, userID uint64, req *dto.CommentReactionReq) (*dto.ReactionStateDTO, error) {
	if !req.Type.Valid() {
		return nil, ErrParamInvalid
	}
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}

	var tr ReactionTransition
	comment.Reactions, tr = applyReaction(comment.Reactions, userID, req.Type)
	ownerID, count := comment.UserID, len(comment.Reactions)
	commentID := comment.ID
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if ownerID != userID {
		s.reactionNotify(ctx, userID, ownerID, tr, req.Type, &post.ID, &commentID, nil)
	}

	view, err := s.viewer.one(ctx, post)
	if err != nil {
		return nil, err
	}
	return &dto.ReactionStateDTO{State: string(tr.To), ReactionsCount: count, Post: view}, nil
}

func (s *postActionServiceImpl) ToggleReplyReaction(ctx context.Context, userID uint64, req *dto.ReplyReactionReq) (*dto.ReactionStateDTO, error) {
	if !req.Type.Valid() {
		return nil, ErrParamInvalid
	}
	post, err := s.loadPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	comment := post.FindComment(req.CommentID)
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	reply := comment.FindReply(req.ReplyID)
	if reply == nil {
		return nil, ErrPostReplyNotFound
	}

	var tr ReactionTransition
	reply.Reactions, tr = applyReaction(reply.Reactions, userID, req.Type)
	ownerID, count := reply.UserID, len(reply.Reactions)
	commentID, replyID := comment.ID, reply.ID
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}

	if ownerID != userID {
		s.reactionNotify(ctx, userID, ownerID, tr, req.Type, &post.ID, &commentID, &replyID)
	}

	view, err := s.viewer.one(ctx, post)
	if err != nil {
		return nil, err
	}
	return &dto.ReactionStateDTO{State: string(tr.To), ReactionsCount: count, Post: view}, nil
}

// reactionNotify 以反应的最终状态为准：取消时撤回同类型通知，
// 否则保证新类型通知存在并撤回相反类型
func (s *postActionServiceImpl) reactionNotify(ctx context.Context, actorID, recipientID uint64, tr ReactionTransition, t model.ReactionType, postID *uint64, commentID, replyID *string) {
	key := mongo.NotificationKey{
		UserID:      actorID,
		Type:        string(t),
		RecipientID: recipientID,
		PostID:      postID,
		CommentID:   commentID,
		ReplyID:     replyID,
	}
	if tr.To == ReactionNone {
		s.retractOne(ctx, key)
		return
	}

	message := "赞了你的内容"
	if t == model.ReactionDislike {
		message = "踩了你的内容"
	}
	in := &NotificationInput{
		Type:        string(t),
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		CommentID:   commentID,
		ReplyID:     replyID,
		Message:     message,
	}
	if err := s.notifySvc.Ensure(ctx, in); err != nil {
		log.ErrorContext(ctx, "ensure notification failed", "type", in.Type, "recipient_id", recipientID, "err", err)
	}
	key.Type = string(t.Opposite())
	s.retractOne(ctx, key)
}
