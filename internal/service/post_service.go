package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/consts"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/pkg/util"
	"IQNet/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DistLocker 跨实例互斥
type DistLocker interface {
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
}

// PostService 帖子生命周期、分享、信息流、收藏与举报
type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostReq) (*dto.PostDTO, error)
	GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDTO, error)
	GetMyPosts(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	GetUserPosts(ctx context.Context, viewerID, userID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID, postID uint64, req *dto.UpdatePostReq) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
	SharePost(ctx context.Context, userID, postID uint64, req *dto.SharePostReq) (*dto.PostDTO, error)
	GetNewsfeed(ctx context.Context, userID uint64, page int) ([]*dto.PostDTO, error)
	SavePost(ctx context.Context, userID, postID uint64) error
	UnsavePost(ctx context.Context, userID, postID uint64) error
	GetSavedPosts(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SavedPostDTO, error)
	ReportPost(ctx context.Context, userID, postID uint64, req *dto.ReportPostReq) error
}

type postServiceImpl struct {
	postRepo       repository.PostRepo
	connectionRepo repository.ConnectionRepo
	savedPostRepo  repository.SavedPostRepo
	reportRepo     repository.ReportRepo
	notifySvc      NotificationService
	locker         DistLocker
	viewer         *postViewer
	feedPageSize   int
}

func NewPostService(
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	connectionRepo repository.ConnectionRepo,
	savedPostRepo repository.SavedPostRepo,
	reportRepo repository.ReportRepo,
	notifySvc NotificationService,
	locker DistLocker,
	feedPageSize int,
) PostService {
	if feedPageSize <= 0 {
		feedPageSize = 10
	}
	return &postServiceImpl{
		postRepo:       postRepo,
		connectionRepo: connectionRepo,
		savedPostRepo:  savedPostRepo,
		reportRepo:     reportRepo,
		notifySvc:      notifySvc,
		locker:         locker,
		viewer:         newPostViewer(postRepo, userRepo),
		feedPageSize:   feedPageSize,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostReq) (*dto.PostDTO, error) {
	if req.Body == "" && len(req.Pictures) == 0 {
		return nil, ErrParamInvalid
	}
	post := &model.Post{
		UserID:        userID,
		Body:          req.Body,
		Pictures:      req.Pictures,
		Accessibility: lo.Ternary(req.Accessibility == "", model.AccessibilityPublic, req.Accessibility),
		Status:        model.PostStatusActive,
		Reactions:     model.Reactions{},
		Comments:      []model.Comment{},
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.viewer.one(ctx, post)
}

// canView 仅关注者可见的帖子需要已接受的关注关系
func (s *postServiceImpl) canView(ctx context.Context, viewerID uint64, post *model.Post) (bool, error) {
	if post.Accessibility != model.AccessibilityFollowersOnly || post.UserID == viewerID {
		return true, nil
	}
	if viewerID == 0 {
		return false, nil
	}
	conn, err := s.connectionRepo.GetConnection(ctx, viewerID, post.UserID)
	if err != nil {
		return false, err
	}
	return conn != nil && conn.Status == model.ConnectionAccepted, nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	ok, err := s.canView(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}
	return s.viewer.one(ctx, post)
}

func (s *postServiceImpl) GetMyPosts(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	return s.GetUserPosts(ctx, userID, userID, page, pageSize)
}

func (s *postServiceImpl) GetUserPosts(ctx context.Context, viewerID, userID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	publicOnly := viewerID != userID
	if publicOnly && viewerID != 0 {
		conn, err := s.connectionRepo.GetConnection(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		publicOnly = conn == nil || conn.Status != model.ConnectionAccepted
	}
	limit, offset := util.Paginate(page, pageSize)
	posts, err := s.postRepo.ListByUser(ctx, userID, publicOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.viewer.many(ctx, posts)
}

func (s *postServiceImpl) loadOwnPost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, ErrNotAuthor
	}
	return post, nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, req *dto.UpdatePostReq) (*dto.PostDTO, error) {
	post, err := s.loadOwnPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Pictures != nil {
		post.Pictures = req.Pictures
	}
	if req.Accessibility != nil {
		post.Accessibility = *req.Accessibility
	}
	if post.Body == "" && len(post.Pictures) == 0 && post.ShareID == nil {
		return nil, ErrParamInvalid
	}
	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}
	return s.viewer.one(ctx, post)
}

// DeletePost 软删除，分享帖需要重算原帖的分享数
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.loadOwnPost(ctx, userID, postID)
	if err != nil {
		return err
	}
	if err = s.postRepo.SoftDeletePost(ctx, post.ID); err != nil {
		return err
	}

	if post.ShareID != nil {
		if err = s.refreshShareCount(ctx, *post.ShareID); err != nil {
			log.ErrorContext(ctx, "refresh share count failed", "post_id", *post.ShareID, "err", err)
		}
	}

	if err = s.notifySvc.Retract(ctx, mongo.NotificationFilter{
		Types:  commentRetractTypes,
		PostID: &post.ID,
	}); err != nil {
		log.ErrorContext(ctx, "retract post notifications failed", "post_id", post.ID, "err", err)
	}
	return nil
}

func (s *postServiceImpl) refreshShareCount(ctx context.Context, originalID uint64) error {
	count, err := s.postRepo.CountActiveShares(ctx, originalID)
	if err != nil {
		return err
	}
	return s.postRepo.UpdateShareCount(ctx, originalID, count)
}

// SharePost 分享链被压平：始终指向最初的原帖
func (s *postServiceImpl) SharePost(ctx context.Context, userID, postID uint64, req *dto.SharePostReq) (*dto.PostDTO, error) {
	target, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrPostNotFound
	}

	originalID := target.ID
	if target.ShareID != nil {
		originalID = *target.ShareID
	}

	existing, err := s.postRepo.FindActiveShare(ctx, userID, lo.Uniq([]uint64{postID, originalID})...)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPostAlreadyShared
	}
	if target.Accessibility != model.AccessibilityPublic {
		return nil, ErrPostPrivateShare
	}
	// 转发的是分享帖时，原帖同样需要存在且公开
	if originalID != target.ID {
		original, err := s.postRepo.GetActivePost(ctx, originalID)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, ErrPostNotFound
		}
		if original.Accessibility != model.AccessibilityPublic {
			return nil, ErrPostPrivateShare
		}
	}

	share := &model.Post{
		UserID:        userID,
		Body:          req.Body,
		Pictures:      []string{},
		Accessibility: lo.Ternary(req.Accessibility == "", model.AccessibilityPublic, req.Accessibility),
		Status:        model.PostStatusActive,
		ShareID:       &originalID,
		Reactions:     model.Reactions{},
		Comments:      []model.Comment{},
	}
	if err = s.postRepo.CreatePost(ctx, share); err != nil {
		return nil, err
	}
	if err = s.refreshShareCount(ctx, originalID); err != nil {
		log.ErrorContext(ctx, "refresh share count failed", "post_id", originalID, "err", err)
	}

	if err = s.notifySvc.Create(ctx, &NotificationInput{
		Type:        mongo.NotificationShare,
		ActorID:     userID,
		RecipientID: target.UserID,
		PostID:      &target.ID,
		Message:     "分享了你的帖子",
	}); err != nil {
		log.ErrorContext(ctx, "create share notification failed", "post_id", target.ID, "err", err)
	}

	return s.viewer.one(ctx, share)
}

// GetNewsfeed 已接受的关注对象的帖子，没有关注时退化为全站公开帖子
func (s *postServiceImpl) GetNewsfeed(ctx context.Context, userID uint64, page int) ([]*dto.PostDTO, error) {
	followeeIDs, err := s.connectionRepo.GetFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit, offset := util.Paginate(page, s.feedPageSize)

	var posts []*model.Post
	if len(followeeIDs) == 0 {
		posts, err = s.postRepo.ListActive(ctx, userID, limit, offset)
	} else {
		posts, err = s.postRepo.ListByUsers(ctx, followeeIDs, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return s.viewer.many(ctx, posts)
}

func (s *postServiceImpl) SavePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	saved, err := s.savedPostRepo.Get(ctx, userID, postID)
	if err != nil {
		return err
	}
	if saved != nil {
		return ErrPostAlreadySaved
	}
	return s.savedPostRepo.Create(ctx, &model.SavedPost{UserID: userID, PostID: postID})
}

func (s *postServiceImpl) UnsavePost(ctx context.Context, userID, postID uint64) error {
	n, err := s.savedPostRepo.Delete(ctx, userID, postID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotSaved
	}
	return nil
}

// GetSavedPosts 已删除的帖子不再返回
func (s *postServiceImpl) GetSavedPosts(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SavedPostDTO, error) {
	limit, offset := util.Paginate(page, pageSize)
	list, err := s.savedPostRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []*dto.SavedPostDTO{}, nil
	}

	posts, err := s.postRepo.GetPostByIds(ctx, lo.Map(list, func(item *model.SavedPost, _ int) uint64 {
		return item.PostID
	}))
	if err != nil {
		return nil, err
	}
	posts = lo.Filter(posts, func(p *model.Post, _ int) bool { return p.IsActive() })
	views, err := s.viewer.many(ctx, posts)
	if err != nil {
		return nil, err
	}
	viewMap := lo.KeyBy(views, func(v *dto.PostDTO) uint64 { return v.ID })

	return lo.FilterMap(list, func(item *model.SavedPost, _ int) (*dto.SavedPostDTO, bool) {
		view, ok := viewMap[item.PostID]
		if !ok {
			return nil, false
		}
		return &dto.SavedPostDTO{ID: item.ID, Post: view, CreatedAt: item.CreatedAt}, true
	}), nil
}

// ReportPost 每个用户对每个帖子只能举报一次
func (s *postServiceImpl) ReportPost(ctx context.Context, userID, postID uint64, req *dto.ReportPostReq) error {
	post, err := s.postRepo.GetActivePost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	key := fmt.Sprintf("%s%d:%d", consts.ReportLock, postID, userID)
	token := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, key, token, 5*time.Second, 1)
	if err != nil {
		return err
	}
	if !ok {
		return ErrActionLocked
	}
	defer s.locker.UnLock(ctx, key, token)

	exists, err := s.reportRepo.Exists(ctx, postID, userID)
	if err != nil {
		return err
	}
	if exists {
		return ErrPostAlreadyReported
	}
	inserted, err := s.reportRepo.Create(ctx, &model.Report{
		PostID:     postID,
		ReporterID: userID,
		Body:       req.Body,
		Type:       req.Type,
	})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrPostAlreadyReported
	}
	log.InfoContext(ctx, "post reported", "post_id", postID, "reporter_id", userID, "type", req.Type)
	return nil
}
