package service

import (
	"IQNet/internal/api/config"
	"IQNet/internal/model"
	"IQNet/internal/pkg/database"
	"IQNet/internal/pkg/lock"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/repository"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

func eqUint64(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fakeNotificationRepo 内存版通知存储
type fakeNotificationRepo struct {
	mu   sync.Mutex
	docs []*mongo.NotificationModel
}

func (f *fakeNotificationRepo) matchKey(n *mongo.NotificationModel, key mongo.NotificationKey) bool {
	return n.UserID == key.UserID && n.Type == key.Type && n.RecipientID == key.RecipientID &&
		eqUint64(n.PostID, key.PostID) && eqString(n.CommentID, key.CommentID) && eqString(n.ReplyID, key.ReplyID)
}

func (f *fakeNotificationRepo) matchFilter(n *mongo.NotificationModel, filter mongo.NotificationFilter) bool {
	if len(filter.Types) > 0 && !lo.Contains(filter.Types, n.Type) {
		return false
	}
	if filter.UserID > 0 && n.UserID != filter.UserID {
		return false
	}
	if filter.RecipientID > 0 && n.RecipientID != filter.RecipientID {
		return false
	}
	if filter.PostID != nil && !eqUint64(n.PostID, filter.PostID) {
		return false
	}
	if filter.CommentID != nil && !eqString(n.CommentID, filter.CommentID) {
		return false
	}
	if filter.ReplyID != nil && !eqString(n.ReplyID, filter.ReplyID) {
		return false
	}
	return true
}

func (f *fakeNotificationRepo) FindByKey(_ context.Context, key mongo.NotificationKey) (*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := lo.Find(f.docs, func(item *mongo.NotificationModel) bool { return f.matchKey(item, key) })
	if !ok {
		return nil, nil
	}
	return n, nil
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *mongo.NotificationModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	f.docs = append(f.docs, n)
	return nil
}

func (f *fakeNotificationRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = lo.Reject(f.docs, func(item *mongo.NotificationModel, _ int) bool { return item.ID == id })
	return nil
}

func (f *fakeNotificationRepo) FindOneAndDelete(_ context.Context, key mongo.NotificationKey) (*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, idx, ok := lo.FindIndexOf(f.docs, func(item *mongo.NotificationModel) bool { return f.matchKey(item, key) })
	if !ok {
		return nil, nil
	}
	f.docs = append(f.docs[:idx], f.docs[idx+1:]...)
	return n, nil
}

func (f *fakeNotificationRepo) Find(_ context.Context, filter mongo.NotificationFilter) ([]*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.Filter(f.docs, func(item *mongo.NotificationModel, _ int) bool { return f.matchFilter(item, filter) }), nil
}

func (f *fakeNotificationRepo) DeleteMany(_ context.Context, filter mongo.NotificationFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.docs)
	f.docs = lo.Reject(f.docs, func(item *mongo.NotificationModel, _ int) bool { return f.matchFilter(item, filter) })
	return int64(before - len(f.docs)), nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uint64, unreadOnly bool, limit int64) ([]*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*mongo.NotificationModel
	for i := len(f.docs) - 1; i >= 0 && int64(len(res)) < limit; i-- {
		n := f.docs[i]
		if n.RecipientID != recipientID || (unreadOnly && n.ReadingStatus != mongo.ReadingUnread) {
			continue
		}
		res = append(res, n)
	}
	return res, nil
}

func (f *fakeNotificationRepo) CountUnseen(_ context.Context, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(lo.CountBy(f.docs, func(item *mongo.NotificationModel) bool {
		return item.RecipientID == recipientID && item.Status == mongo.StatusSent
	})), nil
}

func (f *fakeNotificationRepo) MarkAllSeen(_ context.Context, recipientID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.docs {
		if n.RecipientID == recipientID {
			n.Status = mongo.StatusSeen
		}
	}
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := lo.Find(f.docs, func(item *mongo.NotificationModel) bool { return item.ID == id })
	if !ok {
		return nil, nil
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, recipientID uint64, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := lo.Find(f.docs, func(item *mongo.NotificationModel) bool {
		return item.ID == id && item.RecipientID == recipientID
	})
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	n.ReadingStatus = mongo.ReadingRead
	n.Status = mongo.StatusSeen
	return nil
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.docs)
	f.docs = lo.Reject(f.docs, func(item *mongo.NotificationModel, _ int) bool {
		return item.ReadingStatus == mongo.ReadingRead && item.CreatedAt.Before(before)
	})
	return int64(n - len(f.docs)), nil
}

func (f *fakeNotificationRepo) count(filter mongo.NotificationFilter) int {
	list, _ := f.Find(context.Background(), filter)
	return len(list)
}

type pushed struct {
	UserID  uint64
	Event   string
	Payload any
}

// fakeGateway 记录所有推送
type fakeGateway struct {
	mu     sync.Mutex
	events []pushed
}

func (g *fakeGateway) Emit(_ context.Context, userID uint64, event string, payload any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, pushed{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (g *fakeGateway) count(userID uint64, event string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo.CountBy(g.events, func(item pushed) bool {
		return item.UserID == userID && item.Event == event
	})
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ interface{}, _ time.Duration, _ int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) UnLock(_ context.Context, key string, _ interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

type testEnv struct {
	userRepo       repository.UserRepo
	postRepo       repository.PostRepo
	connectionRepo repository.ConnectionRepo
	pointRepo      repository.PointRepo
	notifications  *fakeNotificationRepo
	gateway        *fakeGateway
	locker         *fakeLocker
	locks          *lock.Manager

	pointSvc   PointService
	notifySvc  NotificationService
	actionSvc  PostActionService
	postSvc    PostService
	connectSvc ConnectionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:      "sqlite",
		DSN:         filepath.Join(t.TempDir(), "service.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		userRepo:       repository.NewUserRepo(db),
		postRepo:       repository.NewPostRepository(db),
		connectionRepo: repository.NewConnectionRepo(db),
		pointRepo:      repository.NewPointRepo(db),
		notifications:  &fakeNotificationRepo{},
		gateway:        &fakeGateway{},
		locker:         &fakeLocker{},
		locks:          lock.NewManager(),
	}
	env.pointSvc = NewPointService(env.pointRepo, env.locks)
	env.notifySvc = NewNotificationService(env.notifications, env.userRepo, env.gateway, nil)
	env.actionSvc = NewPostActionService(env.postRepo, env.userRepo, env.pointSvc, env.notifySvc, env.locks)
	env.postSvc = NewPostService(
		env.postRepo,
		env.userRepo,
		env.connectionRepo,
		repository.NewSavedPostRepo(db),
		repository.NewReportRepo(db),
		env.notifySvc,
		env.locker,
		10,
	)
	env.connectSvc = NewConnectionService(env.connectionRepo, env.userRepo, env.notifySvc)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@iqnet.test", Fullname: name, Status: model.UserStatusActive}
	require.NoError(t, e.userRepo.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) post(t *testing.T, ownerID uint64, accessibility string) *model.Post {
	t.Helper()
	p := &model.Post{UserID: ownerID, Body: "post body", Accessibility: accessibility, Status: model.PostStatusActive}
	require.NoError(t, e.postRepo.CreatePost(context.Background(), p))
	return p
}

func (e *testEnv) reload(t *testing.T, postID uint64) *model.Post {
	t.Helper()
	p, err := e.postRepo.GetPost(context.Background(), postID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (e *testEnv) score(t *testing.T, userID uint64) int64 {
	t.Helper()
	s, err := e.pointSvc.GetScore(context.Background(), userID)
	require.NoError(t, err)
	return s.Points
}
