package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/consts"
	"IQNet/internal/pkg/lock"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentCreditsFirstCommentOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, guest.ID, &dto.AddCommentReq{PostID: p.ID, Body: "first"})
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.NotEmpty(t, view.Comments[0].ID)

	_, err = env.actionSvc.AddComment(ctx, guest.ID, &dto.AddCommentReq{PostID: p.ID, Body: "second"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), env.score(t, owner.ID))
	assert.Len(t, env.reload(t, p.ID).Comments, 2)
	assert.Equal(t, 2, env.notifications.count(mongo.NotificationFilter{
		Types:       []string{mongo.NotificationComment},
		RecipientID: owner.ID,
	}))
	assert.Equal(t, 2, env.gateway.count(owner.ID, consts.EventNotification))
}

func TestSelfCommentHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	_, err := env.actionSvc.AddComment(ctx, owner.ID, &dto.AddCommentReq{PostID: p.ID, Body: "mine"})
	require.NoError(t, err)

	assert.Zero(t, env.score(t, owner.ID))
	assert.Empty(t, env.notifications.docs)
}

func TestAddCommentRejectedWhileLocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	release, ok := env.locks.TryAcquire(lock.Key{Actor: guest.ID, Target: postTarget(p.ID), Op: lock.OpCommentAdd})
	require.True(t, ok)

	_, err := env.actionSvc.AddComment(ctx, guest.ID, &dto.AddCommentReq{PostID: p.ID, Body: "dup"})
	assert.ErrorIs(t, err, ErrActionLocked)
	assert.Empty(t, env.reload(t, p.ID).Comments)
	assert.Zero(t, env.score(t, owner.ID))

	// 其他用户不受影响
	other := env.user(t, "other")
	_, err = env.actionSvc.AddComment(ctx, other.ID, &dto.AddCommentReq{PostID: p.ID, Body: "ok"})
	assert.NoError(t, err)

	release()
	_, err = env.actionSvc.AddComment(ctx, guest.ID, &dto.AddCommentReq{PostID: p.ID, Body: "later"})
	assert.NoError(t, err)
}

func TestPostReactionLedgerAndNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	like := &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionLike}
	dislike := &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionDislike}
	likes := mongo.NotificationFilter{Types: []string{mongo.NotificationLike}, RecipientID: owner.ID}
	dislikes := mongo.NotificationFilter{Types: []string{mongo.NotificationDislike}, RecipientID: owner.ID}

	state, err := env.actionSvc.TogglePostReaction(ctx, guest.ID, like)
	require.NoError(t, err)
	assert.Equal(t, "like", state.State)
	assert.Equal(t, 1, state.ReactionsCount)
	assert.Equal(t, int64(1), env.score(t, owner.ID))
	assert.Equal(t, 1, env.notifications.count(likes))

	state, err = env.actionSvc.TogglePostReaction(ctx, guest.ID, dislike)
	require.NoError(t, err)
	assert.Equal(t, "dislike", state.State)
	assert.Equal(t, 1, state.ReactionsCount)
	assert.Equal(t, int64(-1), env.score(t, owner.ID))
	assert.Equal(t, 0, env.notifications.count(likes))
	assert.Equal(t, 1, env.notifications.count(dislikes))

	state, err = env.actionSvc.TogglePostReaction(ctx, guest.ID, dislike)
	require.NoError(t, err)
	assert.Equal(t, "none", state.State)
	assert.Equal(t, 0, state.ReactionsCount)
	assert.Equal(t, int64(0), env.score(t, owner.ID))
	assert.Equal(t, 0, env.notifications.count(dislikes))

	history, err := env.pointSvc.GetHistory(ctx, owner.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, PointPostDislikeRemove, history[0].Context)
	assert.Equal(t, PointLikeRemoveAndDislike, history[1].Context)
	assert.Equal(t, PointPostLike, history[2].Context)
	assert.Equal(t, guest.ID, history[0].InteractorID)

	assert.Equal(t, 0, env.reload(t, p.ID).ReactionsCount)
}

func TestSelfReactionAwardsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	state, err := env.actionSvc.TogglePostReaction(ctx, owner.ID, &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, "like", state.State)
	assert.Zero(t, env.score(t, owner.ID))
	assert.Empty(t, env.notifications.docs)
}

func TestReactionOnMissingPost(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.actionSvc.TogglePostReaction(context.Background(), 1, &dto.PostReactionReq{PostID: 404, Type: model.ReactionLike})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReplyCreditsCommentOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, commenter, replier := env.user(t, "owner"), env.user(t, "commenter"), env.user(t, "replier")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, commenter.ID, &dto.AddCommentReq{PostID: p.ID, Body: "c"})
	require.NoError(t, err)
	commentID := view.Comments[0].ID

	view, err = env.actionSvc.AddReply(ctx, replier.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: commentID, Body: "r"})
	require.NoError(t, err)
	require.Len(t, view.Comments[0].Replies, 1)

	assert.Equal(t, int64(1), env.score(t, commenter.ID))
	assert.Equal(t, int64(2), env.score(t, owner.ID))
	assert.Equal(t, 1, env.notifications.count(mongo.NotificationFilter{
		Types:       []string{mongo.NotificationReply},
		RecipientID: commenter.ID,
		CommentID:   &commentID,
	}))

	_, err = env.actionSvc.AddReply(ctx, replier.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: "missing", Body: "r"})
	assert.ErrorIs(t, err, ErrPostCommentNotFound)
}

func TestDeleteCommentRetractsItsNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, commenter, other := env.user(t, "owner"), env.user(t, "commenter"), env.user(t, "other")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, commenter.ID, &dto.AddCommentReq{PostID: p.ID, Body: "c"})
	require.NoError(t, err)
	commentID := view.Comments[0].ID

	_, err = env.actionSvc.AddReply(ctx, other.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: commentID, Body: "r"})
	require.NoError(t, err)
	_, err = env.actionSvc.ToggleCommentReaction(ctx, other.ID, &dto.CommentReactionReq{PostID: p.ID, CommentID: commentID, Type: model.ReactionLike})
	require.NoError(t, err)
	_, err = env.actionSvc.TogglePostReaction(ctx, other.ID, &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionLike})
	require.NoError(t, err)

	_, err = env.actionSvc.DeleteComment(ctx, other.ID, &dto.DeleteCommentReq{PostID: p.ID, CommentID: commentID})
	assert.ErrorIs(t, err, ErrNotAuthor)

	view, err = env.actionSvc.DeleteComment(ctx, commenter.ID, &dto.DeleteCommentReq{PostID: p.ID, CommentID: commentID})
	require.NoError(t, err)
	assert.Empty(t, view.Comments)

	assert.Zero(t, env.notifications.count(mongo.NotificationFilter{PostID: &p.ID, CommentID: &commentID}))
	// 帖子本身的点赞通知保留
	assert.Equal(t, 1, env.notifications.count(mongo.NotificationFilter{Types: []string{mongo.NotificationLike}, RecipientID: owner.ID}))
	assert.Equal(t, 2, env.gateway.count(commenter.ID, consts.EventRemoveNotification))
	assert.Equal(t, 1, env.gateway.count(owner.ID, consts.EventRemoveNotification))
}

func TestUpdateAndDeleteReplyAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, replier := env.user(t, "owner"), env.user(t, "replier")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, owner.ID, &dto.AddCommentReq{PostID: p.ID, Body: "c"})
	require.NoError(t, err)
	commentID := view.Comments[0].ID
	view, err = env.actionSvc.AddReply(ctx, replier.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: commentID, Body: "r"})
	require.NoError(t, err)
	replyID := view.Comments[0].Replies[0].ID

	_, err = env.actionSvc.UpdateReply(ctx, owner.ID, &dto.UpdateReplyReq{PostID: p.ID, CommentID: commentID, ReplyID: replyID, Body: "x"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	view, err = env.actionSvc.UpdateReply(ctx, replier.ID, &dto.UpdateReplyReq{PostID: p.ID, CommentID: commentID, ReplyID: replyID, Body: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", view.Comments[0].Replies[0].Body)

	_, err = env.actionSvc.DeleteReply(ctx, replier.ID, &dto.DeleteReplyReq{PostID: p.ID, CommentID: commentID, ReplyID: "nope"})
	assert.ErrorIs(t, err, ErrPostReplyNotFound)

	view, err = env.actionSvc.DeleteReply(ctx, replier.ID, &dto.DeleteReplyReq{PostID: p.ID, CommentID: commentID, ReplyID: replyID})
	require.NoError(t, err)
	assert.Empty(t, view.Comments[0].Replies)
	assert.Zero(t, env.notifications.count(mongo.NotificationFilter{Types: []string{mongo.NotificationReply}}))
}

func TestCommentReactionHasNoLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, owner.ID, &dto.AddCommentReq{PostID: p.ID, Body: "c"})
	require.NoError(t, err)
	commentID := view.Comments[0].ID

	state, err := env.actionSvc.ToggleCommentReaction(ctx, guest.ID, &dto.CommentReactionReq{PostID: p.ID, CommentID: commentID, Type: model.ReactionDislike})
	require.NoError(t, err)
	assert.Equal(t, "dislike", state.State)
	assert.Equal(t, 1, state.ReactionsCount)
	assert.Zero(t, env.score(t, owner.ID))
	assert.Equal(t, 1, env.notifications.count(mongo.NotificationFilter{Types: []string{mongo.NotificationDislike}, CommentID: &commentID}))

	state, err = env.actionSvc.ToggleCommentReaction(ctx, guest.ID, &dto.CommentReactionReq{PostID: p.ID, CommentID: commentID, Type: model.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, "like", state.State)
	assert.Zero(t, env.notifications.count(mongo.NotificationFilter{Types: []string{mongo.NotificationDislike}}))
	assert.Equal(t, 1, env.notifications.count(mongo.NotificationFilter{Types: []string{mongo.NotificationLike}}))
}

func TestReplyCreditedOncePerReplierPerComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, commenter := env.user(t, "owner"), env.user(t, "commenter")
	replier, second := env.user(t, "replier"), env.user(t, "second")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	view, err := env.actionSvc.AddComment(ctx, commenter.ID, &dto.AddCommentReq{PostID: p.ID, Body: "c"})
	require.NoError(t, err)
	commentID := view.Comments[0].ID

	for i := 0; i < 3; i++ {
		_, err = env.actionSvc.AddReply(ctx, replier.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: commentID, Body: "r"})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), env.score(t, commenter.ID))

	_, err = env.actionSvc.AddReply(ctx, second.ID, &dto.AddReplyReq{PostID: p.ID, CommentID: commentID, Body: "r"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), env.score(t, commenter.ID))

	history, err := env.pointSvc.GetHistory(ctx, commenter.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	// 每条回复仍然各自通知
	assert.Equal(t, 4, env.notifications.count(mongo.NotificationFilter{
		Types:       []string{mongo.NotificationReply},
		RecipientID: commenter.ID,
	}))
}

func TestUnlikeAfterPurgeCreatesNoNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)
	like := &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionLike}
	likes := mongo.NotificationFilter{Types: []string{mongo.NotificationLike}, RecipientID: owner.ID}

	_, err := env.actionSvc.TogglePostReaction(ctx, guest.ID, like)
	require.NoError(t, err)
	require.Len(t, env.notifications.docs, 1)
	require.NoError(t, env.notifySvc.MarkRead(ctx, owner.ID, env.notifications.docs[0].ID.Hex()))
	purged, err := env.notifySvc.PurgeRead(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	state, err := env.actionSvc.TogglePostReaction(ctx, guest.ID, like)
	require.NoError(t, err)
	assert.Equal(t, "none", state.State)
	assert.Zero(t, env.notifications.count(likes))
	assert.Equal(t, 1, env.gateway.count(owner.ID, consts.EventNotification))

	state, err = env.actionSvc.TogglePostReaction(ctx, guest.ID, like)
	require.NoError(t, err)
	assert.Equal(t, "like", state.State)
	assert.Equal(t, 1, env.notifications.count(likes))
}

func TestLikeKeepsExistingNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)
	likes := mongo.NotificationFilter{Types: []string{mongo.NotificationLike}, RecipientID: owner.ID}

	// 反应为空但残留了一条点赞通知
	require.NoError(t, env.notifySvc.Create(ctx, &NotificationInput{
		Type:        mongo.NotificationLike,
		ActorID:     guest.ID,
		RecipientID: owner.ID,
		PostID:      &p.ID,
		Message:     "stale",
	}))

	state, err := env.actionSvc.TogglePostReaction(ctx, guest.ID, &dto.PostReactionReq{PostID: p.ID, Type: model.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, "like", state.State)
	assert.Equal(t, 1, env.notifications.count(likes))
}

// blockingPostRepo 第一次 SavePost 挂起，直到 proceed 关闭
type blockingPostRepo struct {
	repository.PostRepo
	once    sync.Once
	entered chan struct{}
	proceed chan struct{}
}

func (r *blockingPostRepo) SavePost(ctx context.Context, post *model.Post) error {
	r.once.Do(func() {
		close(r.entered)
		<-r.proceed
	})
	return r.PostRepo.SavePost(ctx, post)
}

func TestConcurrentAddCommentSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, guest := env.user(t, "owner"), env.user(t, "guest")
	p := env.post(t, owner.ID, model.AccessibilityPublic)

	repo := &blockingPostRepo{PostRepo: env.postRepo, entered: make(chan struct{}), proceed: make(chan struct{})}
	svc := NewPostActionService(repo, env.userRepo, env.pointSvc, env.notifySvc, env.locks)
	req := &dto.AddCommentReq{PostID: p.ID, Body: "dup"}

	errs := make(chan error, 2)
	go func() {
		_, err := svc.AddComment(ctx, guest.ID, req)
		errs <- err
	}()
	<-repo.entered

	go func() {
		_, err := svc.AddComment(ctx, guest.ID, req)
		errs <- err
	}()
	second := <-errs
	close(repo.proceed)
	first := <-errs

	assert.ErrorIs(t, second, ErrActionLocked)
	assert.NoError(t, first)
	assert.Len(t, env.reload(t, p.ID).Comments, 1)
	assert.Equal(t, int64(2), env.score(t, owner.ID))
	assert.False(t, env.locks.Held(lock.Key{Actor: guest.ID, Target: postTarget(p.ID), Op: lock.OpCommentAdd}))
}
