package service

import (
	"IQNet/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextReaction(t *testing.T) {
	cases := []struct {
		from      ReactionState
		requested model.ReactionType
		to        ReactionState
		context   string
		delta     int64
	}{
		{ReactionNone, model.ReactionLike, ReactionLiked, PointPostLike, 1},
		{ReactionNone, model.ReactionDislike, ReactionDisliked, PointPostDislike, -1},
		{ReactionLiked, model.ReactionLike, ReactionNone, PointPostLikeRemove, -1},
		{ReactionDisliked, model.ReactionDislike, ReactionNone, PointPostDislikeRemove, 1},
		{ReactionDisliked, model.ReactionLike, ReactionLiked, PointDislikeRemoveAndLike, 2},
		{ReactionLiked, model.ReactionDislike, ReactionDisliked, PointLikeRemoveAndDislike, -2},
	}
	for _, c := range cases {
		tr := NextReaction(c.from, c.requested)
		assert.Equal(t, c.from, tr.From)
		assert.Equal(t, c.to, tr.To, "%s + %s", c.from, c.requested)
		assert.Equal(t, c.context, tr.Context)
		assert.Equal(t, c.delta, tr.Delta)
	}
}

func TestApplyReactionKeepsOneEntryPerUser(t *testing.T) {
	var rs model.Reactions
	rs, _ = applyReaction(rs, 1, model.ReactionLike)
	rs, _ = applyReaction(rs, 2, model.ReactionDislike)
	rs, tr := applyReaction(rs, 1, model.ReactionDislike)

	assert.Equal(t, ReactionDisliked, tr.To)
	assert.Len(t, rs, 2)
	r, ok := rs.Of(1)
	assert.True(t, ok)
	assert.Equal(t, model.ReactionDislike, r.Type)

	rs, tr = applyReaction(rs, 1, model.ReactionDislike)
	assert.Equal(t, ReactionNone, tr.To)
	assert.Len(t, rs, 1)
	_, ok = rs.Of(1)
	assert.False(t, ok)
}
