package service

import "IQNet/internal/model"

// ReactionState 单个目标上某用户的反应状态
type ReactionState string

const (
	ReactionNone     ReactionState = "none"
	ReactionLiked    ReactionState = "like"
	ReactionDisliked ReactionState = "dislike"
)

// 积分流水上下文
const (
	PointComment                    = "comment"
	PointReply                      = "reply"
	PointPostLike                   = "post_like"
	PointPostDislike                = "post_dislike"
	PointPostLikeRemove             = "post_like_remove"
	PointPostDislikeRemove          = "post_dislike_remove"
	PointDislikeRemoveAndLike       = "dislike_remove_and_post_like"
	PointLikeRemoveAndDislike       = "like_remove_and_post_dislike"
	pointsComment             int64 = 2
	pointsReply               int64 = 1
)

// ReactionTransition 一次切换的起止状态，以及帖子层面对应的积分变化
type ReactionTransition struct {
	From    ReactionState
	To      ReactionState
	Context string
	Delta   int64
}

func stateOf(r model.Reaction, ok bool) ReactionState {
	if !ok {
		return ReactionNone
	}
	return ReactionState(r.Type)
}

// NextReaction 同类型重复即取消，异类型即切换
func NextReaction(from ReactionState, requested model.ReactionType) ReactionTransition {
	to := ReactionState(requested)
	switch {
	case from == ReactionNone && requested == model.ReactionLike:
		return ReactionTransition{From: from, To: to, Context: PointPostLike, Delta: 1}
	case from == ReactionNone && requested == model.ReactionDislike:
		return ReactionTransition{From: from, To: to, Context: PointPostDislike, Delta: -1}
	case from == ReactionLiked && requested == model.ReactionLike:
		return ReactionTransition{From: from, To: ReactionNone, Context: PointPostLikeRemove, Delta: -1}
	case from == ReactionDisliked && requested == model.ReactionDislike:
		return ReactionTransition{From: from, To: ReactionNone, Context: PointPostDislikeRemove, Delta: 1}
	case from == ReactionDisliked && requested == model.ReactionLike:
		return ReactionTransition{From: from, To: to, Context: PointDislikeRemoveAndLike, Delta: 2}
	case from == ReactionLiked && requested == model.ReactionDislike:
		return ReactionTransition{From: from, To: to, Context: PointLikeRemoveAndDislike, Delta: -2}
	}
	return ReactionTransition{From: from, To: from}
}

// applyReaction 对反应集合执行切换，返回新集合
func applyReaction(rs model.Reactions, userID uint64, requested model.ReactionType) (model.Reactions, ReactionTransition) {
	tr := NextReaction(stateOf(rs.Of(userID)), requested)
	if tr.To == ReactionNone {
		return rs.Remove(userID), tr
	}
	return rs.Upsert(userID, model.ReactionType(tr.To)), tr
}
