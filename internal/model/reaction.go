package model

import "github.com/samber/lo"

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Opposite like <-> dislike
func (t ReactionType) Opposite() ReactionType {
	if t == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

type Reaction struct {
	UserID uint64       `json:"userId"`
	Type   ReactionType `json:"type"`
}

// Reactions 同一目标下每个用户至多一条
type Reactions []Reaction

// Of 查找用户的反应
func (r Reactions) Of(userID uint64) (Reaction, bool) {
	return lo.Find(r, func(item Reaction) bool {
		return item.UserID == userID
	})
}

// Upsert 新增或覆盖用户的反应
func (r Reactions) Upsert(userID uint64, t ReactionType) Reactions {
	_, idx, ok := lo.FindIndexOf(r, func(item Reaction) bool {
		return item.UserID == userID
	})
	if ok {
		out := append(Reactions(nil), r...)
		out[idx].Type = t
		return out
	}
	return append(append(Reactions(nil), r...), Reaction{UserID: userID, Type: t})
}

// Remove 删除用户的反应
func (r Reactions) Remove(userID uint64) Reactions {
	return lo.Filter(r, func(item Reaction, _ int) bool {
		return item.UserID != userID
	})
}
