package service

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/model"
	"IQNet/internal/pkg/consts"
	"IQNet/internal/repository"
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// postViewer 组装帖子返回对象：作者信息 + 分享可见性
type postViewer struct {
	postRepo repository.PostRepo
	userRepo repository.UserRepo
}

func newPostViewer(postRepo repository.PostRepo, userRepo repository.UserRepo) *postViewer {
	return &postViewer{postRepo: postRepo, userRepo: userRepo}
}

func (v *postViewer) one(ctx context.Context, post *model.Post) (*dto.PostDTO, error) {
	list, err := v.many(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// many 被分享帖子不存在、非 active 或非公开时，Share 显示为 "No Content"
func (v *postViewer) many(ctx context.Context, posts []*model.Post) ([]*dto.PostDTO, error) {
	if len(posts) == 0 {
		return []*dto.PostDTO{}, nil
	}

	shareIDs := lo.Uniq(lo.FilterMap(posts, func(p *model.Post, _ int) (uint64, bool) {
		if p.ShareID == nil {
			return 0, false
		}
		return *p.ShareID, true
	}))

	authorIDs := lo.Uniq(lo.Map(posts, func(p *model.Post, _ int) uint64 { return p.UserID }))

	var shared []*model.Post
	var users []*model.User
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shared, err = v.postRepo.GetPostByIds(gCtx, shareIDs)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = v.userRepo.GetUserByIds(gCtx, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sharedMap := lo.KeyBy(shared, func(p *model.Post) uint64 { return p.ID })
	userMap := lo.KeyBy(users, func(u *model.User) uint64 { return u.ID })

	// 补齐被分享帖子的作者
	missing := lo.Uniq(lo.FilterMap(shared, func(p *model.Post, _ int) (uint64, bool) {
		_, ok := userMap[p.UserID]
		return p.UserID, !ok
	}))
	if len(missing) > 0 {
		more, err := v.userRepo.GetUserByIds(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range more {
			userMap[u.ID] = u
		}
	}

	return lo.Map(posts, func(p *model.Post, _ int) *dto.PostDTO {
		res := toPostDTO(p, userMap[p.UserID])
		if p.ShareID != nil {
			target, ok := sharedMap[*p.ShareID]
			if ok && target.IsActive() && target.Accessibility == model.AccessibilityPublic {
				res.Share = toPostDTO(target, userMap[target.UserID])
			} else {
				res.Share = consts.ShareUnavailable
			}
		}
		return res
	}), nil
}

func toPostDTO(p *model.Post, author *model.User) *dto.PostDTO {
	res := &dto.PostDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		User:           toUserBrief(author),
		Body:           p.Body,
		Pictures:       p.Pictures,
		Accessibility:  p.Accessibility,
		Status:         p.Status,
		ShareID:        p.ShareID,
		ShareCount:     p.ShareCount,
		ReactionsCount: len(p.Reactions),
		Reactions:      p.Reactions,
		Comments:       p.Comments,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if res.Pictures == nil {
		res.Pictures = []string{}
	}
	if res.Reactions == nil {
		res.Reactions = model.Reactions{}
	}
	if res.Comments == nil {
		res.Comments = []model.Comment{}
	}
	return res
}
