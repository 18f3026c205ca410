package handler

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/pkg/response"
	"IQNet/internal/service"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		actionSvc: actionSvc,
	}
}

// bindAndRun 绑定 JSON 请求体后执行具体操作
func bindAndRun[T any, R any](c *gin.Context, run func(userID uint64, req *T) (R, error)) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := run(c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, res)
}

func (s *PostActionHandler) AddComment(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.AddCommentReq) (*dto.PostDTO, error) {
		return s.actionSvc.AddComment(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) UpdateComment(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.UpdateCommentReq) (*dto.PostDTO, error) {
		return s.actionSvc.UpdateComment(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.DeleteCommentReq) (*dto.PostDTO, error) {
		return s.actionSvc.DeleteComment(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) AddReply(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.AddReplyReq) (*dto.PostDTO, error) {
		return s.actionSvc.AddReply(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) UpdateReply(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.UpdateReplyReq) (*dto.PostDTO, error) {
		return s.actionSvc.UpdateReply(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) DeleteReply(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.DeleteReplyReq) (*dto.PostDTO, error) {
		return s.actionSvc.DeleteReply(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) ReactPost(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.PostReactionReq) (*dto.ReactionStateDTO, error) {
		return s.actionSvc.TogglePostReaction(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) ReactComment(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.CommentReactionReq) (*dto.ReactionStateDTO, error) {
		return s.actionSvc.ToggleCommentReaction(c.Request.Context(), userID, req)
	})
}

func (s *PostActionHandler) ReactReply(c *gin.Context) {
	bindAndRun(c, func(userID uint64, req *dto.ReplyReactionReq) (*dto.ReactionStateDTO, error) {
		return s.actionSvc.ToggleReplyReaction(c.Request.Context(), userID, req)
	})
}
