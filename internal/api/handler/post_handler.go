package handler

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/pkg/response"
	"IQNet/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedWith(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, post)
}

func (s *PostHandler) GetPostSelf(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.GetMyPosts(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PageDTO[*dto.PostDTO]{List: posts, Page: max(req.Page, 1)})
}

func (s *PostHandler) GetPostByUserId(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.GetUserPosts(c.Request.Context(), viewerID, userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PageDTO[*dto.PostDTO]{List: posts, Page: max(req.Page, 1)})
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	var req dto.UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *PostHandler) SharePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	var req dto.SharePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.SharePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedWith(c, post)
}

func (s *PostHandler) GetNewsfeed(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.GetNewsfeed(c.Request.Context(), userID, req.Page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PageDTO[*dto.PostDTO]{List: posts, Page: max(req.Page, 1)})
}

func (s *PostHandler) SavePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	if err := s.postSvc.SavePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *PostHandler) UnsavePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	if err := s.postSvc.UnsavePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *PostHandler) GetSavedPosts(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.postSvc.GetSavedPosts(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PageDTO[*dto.SavedPostDTO]{List: list, Page: max(req.Page, 1)})
}

func (s *PostHandler) ReportPost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	var req dto.ReportPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.ReportPost(c.Request.Context(), userID, postID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
