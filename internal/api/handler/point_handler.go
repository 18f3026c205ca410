package handler

import (
	"IQNet/internal/api/dto"
	"IQNet/internal/pkg/response"
	"IQNet/internal/service"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	pointSvc service.PointService
}

func NewPointHandler(pointSvc service.PointService) *PointHandler {
	return &PointHandler{
		pointSvc: pointSvc,
	}
}

func (s *PointHandler) GetScore(c *gin.Context) {
	userID := c.GetUint64("user_id")

	score, err := s.pointSvc.GetScore(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, score)
}

func (s *PointHandler) GetHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.pointSvc.GetHistory(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PageDTO[*dto.PointDTO]{List: list, Page: max(req.Page, 1)})
}
