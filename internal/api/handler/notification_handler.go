package handler

import (
	"IQNet/internal/pkg/response"
	"IQNet/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifySvc service.NotificationService
}

func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifySvc: notifySvc,
	}
}

func (s *NotificationHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")

	list, err := s.notifySvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

func (s *NotificationHandler) MarkAllSeen(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.notifySvc.MarkAllSeen(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.notifySvc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
