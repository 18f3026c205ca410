package handler

import (
	"IQNet/internal/pkg/response"
	"IQNet/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionSvc service.ConnectionService
}

func NewConnectionHandler(connectionSvc service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionSvc: connectionSvc,
	}
}

func (s *ConnectionHandler) SendRequest(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followeeID, ok := paramID(c, "followee_id")
	if !ok {
		return
	}

	conn, err := s.connectionSvc.SendRequest(c.Request.Context(), userID, followeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedWith(c, conn)
}

func (s *ConnectionHandler) Accept(c *gin.Context) {
	s.withConnection(c, s.connectionSvc.Accept)
}

func (s *ConnectionHandler) Decline(c *gin.Context) {
	s.withConnection(c, s.connectionSvc.Decline)
}

func (s *ConnectionHandler) Cancel(c *gin.Context) {
	s.withConnection(c, s.connectionSvc.Cancel)
}

func (s *ConnectionHandler) withConnection(c *gin.Context, op func(ctx context.Context, userID, connectionID uint64) error) {
	connectionID, ok := paramID(c, "connection_id")
	if !ok {
		return
	}

	if err := op(c.Request.Context(), c.GetUint64("user_id"), connectionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *ConnectionHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followeeID, ok := paramID(c, "followee_id")
	if !ok {
		return
	}

	if err := s.connectionSvc.Unfollow(c.Request.Context(), userID, followeeID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *ConnectionHandler) RemoveFollower(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followerID, ok := paramID(c, "follower_id")
	if !ok {
		return
	}

	if err := s.connectionSvc.RemoveFollower(c.Request.Context(), userID, followerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *ConnectionHandler) GetFollowers(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	list, err := s.connectionSvc.GetFollowers(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

func (s *ConnectionHandler) GetFollowing(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	list, err := s.connectionSvc.GetFollowing(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

func (s *ConnectionHandler) GetRequests(c *gin.Context) {
	userID := c.GetUint64("user_id")

	list, err := s.connectionSvc.GetRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}
