package handler

import (
	"net/http"

	"commissionhub/internal/middleware"
	"commissionhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc *service.NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) ListSeller(c *gin.Context) {
	feed, err := h.svc.ListSellerChannel(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) ListUser(c *gin.Context) {
	feed, err := h.svc.ListUserChannel(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *NotificationHandler) MarkUserRead(c *gin.Context) {
	if err := h.svc.MarkUserNotificationRead(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
