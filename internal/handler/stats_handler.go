package handler

import (
	"net/http"

	"commissionhub/internal/middleware"
	"commissionhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler struct {
	svc *service.StatsService
	log *zap.Logger
}

func NewStatsHandler(svc *service.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
