package handler

import (
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler landing page counters
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to load dashboard summary: "+err.Error())
		return
	}
	Success(c, sum)
}
