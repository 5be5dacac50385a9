package handler

import (
	"fmt"
	"net/http"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// GQRHandler goods quality report endpoints
type GQRHandler struct {
	svc *service.GQRService
}

func NewGQRHandler(svc *service.GQRService) *GQRHandler {
	return &GQRHandler{svc: svc}
}

// List GET /api/v1/gqr
func (h *GQRHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":     c.Query("status"),
		"pre_gr_id":  c.Query("pre_gr_id"),
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list gqr entries: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: items, Pagination: paginationOf(page, pageSize, total)})
}

// ListAvailablePreGRs GET /api/v1/gqr/available-pre-grs
func (h *GQRHandler) ListAvailablePreGRs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListAvailablePreGRs(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, "failed to list available pre-gr entries: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: items, Pagination: paginationOf(page, pageSize, total)})
}

// Get GET /api/v1/gqr/:id
func (h *GQRHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"), IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, detail)
}

// Create POST /api/v1/gqr
func (h *GQRHandler) Create(c *gin.Context) {
	var req service.CreateGQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	g, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, g)
}

// Update PUT /api/v1/gqr/:id
func (h *GQRHandler) Update(c *gin.Context) {
	var req service.UpdateGQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	detail, err := h.svc.Update(c.Request.Context(), c.Param("id"), IsAdmin(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, detail)
}

// Finalize POST /api/v1/gqr/:id/finalize (admin)
func (h *GQRHandler) Finalize(c *gin.Context) {
	var req service.FinalizeGQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	detail, err := h.svc.Finalize(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, detail)
}

// RequestReverse POST /api/v1/gqr/:id/reverse-request (admin)
func (h *GQRHandler) RequestReverse(c *gin.Context) {
	token, err := h.svc.RequestReverse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"confirmation_token": token})
}

type reverseConfirmRequest struct {
	ConfirmationToken string `json:"confirmation_token" binding:"required"`
}

// ConfirmReverse POST /api/v1/gqr/:id/reverse-confirm (admin)
func (h *GQRHandler) ConfirmReverse(c *gin.Context) {
	var req reverseConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "confirmation_token is required")
		return
	}

	detail, err := h.svc.ConfirmReverse(c.Request.Context(), c.Param("id"), req.ConfirmationToken)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, detail)
}

// Settlement GET /api/v1/gqr/:id/settlement
func (h *GQRHandler) Settlement(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"), IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, detail.Settlement)
}

// Snapshots GET /api/v1/gqr/:id/snapshots
func (h *GQRHandler) Snapshots(c *gin.Context) {
	snaps, err := h.svc.Snapshots(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"items": snaps})
}

// Export GET /api/v1/gqr/export
func (h *GQRHandler) Export(c *gin.Context) {
	filters := map[string]string{
		"start_date": c.Query("start_date"),
		"end_date":   c.Query("end_date"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "failed to export gqr settlements: "+err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
