package handler

import (
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// PreGRHandler weighbridge entry endpoints
type PreGRHandler struct {
	svc *service.PreGRService
}

func NewPreGRHandler(svc *service.PreGRService) *PreGRHandler {
	return &PreGRHandler{svc: svc}
}

// List GET /api/v1/pre-gr
func (h *PreGRHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"po_id":          c.Query("po_id"),
		"approved":       c.Query("approved"),
		"available":      c.Query("available"),
		"vehicle_number": c.Query("vehicle_number"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list pre-gr entries: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: items, Pagination: paginationOf(page, pageSize, total)})
}

// Get GET /api/v1/pre-gr/:id
func (h *PreGRHandler) Get(c *gin.Context) {
	gr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gr)
}

// Create POST /api/v1/pre-gr
func (h *PreGRHandler) Create(c *gin.Context) {
	var req service.CreatePreGRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	gr, err := h.svc.Create(c.Request.Context(), GetUserID(c), IsAdmin(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, gr)
}

// Update PUT /api/v1/pre-gr/:id
func (h *PreGRHandler) Update(c *gin.Context) {
	var req service.UpdatePreGRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	gr, err := h.svc.Update(c.Request.Context(), c.Param("id"), IsAdmin(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gr)
}

type approveRequest struct {
	Remark string `json:"remark"`
}

// Approve POST /api/v1/pre-gr/:id/approve (admin)
func (h *PreGRHandler) Approve(c *gin.Context) {
	var req approveRequest
	_ = c.ShouldBindJSON(&req)

	gr, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.Remark)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, gr)
}

// Delete DELETE /api/v1/pre-gr/:id
func (h *PreGRHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}
