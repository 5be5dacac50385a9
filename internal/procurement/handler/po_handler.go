package handler

import (
	"fmt"
	"net/http"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// POHandler purchase order endpoints
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// List GET /api/v1/purchase-orders
func (h *POHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"item_id":     c.Query("item_id"),
		"closed":      c.Query("closed"),
		"start_date":  c.Query("start_date"),
		"end_date":    c.Query("end_date"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list purchase orders: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: items, Pagination: paginationOf(page, pageSize, total)})
}

// Get GET /api/v1/purchase-orders/:id
func (h *POHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, po)
}

// Create POST /api/v1/purchase-orders
func (h *POHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, po)
}

// Update PUT /api/v1/purchase-orders/:id
func (h *POHandler) Update(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	po, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, po)
}

type closePORequest struct {
	Remark string `json:"remark"`
}

// Close POST /api/v1/purchase-orders/:id/close (admin)
func (h *POHandler) Close(c *gin.Context) {
	var req closePORequest
	_ = c.ShouldBindJSON(&req)

	po, err := h.svc.Close(c.Request.Context(), c.Param("id"), req.Remark)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, po)
}

// Delete DELETE /api/v1/purchase-orders/:id
func (h *POHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// PostVoucher POST /api/v1/purchase-orders/:id/post-voucher
func (h *POHandler) PostVoucher(c *gin.Context) {
	result, err := h.svc.PostVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil {
			// Posted but rejected or unrecorded; return the raw outcome.
			Error(c, 50200, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	Success(c, result)
}

// Export GET /api/v1/purchase-orders/export
func (h *POHandler) Export(c *gin.Context) {
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"closed":      c.Query("closed"),
		"start_date":  c.Query("start_date"),
		"end_date":    c.Query("end_date"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "failed to export purchase orders: "+err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
