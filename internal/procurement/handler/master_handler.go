package handler

import (
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// MasterHandler supplier/item/gap-item/customer master endpoints
type MasterHandler struct {
	svc *service.MasterService
}

func NewMasterHandler(svc *service.MasterService) *MasterHandler {
	return &MasterHandler{svc: svc}
}

// === Suppliers ===

func (h *MasterHandler) ListSuppliers(c *gin.Context) {
	items, err := h.svc.ListSuppliers(c.Request.Context(), c.Query("status"))
	if err != nil {
		InternalError(c, "failed to list suppliers: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

func (h *MasterHandler) GetSupplier(c *gin.Context) {
	s, err := h.svc.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, s)
}

func (h *MasterHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s, err := h.svc.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, s)
}

func (h *MasterHandler) UpdateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s, err := h.svc.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, s)
}

func (h *MasterHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// === Items ===

func (h *MasterHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context(), c.Query("status"))
	if err != nil {
		InternalError(c, "failed to list items: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

func (h *MasterHandler) GetItem(c *gin.Context) {
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, item)
}

func (h *MasterHandler) CreateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	item, err := h.svc.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, item)
}

func (h *MasterHandler) UpdateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	item, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, item)
}

func (h *MasterHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// === Gap items ===

func (h *MasterHandler) ListGapItems(c *gin.Context) {
	items, err := h.svc.ListGapItems(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to list gap items: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

func (h *MasterHandler) CreateGapItem(c *gin.Context) {
	var req service.GapItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, err := h.svc.CreateGapItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, g)
}

func (h *MasterHandler) UpdateGapItem(c *gin.Context) {
	var req service.GapItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, err := h.svc.UpdateGapItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, g)
}

func (h *MasterHandler) DeleteGapItem(c *gin.Context) {
	if err := h.svc.DeleteGapItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// === Customers ===

func (h *MasterHandler) ListCustomers(c *gin.Context) {
	items, err := h.svc.ListCustomers(c.Request.Context(), c.Query("status"))
	if err != nil {
		InternalError(c, "failed to list customers: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

func (h *MasterHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cust, err := h.svc.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, cust)
}

func (h *MasterHandler) UpdateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cust, err := h.svc.UpdateCustomer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, cust)
}

func (h *MasterHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}
