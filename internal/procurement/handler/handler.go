package handler

import (
	"errors"
	"strconv"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/auth"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/middleware"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// Handlers HTTP handler set
type Handlers struct {
	Auth      *AuthHandler
	PO        *POHandler
	PreGR     *PreGRHandler
	GQR       *GQRHandler
	Master    *MasterHandler
	Dashboard *DashboardHandler
}

// NewHandlers wires the handler set
func NewHandlers(svc *service.Services, authSvc *auth.Service) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(authSvc),
		PO:        NewPOHandler(svc.PO),
		PreGR:     NewPreGRHandler(svc.PreGR),
		GQR:       NewGQRHandler(svc.GQR),
		Master:    NewMasterHandler(svc.Master),
		Dashboard: NewDashboardHandler(svc.Dashboard),
	}
}

// Response standard response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse list payload with pagination
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination page metadata
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Success 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error generic error response; the HTTP status is the code's leading digits
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 response
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 401 response
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 403 response
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 404 response
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 409 response, used for stale-version and double-consumption writes
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 500 response
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondError maps the repository sentinel errors onto the envelope
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, repository.ErrConflict):
		Conflict(c, "record was modified by another user, reload and retry")
	case errors.Is(err, repository.ErrAlreadyConsumed):
		Conflict(c, "pre-gr was already consumed by another gqr")
	default:
		BadRequest(c, err.Error())
	}
}

// GetUserID returns the authenticated user ID from the context
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// IsAdmin resolves the caller's admin capability from the token claims
func IsAdmin(c *gin.Context) bool {
	return middleware.IsAdmin(c)
}

// GetPagination reads page/page_size query params with bounds
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func paginationOf(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}
