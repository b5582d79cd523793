// Package handler exposes the expenses HTTP API.
package handler

import (
	"strconv"

	"invoicing_backend/internal/expenses/service"
	"invoicing_backend/internal/expenses/transport"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/httpkit"
	"invoicing_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for expenses
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new expenses handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the expenses routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/summary", h.summary)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var req transport.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	expense, err := h.svc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.FromExpense(expense))
}

func (h *Handler) get(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	expense, err := h.svc.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.FromExpense(expense))
}

func (h *Handler) list(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var query transport.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, 400, "invalid query parameters", nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), ownerID, query)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	items := make([]transport.ExpenseResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, transport.FromExpense(&result.Items[i]))
	}
	httpkit.OK(c, transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) summary(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httpkit.Error(c, 400, "year query parameter is required", nil)
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), ownerID, year)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, summary)
}

func (h *Handler) update(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var req transport.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	expense, err := h.svc.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.FromExpense(expense))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ownerID, id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid expense id")
	}
	return id, nil
}
