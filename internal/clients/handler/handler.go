// Package handler exposes the clients HTTP API.
package handler

import (
	"invoicing_backend/internal/clients/service"
	"invoicing_backend/internal/clients/transport"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/httpkit"
	"invoicing_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for clients
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new clients handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the clients routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
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

	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	client, err := h.svc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.FromClient(client))
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

	client, err := h.svc.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.FromClient(client))
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

	items := make([]transport.ClientResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, transport.FromClient(&result.Items[i]))
	}
	httpkit.OK(c, transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
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

	var req transport.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	client, err := h.svc.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.FromClient(client))
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
		return uuid.Nil, apperr.Validation("invalid client id")
	}
	return id, nil
}
