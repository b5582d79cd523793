// Package handler exposes the invoicing module over HTTP.
package handler

import (
	"net/http"

	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/internal/invoicing/service"
	"invoicing_backend/internal/invoicing/transport"
	"invoicing_backend/platform/httpkit"
	"invoicing_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for quotes and invoices
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new invoicing handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterQuoteRoutes registers the quote routes
func (h *Handler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListQuotes)
	rg.POST("", h.CreateQuote)
	rg.GET("/:id", h.GetQuote)
	rg.PUT("/:id", h.UpdateQuote)
	rg.DELETE("/:id", h.DeleteQuote)
	rg.PATCH("/:id/status", h.TransitionQuote)
	rg.POST("/:id/convert", h.ConvertQuote)
	rg.POST("/:id/items", h.AddQuoteItem)
	rg.PUT("/:id/items/:itemId", h.UpdateQuoteItem)
	rg.DELETE("/:id/items/:itemId", h.DeleteQuoteItem)
}

// RegisterInvoiceRoutes registers the invoice routes
func (h *Handler) RegisterInvoiceRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListInvoices)
	rg.POST("", h.CreateInvoice)
	rg.GET("/:id", h.GetInvoice)
	rg.PUT("/:id", h.UpdateInvoice)
	rg.DELETE("/:id", h.DeleteInvoice)
	rg.PATCH("/:id/status", h.TransitionInvoice)
	rg.POST("/:id/items", h.AddInvoiceItem)
	rg.PUT("/:id/items/:itemId", h.UpdateInvoiceItem)
	rg.DELETE("/:id/items/:itemId", h.DeleteInvoiceItem)
}

func (h *Handler) identity(c *gin.Context) (uuid.UUID, bool) {
	ownerID, err := httpkit.OwnerID(c)
	if err != nil {
		httpkit.HandleError(c, err)
		return uuid.Nil, false
	}
	return ownerID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreateQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}

	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	q, err := h.svc.CreateQuote(c.Request.Context(), ownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromQuote(q))
}

func (h *Handler) GetQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	q, err := h.svc.GetQuote(c.Request.Context(), ownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) ListQuotes(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}

	var query transport.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListQuotes(c.Request.Context(), ownerID, query)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ListResponse[transport.QuoteResponse]{
		Items:      make([]transport.QuoteResponse, 0, len(result.Items)),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	for i := range result.Items {
		resp.Items = append(resp.Items, transport.FromQuote(&result.Items[i]))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	q, err := h.svc.UpdateQuote(c.Request.Context(), ownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) DeleteQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteQuote(c.Request.Context(), ownerID, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) TransitionQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	q, err := h.svc.TransitionQuote(c.Request.Context(), ownerID, id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) ConvertQuote(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.svc.ConvertQuote(c.Request.Context(), ownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromInvoice(inv))
}

func (h *Handler) AddQuoteItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	q, err := h.svc.AddQuoteItem(c.Request.Context(), ownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) UpdateQuoteItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req transport.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	q, err := h.svc.UpdateQuoteItem(c.Request.Context(), ownerID, id, itemID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) DeleteQuoteItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	q, err := h.svc.DeleteQuoteItem(c.Request.Context(), ownerID, id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromQuote(q))
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}

	var req transport.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.CreateInvoice(c.Request.Context(), ownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromInvoice(inv))
}

func (h *Handler) GetInvoice(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.svc.GetInvoice(c.Request.Context(), ownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}

func (h *Handler) ListInvoices(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}

	var query transport.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListInvoices(c.Request.Context(), ownerID, query)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ListResponse[transport.InvoiceResponse]{
		Items:      make([]transport.InvoiceResponse, 0, len(result.Items)),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	for i := range result.Items {
		resp.Items = append(resp.Items, transport.FromInvoice(&result.Items[i]))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.UpdateInvoice(c.Request.Context(), ownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteInvoice(c.Request.Context(), ownerID, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) TransitionInvoice(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.TransitionInvoice(c.Request.Context(), ownerID, id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}

func (h *Handler) AddInvoiceItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.AddInvoiceItem(c.Request.Context(), ownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}

func (h *Handler) UpdateInvoiceItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req transport.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	inv, err := h.svc.UpdateInvoiceItem(c.Request.Context(), ownerID, id, itemID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}

func (h *Handler) DeleteInvoiceItem(c *gin.Context) {
	ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	inv, err := h.svc.DeleteInvoiceItem(c.Request.Context(), ownerID, id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromInvoice(inv))
}
