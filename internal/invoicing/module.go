// Package invoicing provides the quotes and invoices domain module: the
// financial document lifecycle from draft quote to paid invoice.
package invoicing

import (
	apphttp "invoicing_backend/internal/http"
	"invoicing_backend/internal/invoicing/handler"
	"invoicing_backend/internal/invoicing/repository"
	"invoicing_backend/internal/invoicing/service"
	"invoicing_backend/platform/config"
	"invoicing_backend/platform/events"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the invoicing domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new invoicing module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger, cfg config.InvoicingConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, cfg)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "invoicing"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterQuoteRoutes(ctx.Protected.Group("/quotes"))
	m.handler.RegisterInvoiceRoutes(ctx.Protected.Group("/invoices"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
