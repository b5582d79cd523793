// Package clients wires the client management module.
package clients

import (
	"invoicing_backend/internal/clients/handler"
	"invoicing_backend/internal/clients/repository"
	"invoicing_backend/internal/clients/service"
	apphttp "invoicing_backend/internal/http"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the clients handler and service.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule constructs the clients module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "clients" }

// Service exposes the clients service to other modules.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the clients routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/clients"))
}

var _ apphttp.Module = (*Module)(nil)
