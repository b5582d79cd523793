// Package expenses wires the expense tracking module.
package expenses

import (
	"invoicing_backend/internal/expenses/handler"
	"invoicing_backend/internal/expenses/repository"
	"invoicing_backend/internal/expenses/service"
	apphttp "invoicing_backend/internal/http"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the expenses handler and service.
type Module struct {
	handler *handler.Handler
}

// NewModule constructs the expenses module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module name.
func (m *Module) Name() string { return "expenses" }

// RegisterRoutes mounts the expenses routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/expenses"))
}

var _ apphttp.Module = (*Module)(nil)
