// Package service contains the business logic for client management.
package service

import (
	"context"
	"strings"
	"time"

	"invoicing_backend/internal/clients/repository"
	"invoicing_backend/internal/clients/transport"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/phone"

	"github.com/google/uuid"
)

// Store abstracts client persistence for the service.
type Store interface {
	Create(ctx context.Context, c *repository.Client) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*repository.Client, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	Update(ctx context.Context, c *repository.Client) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Service handles client operations
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// New creates a new clients service
func New(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Create registers a new client for the owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateClientRequest) (*repository.Client, error) {
	normalized, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	client := &repository.Client{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     normalized,
		Address:   strings.TrimSpace(req.Address),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if client.Name == "" {
		return nil, apperr.Validation("client name is required")
	}

	if err := s.store.Create(ctx, client); err != nil {
		return nil, err
	}

	if s.log != nil {
		s.log.Info("client created", "client_id", client.ID, "owner_id", ownerID)
	}
	return client, nil
}

// Get retrieves a single client.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*repository.Client, error) {
	return s.store.GetByID(ctx, ownerID, id)
}

// List retrieves clients with search and pagination.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, query transport.ListQuery) (*repository.ListResult, error) {
	return s.store.List(ctx, repository.ListParams{
		OwnerID:  ownerID,
		Search:   strings.TrimSpace(query.Search),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

// Update replaces the client's editable fields.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateClientRequest) (*repository.Client, error) {
	client, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	normalized, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(req.Name)
	client.Email = strings.ToLower(strings.TrimSpace(req.Email))
	client.Phone = normalized
	client.Address = strings.TrimSpace(req.Address)
	client.Notes = req.Notes
	client.UpdatedAt = s.now().UTC()
	if client.Name == "" {
		return nil, apperr.Validation("client name is required")
	}

	if err := s.store.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client that has no documents referencing it.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Info("client deleted", "client_id", id, "owner_id", ownerID)
	}
	return nil
}

func normalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if !phone.IsValid(trimmed) {
		return "", apperr.Validation("invalid phone number")
	}
	return phone.NormalizeE164(trimmed), nil
}
