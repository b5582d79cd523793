// Package adapters contains thin glue types that connect modules without
// creating direct dependencies between them.
package adapters

import (
	"context"
	"fmt"

	clientsvc "invoicing_backend/internal/clients/service"
	"invoicing_backend/internal/reminders"

	"github.com/google/uuid"
)

// ClientContactReader adapts the clients service to the reminders module's
// ContactReader interface.
type ClientContactReader struct {
	clients *clientsvc.Service
}

// NewClientContactReader creates a new contact reader adapter.
func NewClientContactReader(clients *clientsvc.Service) *ClientContactReader {
	return &ClientContactReader{clients: clients}
}

// ClientContact returns the client's display name and email address.
func (a *ClientContactReader) ClientContact(ctx context.Context, ownerID, clientID uuid.UUID) (string, string, error) {
	client, err := a.clients.Get(ctx, ownerID, clientID)
	if err != nil {
		return "", "", fmt.Errorf("look up client for reminder email: %w", err)
	}
	return client.Name, client.Email, nil
}

// Compile-time check that ClientContactReader implements reminders.ContactReader.
var _ reminders.ContactReader = (*ClientContactReader)(nil)
