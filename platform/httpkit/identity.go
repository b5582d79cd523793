package httpkit

import (
	"invoicing_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerID extracts the authenticated owner ID placed on the context by
// AuthRequired. Handlers call this instead of touching context keys
// directly.
func OwnerID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(ContextOwnerIDKey)
	if !exists {
		return uuid.Nil, apperr.Unauthorized("authentication required")
	}

	ownerID, ok := raw.(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, apperr.Unauthorized("authentication required")
	}

	return ownerID, nil
}
