// Package store persists message aggregates and per-recipient statuses. The
// dispatch coordinator writes through these interfaces; it never reads
// messages back from storage.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

// RecipientStore saves per-recipient state as send tasks complete.
type RecipientStore interface {
	SaveRecipient(ctx context.Context, messageID uuid.UUID, rcpt *domain.Recipient) error
}

// MessageStore saves the aggregate and serves status inspection.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, municipalityID string, id uuid.UUID) (*domain.Message, error)
}
