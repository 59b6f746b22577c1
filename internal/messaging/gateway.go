// Package messaging holds the outbound gateway port the dispatch coordinator
// sends through, plus its HTTP adapter and an in-memory recorder for tests.
package messaging

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

// Delivery is one delivery outcome reported by the gateway. Status is the
// gateway's status string for the recipient; MessageID is the
// gateway-assigned delivery id.
type Delivery struct {
	Status    string
	MessageID string
}

// SendResult is the gateway response for one recipient send. The gateway may
// report several deliveries; the coordinator acts on the first only.
type SendResult struct {
	Deliveries []Delivery
}

// FirstDelivery returns the first delivery outcome, if any. A result with no
// deliveries is a defined but inert edge case: the recipient stays unchanged.
func (r SendResult) FirstDelivery() (Delivery, bool) {
	if len(r.Deliveries) == 0 {
		return Delivery{}, false
	}
	return r.Deliveries[0], true
}

// Gateway is the messaging collaborator. One send call per recipient; a send
// may fail with an error, which the coordinator isolates to that recipient.
type Gateway interface {
	SendSms(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error)
	SendDigitalMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error)
	SendSnailMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error)

	// TriggerPostalBatch signals that at least one postal item was produced
	// for the message, kicking off downstream batch printing and mailing.
	TriggerPostalBatch(ctx context.Context, municipalityID string, messageID uuid.UUID) error
}
