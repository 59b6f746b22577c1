package domain

import "github.com/google/uuid"

// RecipientStatus tracks the delivery state of one recipient. The only
// transitions are PENDING -> SENT and PENDING -> FAILED; UNDELIVERABLE and
// INELIGIBLE_MINOR are terminal states assigned at creation and such
// recipients are never dispatched.
type RecipientStatus string

const (
	RecipientStatusPending         RecipientStatus = "PENDING"
	RecipientStatusSent            RecipientStatus = "SENT"
	RecipientStatusFailed          RecipientStatus = "FAILED"
	RecipientStatusUndeliverable   RecipientStatus = "UNDELIVERABLE"
	RecipientStatusIneligibleMinor RecipientStatus = "INELIGIBLE_MINOR"
)

// Address is a postal address for snail-mail recipients resolved without a
// party id.
type Address struct {
	FirstName string
	LastName  string
	Street    string
	ZipCode   string
	City      string
}

// Recipient is one addressee of a message. PartyID is empty for address-only
// snail mail. ExternalID holds the gateway-assigned delivery id once sent.
type Recipient struct {
	ID           uuid.UUID
	PartyID      string
	MobileNumber string
	Address      *Address
	MessageType  MessageType
	Status       RecipientStatus
	StatusDetail string
	ExternalID   string
}

// NewRecipient creates a pending recipient on the given channel.
func NewRecipient(partyID string, messageType MessageType) *Recipient {
	return &Recipient{
		ID:          uuid.New(),
		PartyID:     partyID,
		MessageType: messageType,
		Status:      RecipientStatusPending,
	}
}

// NewTerminalRecipient creates a recipient in a terminal non-sendable state,
// used for citizens precheck found undeliverable or underage.
func NewTerminalRecipient(partyID string, messageType MessageType, status RecipientStatus, detail string) *Recipient {
	return &Recipient{
		ID:           uuid.New(),
		PartyID:      partyID,
		MessageType:  messageType,
		Status:       status,
		StatusDetail: detail,
	}
}

// Sendable reports whether the dispatch coordinator may schedule a send for
// this recipient. Terminal states are skipped entirely.
func (r *Recipient) Sendable() bool {
	return r.Status != RecipientStatusUndeliverable && r.Status != RecipientStatusIneligibleMinor
}

// MarkSent records a successful delivery outcome.
func (r *Recipient) MarkSent(status RecipientStatus, externalID string) {
	r.Status = status
	r.ExternalID = externalID
}

// MarkFailed records a per-recipient send failure without touching siblings.
func (r *Recipient) MarkFailed(detail string) {
	r.Status = RecipientStatusFailed
	r.StatusDetail = detail
}
