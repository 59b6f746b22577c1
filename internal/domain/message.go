// Package domain holds the message aggregate and the value types shared by
// precheck and dispatch. Types here carry no I/O; construction and state
// transitions are the only logic.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType is the channel a recipient is addressed on. It is fixed at
// recipient creation and never changes.
type MessageType string

const (
	MessageTypeSMS                     MessageType = "SMS"
	MessageTypeDigitalMail             MessageType = "DIGITAL_MAIL"
	MessageTypeSnailMail               MessageType = "SNAIL_MAIL"
	MessageTypeLetter                  MessageType = "LETTER"
	MessageTypeDigitalRegisteredLetter MessageType = "DIGITAL_REGISTERED_LETTER"
)

// Attachment is an opaque blob carried by the message. The core never
// inspects the content.
type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Message is the aggregate handed to the dispatch coordinator. It owns its
// recipients and attachments exclusively: no two concurrent dispatch calls
// share a Message instance, so recipient mutation needs no locking.
type Message struct {
	ID             uuid.UUID
	MunicipalityID string
	Department     string
	SentBy         string
	Subject        string
	Body           string
	ContentType    string
	Attachments    []Attachment
	Recipients     []*Recipient
	CreatedAt      time.Time
}

// NewMessage builds an empty aggregate for the given sender context.
func NewMessage(municipalityID, department, sentBy string) *Message {
	return &Message{
		ID:             uuid.New(),
		MunicipalityID: municipalityID,
		Department:     department,
		SentBy:         sentBy,
		CreatedAt:      time.Now(),
	}
}

// HasSnailMailRecipient reports whether any dispatched recipient used the
// postal channel, which decides whether the postal batch trigger fires.
// Recipients in a terminal state never produced a postal item and must not
// kick off downstream batch printing.
func (m *Message) HasSnailMailRecipient() bool {
	for _, r := range m.Recipients {
		if r.MessageType == MessageTypeSnailMail && r.Sendable() {
			return true
		}
	}
	return false
}
