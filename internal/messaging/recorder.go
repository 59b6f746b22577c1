package messaging

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

// Recorder is an in-memory Gateway for tests and local runs. It records
// every call and can be programmed to fail or return empty results per
// recipient. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	// FailFor maps recipient ids to the error their send should return.
	FailFor map[uuid.UUID]error
	// EmptyResultFor marks recipients whose send returns no deliveries.
	EmptyResultFor map[uuid.UUID]bool
	// Block, when set, is closed to release in-flight sends. Used to observe
	// limiter behavior.
	Block chan struct{}

	sends         []RecordedSend
	batchTriggers []uuid.UUID
}

// RecordedSend is one observed gateway call.
type RecordedSend struct {
	Channel     string
	MessageID   uuid.UUID
	RecipientID uuid.UUID
}

func NewRecorder() *Recorder {
	return &Recorder{
		FailFor:        map[uuid.UUID]error{},
		EmptyResultFor: map[uuid.UUID]bool{},
	}
}

func (r *Recorder) SendSms(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	return r.record(ctx, "sms", msg, rcpt)
}

func (r *Recorder) SendDigitalMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	return r.record(ctx, "digital-mail", msg, rcpt)
}

func (r *Recorder) SendSnailMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	return r.record(ctx, "snail-mail", msg, rcpt)
}

func (r *Recorder) TriggerPostalBatch(_ context.Context, _ string, messageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchTriggers = append(r.batchTriggers, messageID)
	return nil
}

func (r *Recorder) record(_ context.Context, channel string, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	if r.Block != nil {
		<-r.Block
	}

	r.mu.Lock()
	r.sends = append(r.sends, RecordedSend{Channel: channel, MessageID: msg.ID, RecipientID: rcpt.ID})
	failErr := r.FailFor[rcpt.ID]
	empty := r.EmptyResultFor[rcpt.ID]
	r.mu.Unlock()

	if failErr != nil {
		return SendResult{}, failErr
	}
	if empty {
		return SendResult{}, nil
	}
	return SendResult{Deliveries: []Delivery{{Status: "SENT", MessageID: "ext-" + rcpt.ID.String()}}}, nil
}

// Sends returns a copy of the recorded sends.
func (r *Recorder) Sends() []RecordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedSend{}, r.sends...)
}

// BatchTriggers returns the message ids postal batch triggers fired for.
func (r *Recorder) BatchTriggers() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID{}, r.batchTriggers...)
}
