// Package dispatch fans a message aggregate out to its recipients. One send
// task per sendable recipient runs under a shared concurrency limiter; the
// coordinator joins all tasks, fires the postal batch trigger at most once,
// and persists the final aggregate exactly once.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/history"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/messaging"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/metrics"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/store"
)

// DefaultConcurrency caps in-flight sends across all messages when no
// explicit limit is configured.
const DefaultConcurrency = 32

type sendFunc func(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (messaging.SendResult, error)

// Coordinator schedules and joins send tasks. The limiter is shared process
// wide: concurrent Dispatch calls for different messages compete for the
// same slots.
type Coordinator struct {
	gateway    messaging.Gateway
	recipients store.RecipientStore
	messages   store.MessageStore
	events     history.Publisher
	limiter    *semaphore.Weighted
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewCoordinator(
	gateway messaging.Gateway,
	recipients store.RecipientStore,
	messages store.MessageStore,
	events history.Publisher,
	limiter *semaphore.Weighted,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		gateway:    gateway,
		recipients: recipients,
		messages:   messages,
		events:     events,
		limiter:    limiter,
		metrics:    m,
		logger:     logger,
	}
}

// Dispatch schedules sends for every sendable recipient of msg and returns a
// channel that closes once all sends finished, the postal batch trigger (if
// due) fired, and the aggregate was persisted. Dispatch itself never blocks
// on sends and never returns an error: every failure is absorbed into the
// affected recipient's state.
//
// The caller hands over exclusive ownership of msg; pass a context that
// survives the originating request.
func (c *Coordinator) Dispatch(ctx context.Context, msg *domain.Message) <-chan struct{} {
	done := make(chan struct{})
	go c.run(ctx, msg, done)
	return done
}

func (c *Coordinator) run(ctx context.Context, msg *domain.Message, done chan<- struct{}) {
	defer close(done)

	var wg sync.WaitGroup
	for _, rcpt := range msg.Recipients {
		if !rcpt.Sendable() {
			continue
		}

		send, ok := c.senderFor(rcpt.MessageType)
		if !ok {
			// Rejected before a slot is taken: the channel is not
			// dispatchable, so the task never starts.
			rcpt.MarkFailed(fmt.Sprintf("Unsupported message type: %s", rcpt.MessageType))
			c.finish(ctx, msg, rcpt)
			continue
		}

		waitStart := time.Now()
		if err := c.limiter.Acquire(ctx, 1); err != nil {
			rcpt.MarkFailed(fmt.Sprintf("dispatch aborted: %s", err))
			c.finish(ctx, msg, rcpt)
			continue
		}
		c.metrics.ObserveLimiterWait(time.Since(waitStart))

		wg.Add(1)
		go func(rcpt *domain.Recipient) {
			defer wg.Done()
			defer c.limiter.Release(1)

			c.metrics.SendStarted()
			defer c.metrics.SendFinished()

			c.apply(sendOne(ctx, msg, rcpt, send), rcpt)
			c.finish(ctx, msg, rcpt)
		}(rcpt)
	}

	wg.Wait()

	if msg.HasSnailMailRecipient() {
		c.triggerPostalBatch(ctx, msg)
	}

	if err := c.messages.SaveMessage(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "persist message failed",
			"message_id", msg.ID,
			"error", err,
		)
	}
}

// sendOne runs a single gateway call and folds the response into a tagged
// outcome. The call inherits ctx unchanged: there is no per-send timeout, a
// hung gateway call holds its slot until the gateway itself gives up.
func sendOne(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient, send sendFunc) Outcome {
	result, err := send(ctx, msg, rcpt)
	if err != nil {
		return Failed{Detail: err.Error()}
	}
	delivery, ok := result.FirstDelivery()
	if !ok {
		return NoDeliveries{}
	}
	return Sent{Status: delivery.Status, ExternalID: delivery.MessageID}
}

func (c *Coordinator) apply(outcome Outcome, rcpt *domain.Recipient) {
	switch o := outcome.(type) {
	case Sent:
		rcpt.MarkSent(domain.RecipientStatus(o.Status), o.ExternalID)
	case Failed:
		rcpt.MarkFailed(o.Detail)
	case NoDeliveries:
		// Defined but inert: the recipient stays as it was.
	}
}

// finish persists the recipient's final state and emits observability for
// it. Persistence errors are logged and swallowed; they must not disturb
// sibling sends or the join.
func (c *Coordinator) finish(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) {
	if err := c.recipients.SaveRecipient(ctx, msg.ID, rcpt); err != nil {
		c.logger.ErrorContext(ctx, "persist recipient failed",
			"message_id", msg.ID,
			"recipient_id", rcpt.ID,
			"error", err,
		)
	}

	c.metrics.IncrementSend(channelLabel(rcpt.MessageType), string(rcpt.Status))

	if rcpt.Status == domain.RecipientStatusPending {
		return
	}
	c.events.Publish(ctx, history.Event{
		MunicipalityID: msg.MunicipalityID,
		MessageID:      msg.ID.String(),
		RecipientID:    rcpt.ID.String(),
		PartyID:        rcpt.PartyID,
		MessageType:    string(rcpt.MessageType),
		Status:         string(rcpt.Status),
		StatusDetail:   rcpt.StatusDetail,
		ExternalID:     rcpt.ExternalID,
		Timestamp:      time.Now(),
	})
}

func (c *Coordinator) triggerPostalBatch(ctx context.Context, msg *domain.Message) {
	if err := c.gateway.TriggerPostalBatch(ctx, msg.MunicipalityID, msg.ID); err != nil {
		c.logger.ErrorContext(ctx, "postal batch trigger failed",
			"message_id", msg.ID,
			"error", err,
		)
		return
	}
	c.metrics.IncrementPostalBatchTrigger()
}

func (c *Coordinator) senderFor(t domain.MessageType) (sendFunc, bool) {
	switch t {
	case domain.MessageTypeSMS:
		return c.gateway.SendSms, true
	case domain.MessageTypeDigitalMail:
		return c.gateway.SendDigitalMail, true
	case domain.MessageTypeSnailMail:
		return c.gateway.SendSnailMail, true
	default:
		return nil, false
	}
}

func channelLabel(t domain.MessageType) string {
	switch t {
	case domain.MessageTypeSMS:
		return "sms"
	case domain.MessageTypeDigitalMail:
		return "digital-mail"
	case domain.MessageTypeSnailMail:
		return "snail-mail"
	default:
		return "unsupported"
	}
}
