// Package message builds message aggregates from send requests, assigns each
// recipient a channel via precheck, and hands the aggregate to the dispatch
// coordinator. A send request succeeds at the API level as soon as the
// aggregate is persisted; per-recipient outcomes surface later through status
// inspection.
package message

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/dispatch"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/precheck"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/store"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// SmsRecipient is one addressee of an SMS batch.
type SmsRecipient struct {
	PartyID      string
	MobileNumber string
}

// SmsRequest is a batch SMS send.
type SmsRequest struct {
	MunicipalityID string
	Body           string
	Recipients     []SmsRecipient
}

// DigitalMailRequest is a batch digital-mail send. Recipients who cannot
// receive digital mail end up in a terminal state instead of being sent.
type DigitalMailRequest struct {
	MunicipalityID string
	OrgNumber      string
	Subject        string
	Body           string
	ContentType    string
	Attachments    []domain.Attachment
	LegalIDs       []string
}

// LetterRequest is a batch letter send: digital mail where reachable, postal
// mail otherwise. Address-only recipients always go postal.
type LetterRequest struct {
	MunicipalityID string
	OrgNumber      string
	Subject        string
	Body           string
	ContentType    string
	Attachments    []domain.Attachment
	LegalIDs       []string
	Addresses      []domain.Address
}

// Service is the application layer between the HTTP surface and the
// precheck/dispatch core.
type Service struct {
	precheck *precheck.Service
	coord    *dispatch.Coordinator
	messages store.MessageStore
	logger   *slog.Logger
}

func NewService(pc *precheck.Service, coord *dispatch.Coordinator, messages store.MessageStore, logger *slog.Logger) *Service {
	return &Service{precheck: pc, coord: coord, messages: messages, logger: logger}
}

// SendSms creates and dispatches an SMS batch. SMS needs no eligibility
// precheck; every recipient is dispatched on the sms channel.
func (s *Service) SendSms(ctx context.Context, req SmsRequest) (uuid.UUID, error) {
	if len(req.Recipients) == 0 {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "at least one recipient is required")
	}

	msg := s.newMessage(ctx, req.MunicipalityID)
	msg.Body = req.Body
	for _, r := range req.Recipients {
		rcpt := domain.NewRecipient(r.PartyID, domain.MessageTypeSMS)
		rcpt.MobileNumber = r.MobileNumber
		msg.Recipients = append(msg.Recipients, rcpt)
	}

	return s.accept(ctx, msg)
}

// SendDigitalMail creates and dispatches a digital-mail batch. Recipients
// whose mailbox is unreachable are created UNDELIVERABLE; minors are created
// INELIGIBLE_MINOR. Neither is ever dispatched.
func (s *Service) SendDigitalMail(ctx context.Context, req DigitalMailRequest) (uuid.UUID, error) {
	if len(req.LegalIDs) == 0 {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "at least one recipient is required")
	}

	result, err := s.precheck.Run(ctx, precheck.Request{
		MunicipalityID: req.MunicipalityID,
		OrgNumber:      req.OrgNumber,
		LegalIDs:       req.LegalIDs,
	})
	if err != nil {
		return uuid.Nil, err
	}

	msg := s.newMessage(ctx, req.MunicipalityID)
	msg.Subject = req.Subject
	msg.Body = req.Body
	msg.ContentType = req.ContentType
	msg.Attachments = req.Attachments

	for _, outcome := range result.Outcomes {
		switch {
		case result.Minors[outcome.PartyID]:
			msg.Recipients = append(msg.Recipients, domain.NewTerminalRecipient(
				outcome.PartyID, domain.MessageTypeDigitalMail,
				domain.RecipientStatusIneligibleMinor, domain.ReasonIneligibleMinor))
		case outcome.DeliveryMethod == domain.DeliveryMethodDigitalMail:
			msg.Recipients = append(msg.Recipients,
				domain.NewRecipient(outcome.PartyID, domain.MessageTypeDigitalMail))
		default:
			msg.Recipients = append(msg.Recipients, domain.NewTerminalRecipient(
				outcome.PartyID, domain.MessageTypeDigitalMail,
				domain.RecipientStatusUndeliverable, undeliverableReason(outcome)))
		}
	}

	return s.accept(ctx, msg)
}

// SendLetter creates and dispatches a letter batch: digital mail for
// reachable recipients, postal mail for snail-eligible ones, terminal states
// for the rest. Address-only recipients skip precheck and go postal.
func (s *Service) SendLetter(ctx context.Context, req LetterRequest) (uuid.UUID, error) {
	if len(req.LegalIDs) == 0 && len(req.Addresses) == 0 {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "at least one recipient or address is required")
	}

	msg := s.newMessage(ctx, req.MunicipalityID)
	msg.Subject = req.Subject
	msg.Body = req.Body
	msg.ContentType = req.ContentType
	msg.Attachments = req.Attachments

	if len(req.LegalIDs) > 0 {
		result, err := s.precheck.Run(ctx, precheck.Request{
			MunicipalityID: req.MunicipalityID,
			OrgNumber:      req.OrgNumber,
			LegalIDs:       req.LegalIDs,
		})
		if err != nil {
			return uuid.Nil, err
		}
		for _, outcome := range result.Outcomes {
			msg.Recipients = append(msg.Recipients, letterRecipient(outcome, result))
		}
	}

	for i := range req.Addresses {
		rcpt := domain.NewRecipient("", domain.MessageTypeSnailMail)
		rcpt.Address = &req.Addresses[i]
		msg.Recipients = append(msg.Recipients, rcpt)
	}

	return s.accept(ctx, msg)
}

// GetMessage returns the aggregate with current per-recipient states.
func (s *Service) GetMessage(ctx context.Context, municipalityID string, id uuid.UUID) (*domain.Message, error) {
	return s.messages.GetMessage(ctx, municipalityID, id)
}

// letterRecipient maps one precheck outcome to a recipient for letter sends.
func letterRecipient(outcome domain.PrecheckOutcome, result *precheck.Result) *domain.Recipient {
	if result.Minors[outcome.PartyID] {
		return domain.NewTerminalRecipient(outcome.PartyID, domain.MessageTypeSnailMail,
			domain.RecipientStatusIneligibleMinor, domain.ReasonIneligibleMinor)
	}

	switch outcome.DeliveryMethod {
	case domain.DeliveryMethodDigitalMail:
		return domain.NewRecipient(outcome.PartyID, domain.MessageTypeDigitalMail)
	case domain.DeliveryMethodSnailMail:
		rcpt := domain.NewRecipient(outcome.PartyID, domain.MessageTypeSnailMail)
		if citizen, ok := result.Citizens[outcome.PartyID]; ok {
			rcpt.Address = citizen.Address
		}
		return rcpt
	default:
		return domain.NewTerminalRecipient(outcome.PartyID, domain.MessageTypeSnailMail,
			domain.RecipientStatusUndeliverable, undeliverableReason(outcome))
	}
}

func undeliverableReason(outcome domain.PrecheckOutcome) string {
	if outcome.Reason != "" {
		return outcome.Reason
	}
	return domain.ReasonNoEligibleMethod
}

func (s *Service) newMessage(ctx context.Context, municipalityID string) *domain.Message {
	actor := requestcontext.Actor(ctx)
	return domain.NewMessage(municipalityID, actor.Department, actor.UserID)
}

// accept persists the initial aggregate and starts dispatch in the
// background. The dispatch context drops the request's cancellation but keeps
// its values, so the actor identity travels with the sends.
func (s *Service) accept(ctx context.Context, msg *domain.Message) (uuid.UUID, error) {
	if err := s.messages.SaveMessage(ctx, msg); err != nil {
		return uuid.Nil, dErrors.Wrap(dErrors.CodeInternal, "persist message failed", err)
	}

	s.logger.InfoContext(ctx, "message accepted",
		"request_id", requestcontext.RequestID(ctx),
		"message_id", msg.ID,
		"recipients", len(msg.Recipients),
	)

	s.coord.Dispatch(context.WithoutCancel(ctx), msg)
	return msg.ID, nil
}
