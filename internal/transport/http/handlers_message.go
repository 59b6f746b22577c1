package httptransport

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/message"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/httputil"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// MessageService is the application surface the message handlers delegate to.
type MessageService interface {
	SendSms(ctx context.Context, req message.SmsRequest) (uuid.UUID, error)
	SendDigitalMail(ctx context.Context, req message.DigitalMailRequest) (uuid.UUID, error)
	SendLetter(ctx context.Context, req message.LetterRequest) (uuid.UUID, error)
	GetMessage(ctx context.Context, municipalityID string, id uuid.UUID) (*domain.Message, error)
}

// MessageHandler serves message creation and status inspection.
type MessageHandler struct {
	messages MessageService
	logger   *slog.Logger
}

func NewMessageHandler(messages MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

func (h *MessageHandler) Register(r chi.Router) {
	r.Post("/{municipalityId}/messages/sms", h.handleSendSms)
	r.Post("/{municipalityId}/messages/digital-mail", h.handleSendDigitalMail)
	r.Post("/{municipalityId}/messages/letter", h.handleSendLetter)
	r.Get("/{municipalityId}/messages/{messageId}", h.handleGetMessage)
}

type smsRecipientBody struct {
	PartyID      string `json:"partyId"`
	MobileNumber string `json:"mobileNumber"`
}

type smsRequestBody struct {
	Message    string             `json:"message"`
	Recipients []smsRecipientBody `json:"recipients"`
}

type attachmentBody struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type digitalMailRequestBody struct {
	OrgNumber       string           `json:"orgNumber"`
	Subject         string           `json:"subject"`
	Body            string           `json:"body"`
	ContentType     string           `json:"contentType"`
	Attachments     []attachmentBody `json:"attachments"`
	PersonalNumbers []string         `json:"personalNumbers"`
}

type addressBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	ZipCode   string `json:"zipCode"`
	City      string `json:"city"`
}

type letterRequestBody struct {
	OrgNumber       string           `json:"orgNumber"`
	Subject         string           `json:"subject"`
	Body            string           `json:"body"`
	ContentType     string           `json:"contentType"`
	Attachments     []attachmentBody `json:"attachments"`
	PersonalNumbers []string         `json:"personalNumbers"`
	Addresses       []addressBody    `json:"addresses"`
}

type messageCreatedResponse struct {
	MessageID string `json:"messageId"`
}

func (h *MessageHandler) handleSendSms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[smsRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	recipients := make([]message.SmsRecipient, 0, len(req.Recipients))
	for _, rcpt := range req.Recipients {
		recipients = append(recipients, message.SmsRecipient{
			PartyID:      rcpt.PartyID,
			MobileNumber: rcpt.MobileNumber,
		})
	}

	id, err := h.messages.SendSms(ctx, message.SmsRequest{
		MunicipalityID: chi.URLParam(r, "municipalityId"),
		Body:           req.Message,
		Recipients:     recipients,
	})
	h.respondCreated(w, r, id, err)
}

func (h *MessageHandler) handleSendDigitalMail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[digitalMailRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, err := h.messages.SendDigitalMail(ctx, message.DigitalMailRequest{
		MunicipalityID: chi.URLParam(r, "municipalityId"),
		OrgNumber:      req.OrgNumber,
		Subject:        req.Subject,
		Body:           req.Body,
		ContentType:    req.ContentType,
		Attachments:    attachments,
		LegalIDs:       req.PersonalNumbers,
	})
	h.respondCreated(w, r, id, err)
}

func (h *MessageHandler) handleSendLetter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[letterRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	addresses := make([]domain.Address, 0, len(req.Addresses))
	for _, addr := range req.Addresses {
		addresses = append(addresses, domain.Address{
			FirstName: addr.FirstName,
			LastName:  addr.LastName,
			Street:    addr.Street,
			ZipCode:   addr.ZipCode,
			City:      addr.City,
		})
	}

	id, err := h.messages.SendLetter(ctx, message.LetterRequest{
		MunicipalityID: chi.URLParam(r, "municipalityId"),
		OrgNumber:      req.OrgNumber,
		Subject:        req.Subject,
		Body:           req.Body,
		ContentType:    req.ContentType,
		Attachments:    attachments,
		LegalIDs:       req.PersonalNumbers,
		Addresses:      addresses,
	})
	h.respondCreated(w, r, id, err)
}

type recipientStatusBody struct {
	ID           string `json:"id"`
	PartyID      string `json:"partyId,omitempty"`
	MessageType  string `json:"messageType"`
	Status       string `json:"status"`
	StatusDetail string `json:"statusDetail,omitempty"`
	ExternalID   string `json:"externalId,omitempty"`
}

type messageStatusResponse struct {
	MessageID      string                `json:"messageId"`
	MunicipalityID string                `json:"municipalityId"`
	Subject        string                `json:"subject,omitempty"`
	Recipients     []recipientStatusBody `json:"recipients"`
}

func (h *MessageHandler) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "messageId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid message id"))
		return
	}

	msg, err := h.messages.GetMessage(ctx, chi.URLParam(r, "municipalityId"), id)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "message not found"))
		return
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "load message failed", err))
		return
	}

	resp := messageStatusResponse{
		MessageID:      msg.ID.String(),
		MunicipalityID: msg.MunicipalityID,
		Subject:        msg.Subject,
		Recipients:     make([]recipientStatusBody, 0, len(msg.Recipients)),
	}
	for _, rcpt := range msg.Recipients {
		resp.Recipients = append(resp.Recipients, recipientStatusBody{
			ID:           rcpt.ID.String(),
			PartyID:      rcpt.PartyID,
			MessageType:  string(rcpt.MessageType),
			Status:       string(rcpt.Status),
			StatusDetail: rcpt.StatusDetail,
			ExternalID:   rcpt.ExternalID,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *MessageHandler) respondCreated(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	ctx := r.Context()
	if err != nil {
		h.logger.ErrorContext(ctx, "message creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, messageCreatedResponse{MessageID: id.String()})
}

func decodeAttachments(bodies []attachmentBody) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(bodies))
	for _, a := range bodies {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "attachment %q is not valid base64", a.FileName)
		}
		attachments = append(attachments, domain.Attachment{
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Content:     content,
		})
	}
	return attachments, nil
}

var _ MessageService = (*message.Service)(nil)
