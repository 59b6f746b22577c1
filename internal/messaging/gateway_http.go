package messaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// HTTPGateway sends through the messaging gateway's REST API. The actor
// identity travels as a header on every call so downstream attribution works
// from worker goroutines without ambient state.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

type HTTPGatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPGateway{baseURL: cfg.BaseURL, client: &http.Client{Timeout: timeout}}
}

type deliveryPayload struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId"`
}

type sendResponse struct {
	Deliveries []deliveryPayload `json:"deliveries"`
}

func (g *HTTPGateway) SendSms(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	body := map[string]any{
		"sender":       msg.Department,
		"mobileNumber": rcpt.MobileNumber,
		"partyId":      rcpt.PartyID,
		"message":      msg.Body,
	}
	return g.send(ctx, msg, fmt.Sprintf("%s/%s/sms", g.baseURL, msg.MunicipalityID), body)
}

func (g *HTTPGateway) SendDigitalMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	body := map[string]any{
		"partyId":     rcpt.PartyID,
		"subject":     msg.Subject,
		"contentType": msg.ContentType,
		"body":        msg.Body,
		"attachments": attachmentPayloads(msg.Attachments),
	}
	return g.send(ctx, msg, fmt.Sprintf("%s/%s/digital-mail", g.baseURL, msg.MunicipalityID), body)
}

func (g *HTTPGateway) SendSnailMail(ctx context.Context, msg *domain.Message, rcpt *domain.Recipient) (SendResult, error) {
	body := map[string]any{
		"partyId":     rcpt.PartyID,
		"department":  msg.Department,
		"attachments": attachmentPayloads(msg.Attachments),
	}
	if rcpt.Address != nil {
		body["address"] = map[string]string{
			"firstName": rcpt.Address.FirstName,
			"lastName":  rcpt.Address.LastName,
			"street":    rcpt.Address.Street,
			"zipCode":   rcpt.Address.ZipCode,
			"city":      rcpt.Address.City,
		}
	}
	return g.send(ctx, msg, fmt.Sprintf("%s/%s/snail-mail", g.baseURL, msg.MunicipalityID), body)
}

func (g *HTTPGateway) TriggerPostalBatch(ctx context.Context, municipalityID string, messageID uuid.UUID) error {
	url := fmt.Sprintf("%s/%s/send-batch/%s", g.baseURL, municipalityID, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build batch trigger request: %w", err)
	}
	g.setHeaders(ctx, req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: trigger postal batch: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: postal batch trigger returned %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (g *HTTPGateway) send(ctx context.Context, msg *domain.Message, url string, body map[string]any) (SendResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal send request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.setHeaders(ctx, req)

	resp, err := g.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("send to gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SendResult{}, fmt.Errorf("gateway returned %d for %s", resp.StatusCode, url)
	}

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SendResult{}, fmt.Errorf("decode gateway response: %w", err)
	}

	result := SendResult{Deliveries: make([]Delivery, 0, len(decoded.Deliveries))}
	for _, d := range decoded.Deliveries {
		result.Deliveries = append(result.Deliveries, Delivery{Status: d.Status, MessageID: d.MessageID})
	}
	return result, nil
}

func (g *HTTPGateway) setHeaders(ctx context.Context, req *http.Request) {
	actor := requestcontext.Actor(ctx)
	if actor.UserID != "" {
		req.Header.Set("X-Sent-By", actor.UserID)
	}
	if actor.Department != "" {
		req.Header.Set("X-Sent-By-Department", actor.Department)
	}
}

func attachmentPayloads(attachments []domain.Attachment) []map[string]string {
	payloads := make([]map[string]string, 0, len(attachments))
	for _, a := range attachments {
		payloads = append(payloads, map[string]string{
			"fileName":    a.FileName,
			"contentType": a.ContentType,
			"content":     base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	return payloads
}
