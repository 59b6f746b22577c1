package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/circuit"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
)

// HTTPClientConfig carries the endpoint settings shared by the registry
// adapters.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func newHTTPClient(cfg HTTPClientConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// postJSON issues a JSON POST and decodes the response into out. Transport
// failures and non-2xx responses come back wrapped in sentinel.ErrUnavailable
// so the precheck service can classify them as upstream failures.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", sentinel.ErrUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", sentinel.ErrUnavailable, url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", sentinel.ErrUnavailable, url, err)
	}
	return nil
}

// guardedPostJSON is postJSON behind a circuit breaker. An open circuit
// fails fast without touching the upstream; only availability failures count
// toward opening it.
func guardedPostJSON(ctx context.Context, client *http.Client, b *circuit.Breaker, url string, body, out any) error {
	if b.IsOpen() {
		return fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, b.Name())
	}

	err := postJSON(ctx, client, url, body, out)
	if errors.Is(err, sentinel.ErrUnavailable) {
		b.RecordFailure()
		return err
	}
	if err != nil {
		return err
	}
	b.RecordSuccess()
	return nil
}

// HTTPIdentityClient resolves party ids against the party-id registry.
type HTTPIdentityClient struct {
	cfg     HTTPClientConfig
	client  *http.Client
	breaker *circuit.Breaker
}

func NewHTTPIdentityClient(cfg HTTPClientConfig) *HTTPIdentityClient {
	return &HTTPIdentityClient{cfg: cfg, client: newHTTPClient(cfg), breaker: circuit.New("party-registry")}
}

func (c *HTTPIdentityClient) Resolve(ctx context.Context, legalIDs []string) (map[string]string, error) {
	if len(legalIDs) == 0 {
		return map[string]string{}, nil
	}

	var response struct {
		Matches []struct {
			LegalID string `json:"legalId"`
			PartyID string `json:"partyId"`
		} `json:"matches"`
	}
	url := c.cfg.BaseURL + "/party/resolve"
	if err := guardedPostJSON(ctx, c.client, c.breaker, url, map[string]any{"legalIds": legalIDs}, &response); err != nil {
		return nil, err
	}

	resolved := make(map[string]string, len(response.Matches))
	for _, match := range response.Matches {
		if match.PartyID != "" {
			resolved[match.LegalID] = match.PartyID
		}
	}
	return resolved, nil
}

// HTTPCitizenClient fetches citizen records from the citizen registry.
type HTTPCitizenClient struct {
	cfg     HTTPClientConfig
	client  *http.Client
	breaker *circuit.Breaker
}

func NewHTTPCitizenClient(cfg HTTPClientConfig) *HTTPCitizenClient {
	return &HTTPCitizenClient{cfg: cfg, client: newHTTPClient(cfg), breaker: circuit.New("citizen-registry")}
}

func (c *HTTPCitizenClient) Fetch(ctx context.Context, municipalityID string, partyIDs []string) ([]domain.CitizenRecord, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}

	var response []struct {
		PartyID            string `json:"partyId"`
		PersonalNumber     string `json:"personalNumber"`
		RegisteredInSweden bool   `json:"registeredInSweden"`
		GivenName          string `json:"givenname"`
		LastName           string `json:"lastname"`
		Addresses          []struct {
			Address    string `json:"address"`
			PostalCode string `json:"postalCode"`
			City       string `json:"city"`
		} `json:"addresses"`
	}
	url := fmt.Sprintf("%s/%s/citizen/batch", c.cfg.BaseURL, municipalityID)
	if err := guardedPostJSON(ctx, c.client, c.breaker, url, map[string]any{"partyIds": partyIDs}, &response); err != nil {
		return nil, err
	}

	records := make([]domain.CitizenRecord, 0, len(response))
	for _, entry := range response {
		record := domain.CitizenRecord{
			PartyID:                 entry.PartyID,
			LegalID:                 entry.PersonalNumber,
			RegisteredInHomeCountry: entry.RegisteredInSweden,
			FirstName:               entry.GivenName,
			LastName:                entry.LastName,
		}
		if len(entry.Addresses) > 0 {
			record.Address = &domain.Address{
				FirstName: entry.GivenName,
				LastName:  entry.LastName,
				Street:    entry.Addresses[0].Address,
				ZipCode:   entry.Addresses[0].PostalCode,
				City:      entry.Addresses[0].City,
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// HTTPMailboxClient performs digital-mailbox reachability prechecks.
type HTTPMailboxClient struct {
	cfg     HTTPClientConfig
	client  *http.Client
	breaker *circuit.Breaker
}

func NewHTTPMailboxClient(cfg HTTPClientConfig) *HTTPMailboxClient {
	return &HTTPMailboxClient{cfg: cfg, client: newHTTPClient(cfg), breaker: circuit.New("mailbox-registry")}
}

func (c *HTTPMailboxClient) Precheck(ctx context.Context, municipalityID, orgNumber string, partyIDs []string) ([]domain.MailboxStatus, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}

	var response struct {
		Recipients []struct {
			PartyID   string `json:"partyId"`
			Reachable bool   `json:"deliverable"`
			Reason    string `json:"reason"`
		} `json:"recipients"`
	}
	url := fmt.Sprintf("%s/%s/precheck", c.cfg.BaseURL, municipalityID)
	body := map[string]any{"organizationNumber": orgNumber, "partyIds": partyIDs}
	if err := guardedPostJSON(ctx, c.client, c.breaker, url, body, &response); err != nil {
		return nil, err
	}

	statuses := make([]domain.MailboxStatus, 0, len(response.Recipients))
	for _, entry := range response.Recipients {
		statuses = append(statuses, domain.MailboxStatus{
			PartyID:   entry.PartyID,
			Reachable: entry.Reachable,
			Reason:    entry.Reason,
		})
	}
	return statuses, nil
}
