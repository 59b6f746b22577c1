package registry

import (
	"context"
	"time"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/personalnumber"
	"github.com/google/uuid"
)

// Deterministic in-process clients for local runs and examples. They derive
// stable data from the input and use a configurable latency to mimic
// real-world calls.

type MockIdentityClient struct {
	Latency time.Duration
	// Unresolvable lists legal ids the mock pretends the registry does not know.
	Unresolvable map[string]bool
}

func (c MockIdentityClient) Resolve(_ context.Context, legalIDs []string) (map[string]string, error) {
	time.Sleep(c.Latency)
	resolved := make(map[string]string, len(legalIDs))
	for _, legalID := range legalIDs {
		if c.Unresolvable[personalnumber.Normalize(legalID)] {
			continue
		}
		resolved[legalID] = deterministicPartyID(legalID)
	}
	return resolved, nil
}

type MockCitizenClient struct {
	Latency time.Duration
}

func (c MockCitizenClient) Fetch(_ context.Context, _ string, partyIDs []string) ([]domain.CitizenRecord, error) {
	time.Sleep(c.Latency)
	records := make([]domain.CitizenRecord, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		records = append(records, domain.CitizenRecord{
			PartyID:                 partyID,
			LegalID:                 "19900101-2391",
			RegisteredInHomeCountry: true,
			FirstName:               "Sample",
			LastName:                "Citizen",
		})
	}
	return records, nil
}

type MockMailboxClient struct {
	Latency time.Duration
	// Reachable marks party ids with an active digital mailbox.
	Reachable map[string]bool
}

func (c MockMailboxClient) Precheck(_ context.Context, _, _ string, partyIDs []string) ([]domain.MailboxStatus, error) {
	time.Sleep(c.Latency)
	statuses := make([]domain.MailboxStatus, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		statuses = append(statuses, domain.MailboxStatus{
			PartyID:   partyID,
			Reachable: c.Reachable[partyID],
		})
	}
	return statuses, nil
}

// deterministicPartyID derives a stable UUID-shaped party id from a legal id
// so repeated mock lookups agree.
func deterministicPartyID(legalID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(personalnumber.Normalize(legalID))).String()
}
