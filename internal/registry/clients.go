// Package registry holds the client ports for the upstream registries the
// precheck pipeline composes: the party-id registry, the citizen registry,
// and the digital-mailbox registry. Concrete HTTP adapters live alongside;
// deterministic mocks mimic real-world calls with configurable latency.
package registry

import (
	"context"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

//go:generate mockgen -source=clients.go -destination=mocks/mocks.go -package=mocks

// IdentityClient resolves legal identifiers to stable party ids in one batch
// call. Identifiers absent from the returned map failed resolution; the
// client does not retry or dedupe beyond what the caller enforces.
type IdentityClient interface {
	Resolve(ctx context.Context, legalIDs []string) (map[string]string, error)
}

// CitizenClient fetches citizen records for a set of party ids.
type CitizenClient interface {
	Fetch(ctx context.Context, municipalityID string, partyIDs []string) ([]domain.CitizenRecord, error)
}

// MailboxClient answers which party ids have a reachable digital mailbox for
// the given sender organization.
type MailboxClient interface {
	Precheck(ctx context.Context, municipalityID, orgNumber string, partyIDs []string) ([]domain.MailboxStatus, error)
}
