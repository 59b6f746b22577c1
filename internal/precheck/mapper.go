package precheck

import (
	"context"
	"fmt"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/registry"
)

// Resolution is the per-identifier outcome of a party-id lookup batch.
type Resolution struct {
	// Resolved maps legal ids to party ids.
	Resolved map[string]string
	// Failed maps legal ids that could not be resolved to the fixed reason
	// the classifier short-circuits on.
	Failed map[string]string
}

// IdentityMapper resolves legal identifiers to party ids in a single batch
// call against the party-id registry.
type IdentityMapper struct {
	client registry.IdentityClient
}

func NewIdentityMapper(client registry.IdentityClient) *IdentityMapper {
	return &IdentityMapper{client: client}
}

// Resolve maps each legal id to a party id or records a failure. Empty input
// returns an empty resolution without an external call.
func (m *IdentityMapper) Resolve(ctx context.Context, legalIDs []string) (Resolution, error) {
	resolution := Resolution{
		Resolved: map[string]string{},
		Failed:   map[string]string{},
	}
	if len(legalIDs) == 0 {
		return resolution, nil
	}

	resolved, err := m.client.Resolve(ctx, legalIDs)
	if err != nil {
		return resolution, fmt.Errorf("resolve party ids: %w", err)
	}

	for _, legalID := range legalIDs {
		if partyID, ok := resolved[legalID]; ok && partyID != "" {
			resolution.Resolved[legalID] = partyID
		} else {
			resolution.Failed[legalID] = domain.ReasonPartyIDNotFound
		}
	}
	return resolution, nil
}
