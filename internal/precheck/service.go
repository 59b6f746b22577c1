// Package precheck implements the delivery-eligibility pipeline: party-id
// resolution, citizen categorization, mailbox reachability, and the channel
// classifier. A precheck either fully succeeds with one outcome per input
// identifier or fully fails on the first upstream error; no partial result
// is returned.
package precheck

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/metrics"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/registry"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	pstrings "github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/strings"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// upstreamTimeout bounds the parallel registry fan-out, not individual
// dispatch sends.
const upstreamTimeout = 30 * time.Second

// Request is one precheck batch.
type Request struct {
	MunicipalityID string
	OrgNumber      string
	LegalIDs       []string
}

// Result carries the per-identifier outcomes plus the lookup tables message
// construction needs (citizen records for addresses, minor party ids for
// terminal recipient states).
type Result struct {
	Outcomes  []domain.PrecheckOutcome
	Citizens  map[string]domain.CitizenRecord
	Minors    map[string]bool
	Reachable map[string]bool
}

// Service orchestrates the precheck pipeline.
type Service struct {
	mapper   *IdentityMapper
	citizens registry.CitizenClient
	mailbox  registry.MailboxClient
	cache    *MailboxCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(
	identity registry.IdentityClient,
	citizens registry.CitizenClient,
	mailbox registry.MailboxClient,
	cache *MailboxCache,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		mapper:   NewIdentityMapper(identity),
		citizens: citizens,
		mailbox:  mailbox,
		cache:    cache,
		logger:   logger,
		metrics:  m,
	}
}

// Run classifies every input identifier. Input is deduplicated on the
// trimmed form; outcome order follows the deduplicated input order.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	legalIDs := pstrings.DedupeAndTrim(req.LegalIDs)

	resolution, err := s.mapper.Resolve(ctx, legalIDs)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUpstreamUnavailable, "party id resolution failed", err)
	}

	partyIDs := make([]string, 0, len(resolution.Resolved))
	for _, legalID := range legalIDs {
		if partyID, ok := resolution.Resolved[legalID]; ok {
			partyIDs = append(partyIDs, partyID)
		}
	}

	citizens, reachable, err := s.gatherRegistryData(ctx, req, partyIDs)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUpstreamUnavailable, "registry lookup failed", err)
	}

	categorization := Categorize(citizens, requestcontext.Now(ctx))
	snailEligible := categorization.SnailEligiblePartyIDs()

	result := &Result{
		Citizens:  make(map[string]domain.CitizenRecord, len(citizens)),
		Minors:    categorization.MinorPartyIDs(),
		Reachable: reachable,
	}
	for _, citizen := range citizens {
		result.Citizens[citizen.PartyID] = citizen
	}

	for _, legalID := range legalIDs {
		partyID := resolution.Resolved[legalID]
		method, reason := Classify(partyID, reachable, snailEligible)
		result.Outcomes = append(result.Outcomes, domain.PrecheckOutcome{
			LegalID:        legalID,
			PartyID:        partyID,
			DeliveryMethod: method,
			Reason:         reason,
		})
		s.metrics.IncrementPrecheckOutcome(string(method))
	}

	s.logger.InfoContext(ctx, "precheck completed",
		"request_id", requestcontext.RequestID(ctx),
		"municipality_id", req.MunicipalityID,
		"entries", len(result.Outcomes),
	)
	return result, nil
}

// gatherRegistryData fetches citizen records and mailbox reachability in
// parallel with a shared timeout. Either failure aborts the whole batch.
func (s *Service) gatherRegistryData(ctx context.Context, req Request, partyIDs []string) ([]domain.CitizenRecord, map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var citizens []domain.CitizenRecord
	reachable := map[string]bool{}

	g.Go(func() error {
		fetched, err := s.citizens.Fetch(ctx, req.MunicipalityID, partyIDs)
		if err != nil {
			return err
		}
		citizens = fetched
		return nil
	})

	g.Go(func() error {
		statuses, err := s.mailboxReachability(ctx, req, partyIDs)
		if err != nil {
			return err
		}
		reachable = statuses
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return citizens, reachable, nil
}

// mailboxReachability consults the cache first and asks the registry only
// for the ids that missed.
func (s *Service) mailboxReachability(ctx context.Context, req Request, partyIDs []string) (map[string]bool, error) {
	hits, missing := s.cache.Lookup(ctx, req.MunicipalityID, partyIDs)

	reachable := map[string]bool{}
	for partyID, ok := range hits {
		if ok {
			reachable[partyID] = true
		}
	}
	if len(missing) == 0 {
		return reachable, nil
	}

	statuses, err := s.mailbox.Precheck(ctx, req.MunicipalityID, req.OrgNumber, missing)
	if err != nil {
		return nil, err
	}
	s.cache.Store(ctx, req.MunicipalityID, statuses)

	for _, status := range statuses {
		if status.Reachable {
			reachable[status.PartyID] = true
		}
	}
	return reachable, nil
}
