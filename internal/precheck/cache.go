package precheck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

// MailboxCache keeps recent mailbox-reachability answers in Redis so repeated
// prechecks against the same citizens skip the registry round trip. The cache
// is an optimization only: a nil cache, a miss, or a Redis failure all
// degrade to a direct registry call.
type MailboxCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewMailboxCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *MailboxCache {
	return &MailboxCache{client: client, ttl: ttl, logger: logger}
}

func mailboxKey(municipalityID, partyID string) string {
	return fmt.Sprintf("mailbox:%s:%s", municipalityID, partyID)
}

// Lookup returns cached reachability per party id and the ids that missed.
func (c *MailboxCache) Lookup(ctx context.Context, municipalityID string, partyIDs []string) (map[string]bool, []string) {
	if c == nil || c.client == nil || len(partyIDs) == 0 {
		return map[string]bool{}, partyIDs
	}

	keys := make([]string, len(partyIDs))
	for i, partyID := range partyIDs {
		keys[i] = mailboxKey(municipalityID, partyID)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "mailbox cache lookup failed", "error", err)
		}
		return map[string]bool{}, partyIDs
	}

	hits := map[string]bool{}
	var missing []string
	for i, value := range values {
		switch value {
		case "1":
			hits[partyIDs[i]] = true
		case "0":
			hits[partyIDs[i]] = false
		default:
			missing = append(missing, partyIDs[i])
		}
	}
	return hits, missing
}

// Store caches fresh registry answers. Failures are logged and ignored.
func (c *MailboxCache) Store(ctx context.Context, municipalityID string, statuses []domain.MailboxStatus) {
	if c == nil || c.client == nil || len(statuses) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, status := range statuses {
		value := "0"
		if status.Reachable {
			value = "1"
		}
		pipe.Set(ctx, mailboxKey(municipalityID, status.PartyID), value, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "mailbox cache store failed", "error", err)
	}
}
