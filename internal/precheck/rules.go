package precheck

import (
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
)

// Classify assigns the delivery channel for one resolved entry. This is pure
// domain logic - no I/O, no side effects. It consumes precomputed sets from
// the mailbox registry and the citizen categorization and never invents a
// party id or mailbox status.
//
// Decision order (fixed business rule, not a heuristic):
//  1. Unresolved party id - delivery not possible
//  2. Reachable digital mailbox - digital mail, regardless of postal
//     eligibility
//  3. Registered adult - snail mail
//  4. Otherwise - delivery not possible
func Classify(partyID string, reachableDigital, snailEligible map[string]bool) (domain.DeliveryMethod, string) {
	if partyID == "" {
		return domain.DeliveryMethodNotPossible, domain.ReasonPartyIDNotFound
	}
	if reachableDigital[partyID] {
		return domain.DeliveryMethodDigitalMail, ""
	}
	if snailEligible[partyID] {
		return domain.DeliveryMethodSnailMail, ""
	}
	return domain.DeliveryMethodNotPossible, domain.ReasonNoEligibleMethod
}
