package precheck

import (
	"time"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/personalnumber"
)

// Categorization partitions citizens into the buckets the classifier and
// recipient construction work from.
type Categorization struct {
	EligibleAdults   []domain.CitizenRecord
	IneligibleMinors []domain.CitizenRecord
	NotRegistered    []domain.CitizenRecord
}

// Categorize partitions citizens, evaluated in this order per citizen:
// not registered in the home country (regardless of age), registered adult,
// registered minor. The age check fails closed, so a citizen with a missing
// or malformed identifier lands in the minor bucket.
func Categorize(citizens []domain.CitizenRecord, today time.Time) Categorization {
	var result Categorization
	for _, citizen := range citizens {
		switch {
		case !citizen.RegisteredInHomeCountry:
			result.NotRegistered = append(result.NotRegistered, citizen)
		case personalnumber.IsAdult(citizen.LegalID, today):
			result.EligibleAdults = append(result.EligibleAdults, citizen)
		default:
			result.IneligibleMinors = append(result.IneligibleMinors, citizen)
		}
	}
	return result
}

// SnailEligiblePartyIDs is the set of party ids allowed on the postal
// channel: registered adults only.
func (c Categorization) SnailEligiblePartyIDs() map[string]bool {
	eligible := make(map[string]bool, len(c.EligibleAdults))
	for _, citizen := range c.EligibleAdults {
		eligible[citizen.PartyID] = true
	}
	return eligible
}

// MinorPartyIDs is the set of party ids categorized as ineligible minors.
func (c Categorization) MinorPartyIDs() map[string]bool {
	minors := make(map[string]bool, len(c.IneligibleMinors))
	for _, citizen := range c.IneligibleMinors {
		minors[citizen.PartyID] = true
	}
	return minors
}
