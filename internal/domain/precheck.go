package domain

// DeliveryMethod is the channel assignment produced by the eligibility
// classifier. Exactly one value per recipient per precheck run.
type DeliveryMethod string

const (
	DeliveryMethodDigitalMail DeliveryMethod = "DIGITAL_MAIL"
	DeliveryMethodSnailMail   DeliveryMethod = "SNAIL_MAIL"
	DeliveryMethodNotPossible DeliveryMethod = "DELIVERY_NOT_POSSIBLE"
)

// Failure reasons attached to precheck outcomes. The wording is part of the
// API contract.
const (
	ReasonPartyIDNotFound  = "Party ID not found."
	ReasonNoEligibleMethod = "No eligible delivery method."
	ReasonIneligibleMinor  = "Recipient is not an adult."
	ReasonNotRegistered    = "Recipient is not registered in the country."
)

// PrecheckOutcome is the per-identifier result of a precheck run. Reason is
// set only when no positive channel could be resolved.
type PrecheckOutcome struct {
	LegalID        string
	PartyID        string
	DeliveryMethod DeliveryMethod
	Reason         string
}

// CitizenRecord is the registry view of a citizen. Immutable once fetched;
// consumed within a single precheck call and never persisted by the core.
type CitizenRecord struct {
	PartyID                 string
	LegalID                 string
	RegisteredInHomeCountry bool
	FirstName               string
	LastName                string
	Address                 *Address
}

// MailboxStatus is one entry of a mailbox-registry precheck response.
type MailboxStatus struct {
	PartyID   string
	Reachable bool
	Reason    string
}
