package dispatch

// Outcome is the tagged result of one send task. Exactly one variant comes
// back per task; the coordinator switches on it to update the recipient.
type Outcome interface {
	isOutcome()
}

// Sent means the gateway accepted the send and reported a delivery. Status
// is the gateway's status string, ExternalID its delivery id.
type Sent struct {
	Status     string
	ExternalID string
}

// Failed means the send errored. Detail is persisted on the recipient; the
// failure never touches sibling recipients.
type Failed struct {
	Detail string
}

// NoDeliveries means the gateway answered without reporting any delivery.
// The recipient is left untouched, neither sent nor failed.
type NoDeliveries struct{}

func (Sent) isOutcome()         {}
func (Failed) isOutcome()       {}
func (NoDeliveries) isOutcome() {}
