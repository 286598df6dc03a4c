package domain

import "time"

// SubmissionOutcome is how a submission attempt ended
type SubmissionOutcome string

const (
	OutcomeSucceeded      SubmissionOutcome = "succeeded"
	OutcomeRejected       SubmissionOutcome = "rejected"
	OutcomeInProgress     SubmissionOutcome = "in_progress"
	OutcomeNetworkError   SubmissionOutcome = "network_error"
	OutcomeServerRejected SubmissionOutcome = "server_rejected"
	OutcomeUnauthorized   SubmissionOutcome = "unauthorized"
	OutcomeConflict       SubmissionOutcome = "conflict"
)

// SubmissionAttempt is the journal record of one submit intent
type SubmissionAttempt struct {
	ID            string
	VenueID       string
	Owner         string // Credential.Owner of the submitter, empty for anonymous attempts
	Range         DateRange
	GuestCount    int
	Outcome       SubmissionOutcome
	ErrorMessage  *string
	ReservationID *string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// AttemptFilter selects journal records. Empty Owner matches every user,
// empty Outcomes matches every outcome, zero Limit means no limit.
type AttemptFilter struct {
	VenueID  string
	Owner    string
	Outcomes []SubmissionOutcome
	Limit    uint64
}
