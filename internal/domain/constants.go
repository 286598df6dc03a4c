package domain

// OverlapPolicy decides whether a reservation's checkout day is still blocked
type OverlapPolicy string

const (
	// PolicyInclusive blocks every day from check-in to checkout, both included.
	// Back-to-back stays (checkout N, check-in N) conflict.
	PolicyInclusive OverlapPolicy = "inclusive"

	// PolicyExclusiveCheckout frees the checkout day so the next guest can check in on it
	PolicyExclusiveCheckout OverlapPolicy = "exclusive_checkout"
)

// Valid returns true if the policy is a known value
func (p OverlapPolicy) Valid() bool {
	return p == PolicyInclusive || p == PolicyExclusiveCheckout
}

// Booking limits
const (
	MinGuests = 1
)

// Time format constants
const (
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)
