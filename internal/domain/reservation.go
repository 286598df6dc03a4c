package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CustomerRef is the read-only projection of the customer who owns a reservation
type CustomerRef struct {
	Name  string
	Email string
}

// Reservation is a backend-confirmed booking. The client never mutates it.
type Reservation struct {
	ID         string
	VenueID    string
	Range      DateRange
	GuestCount int
	Customer   CustomerRef
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingRequest is a candidate reservation that has not been submitted yet
type BookingRequest struct {
	VenueID    string
	Range      DateRange
	GuestCount int
}

// VenueConstraints are the venue limits the booking flow reads
type VenueConstraints struct {
	VenueID       string
	Name          string
	MaxGuests     int
	PricePerNight float64
}

// AllowsGuests returns true if the guest count is within the venue limits
func (c VenueConstraints) AllowsGuests(guests int) bool {
	return guests >= MinGuests && guests <= c.MaxGuests
}

// Credential is an access token with its expiry
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time // zero = no known expiry
	Subject     string    // user the token was issued to, empty if the token does not say
}

// Owner identifies the user behind the credential: the subject when known,
// otherwise a digest of the token. Empty for an absent credential.
func (c Credential) Owner() string {
	if c.Subject != "" {
		return c.Subject
	}
	if c.AccessToken == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(c.AccessToken))
	return "token:" + hex.EncodeToString(sum[:8])
}

// IsValidAt returns true if the credential is present and not expired at now
func (c Credential) IsValidAt(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.ExpiresAt)
}
