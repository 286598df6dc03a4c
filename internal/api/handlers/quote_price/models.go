package quote_price

import (
	"github.com/m04kA/holidaze-booking/internal/domain"
	quotePrice "github.com/m04kA/holidaze-booking/internal/usecase/quote_price"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	DateFrom string `json:"dateFrom"` // "2024-06-04"
	DateTo   string `json:"dateTo"`   // "2024-06-06"
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	VenueID       string  `json:"venueId"`
	DateFrom      string  `json:"dateFrom,omitempty"`
	DateTo        string  `json:"dateTo,omitempty"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"pricePerNight"`
	Total         float64 `json:"total"`
}

// FromQuote конвертирует расчет в HTTP response
func FromQuote(venueID string, q quotePrice.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		VenueID:       venueID,
		Nights:        q.Nights,
		PricePerNight: q.PricePerNight,
		Total:         q.Total,
	}
	if start := q.Range.Start(); !start.IsZero() {
		resp.DateFrom = start.Format(domain.DateFormat)
	}
	if end := q.Range.End(); !end.IsZero() {
		resp.DateTo = end.Format(domain.DateFormat)
	}
	return resp
}
