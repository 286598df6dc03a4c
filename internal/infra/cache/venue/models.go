package venue

import "github.com/m04kA/holidaze-booking/internal/domain"

// entry формат ограничений площадки в Redis
type entry struct {
	VenueID       string  `json:"venueId"`
	Name          string  `json:"name"`
	MaxGuests     int     `json:"maxGuests"`
	PricePerNight float64 `json:"pricePerNight"`
}

func newEntry(c domain.VenueConstraints) entry {
	return entry{
		VenueID:       c.VenueID,
		Name:          c.Name,
		MaxGuests:     c.MaxGuests,
		PricePerNight: c.PricePerNight,
	}
}

func (e entry) toDomain() domain.VenueConstraints {
	return domain.VenueConstraints{
		VenueID:       e.VenueID,
		Name:          e.Name,
		MaxGuests:     e.MaxGuests,
		PricePerNight: e.PricePerNight,
	}
}
