package holidazeapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// envelope обертка всех ответов Holidaze API v2: {"data": ..., "meta": {...}}
type envelope[T any] struct {
	Data T              `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Venue модель площадки из Holidaze API
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	MaxGuests int       `json:"maxGuests"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

// Booking модель бронирования из Holidaze API
type Booking struct {
	ID       string    `json:"id"`
	DateFrom string    `json:"dateFrom"` // ISO 8601, "2024-06-01T00:00:00.000Z"
	DateTo   string    `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  string    `json:"created,omitempty"`
	Updated  string    `json:"updated,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// Customer владелец бронирования
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBookingRequest тело POST /holidaze/bookings
type CreateBookingRequest struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
	VenueID  string `json:"venueId"`
}

// ErrorResponse модель ошибки Holidaze API
type ErrorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

// Message склеивает все сообщения об ошибках в одну строку
func (e ErrorResponse) Message() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if item.Message != "" {
			msgs = append(msgs, item.Message)
		}
	}
	if len(msgs) == 0 {
		return e.Status
	}
	return strings.Join(msgs, "; ")
}

// toConstraints валидирует площадку и конвертирует ее в доменные ограничения
func (v *Venue) toConstraints() (*domain.VenueConstraints, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("%w: venue id is empty", ErrInvalidResponse)
	}
	if v.MaxGuests < domain.MinGuests {
		return nil, fmt.Errorf("%w: venue %s has maxGuests=%d", ErrInvalidResponse, v.ID, v.MaxGuests)
	}
	if v.Price < 0 {
		return nil, fmt.Errorf("%w: venue %s has negative price", ErrInvalidResponse, v.ID)
	}
	return &domain.VenueConstraints{
		VenueID:       v.ID,
		Name:          v.Name,
		MaxGuests:     v.MaxGuests,
		PricePerNight: v.Price,
	}, nil
}

// toDomain валидирует бронирование и конвертирует его в доменную модель.
// Даты переводятся в loc и обрезаются до начала дня.
func (b *Booking) toDomain(venueID string, loc *time.Location) (domain.Reservation, error) {
	if b.ID == "" {
		return domain.Reservation{}, fmt.Errorf("%w: booking id is empty", ErrInvalidResponse)
	}

	from, err := parseTimestamp(b.DateFrom, loc)
	if err != nil || from.IsZero() {
		return domain.Reservation{}, fmt.Errorf("%w: booking %s has invalid dateFrom %q", ErrInvalidResponse, b.ID, b.DateFrom)
	}
	to, err := parseTimestamp(b.DateTo, loc)
	if err != nil || to.IsZero() {
		return domain.Reservation{}, fmt.Errorf("%w: booking %s has invalid dateTo %q", ErrInvalidResponse, b.ID, b.DateTo)
	}

	dateRange, err := domain.NewDateRange(from, to)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("%w: booking %s: %v", ErrInvalidResponse, b.ID, err)
	}

	if b.Guests < domain.MinGuests {
		return domain.Reservation{}, fmt.Errorf("%w: booking %s has guests=%d", ErrInvalidResponse, b.ID, b.Guests)
	}

	// created/updated не критичны для доступности, ошибки разбора игнорируем
	created, _ := parseTimestamp(b.Created, loc)
	updated, _ := parseTimestamp(b.Updated, loc)

	reservation := domain.Reservation{
		ID:         b.ID,
		VenueID:    venueID,
		Range:      dateRange,
		GuestCount: b.Guests,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
	if b.Customer != nil {
		reservation.Customer = domain.CustomerRef{Name: b.Customer.Name, Email: b.Customer.Email}
	}

	return reservation, nil
}

// newCreateBookingRequest формирует тело запроса: начало дня в loc в формате RFC3339
func newCreateBookingRequest(req domain.BookingRequest, loc *time.Location) CreateBookingRequest {
	return CreateBookingRequest{
		DateFrom: startOfDayIn(req.Range.Start(), loc).Format(time.RFC3339),
		DateTo:   startOfDayIn(req.Range.End(), loc).Format(time.RFC3339),
		Guests:   req.GuestCount,
		VenueID:  req.VenueID,
	}
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// некоторые клиенты присылают только дату
		t, err = time.ParseInLocation(domain.DateFormat, value, loc)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.In(loc), nil
}

func startOfDayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
