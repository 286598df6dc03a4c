package holidazeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

const (
	headerAPIKey = "X-Noroff-API-Key"

	opFetchVenue    = "fetch_venue"
	opCreateBooking = "create_booking"
)

// Client клиент для работы с Holidaze API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	location   *time.Location
	observer   Observer
	log        Logger
}

// Option настраивает клиента
type Option func(*Client)

// WithObserver подключает сбор метрик по запросам
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLocation задает часовой пояс, в котором даты бронирований обрезаются до начала дня
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithHTTPClient подменяет http.Client (используется в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient создает новый экземпляр клиента Holidaze API
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		location: time.Local,
		observer: nopObserver{},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchReservations получает все бронирования площадки.
// Каждое бронирование валидируется перед тем, как попасть в ядро.
func (c *Client) FetchReservations(ctx context.Context, venueID string) ([]domain.Reservation, error) {
	venue, err := c.getVenue(ctx, venueID, true)
	if err != nil {
		return nil, err
	}

	reservations := make([]domain.Reservation, 0, len(venue.Bookings))
	for i := range venue.Bookings {
		reservation, err := venue.Bookings[i].toDomain(venueID, c.location)
		if err != nil {
			c.log.Error("FetchReservations: venue=%s rejected booking payload: %v", venueID, err)
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	c.log.Info("FetchReservations: venue=%s fetched %d reservations", venueID, len(reservations))
	return reservations, nil
}

// GetVenueConstraints получает ограничения площадки (maxGuests, цена за ночь)
func (c *Client) GetVenueConstraints(ctx context.Context, venueID string) (*domain.VenueConstraints, error) {
	venue, err := c.getVenue(ctx, venueID, false)
	if err != nil {
		return nil, err
	}

	constraints, err := venue.toConstraints()
	if err != nil {
		c.log.Error("GetVenueConstraints: venue=%s rejected payload: %v", venueID, err)
		return nil, err
	}
	return constraints, nil
}

// SubmitReservation создает бронирование от имени владельца credential
func (c *Client) SubmitReservation(ctx context.Context, req domain.BookingRequest, cred domain.Credential) (reservation *domain.Reservation, err error) {
	started := time.Now()
	defer func() { c.observer.ObserveBackend(opCreateBooking, started, err) }()

	body, err := json.Marshal(newCreateBookingRequest(req, c.location))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/holidaze/bookings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	c.log.Debug("SubmitReservation: POST %s venue=%s range=%s guests=%d", httpReq.URL.Path, req.VenueID, req.Range, req.GuestCount)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, readErrorMessage(resp.Body))
	case http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrConflict, readErrorMessage(resp.Body))
	default:
		return nil, statusError(resp)
	}

	var payload envelope[Booking]
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if isBodyReadError(err) {
			return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	created, err := payload.Data.toDomain(req.VenueID, c.location)
	if err != nil {
		return nil, err
	}

	c.log.Info("SubmitReservation: venue=%s created booking id=%s", req.VenueID, created.ID)
	return &created, nil
}

func (c *Client) getVenue(ctx context.Context, venueID string, withBookings bool) (venue *Venue, err error) {
	started := time.Now()
	defer func() { c.observer.ObserveBackend(opFetchVenue, started, err) }()

	endpoint := fmt.Sprintf("%s/holidaze/venues/%s", c.baseURL, url.PathEscape(venueID))
	if withBookings {
		endpoint += "?_bookings=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	c.log.Debug("GET %s", req.URL.RequestURI())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrVenueNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, readErrorMessage(resp.Body))
	default:
		return nil, statusError(resp)
	}

	var payload envelope[Venue]
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if isBodyReadError(err) {
			return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if payload.Data.ID != "" && payload.Data.ID != venueID {
		return nil, fmt.Errorf("%w: requested venue %s, got %s", ErrInvalidResponse, venueID, payload.Data.ID)
	}
	if payload.Data.ID == "" {
		payload.Data.ID = venueID
	}

	return &payload.Data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
}

// statusError маппит неожиданный статус: 4xx - отказ, остальное - ошибка сервера
func statusError(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrServer, resp.StatusCode, msg)
}

func readErrorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil {
		if msg := errResp.Message(); msg != "" {
			return msg
		}
	}
	return string(raw)
}

func isBodyReadError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return !errors.Is(err, io.EOF)
}
