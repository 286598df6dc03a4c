package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/holidaze-booking/internal/config"
	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
	"github.com/m04kA/holidaze-booking/pkg/logger"
)

type storedBooking struct {
	ID       string `json:"id"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
}

// fakeHolidaze минимальная реализация Holidaze API для одной площадки
type fakeHolidaze struct {
	mu       sync.Mutex
	bookings []storedBooking
	posts    int
	// failPosts число следующих POST, на которые сервер ответит 500
	failPosts int
	// authors заголовки Authorization принятых бронирований
	authors []string
}

func (f *fakeHolidaze) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/holidaze/venues/v-1":
		venue := map[string]interface{}{"id": "v-1", "name": "Fjord Cabin", "price": 150, "maxGuests": 4}
		if r.URL.Query().Get("_bookings") == "true" {
			venue["bookings"] = f.bookings
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": venue, "meta": map[string]interface{}{}})

	case r.Method == http.MethodGet:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"No venue with such ID"}],"statusCode":404}`))

	case r.Method == http.MethodPost && r.URL.Path == "/holidaze/bookings":
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			DateFrom string `json:"dateFrom"`
			DateTo   string `json:"dateTo"`
			Guests   int    `json:"guests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.failPosts > 0 {
			f.failPosts--
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Internal server error"}],"statusCode":500}`))
			return
		}
		f.posts++
		f.authors = append(f.authors, r.Header.Get("Authorization"))
		created := storedBooking{ID: fmt.Sprintf("b-%d", f.posts), DateFrom: body.DateFrom, DateTo: body.DateTo, Guests: body.Guests}
		f.bookings = append(f.bookings, created)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": created})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeHolidaze) bookedBy() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authors...)
}

func (f *fakeHolidaze) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Holidaze.BaseURL = baseURL
	cfg.Holidaze.Timeout = 2
	cfg.Booking.Timezone = "UTC"
	return cfg
}

func newTestApp(t *testing.T, backend *fakeHolidaze, provider credentialsProvider, reg prometheus.Registerer) *app {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	a, err := newApp(context.Background(), testConfig(srv.URL), logger.Nop(), provider, reg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

type credentialsProvider interface {
	Credential(ctx context.Context) (domain.Credential, bool)
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_BookingFlow(t *testing.T) {
	backend := &fakeHolidaze{bookings: []storedBooking{
		{ID: "b-0", DateFrom: "2030-06-01T00:00:00.000Z", DateTo: "2030-06-03T00:00:00.000Z", Guests: 2},
	}}
	reg := prometheus.NewRegistry()
	a := newTestApp(t, backend, credentials.NewContext(), reg)
	router := newRouter(a, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	do := func(method, target, body, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// доступность
	rec := do(http.MethodGet, "/api/v1/venues/v-1/availability", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2030-06-03"`)

	// без токена: 401 и ни одного запроса на создание
	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings", `{"dateFrom":"2030-06-10","dateTo":"2030-06-12","guests":2}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, backend.postCount())

	// чтение и повтор требуют токен
	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// пересечение с checkout-днем существующего бронирования
	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings", `{"dateFrom":"2030-06-03","dateTo":"2030-06-05","guests":2}`, bearer(t, "kari"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, backend.postCount())

	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", bearer(t, "kari"))
	assert.Contains(t, rec.Body.String(), `"state":"rejected"`)
	do(http.MethodDelete, "/api/v1/venues/v-1/submission", "", bearer(t, "kari"))

	// успешное бронирование
	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings", `{"dateFrom":"2030-06-10","dateTo":"2030-06-12","guests":2}`, bearer(t, "kari"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, backend.postCount())
	assert.Contains(t, rec.Body.String(), `"2030-06-11"`, "refetched availability includes the new reservation")

	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", bearer(t, "kari"))
	assert.Contains(t, rec.Body.String(), `"state":"idle"`)
	assert.NotContains(t, rec.Body.String(), `"pending"`)

	// стоимость
	rec = do(http.MethodPost, "/api/v1/venues/v-1/quote", `{"dateFrom":"2030-07-01","dateTo":"2030-07-04"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":450`)

	// метрики
	rec = do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `reservation_submissions_total`)
	assert.Contains(t, rec.Body.String(), `outcome="succeeded"`)
}

func TestRouter_SubmissionIsolatedPerUser(t *testing.T) {
	backend := &fakeHolidaze{failPosts: 1}
	a := newTestApp(t, backend, credentials.NewContext(), nil)
	router := newRouter(a, nil)

	alice, bob := bearer(t, "alice"), bearer(t, "bob")
	do := func(method, target, body, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// сервер отвечает 500 на первую отправку alice
	rec := do(http.MethodPost, "/api/v1/venues/v-1/bookings", `{"dateFrom":"2030-06-10","dateTo":"2030-06-12","guests":2}`, alice)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"failed"`)
	assert.Contains(t, rec.Body.String(), `"pending"`)

	// без токена чужой запрос не виден
	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "2030-06-10")

	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings/retry", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bob видит только свою сессию и не может повторить запрос alice
	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"idle"`)
	assert.NotContains(t, rec.Body.String(), `"pending"`)

	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings/retry", "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, backend.postCount())

	rec = do(http.MethodDelete, "/api/v1/venues/v-1/submission", "", bob)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", alice)
	assert.Contains(t, rec.Body.String(), `"state":"failed"`, "acknowledge by another user leaves alice's session alone")

	// alice повторяет свой запрос со своим токеном
	rec = do(http.MethodPost, "/api/v1/venues/v-1/bookings/retry", "", alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{alice}, backend.bookedBy())

	rec = do(http.MethodGet, "/api/v1/venues/v-1/submission", "", alice)
	assert.Contains(t, rec.Body.String(), `"state":"idle"`)
	assert.NotContains(t, rec.Body.String(), `"pending"`)
}

func TestRunAvailability(t *testing.T) {
	backend := &fakeHolidaze{bookings: []storedBooking{
		{ID: "b-0", DateFrom: "2030-06-01T00:00:00.000Z", DateTo: "2030-06-02T00:00:00.000Z", Guests: 2},
	}}
	a := newTestApp(t, backend, credentials.NewStatic(domain.Credential{}), nil)

	var out bytes.Buffer
	require.NoError(t, runAvailability(context.Background(), a, &out, "v-1", ""))
	assert.Equal(t, "venue v-1: 1 reservations, 2 blocked days (policy=inclusive)\n2030-06-01\n2030-06-02\n", out.String())

	out.Reset()
	require.NoError(t, runAvailability(context.Background(), a, &out, "v-1", "2030-06"))
	assert.Contains(t, out.String(), "June 2030")
	assert.Contains(t, out.String(), "xx")

	err := runAvailability(context.Background(), a, &out, "missing", "")
	assert.ErrorIs(t, err, resolveAvailability.ErrVenueNotFound)
}

func TestRunQuote(t *testing.T) {
	a := newTestApp(t, &fakeHolidaze{}, credentials.NewStatic(domain.Credential{}), nil)

	var out bytes.Buffer
	require.NoError(t, runQuote(context.Background(), a, &out, "v-1", "2030-07-01", "2030-07-03"))
	assert.Equal(t, "Fjord Cabin 2030-07-01..2030-07-03: 2 nights x 150.00 = 300.00\n", out.String())
}

func TestRunBook(t *testing.T) {
	backend := &fakeHolidaze{}
	cred := domain.Credential{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	a := newTestApp(t, backend, credentials.NewStatic(cred), nil)

	var out bytes.Buffer
	require.NoError(t, runBook(context.Background(), a, &out, bookInput{venueID: "v-1", from: "2030-07-01", to: "2030-07-03", guests: 2}))
	assert.Contains(t, out.String(), "reservation b-1 created")
	assert.Contains(t, out.String(), "3 blocked days")

	err := runBook(context.Background(), a, &out, bookInput{venueID: "v-1", from: "2030-07-02", to: "2030-07-04", guests: 2})
	assert.Error(t, err)
	assert.Equal(t, 1, backend.postCount())
}

func TestRenderCalendar(t *testing.T) {
	// 2030-06-01 is a Saturday
	days := resolveAvailability.BuildCalendar(
		time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		domain.NewBlockedDateSet(time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC)),
		time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
	)
	lines := strings.Split(renderCalendar(days), "\n")
	assert.Equal(t, strings.Repeat("   ", 5)+" 1 xx", lines[0])
	assert.Equal(t, " 3  4  5  6  7  8  9", lines[1])
}

func TestVersionCmd(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "holidaze-booking dev")
}

type fakeAttempts struct {
	attempts []domain.SubmissionAttempt
	filter   domain.AttemptFilter
}

func (f *fakeAttempts) ListByVenue(_ context.Context, filter domain.AttemptFilter) ([]domain.SubmissionAttempt, error) {
	f.filter = filter
	return f.attempts, nil
}

func TestRunAttempts(t *testing.T) {
	reservation := "b-7"
	reason := "booked concurrently"
	journal := &fakeAttempts{attempts: []domain.SubmissionAttempt{
		{
			Owner:         "kari",
			Range:         domain.MustDateRange(time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2030, 6, 12, 0, 0, 0, 0, time.UTC)),
			GuestCount:    2,
			Outcome:       domain.OutcomeSucceeded,
			ReservationID: &reservation,
			StartedAt:     time.Date(2030, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			GuestCount:   1,
			Outcome:      domain.OutcomeConflict,
			ErrorMessage: &reason,
			StartedAt:    time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}}

	var out bytes.Buffer
	require.NoError(t, runAttempts(context.Background(), journal, &out, "v-1", "", []string{"succeeded", "conflict"}, 5))

	assert.Equal(t, domain.AttemptFilter{
		VenueID:  "v-1",
		Outcomes: []domain.SubmissionOutcome{domain.OutcomeSucceeded, domain.OutcomeConflict},
		Limit:    5,
	}, journal.filter)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "STARTED"))
	assert.Contains(t, lines[1], "2030-06-10..2030-06-12")
	assert.Contains(t, lines[1], "b-7")
	assert.Contains(t, lines[1], "kari")
	assert.Contains(t, lines[2], "?..?")
	assert.Contains(t, lines[2], "booked concurrently")

	out.Reset()
	require.NoError(t, runAttempts(context.Background(), &fakeAttempts{}, &out, "v-2", "kari", nil, 20))
	assert.Equal(t, "venue v-2: no attempts\n", out.String())
}
