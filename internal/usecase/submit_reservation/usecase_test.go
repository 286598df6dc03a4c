package submit_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
	validateBooking "github.com/m04kA/holidaze-booking/internal/usecase/validate_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

// fakeBackend хранит бронирования площадки и отдает их как API
type fakeBackend struct {
	mu           sync.Mutex
	reservations []domain.Reservation
	fetches      int
	submits      int
	fetchErr     error
	submitErr    error
	// release, если задан, блокирует SubmitReservation до закрытия
	release chan struct{}
	entered chan struct{}
}

func (b *fakeBackend) FetchReservations(_ context.Context, venueID string) ([]domain.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	out := make([]domain.Reservation, 0, len(b.reservations))
	for _, r := range b.reservations {
		if r.VenueID == venueID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *fakeBackend) SubmitReservation(_ context.Context, req domain.BookingRequest, _ domain.Credential) (*domain.Reservation, error) {
	if b.entered != nil {
		close(b.entered)
	}
	if b.release != nil {
		<-b.release
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.submits++
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	created := domain.Reservation{
		ID:         "b-new",
		VenueID:    req.VenueID,
		Range:      req.Range,
		GuestCount: req.GuestCount,
	}
	b.reservations = append(b.reservations, created)
	return &created, nil
}

func (b *fakeBackend) counts() (fetches, submits int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches, b.submits
}

type memoryJournal struct {
	mu       sync.Mutex
	attempts []domain.SubmissionAttempt
}

func (j *memoryJournal) Record(_ context.Context, a *domain.SubmissionAttempt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, *a)
	return nil
}

type recordingPublisher struct {
	published []domain.Reservation
	err       error
}

func (p *recordingPublisher) PublishReservationCreated(_ context.Context, r domain.Reservation) error {
	p.published = append(p.published, r)
	return p.err
}

type outcomeCounter struct {
	mu       sync.Mutex
	outcomes []string
}

func (c *outcomeCounter) RecordSubmission(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, outcome)
}

var (
	validCred   = domain.Credential{AccessToken: "tok", Subject: "kari", ExpiresAt: now.Add(time.Hour)}
	otherCred   = domain.Credential{AccessToken: "tok-2", Subject: "ola", ExpiresAt: now.Add(time.Hour)}
	owner       = validCred.Owner()
	constraints = domain.VenueConstraints{VenueID: "v-1", MaxGuests: 4, PricePerNight: 100}
	existing    = domain.Reservation{ID: "b-1", VenueID: "v-1", Range: domain.MustDateRange(day(1), day(3)), GuestCount: 2}
)

type fixture struct {
	uc        *UseCase
	backend   *fakeBackend
	journal   *memoryJournal
	publisher *recordingPublisher
	outcomes  *outcomeCounter
}

func newFixture(cred domain.Credential) *fixture {
	return newFixtureWith(credentials.NewStatic(cred))
}

// newFixtureWith для нескольких пользователей: credential берется из ctx запроса
func newFixtureWith(provider validateBooking.CredentialProvider) *fixture {
	backend := &fakeBackend{reservations: []domain.Reservation{existing}}
	journal := &memoryJournal{}
	publisher := &recordingPublisher{}
	outcomes := &outcomeCounter{}

	resolver := resolveAvailability.NewUseCase(backend, domain.PolicyInclusive, nopLogger{},
		resolveAvailability.WithTimeProvider(fixedTime{now}))
	validator := validateBooking.NewValidator(provider, domain.PolicyInclusive,
		validateBooking.WithTimeProvider(fixedTime{now}))

	uc := NewUseCase(resolver, validator, backend, nopLogger{},
		WithJournal(journal),
		WithPublisher(publisher),
		WithRecorder(outcomes),
		WithTimeProvider(fixedTime{now}),
	)
	return &fixture{uc: uc, backend: backend, journal: journal, publisher: publisher, outcomes: outcomes}
}

func request(from, to time.Time, guests int) domain.BookingRequest {
	return domain.BookingRequest{VenueID: "v-1", Range: domain.MustDateRange(from, to), GuestCount: guests}
}

func TestUseCase_Load(t *testing.T) {
	f := newFixture(validCred)

	resp, err := f.uc.Load(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Blocked.Len())

	blocked, ok := f.uc.Availability("v-1")
	require.True(t, ok)
	assert.True(t, blocked.Contains(day(2)))

	_, err = f.uc.Load(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Submit_Success(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()
	_, err := f.uc.Load(ctx, "v-1")
	require.NoError(t, err)

	res, err := f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
	require.NoError(t, err)

	assert.Equal(t, "b-new", res.Reservation.ID)
	assert.NoError(t, res.RefreshErr)
	require.NotNil(t, res.Availability)

	// доступность перезагружена с сервера и включает новое бронирование
	for d := 1; d <= 6; d++ {
		assert.True(t, res.Availability.Blocked.Contains(day(d)), "day %d", d)
	}
	fetches, submits := f.backend.counts()
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 1, submits)

	assert.Equal(t, StateIdle, f.uc.State("v-1", owner))
	_, pending := f.uc.Pending("v-1", owner)
	assert.False(t, pending)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "b-new", f.publisher.published[0].ID)

	require.Len(t, f.journal.attempts, 1)
	attempt := f.journal.attempts[0]
	assert.Equal(t, res.AttemptID, attempt.ID)
	assert.Equal(t, "kari", attempt.Owner)
	assert.Equal(t, domain.OutcomeSucceeded, attempt.Outcome)
	require.NotNil(t, attempt.ReservationID)
	assert.Equal(t, "b-new", *attempt.ReservationID)
	assert.Equal(t, []string{string(domain.OutcomeSucceeded)}, f.outcomes.outcomes)

	// те же даты теперь отклоняются локально, без запроса к API
	_, err = f.uc.Submit(ctx, request(day(5), day(7), 2), constraints)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, validateBooking.ErrDateConflict)
	_, submits = f.backend.counts()
	assert.Equal(t, 1, submits)
}

func TestUseCase_Submit_LoadsAvailabilityLazily(t *testing.T) {
	f := newFixture(validCred)

	_, err := f.uc.Submit(context.Background(), request(day(2), day(4), 2), constraints)
	assert.ErrorIs(t, err, validateBooking.ErrDateConflict)

	fetches, submits := f.backend.counts()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 0, submits)
	assert.Equal(t, StateRejected, f.uc.State("v-1", owner))
}

func TestUseCase_Submit_Unauthenticated(t *testing.T) {
	f := newFixture(domain.Credential{})

	_, err := f.uc.Submit(context.Background(), request(day(2), day(5), 9), constraints)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, validateBooking.ErrUnauthenticated)
	assert.NotErrorIs(t, err, validateBooking.ErrDateConflict)

	fetches, submits := f.backend.counts()
	assert.Zero(t, fetches, "no network before authentication")
	assert.Zero(t, submits)
	assert.Equal(t, StateRejected, f.uc.State("v-1", ""))
	_, pending := f.uc.Pending("v-1", "")
	assert.False(t, pending, "anonymous request is not kept for retry")

	require.Len(t, f.journal.attempts, 1)
	assert.Equal(t, domain.OutcomeRejected, f.journal.attempts[0].Outcome)
	assert.Empty(t, f.journal.attempts[0].Owner)

	_, err = f.uc.Retry(context.Background(), "v-1", constraints)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, validateBooking.ErrUnauthenticated)
}

func TestUseCase_Submit_ConcurrentIsRejected(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()
	_, err := f.uc.Load(ctx, "v-1")
	require.NoError(t, err)

	f.backend.release = make(chan struct{})
	f.backend.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
		done <- err
	}()

	<-f.backend.entered
	assert.Equal(t, StateSubmitting, f.uc.State("v-1", owner))

	_, err = f.uc.Submit(ctx, request(day(10), day(12), 2), constraints)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(f.backend.release)
	require.NoError(t, <-done)

	_, submits := f.backend.counts()
	assert.Equal(t, 1, submits, "second submission must not reach the API")
	assert.Contains(t, f.outcomes.outcomes, string(domain.OutcomeInProgress))
}

func TestUseCase_Submit_OtherVenueIsIndependent(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()
	f.backend.release = make(chan struct{})
	f.backend.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
		done <- err
	}()
	<-f.backend.entered

	other := domain.BookingRequest{VenueID: "v-2", Range: domain.MustDateRange(day(4), day(6)), GuestCount: 2}
	_, err := f.uc.Submit(ctx, other, domain.VenueConstraints{VenueID: "v-2", MaxGuests: 1})
	assert.ErrorIs(t, err, validateBooking.ErrGuestCountInvalid)
	assert.NotErrorIs(t, err, ErrSubmissionInProgress)

	close(f.backend.release)
	require.NoError(t, <-done)
}

func TestUseCase_Submit_Failures(t *testing.T) {
	tests := []struct {
		name        string
		submitErr   error
		want        []error
		wantOutcome domain.SubmissionOutcome
	}{
		{
			name:        "network",
			submitErr:   fmt.Errorf("%w: connection refused", holidazeClient.ErrNetwork),
			want:        []error{ErrNetwork},
			wantOutcome: domain.OutcomeNetworkError,
		},
		{
			name:        "unauthorized",
			submitErr:   holidazeClient.ErrUnauthorized,
			want:        []error{ErrServerRejected, ErrUnauthorized},
			wantOutcome: domain.OutcomeUnauthorized,
		},
		{
			name:        "rejected",
			submitErr:   fmt.Errorf("%w: status 400: bad dates", holidazeClient.ErrRejected),
			want:        []error{ErrServerRejected},
			wantOutcome: domain.OutcomeServerRejected,
		},
		{
			name:        "server error",
			submitErr:   holidazeClient.ErrServer,
			want:        []error{ErrServerRejected},
			wantOutcome: domain.OutcomeServerRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(validCred)
			ctx := context.Background()
			_, err := f.uc.Load(ctx, "v-1")
			require.NoError(t, err)
			f.backend.submitErr = tt.submitErr

			req := request(day(4), day(6), 2)
			_, err = f.uc.Submit(ctx, req, constraints)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}

			assert.Equal(t, StateFailed, f.uc.State("v-1", owner))
			assert.Error(t, f.uc.LastError("v-1", owner))

			pending, ok := f.uc.Pending("v-1", owner)
			require.True(t, ok, "request is kept for retry")
			assert.Equal(t, req, pending)

			fetches, submits := f.backend.counts()
			assert.Equal(t, 1, fetches, "no refresh after a non-conflict failure")
			assert.Equal(t, 1, submits, "no automatic retries")
			assert.Empty(t, f.publisher.published)

			require.Len(t, f.journal.attempts, 1)
			assert.Equal(t, tt.wantOutcome, f.journal.attempts[0].Outcome)
			assert.NotNil(t, f.journal.attempts[0].ErrorMessage)
		})
	}
}

func TestUseCase_Submit_ConflictRefreshesAvailability(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()
	_, err := f.uc.Load(ctx, "v-1")
	require.NoError(t, err)

	// другой пользователь занял 06-05..06-07 после загрузки
	f.backend.mu.Lock()
	f.backend.reservations = append(f.backend.reservations,
		domain.Reservation{ID: "b-2", VenueID: "v-1", Range: domain.MustDateRange(day(5), day(7)), GuestCount: 1})
	f.backend.submitErr = fmt.Errorf("%w: already booked", holidazeClient.ErrConflict)
	f.backend.mu.Unlock()

	_, err = f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
	assert.ErrorIs(t, err, ErrServerRejected)
	assert.ErrorIs(t, err, ErrConflict)

	blocked, ok := f.uc.Availability("v-1")
	require.True(t, ok)
	assert.True(t, blocked.Contains(day(6)), "snapshot refreshed right after the conflict")
	assert.Equal(t, StateFailed, f.uc.State("v-1", owner))
}

func TestUseCase_Submit_RefreshFailsAfterSuccess(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()
	_, err := f.uc.Load(ctx, "v-1")
	require.NoError(t, err)

	f.backend.entered = make(chan struct{})
	f.backend.release = make(chan struct{})
	go func() {
		<-f.backend.entered
		f.backend.mu.Lock()
		f.backend.fetchErr = fmt.Errorf("%w: timeout", holidazeClient.ErrNetwork)
		f.backend.mu.Unlock()
		close(f.backend.release)
	}()

	res, err := f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
	require.NoError(t, err, "the reservation was created")
	assert.ErrorIs(t, res.RefreshErr, resolveAvailability.ErrNetwork)
	assert.Nil(t, res.Availability)

	_, ok := f.uc.Availability("v-1")
	assert.False(t, ok, "stale snapshot is dropped")
	assert.Equal(t, StateIdle, f.uc.State("v-1", owner))
}

func TestUseCase_Retry(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()

	_, err := f.uc.Retry(ctx, "v-1", constraints)
	assert.ErrorIs(t, err, ErrNothingToRetry)

	_, err = f.uc.Load(ctx, "v-1")
	require.NoError(t, err)
	f.backend.submitErr = holidazeClient.ErrNetwork

	_, err = f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
	require.ErrorIs(t, err, ErrNetwork)

	f.backend.mu.Lock()
	f.backend.submitErr = nil
	f.backend.mu.Unlock()

	res, err := f.uc.Retry(ctx, "v-1", constraints)
	require.NoError(t, err)
	assert.Equal(t, domain.MustDateRange(day(4), day(6)), res.Reservation.Range)
	assert.Equal(t, StateIdle, f.uc.State("v-1", owner))

	_, ok := f.uc.Pending("v-1", owner)
	assert.False(t, ok)
	require.Len(t, f.journal.attempts, 2)
	assert.NotEqual(t, f.journal.attempts[0].ID, f.journal.attempts[1].ID)
}

func TestUseCase_Acknowledge(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, request(day(2), day(4), 2), constraints)
	require.ErrorIs(t, err, ErrRejected)
	require.Equal(t, StateRejected, f.uc.State("v-1", owner))

	f.uc.Acknowledge("v-1", owner)
	assert.Equal(t, StateIdle, f.uc.State("v-1", owner))
	assert.NoError(t, f.uc.LastError("v-1", owner))

	_, ok := f.uc.Pending("v-1", owner)
	assert.True(t, ok, "rejected request stays editable")

	// неизвестная площадка
	f.uc.Acknowledge("v-unknown", owner)
	assert.Equal(t, StateIdle, f.uc.State("v-unknown", owner))
}

func TestUseCase_Submit_PublishErrorDoesNotFail(t *testing.T) {
	f := newFixture(validCred)
	f.publisher.err = errors.New("broker down")

	res, err := f.uc.Submit(context.Background(), request(day(4), day(6), 2), constraints)
	require.NoError(t, err)
	assert.Equal(t, "b-new", res.Reservation.ID)
	assert.Len(t, f.publisher.published, 1)
}

func TestUseCase_Submit_OtherUserIsIndependent(t *testing.T) {
	f := newFixtureWith(credentials.NewContext())
	kari := credentials.WithCredential(context.Background(), validCred)
	ola := credentials.WithCredential(context.Background(), otherCred)
	_, err := f.uc.Load(kari, "v-1")
	require.NoError(t, err)

	f.backend.release = make(chan struct{})
	f.backend.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(kari, request(day(4), day(6), 2), constraints)
		done <- err
	}()
	<-f.backend.entered

	// отправка второго пользователя не блокируется чужой и проверяется сама
	_, err = f.uc.Submit(ola, request(day(2), day(3), 2), constraints)
	assert.ErrorIs(t, err, validateBooking.ErrDateConflict)
	assert.NotErrorIs(t, err, ErrSubmissionInProgress)

	assert.Equal(t, StateSubmitting, f.uc.State("v-1", "kari"))
	assert.Equal(t, StateRejected, f.uc.State("v-1", "ola"))

	close(f.backend.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, f.uc.State("v-1", "kari"))
}

func TestUseCase_Retry_OnlyOwnRequest(t *testing.T) {
	f := newFixtureWith(credentials.NewContext())
	kari := credentials.WithCredential(context.Background(), validCred)
	ola := credentials.WithCredential(context.Background(), otherCred)

	f.backend.submitErr = holidazeClient.ErrServer
	_, err := f.uc.Submit(kari, request(day(4), day(6), 2), constraints)
	require.ErrorIs(t, err, ErrServerRejected)

	_, ok := f.uc.Pending("v-1", "ola")
	assert.False(t, ok)
	assert.NoError(t, f.uc.LastError("v-1", "ola"))

	f.backend.mu.Lock()
	f.backend.submitErr = nil
	f.backend.mu.Unlock()

	_, err = f.uc.Retry(ola, "v-1", constraints)
	assert.ErrorIs(t, err, ErrNothingToRetry)
	_, submits := f.backend.counts()
	assert.Equal(t, 1, submits, "another user's retry must not reach the API")

	// чужое подтверждение не сбрасывает ошибку
	f.uc.Acknowledge("v-1", "ola")
	assert.Equal(t, StateFailed, f.uc.State("v-1", "kari"))

	_, err = f.uc.Retry(kari, "v-1", constraints)
	require.NoError(t, err)

	require.Len(t, f.journal.attempts, 2)
	for _, a := range f.journal.attempts {
		assert.Equal(t, "kari", a.Owner)
	}
}

func TestUseCase_Submit_ResubmitAcknowledgesPreviousError(t *testing.T) {
	f := newFixture(validCred)
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, request(day(2), day(4), 2), constraints)
	require.ErrorIs(t, err, ErrRejected)
	require.Equal(t, StateRejected, f.uc.State("v-1", owner))
	require.Error(t, f.uc.LastError("v-1", owner))

	// исправленный запрос отправляется без отдельного Acknowledge
	f.backend.entered = make(chan struct{})
	f.backend.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(ctx, request(day(4), day(6), 2), constraints)
		done <- err
	}()

	<-f.backend.entered
	assert.Equal(t, StateSubmitting, f.uc.State("v-1", owner))
	assert.NoError(t, f.uc.LastError("v-1", owner), "previous error is cleared when the new attempt starts")
	pending, ok := f.uc.Pending("v-1", owner)
	require.True(t, ok)
	assert.Equal(t, request(day(4), day(6), 2), pending)

	close(f.backend.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, f.uc.State("v-1", owner))
}
