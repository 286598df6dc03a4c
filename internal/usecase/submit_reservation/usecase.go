package submit_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/holidaze-booking/internal/domain"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
	validateBooking "github.com/m04kA/holidaze-booking/internal/usecase/validate_booking"
)

// UseCase use case отправки бронирования.
// Держит машину состояний для каждой пары площадка + пользователь и последний снимок
// доступности каждой площадки. Пользователь отправляет на площадку одно бронирование за раз.
type UseCase struct {
	resolver     AvailabilityResolver
	validator    BookingValidator
	gateway      ReservationGateway
	journal      AttemptJournal
	publisher    EventPublisher
	recorder     OutcomeRecorder
	timeProvider TimeProvider
	logger       Logger

	mu        sync.Mutex
	sessions  map[sessionKey]*session
	snapshots map[string]*resolveAvailability.Response
}

// Option настраивает use case
type Option func(*UseCase)

// WithJournal подключает журнал попыток
func WithJournal(j AttemptJournal) Option {
	return func(uc *UseCase) {
		if j != nil {
			uc.journal = j
		}
	}
}

// WithPublisher подключает публикацию событий о созданных бронированиях
func WithPublisher(p EventPublisher) Option {
	return func(uc *UseCase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

// WithRecorder подключает метрики результатов
func WithRecorder(r OutcomeRecorder) Option {
	return func(uc *UseCase) {
		if r != nil {
			uc.recorder = r
		}
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		if tp != nil {
			uc.timeProvider = tp
		}
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver AvailabilityResolver,
	validator BookingValidator,
	gateway ReservationGateway,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		resolver:     resolver,
		validator:    validator,
		gateway:      gateway,
		journal:      nopJournal{},
		publisher:    nopPublisher{},
		recorder:     nopRecorder{},
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		sessions:     make(map[sessionKey]*session),
		snapshots:    make(map[string]*resolveAvailability.Response),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load загружает бронирования площадки и сохраняет снимок доступности.
// Вызывается при открытии страницы площадки.
func (uc *UseCase) Load(ctx context.Context, venueID string) (*resolveAvailability.Response, error) {
	if strings.TrimSpace(venueID) == "" {
		return nil, fmt.Errorf("%w: venueID is required", ErrInvalidInput)
	}

	resp, err := uc.resolver.Execute(ctx, &resolveAvailability.Request{VenueID: venueID})
	if err != nil {
		uc.logger.Warn("SubmitReservation: failed to load availability for venue=%s: %v", venueID, err)
		return nil, err
	}

	uc.mu.Lock()
	uc.snapshots[venueID] = resp
	uc.mu.Unlock()

	return resp, nil
}

// Submit проверяет и отправляет бронирование от имени пользователя из ctx.
//
// Переходы: Idle → Validating → Rejected | Submitting → Succeeded | Failed.
// Новая отправка из Rejected или Failed считается подтверждением предыдущей ошибки.
// После успеха доступность перезагружается с сервера, запрос очищается, состояние - Idle.
// После ошибки запрос сохраняется для повтора этим же пользователем, автоматических повторов нет.
func (uc *UseCase) Submit(ctx context.Context, req domain.BookingRequest, constraints domain.VenueConstraints) (*Result, error) {
	if strings.TrimSpace(req.VenueID) == "" {
		return nil, fmt.Errorf("%w: venueID is required", ErrInvalidInput)
	}

	// 1. Аутентификация локальная, до любых сетевых запросов.
	// Без credential попытка идет в анонимную сессию и запрос не сохраняется.
	cred, authErr := uc.validator.Authenticate(ctx)
	owner := ""
	if authErr == nil {
		owner = cred.Owner()
	}

	// 2. Захватываем сессию, вторая отправка того же пользователя отклоняется синхронно
	uc.mu.Lock()
	s := uc.session(sessionKey{venueID: req.VenueID, owner: owner})
	if s.inFlight {
		uc.mu.Unlock()
		uc.logger.Warn("SubmitReservation: venue=%s already has a submission in progress", req.VenueID)
		uc.recorder.RecordSubmission(string(domain.OutcomeInProgress))
		return nil, ErrSubmissionInProgress
	}
	if s.state == StateRejected || s.state == StateFailed {
		uc.logger.Info("SubmitReservation: venue=%s previous %s attempt acknowledged by resubmit", req.VenueID, s.state)
	}
	s.inFlight = true
	s.state = StateValidating
	s.lastErr = nil
	if authErr == nil {
		pending := req
		s.pending = &pending
	}
	snapshot := uc.snapshots[req.VenueID]
	uc.mu.Unlock()

	defer func() {
		uc.mu.Lock()
		s.inFlight = false
		uc.mu.Unlock()
	}()

	attempt := &domain.SubmissionAttempt{
		ID:         uuid.NewString(),
		VenueID:    req.VenueID,
		Owner:      owner,
		Range:      req.Range,
		GuestCount: req.GuestCount,
		StartedAt:  uc.timeProvider.Now(),
	}

	uc.logger.Info("SubmitReservation: attempt=%s venue=%s range=%s guests=%d",
		attempt.ID, req.VenueID, req.Range, req.GuestCount)

	if authErr != nil {
		return nil, uc.reject(ctx, s, attempt, authErr)
	}

	// 3. Если доступность площадки еще не загружена - загружаем
	var err error
	if snapshot == nil {
		snapshot, err = uc.resolver.Execute(ctx, &resolveAvailability.Request{VenueID: req.VenueID})
		if err != nil {
			return nil, uc.fail(ctx, s, attempt, mapResolverError(err))
		}
		uc.mu.Lock()
		uc.snapshots[req.VenueID] = snapshot
		uc.mu.Unlock()
	}

	// 4. Локальная проверка
	validated, err := uc.validator.Validate(ctx, validateBooking.Input{
		Request:     req,
		Blocked:     snapshot.Blocked,
		Constraints: constraints,
	})
	if err != nil {
		return nil, uc.reject(ctx, s, attempt, err)
	}

	// 5. Отправка
	uc.setState(s, StateSubmitting)

	created, err := uc.gateway.SubmitReservation(ctx, *validated, cred)
	if err != nil {
		mapped := mapGatewayError(err)
		if errors.Is(mapped, ErrConflict) {
			// Локальный снимок устарел: кто-то успел забронировать эти даты
			_, _ = uc.refresh(ctx, req.VenueID)
		}
		return nil, uc.fail(ctx, s, attempt, mapped)
	}

	uc.setState(s, StateSucceeded)

	// 6. Перезагружаем доступность с сервера, локально не дописываем
	refreshed, refreshErr := uc.refresh(ctx, req.VenueID)

	uc.mu.Lock()
	s.pending = nil
	s.lastErr = nil
	s.state = StateIdle
	uc.mu.Unlock()

	if err := uc.publisher.PublishReservationCreated(ctx, *created); err != nil {
		uc.logger.Warn("SubmitReservation: attempt=%s failed to publish event for reservation=%s: %v",
			attempt.ID, created.ID, err)
	}

	attempt.ReservationID = &created.ID
	uc.finish(ctx, attempt, domain.OutcomeSucceeded, nil)

	uc.logger.Info("SubmitReservation: attempt=%s venue=%s created reservation=%s",
		attempt.ID, req.VenueID, created.ID)

	return &Result{
		AttemptID:    attempt.ID,
		Reservation:  *created,
		Availability: refreshed,
		RefreshErr:   refreshErr,
	}, nil
}

// Retry повторно отправляет запрос, сохраненный после ошибки у пользователя из ctx
func (uc *UseCase) Retry(ctx context.Context, venueID string, constraints domain.VenueConstraints) (*Result, error) {
	cred, err := uc.validator.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}

	uc.mu.Lock()
	s, ok := uc.sessions[sessionKey{venueID: venueID, owner: cred.Owner()}]
	if !ok || s.pending == nil {
		uc.mu.Unlock()
		return nil, ErrNothingToRetry
	}
	req := *s.pending
	uc.mu.Unlock()

	return uc.Submit(ctx, req, constraints)
}

// Acknowledge возвращает сессию пользователя из Rejected или Failed в Idle.
// Сохраненный запрос не удаляется, его можно исправить и отправить снова.
func (uc *UseCase) Acknowledge(venueID, owner string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.sessions[sessionKey{venueID: venueID, owner: owner}]
	if !ok || s.inFlight {
		return
	}
	if s.state == StateRejected || s.state == StateFailed {
		s.state = StateIdle
		s.lastErr = nil
	}
}

// State возвращает текущее состояние отправки пользователя на площадку
func (uc *UseCase) State(venueID, owner string) State {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.sessions[sessionKey{venueID: venueID, owner: owner}]; ok {
		return s.state
	}
	return StateIdle
}

// Pending возвращает сохраненный запрос пользователя
func (uc *UseCase) Pending(venueID, owner string) (domain.BookingRequest, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.sessions[sessionKey{venueID: venueID, owner: owner}]
	if !ok || s.pending == nil {
		return domain.BookingRequest{}, false
	}
	return *s.pending, true
}

// LastError возвращает ошибку последней неудачной попытки пользователя
func (uc *UseCase) LastError(venueID, owner string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.sessions[sessionKey{venueID: venueID, owner: owner}]; ok {
		return s.lastErr
	}
	return nil
}

// Availability возвращает последний загруженный набор занятых дней площадки
func (uc *UseCase) Availability(venueID string) (domain.BlockedDateSet, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snapshot, ok := uc.snapshots[venueID]
	if !ok || snapshot == nil {
		return domain.BlockedDateSet{}, false
	}
	return snapshot.Blocked, true
}

// Вспомогательные методы

// session возвращает сессию, вызывается под uc.mu
func (uc *UseCase) session(key sessionKey) *session {
	s, ok := uc.sessions[key]
	if !ok {
		s = &session{state: StateIdle}
		uc.sessions[key] = s
	}
	return s
}

func (uc *UseCase) setState(s *session, state State) {
	uc.mu.Lock()
	s.state = state
	uc.mu.Unlock()
}

// refresh перезагружает снимок доступности. При ошибке снимок сбрасывается,
// чтобы следующая отправка загрузила его заново, а не проверяла по устаревшим данным.
func (uc *UseCase) refresh(ctx context.Context, venueID string) (*resolveAvailability.Response, error) {
	resp, err := uc.resolver.Execute(ctx, &resolveAvailability.Request{VenueID: venueID})

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err != nil {
		uc.logger.Error("SubmitReservation: failed to refresh availability for venue=%s: %v", venueID, err)
		delete(uc.snapshots, venueID)
		return nil, err
	}
	uc.snapshots[venueID] = resp
	return resp, nil
}

// reject переводит площадку в Rejected после локальной проверки
func (uc *UseCase) reject(ctx context.Context, s *session, attempt *domain.SubmissionAttempt, cause error) error {
	err := fmt.Errorf("%w: %w", ErrRejected, cause)

	uc.mu.Lock()
	s.state = StateRejected
	s.lastErr = err
	uc.mu.Unlock()

	uc.logger.Warn("SubmitReservation: attempt=%s venue=%s rejected: %v", attempt.ID, attempt.VenueID, cause)
	uc.finish(ctx, attempt, domain.OutcomeRejected, err)
	return err
}

// fail переводит площадку в Failed, запрос остается для повтора
func (uc *UseCase) fail(ctx context.Context, s *session, attempt *domain.SubmissionAttempt, err error) error {
	uc.mu.Lock()
	s.state = StateFailed
	s.lastErr = err
	uc.mu.Unlock()

	outcome := outcomeOf(err)
	uc.logger.Error("SubmitReservation: attempt=%s venue=%s failed (%s): %v", attempt.ID, attempt.VenueID, outcome, err)
	uc.finish(ctx, attempt, outcome, err)
	return err
}

// finish фиксирует попытку в журнале и метриках. Ошибка журнала не влияет на результат.
func (uc *UseCase) finish(ctx context.Context, attempt *domain.SubmissionAttempt, outcome domain.SubmissionOutcome, cause error) {
	attempt.Outcome = outcome
	attempt.FinishedAt = uc.timeProvider.Now()
	if cause != nil {
		msg := cause.Error()
		attempt.ErrorMessage = &msg
	}

	uc.recorder.RecordSubmission(string(outcome))

	if err := uc.journal.Record(ctx, attempt); err != nil {
		uc.logger.Warn("SubmitReservation: attempt=%s failed to write journal: %v", attempt.ID, err)
	}
}

// mapGatewayError переводит ошибки Holidaze API в ошибки use case
func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, holidazeClient.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	case errors.Is(err, holidazeClient.ErrUnauthorized):
		return fmt.Errorf("%w: %w: %v", ErrServerRejected, ErrUnauthorized, err)
	case errors.Is(err, holidazeClient.ErrConflict):
		return fmt.Errorf("%w: %w: %v", ErrServerRejected, ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", ErrServerRejected, err)
	}
}

// mapResolverError переводит ошибки загрузки доступности в ошибки use case
func mapResolverError(err error) error {
	if errors.Is(err, resolveAvailability.ErrNetwork) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrServerRejected, err)
}

func outcomeOf(err error) domain.SubmissionOutcome {
	switch {
	case errors.Is(err, ErrNetwork):
		return domain.OutcomeNetworkError
	case errors.Is(err, ErrUnauthorized):
		return domain.OutcomeUnauthorized
	case errors.Is(err, ErrConflict):
		return domain.OutcomeConflict
	default:
		return domain.OutcomeServerRejected
	}
}
