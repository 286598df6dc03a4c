package resolve_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/holidaze-booking/internal/domain"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
)

// UseCase use case пересчета доступности площадки
type UseCase struct {
	source       ReservationSource
	policy       domain.OverlapPolicy
	recorder     RefreshRecorder
	timeProvider TimeProvider
	logger       Logger
}

// Option настраивает use case
type Option func(*UseCase)

// WithRecorder подключает запись метрик пересчета
func WithRecorder(r RefreshRecorder) Option {
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
	source ReservationSource,
	policy domain.OverlapPolicy,
	logger Logger,
	opts ...Option,
) *UseCase {
	if !policy.Valid() {
		policy = domain.PolicyInclusive
	}
	uc := &UseCase{
		source:       source,
		policy:       policy,
		recorder:     nopRecorder{},
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Policy возвращает политику пересечения, с которой строится набор занятых дней
func (uc *UseCase) Policy() domain.OverlapPolicy {
	return uc.policy
}

// Execute заново загружает бронирования площадки и пересчитывает занятые дни
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || strings.TrimSpace(req.VenueID) == "" {
		return nil, fmt.Errorf("%w: venueID is required", ErrInvalidInput)
	}

	uc.logger.Info("ResolveAvailability: venue=%s, policy=%s", req.VenueID, uc.policy)

	// 2. Загружаем актуальный список бронирований
	reservations, err := uc.source.FetchReservations(ctx, req.VenueID)
	if err != nil {
		mapped := mapSourceError(err)
		uc.recorder.RecordRefresh(req.VenueID, 0, mapped)
		if errors.Is(mapped, ErrVenueNotFound) {
			uc.logger.Warn("ResolveAvailability: venue=%s not found", req.VenueID)
		} else {
			uc.logger.Error("ResolveAvailability: failed to fetch reservations for venue=%s: %v", req.VenueID, err)
		}
		return nil, mapped
	}

	// 3. Строим набор занятых дней с нуля
	blocked := ResolveBlockedDates(reservations, uc.policy)
	uc.recorder.RecordRefresh(req.VenueID, blocked.Len(), nil)

	uc.logger.Info("ResolveAvailability: venue=%s, %d reservations, %d blocked days",
		req.VenueID, len(reservations), blocked.Len())

	return &Response{
		VenueID:      req.VenueID,
		Reservations: reservations,
		Blocked:      blocked,
		RefreshedAt:  uc.timeProvider.Now(),
	}, nil
}

// Calendar возвращает календарь площадки на месяц по свежим данным
func (uc *UseCase) Calendar(ctx context.Context, req *CalendarRequest) (*CalendarResponse, error) {
	if req == nil || req.Month.IsZero() {
		return nil, fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	resp, err := uc.Execute(ctx, &Request{VenueID: req.VenueID})
	if err != nil {
		return nil, err
	}

	return &CalendarResponse{
		VenueID: req.VenueID,
		Month:   firstOfMonth(req.Month),
		Days:    BuildCalendar(req.Month, resp.Blocked, uc.timeProvider.Now()),
	}, nil
}

// mapSourceError переводит ошибки интеграции в ошибки use case
func mapSourceError(err error) error {
	switch {
	case errors.Is(err, holidazeClient.ErrVenueNotFound):
		return ErrVenueNotFound
	case errors.Is(err, holidazeClient.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
}
