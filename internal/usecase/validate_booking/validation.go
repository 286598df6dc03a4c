package validate_booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// Validator проверяет кандидата на бронирование.
// Проверки синхронные и без побочных эффектов, их можно вызывать на каждое изменение выбора в UI.
type Validator struct {
	credentials  CredentialProvider
	timeProvider TimeProvider
	policy       domain.OverlapPolicy
}

// Option настраивает валидатор
type Option func(*Validator)

// WithTimeProvider подменяет источник времени (для тестов)
func WithTimeProvider(tp TimeProvider) Option {
	return func(v *Validator) {
		if tp != nil {
			v.timeProvider = tp
		}
	}
}

// NewValidator создает валидатор
func NewValidator(credentials CredentialProvider, policy domain.OverlapPolicy, opts ...Option) *Validator {
	if !policy.Valid() {
		policy = domain.PolicyInclusive
	}
	v := &Validator{
		credentials:  credentials,
		timeProvider: &RealTimeProvider{},
		policy:       policy,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Authenticate возвращает действующий credential или ErrUnauthenticated.
// Сеть не используется: просроченный токен отсекается локально.
func (v *Validator) Authenticate(ctx context.Context) (domain.Credential, error) {
	cred, ok := v.credentials.Credential(ctx)
	if !ok {
		return domain.Credential{}, fmt.Errorf("%w: no access token", ErrUnauthenticated)
	}
	if now := v.timeProvider.Now(); !cred.IsValidAt(now) {
		return domain.Credential{}, fmt.Errorf("%w: access token expired at %s", ErrUnauthenticated, cred.ExpiresAt.Format(time.RFC3339))
	}
	return cred, nil
}

// Validate проверяет бронирование, останавливаясь на первой ошибке:
// 1. аутентификация
// 2. выбраны обе даты
// 3. нет пересечений с занятыми днями
// 4. 1 <= гостей <= maxGuests
func (v *Validator) Validate(ctx context.Context, in Input) (*domain.BookingRequest, error) {
	if _, err := v.Authenticate(ctx); err != nil {
		return nil, err
	}

	if err := validateRange(in.Request.Range); err != nil {
		return nil, err
	}

	if err := validateAvailability(in.Request.Range, in.Blocked, v.policy); err != nil {
		return nil, err
	}

	if err := validateGuestCount(in.Request.GuestCount, in.Constraints); err != nil {
		return nil, err
	}

	validated := in.Request
	return &validated, nil
}

// Report выполняет все проверки и возвращает каждую найденную ошибку
func (v *Validator) Report(ctx context.Context, in Input) Report {
	report := Report{Errors: make([]error, 0, 4)}

	if _, err := v.Authenticate(ctx); err != nil {
		report.Unauthenticated = true
		report.Errors = append(report.Errors, err)
	}

	if err := validateRange(in.Request.Range); err != nil {
		report.IncompleteRange = true
		report.Errors = append(report.Errors, err)
	} else {
		report.ConflictingDays = in.Blocked.ConflictingDays(in.Request.Range, v.policy)
		if err := validateAvailability(in.Request.Range, in.Blocked, v.policy); err != nil {
			report.Errors = append(report.Errors, err)
		}
	}

	if err := validateGuestCount(in.Request.GuestCount, in.Constraints); err != nil {
		report.Errors = append(report.Errors, err)
	} else {
		report.GuestCountValid = true
	}

	return report
}

// validateRange проверяет, что выбраны обе даты
func validateRange(r domain.DateRange) error {
	if r.Start().IsZero() {
		return fmt.Errorf("%w: check-in date is required", ErrIncompleteRange)
	}
	if r.End().IsZero() {
		return fmt.Errorf("%w: check-out date is required", ErrIncompleteRange)
	}
	return nil
}

// validateAvailability проверяет, что ни один занятый день не попадает в выбранный диапазон
func validateAvailability(r domain.DateRange, blocked domain.BlockedDateSet, policy domain.OverlapPolicy) error {
	if !blocked.IntersectsRange(r, policy) {
		return nil
	}

	conflicts := blocked.ConflictingDays(r, policy)

	days := make([]string, 0, len(conflicts))
	for _, d := range conflicts {
		days = append(days, d.Format(domain.DateFormat))
	}
	return fmt.Errorf("%w: %s", ErrDateConflict, strings.Join(days, ", "))
}

// validateGuestCount проверяет количество гостей
func validateGuestCount(guests int, constraints domain.VenueConstraints) error {
	if !constraints.AllowsGuests(guests) {
		return fmt.Errorf("%w: %d guests, venue allows %d..%d", ErrGuestCountInvalid, guests, domain.MinGuests, constraints.MaxGuests)
	}
	return nil
}
