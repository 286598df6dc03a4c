package create_reservation

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
	submitReservation "github.com/m04kA/holidaze-booking/internal/usecase/submit_reservation"
	validateBooking "github.com/m04kA/holidaze-booking/internal/usecase/validate_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingVenueID     = "ID площадки обязателен"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvertedRange      = "дата выезда раньше даты заезда"
	msgVenueNotFound      = "площадка не найдена"
	msgUnauthenticated    = "необходимо войти в аккаунт"
	msgUnauthorized       = "сессия истекла, войдите снова"
	msgIncompleteRange    = "выберите даты заезда и выезда"
	msgDateConflict       = "выбранные даты пересекаются с существующим бронированием"
	msgGuestCountInvalid  = "некорректное количество гостей"
	msgInProgress         = "бронирование уже отправляется"
	msgBookedConcurrently = "даты только что заняли, выберите другие"
	msgBackendNotAvail    = "Holidaze API недоступен, попробуйте позже"
	msgServerRejected     = "Holidaze API отклонил бронирование"
	msgNothingToRetry     = "нет бронирования для повторной отправки"
)

// Коды ошибок для клиента
const (
	codeUnauthenticated    = "unauthenticated"
	codeUnauthorized       = "unauthorized"
	codeIncompleteRange    = "incomplete_range"
	codeDateConflict       = "date_conflict"
	codeGuestCountInvalid  = "guest_count_invalid"
	codeInProgress         = "submission_in_progress"
	codeBookedConcurrently = "booked_concurrently"
	codeNetwork            = "network_error"
	codeServerRejected     = "server_rejected"
)

type Handler struct {
	useCase  SubmitReservationUseCase
	venues   VenueConstraintsProvider
	location *time.Location
	logger   Logger
}

func NewHandler(useCase SubmitReservationUseCase, venues VenueConstraintsProvider, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		venues:   venues,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/venues/{venueId}/bookings
// Требует Authorization: Bearer <token>
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("POST /venues/{id}/bookings - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	bookingReq, err := req.ToBookingRequest(venueID, h.location)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/bookings - Invalid dates: %v", err)
		if errors.Is(err, domain.ErrInvertedRange) {
			handlers.RespondBadRequest(w, msgInvertedRange)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	constraints, ok := h.constraints(w, r, venueID)
	if !ok {
		return
	}

	result, err := h.useCase.Submit(r.Context(), bookingReq, *constraints)
	if err != nil {
		h.respondSubmitError(w, r, venueID, err)
		return
	}

	h.logger.Info("POST /venues/{id}/bookings - Reservation created: venue_id=%s, reservation_id=%s, attempt_id=%s",
		venueID, result.Reservation.ID, result.AttemptID)
	handlers.RespondJSON(w, http.StatusCreated, FromResult(result))
}

// HandleRetry POST /api/v1/venues/{venueId}/bookings/retry
// Повторно отправляет бронирование, сохраненное после неудачной попытки.
func (h *Handler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("POST /venues/{id}/bookings/retry - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	constraints, ok := h.constraints(w, r, venueID)
	if !ok {
		return
	}

	result, err := h.useCase.Retry(r.Context(), venueID, *constraints)
	if err != nil {
		if errors.Is(err, submitReservation.ErrNothingToRetry) {
			h.logger.Warn("POST /venues/{id}/bookings/retry - Nothing to retry: venue_id=%s", venueID)
			handlers.RespondNotFound(w, msgNothingToRetry)
			return
		}
		h.respondSubmitError(w, r, venueID, err)
		return
	}

	h.logger.Info("POST /venues/{id}/bookings/retry - Reservation created: venue_id=%s, reservation_id=%s, attempt_id=%s",
		venueID, result.Reservation.ID, result.AttemptID)
	handlers.RespondJSON(w, http.StatusCreated, FromResult(result))
}

func (h *Handler) constraints(w http.ResponseWriter, r *http.Request, venueID string) (*domain.VenueConstraints, bool) {
	constraints, err := h.venues.GetVenueConstraints(r.Context(), venueID)
	if err == nil {
		return constraints, true
	}

	switch {
	case errors.Is(err, holidazeClient.ErrVenueNotFound):
		h.logger.Warn("POST /venues/{id}/bookings - Venue not found: venue_id=%s", venueID)
		handlers.RespondNotFound(w, msgVenueNotFound)

	case errors.Is(err, holidazeClient.ErrNetwork):
		h.logger.Error("POST /venues/{id}/bookings - Backend unavailable: venue_id=%s, error=%v", venueID, err)
		handlers.RespondErrorCode(w, http.StatusServiceUnavailable, codeNetwork, msgBackendNotAvail)

	default:
		h.logger.Error("POST /venues/{id}/bookings - Failed to get venue: venue_id=%s, error=%v", venueID, err)
		handlers.RespondErrorCode(w, http.StatusBadGateway, codeServerRejected, msgServerRejected)
	}
	return nil, false
}

func (h *Handler) respondSubmitError(w http.ResponseWriter, r *http.Request, venueID string, err error) {
	switch {
	case errors.Is(err, submitReservation.ErrInvalidInput):
		h.logger.Warn("POST /venues/{id}/bookings - Invalid input: venue_id=%s, error=%v", venueID, err)
		handlers.RespondBadRequest(w, msgMissingVenueID)

	case errors.Is(err, submitReservation.ErrSubmissionInProgress):
		h.logger.Warn("POST /venues/{id}/bookings - Submission in progress: venue_id=%s", venueID)
		handlers.RespondErrorCode(w, http.StatusConflict, codeInProgress, msgInProgress)

	case errors.Is(err, validateBooking.ErrUnauthenticated):
		h.logger.Warn("POST /venues/{id}/bookings - Unauthenticated: venue_id=%s", venueID)
		handlers.RespondErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, msgUnauthenticated)

	case errors.Is(err, validateBooking.ErrIncompleteRange):
		h.logger.Warn("POST /venues/{id}/bookings - Incomplete range: venue_id=%s", venueID)
		handlers.RespondErrorCode(w, http.StatusBadRequest, codeIncompleteRange, msgIncompleteRange)

	case errors.Is(err, validateBooking.ErrDateConflict):
		h.logger.Warn("POST /venues/{id}/bookings - Date conflict: venue_id=%s, error=%v", venueID, err)
		handlers.RespondErrorCode(w, http.StatusConflict, codeDateConflict, msgDateConflict)

	case errors.Is(err, validateBooking.ErrGuestCountInvalid):
		h.logger.Warn("POST /venues/{id}/bookings - Invalid guest count: venue_id=%s, error=%v", venueID, err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, codeGuestCountInvalid, msgGuestCountInvalid)

	case errors.Is(err, submitReservation.ErrUnauthorized):
		h.logger.Warn("POST /venues/{id}/bookings - Token rejected by backend: venue_id=%s", venueID)
		handlers.RespondErrorCode(w, http.StatusUnauthorized, codeUnauthorized, msgUnauthorized)

	case errors.Is(err, submitReservation.ErrConflict):
		h.logger.Warn("POST /venues/{id}/bookings - Booked concurrently: venue_id=%s", venueID)
		handlers.RespondErrorCode(w, http.StatusConflict, codeBookedConcurrently, msgBookedConcurrently)

	case errors.Is(err, submitReservation.ErrNetwork):
		h.logger.Error("POST /venues/{id}/bookings - Backend unavailable: venue_id=%s, error=%v", venueID, err)
		handlers.RespondErrorCode(w, http.StatusServiceUnavailable, codeNetwork, msgBackendNotAvail)

	case errors.Is(err, submitReservation.ErrServerRejected):
		h.logger.Error("POST /venues/{id}/bookings - Backend rejected: venue_id=%s, error=%v", venueID, err)
		// ограничения площадки могли измениться, следующая попытка прочитает их заново
		h.venues.Invalidate(r.Context(), venueID)
		handlers.RespondErrorCode(w, http.StatusBadGateway, codeServerRejected, msgServerRejected)

	default:
		h.logger.Error("POST /venues/{id}/bookings - Failed to submit reservation: venue_id=%s, error=%v", venueID, err)
		handlers.RespondInternalError(w)
	}
}
