package get_availability

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
)

const (
	msgMissingVenueID   = "ID площадки обязателен"
	msgInvalidMonth     = "некорректный формат месяца, ожидается YYYY-MM"
	msgVenueNotFound    = "площадка не найдена"
	msgBackendNotAvail  = "Holidaze API недоступен, попробуйте позже"
	msgBackendBadAnswer = "Holidaze API вернул некорректный ответ"
)

type Handler struct {
	useCase  ResolveAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/availability
// Query params: month (optional, YYYY-MM) - вернуть календарь на месяц
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("GET /venues/{id}/availability - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := time.ParseInLocation(domain.MonthFormat, monthStr, h.location)
		if err != nil {
			h.logger.Warn("GET /venues/{id}/availability - Invalid month: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMonth)
			return
		}

		result, err := h.useCase.Calendar(r.Context(), &resolveAvailability.CalendarRequest{VenueID: venueID, Month: month})
		if err != nil {
			h.respondUseCaseError(w, venueID, err)
			return
		}

		h.logger.Info("GET /venues/{id}/availability - Calendar retrieved: venue_id=%s, month=%s", venueID, monthStr)
		handlers.RespondJSON(w, http.StatusOK, FromCalendarResponse(result))
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveAvailability.Request{VenueID: venueID})
	if err != nil {
		h.respondUseCaseError(w, venueID, err)
		return
	}

	h.logger.Info("GET /venues/{id}/availability - Availability retrieved: venue_id=%s, blocked_days=%d",
		venueID, result.Blocked.Len())
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, venueID string, err error) {
	switch {
	case errors.Is(err, resolveAvailability.ErrVenueNotFound):
		h.logger.Warn("GET /venues/{id}/availability - Venue not found: venue_id=%s", venueID)
		handlers.RespondNotFound(w, msgVenueNotFound)

	case errors.Is(err, resolveAvailability.ErrNetwork):
		h.logger.Error("GET /venues/{id}/availability - Backend unavailable: venue_id=%s, error=%v", venueID, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgBackendNotAvail)

	case errors.Is(err, resolveAvailability.ErrServer):
		h.logger.Error("GET /venues/{id}/availability - Backend error: venue_id=%s, error=%v", venueID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgBackendBadAnswer)

	default:
		h.logger.Error("GET /venues/{id}/availability - Failed to resolve availability: venue_id=%s, error=%v", venueID, err)
		handlers.RespondInternalError(w)
	}
}
