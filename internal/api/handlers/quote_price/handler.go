package quote_price

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	holidazeClient "github.com/m04kA/holidaze-booking/internal/integrations/holidazeapi"
	quotePrice "github.com/m04kA/holidaze-booking/internal/usecase/quote_price"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingVenueID     = "ID площадки обязателен"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvertedRange      = "дата выезда раньше даты заезда"
	msgVenueNotFound      = "площадка не найдена"
	msgBackendNotAvail    = "Holidaze API недоступен, попробуйте позже"
	msgBackendBadAnswer   = "Holidaze API вернул некорректный ответ"
)

type Handler struct {
	venues   VenueConstraintsProvider
	location *time.Location
	logger   Logger
}

func NewHandler(venues VenueConstraintsProvider, location *time.Location, logger Logger) *Handler {
	return &Handler{
		venues:   venues,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/venues/{venueId}/quote
// Незавершенный выбор дат не ошибка: стоимость равна 0.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("POST /venues/{id}/quote - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	dateRange, err := handlers.ParseDateRange(req.DateFrom, req.DateTo, h.location)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/quote - Invalid dates: %v", err)
		if errors.Is(err, domain.ErrInvertedRange) {
			handlers.RespondBadRequest(w, msgInvertedRange)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	constraints, err := h.venues.GetVenueConstraints(r.Context(), venueID)
	if err != nil {
		switch {
		case errors.Is(err, holidazeClient.ErrVenueNotFound):
			h.logger.Warn("POST /venues/{id}/quote - Venue not found: venue_id=%s", venueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, holidazeClient.ErrNetwork):
			h.logger.Error("POST /venues/{id}/quote - Backend unavailable: venue_id=%s, error=%v", venueID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBackendNotAvail)

		default:
			h.logger.Error("POST /venues/{id}/quote - Failed to get venue: venue_id=%s, error=%v", venueID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgBackendBadAnswer)
		}
		return
	}

	quote := quotePrice.Calculate(dateRange, *constraints)

	h.logger.Info("POST /venues/{id}/quote - Quote calculated: venue_id=%s, range=%s, nights=%d, total=%.2f",
		venueID, dateRange, quote.Nights, quote.Total)
	handlers.RespondJSON(w, http.StatusOK, FromQuote(venueID, quote))
}
