package list_attempts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
	attemptsRepo "github.com/m04kA/holidaze-booking/internal/infra/storage/attempts"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

const (
	msgMissingVenueID   = "ID площадки обязателен"
	msgMissingAttemptID = "ID попытки обязателен"
	msgInvalidLimit     = "limit должен быть числом от 1 до 100"
	msgInvalidOutcome   = "неизвестный результат попытки"
	msgAttemptNotFound  = "попытка не найдена"
	msgUnauthenticated  = "необходимо войти в аккаунт"
)

var knownOutcomes = map[domain.SubmissionOutcome]struct{}{
	domain.OutcomeSucceeded:      {},
	domain.OutcomeRejected:       {},
	domain.OutcomeInProgress:     {},
	domain.OutcomeNetworkError:   {},
	domain.OutcomeServerRejected: {},
	domain.OutcomeUnauthorized:   {},
	domain.OutcomeConflict:       {},
}

type Handler struct {
	journal AttemptJournal
	logger  Logger
}

func NewHandler(journal AttemptJournal, logger Logger) *Handler {
	return &Handler{
		journal: journal,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/attempts?outcome=conflict&outcome=network_error&limit=20
// Возвращает только попытки текущего пользователя.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("GET /venues/{id}/attempts - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	owner, ok := credentials.Owner(r.Context())
	if !ok {
		h.logger.Warn("GET /venues/{id}/attempts - Unauthenticated: venue_id=%s", venueID)
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	query := r.URL.Query()

	limit := uint64(defaultLimit)
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 || parsed > maxLimit {
			h.logger.Warn("GET /venues/{id}/attempts - Invalid limit: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	var outcomes []domain.SubmissionOutcome
	for _, raw := range query["outcome"] {
		outcome := domain.SubmissionOutcome(raw)
		if _, ok := knownOutcomes[outcome]; !ok {
			h.logger.Warn("GET /venues/{id}/attempts - Invalid outcome: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidOutcome)
			return
		}
		outcomes = append(outcomes, outcome)
	}

	attempts, err := h.journal.ListByVenue(r.Context(), domain.AttemptFilter{
		VenueID:  venueID,
		Owner:    owner,
		Outcomes: outcomes,
		Limit:    limit,
	})
	if err != nil {
		h.logger.Error("GET /venues/{id}/attempts - Failed to list attempts: venue_id=%s, error=%v", venueID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := AttemptsResponse{VenueID: venueID, Attempts: make([]AttemptResponse, 0, len(attempts))}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, FromDomain(a))
	}

	h.logger.Info("GET /venues/{id}/attempts - Success: venue_id=%s, count=%d", venueID, len(resp.Attempts))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleGet GET /api/v1/attempts/{attemptId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	attemptID := strings.TrimSpace(mux.Vars(r)["attemptId"])
	if attemptID == "" {
		h.logger.Warn("GET /attempts/{id} - Missing attempt ID")
		handlers.RespondBadRequest(w, msgMissingAttemptID)
		return
	}

	owner, ok := credentials.Owner(r.Context())
	if !ok {
		h.logger.Warn("GET /attempts/{id} - Unauthenticated: attempt_id=%s", attemptID)
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	attempt, err := h.journal.GetByID(r.Context(), attemptID)
	if err == nil && attempt.Owner != owner {
		// чужая попытка неотличима от несуществующей
		err = attemptsRepo.ErrAttemptNotFound
	}
	if err != nil {
		if errors.Is(err, attemptsRepo.ErrAttemptNotFound) {
			h.logger.Warn("GET /attempts/{id} - Attempt not found: attempt_id=%s", attemptID)
			handlers.RespondNotFound(w, msgAttemptNotFound)
			return
		}
		h.logger.Error("GET /attempts/{id} - Failed to get attempt: attempt_id=%s, error=%v", attemptID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(*attempt))
}
