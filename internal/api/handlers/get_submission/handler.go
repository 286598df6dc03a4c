package get_submission

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
)

const (
	msgMissingVenueID  = "ID площадки обязателен"
	msgUnauthenticated = "необходимо войти в аккаунт"
)

type Handler struct {
	submissions SubmissionStateReader
	logger      Logger
}

func NewHandler(submissions SubmissionStateReader, logger Logger) *Handler {
	return &Handler{
		submissions: submissions,
		logger:      logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/submission
// Возвращает только отправку текущего пользователя.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("GET /venues/{id}/submission - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	owner, ok := credentials.Owner(r.Context())
	if !ok {
		h.logger.Warn("GET /venues/{id}/submission - Unauthenticated: venue_id=%s", venueID)
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.snapshot(venueID, owner))
}

// HandleAcknowledge DELETE /api/v1/venues/{venueId}/submission
// Сбрасывает Rejected/Failed в Idle, сохраненный запрос остается.
func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	venueID := strings.TrimSpace(mux.Vars(r)["venueId"])
	if venueID == "" {
		h.logger.Warn("DELETE /venues/{id}/submission - Missing venue ID")
		handlers.RespondBadRequest(w, msgMissingVenueID)
		return
	}

	owner, ok := credentials.Owner(r.Context())
	if !ok {
		h.logger.Warn("DELETE /venues/{id}/submission - Unauthenticated: venue_id=%s", venueID)
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	h.submissions.Acknowledge(venueID, owner)
	resp := h.snapshot(venueID, owner)

	h.logger.Info("DELETE /venues/{id}/submission - Acknowledged: venue_id=%s, state=%s", venueID, resp.State)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) snapshot(venueID, owner string) *SubmissionResponse {
	resp := &SubmissionResponse{
		VenueID: venueID,
		State:   string(h.submissions.State(venueID, owner)),
	}
	if pending, ok := h.submissions.Pending(venueID, owner); ok {
		resp.Pending = newPendingRequest(pending)
	}
	if err := h.submissions.LastError(venueID, owner); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}
