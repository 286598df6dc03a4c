package cli

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createReservationHandler "github.com/m04kA/holidaze-booking/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/holidaze-booking/internal/api/handlers/get_availability"
	getSubmissionHandler "github.com/m04kA/holidaze-booking/internal/api/handlers/get_submission"
	listAttemptsHandler "github.com/m04kA/holidaze-booking/internal/api/handlers/list_attempts"
	quotePriceHandler "github.com/m04kA/holidaze-booking/internal/api/handlers/quote_price"
	"github.com/m04kA/holidaze-booking/internal/api/middleware"
)

// newRouter настраивает маршруты companion API
func newRouter(a *app, metricsHandler http.Handler) *mux.Router {
	getAvailability := getAvailabilityHandler.NewHandler(a.resolver, a.location, a.log)
	quotePrice := quotePriceHandler.NewHandler(a.venues, a.location, a.log)
	createReservation := createReservationHandler.NewHandler(a.submitter, a.venues, a.location, a.log)
	getSubmission := getSubmissionHandler.NewHandler(a.submitter, a.log)

	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Handle(a.cfg.Metrics.Path, metricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Занятые дни площадки / календарь на месяц
	api.HandleFunc("/venues/{venueId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Расчет стоимости
	api.HandleFunc("/venues/{venueId}/quote", quotePrice.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования. Запрос без токена доходит до use case
	// и отклоняется проверкой бронирования как unauthenticated.
	protected.HandleFunc("/venues/{venueId}/bookings", createReservation.Handle).Methods(http.MethodPost)

	// Данные конкретного пользователя: без токена 401
	private := protected.PathPrefix("").Subrouter()
	private.Use(middleware.RequireAuth)

	// Повторная отправка после ошибки
	private.HandleFunc("/venues/{venueId}/bookings/retry", createReservation.HandleRetry).Methods(http.MethodPost)

	// Состояние отправки и сброс ошибки
	private.HandleFunc("/venues/{venueId}/submission", getSubmission.Handle).Methods(http.MethodGet)
	private.HandleFunc("/venues/{venueId}/submission", getSubmission.HandleAcknowledge).Methods(http.MethodDelete)

	// Журнал попыток (только при включенной БД)
	if a.journal != nil {
		listAttempts := listAttemptsHandler.NewHandler(a.journal, a.log)
		private.HandleFunc("/venues/{venueId}/attempts", listAttempts.Handle).Methods(http.MethodGet)
		private.HandleFunc("/attempts/{attemptId}", listAttempts.HandleGet).Methods(http.MethodGet)
	}

	return r
}
