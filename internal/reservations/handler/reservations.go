package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"groundbook/internal/ledger"
	"groundbook/internal/reservations/service"
	"groundbook/pkg/config"
	apperrors "groundbook/pkg/errors"
	httputil "groundbook/pkg/http"
	"groundbook/pkg/logger"
)

// ReservationHandler exposes the ledger read side and cancellation over
// plain REST for dashboards and scripts.
type ReservationHandler struct {
	queries   *ledger.QueryService
	committer *service.Committer
	log       *logger.Logger
}

func NewReservationHandler(queries *ledger.QueryService, committer *service.Committer, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{
		queries:   queries,
		committer: committer,
		log:       cfg.Log,
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/reservations/today", h.ListToday)
	router.GET("/reservations/summary/:year/:month", h.MonthlySummary)
	router.POST("/reservations/:id/cancel", h.Cancel)
}

func (h *ReservationHandler) ListToday(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	records, err := h.queries.ListToday(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"count":    len(records),
		"bookings": records,
	})
}

func (h *ReservationHandler) MonthlySummary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	year, err := strconv.Atoi(ps.ByName("year"))
	if err != nil || year < 2000 || year > 2200 {
		httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("Invalid year: %s", ps.ByName("year"))))
		return
	}
	month, err := strconv.Atoi(ps.ByName("month"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("Invalid month: %s", ps.ByName("month"))))
		return
	}

	summary, err := h.queries.Summarize(r.Context(), year, month)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, summary)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservationID := ps.ByName("id")
	if reservationID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Reservation id is required"))
		return
	}

	record, err := h.committer.Cancel(r.Context(), reservationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, record)
}
