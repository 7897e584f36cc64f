package api

import (
	"errors"
	"net/http"
	"time"

	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/platform/apperr"
)

type createPeriodRequest struct {
	Season         string    `json:"season"`
	Period         int       `json:"period"`
	Name           string    `json:"period_name"`
	PeriodBeginsAt time.Time `json:"period_beg_dt"`
	PeriodEndsAt   time.Time `json:"period_end_dt"`
	PollOpensAt    time.Time `json:"poll_open_dt"`
	PollClosesAt   time.Time `json:"poll_close_dt"`
}

// @Summary     Ballot periods of a season
// @Tags        periods
// @Produce     json
// @Param       season  query     string  false  "Season, defaults to the current year"
// @Success     200     {array}   period.Period
// @Router      /api/v1/ballot-periods [get]
func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodSvc.ListBySeason(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

// @Summary     The period open for voting, if any
// @Tags        periods
// @Produce     json
// @Success     200  {object}  map[string]any
// @Router      /api/v1/ballot-periods/current [get]
func (h *Handler) handleCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodSvc.Current(r.Context())
	if err != nil && !errors.Is(err, period.ErrNoOpenPeriod) {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": p})
}

// @Summary     Create a ballot period
// @Tags        periods
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createPeriodRequest  true  "Period with RFC 3339 timestamps"
// @Success     201      {object}  period.Period
// @Failure     400      {object}  map[string]string  "invalid input or dates"
// @Failure     403      {object}  map[string]string  "forbidden"
// @Failure     409      {object}  map[string]string  "period exists"
// @Router      /api/v1/ballot-periods [post]
func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req createPeriodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	p := &period.Period{
		Season:         req.Season,
		Number:         req.Period,
		Name:           req.Name,
		PeriodBeginsAt: req.PeriodBeginsAt,
		PeriodEndsAt:   req.PeriodEndsAt,
		PollOpensAt:    req.PollOpensAt,
		PollClosesAt:   req.PollClosesAt,
	}
	if err := h.periodSvc.Create(r.Context(), p); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
