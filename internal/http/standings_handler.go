package api

import (
	"net/http"
	"strconv"

	"cfb-poll/internal/domain/standings"
	"cfb-poll/internal/platform/apperr"
)

// @Summary     Aggregated top 25
// @Description Average rank over every final ballot of the period.
// @Tags        rankings
// @Produce     json
// @Param       period  query     int64  false  "Ballot period ID, defaults to the open period"
// @Success     200     {object}  standings.Poll
// @Failure     400     {object}  map[string]string  "invalid period"
// @Failure     404     {object}  map[string]string  "period not found"
// @Router      /api/v1/rankings [get]
func (h *Handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	var (
		poll standings.Poll
		err  error
	)
	if raw := r.URL.Query().Get("period"); raw != "" {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			errorResponse(w, apperr.BadRequest("invalid_input", "invalid period id", perr))
			return
		}
		poll, err = h.standingsSvc.ForPeriod(r.Context(), id)
	} else {
		poll, err = h.standingsSvc.Current(r.Context())
	}
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}
