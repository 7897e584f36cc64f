package api

import (
	"net/http"
	"time"

	"cfb-poll/internal/domain/ballot"
	"cfb-poll/internal/domain/team"
	"cfb-poll/internal/metrics"
	"cfb-poll/internal/platform/apperr"
	"cfb-poll/internal/worker"
)

type ballotRequest struct {
	Rankings []ballot.Entry `json:"rankings"`
}

type ballotResponse struct {
	Rankings []ballot.RankedTeam `json:"rankings"`
}

type saveBallotResponse struct {
	Message  string `json:"message"`
	BallotID int64  `json:"ballotId"`
	PeriodID int64  `json:"periodId,omitempty"`
}

type boardResponse struct {
	Slots     []ballot.Slot `json:"slots"`
	Available []team.Team   `json:"available"`
}

func variantParam(r *http.Request) ballot.Variant {
	if v := r.URL.Query().Get("variant"); v != "" {
		return ballot.Variant(v)
	}
	return ballot.VariantDraft
}

// @Summary     Load the current user's ballot
// @Tags        ballot
// @Security    BearerAuth
// @Produce     json
// @Param       variant  query     string  false  "draft (default) or final"
// @Success     200      {object}  ballotResponse
// @Failure     400      {object}  map[string]string  "invalid variant"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/ballot [get]
func (h *Handler) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.ballotSvc.Load(r.Context(), userIDFromCtx(r), variantParam(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, ballotResponse{Rankings: ranked})
}

// @Summary     Load the ballot laid out as 25 slots plus the unranked pool
// @Tags        ballot
// @Security    BearerAuth
// @Produce     json
// @Param       variant  query     string  false  "draft (default) or final"
// @Success     200      {object}  boardResponse
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/ballot/board [get]
func (h *Handler) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.ballotSvc.Board(r.Context(), userIDFromCtx(r), variantParam(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, boardResponse{Slots: b.Slots(), Available: b.Available()})
}

// @Summary     Save the in-progress ballot
// @Description Replaces every ranking of the user's draft ballot.
// @Tags        ballot
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      ballotRequest  true  "Rankings, 1 to 25 entries"
// @Success     200      {object}  saveBallotResponse
// @Failure     400      {object}  map[string]string  "invalid rankings"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/ballot [put]
func (h *Handler) handleSaveBallot(w http.ResponseWriter, r *http.Request) {
	var req ballotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	id, err := h.ballotSvc.Save(r.Context(), userIDFromCtx(r), ballot.VariantDraft, req.Rankings)
	metrics.ObserveBallotSave(string(ballot.VariantDraft), len(req.Rankings), err)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveBallotResponse{Message: "Ballot saved successfully", BallotID: id})
}

// @Summary     Submit the final ballot for the open voting period
// @Tags        ballot
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      ballotRequest  true  "Rankings, 1 to 25 entries"
// @Success     201      {object}  saveBallotResponse
// @Failure     400      {object}  map[string]string  "invalid rankings or voting closed"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/ballot [post]
func (h *Handler) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	var req ballotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	userID := userIDFromCtx(r)
	id, p, err := h.ballotSvc.SubmitFinal(r.Context(), userID, req.Rankings)
	metrics.ObserveBallotSave(string(ballot.VariantFinal), len(req.Rankings), err)
	if err != nil {
		errorResponse(w, err)
		return
	}

	if h.standingsSvc != nil {
		h.standingsSvc.Invalidate(p.ID)
	}

	select {
	case h.ballotCh <- worker.BallotEvent{
		BallotID:    id,
		UserID:      userID,
		PeriodID:    p.ID,
		Season:      p.Season,
		Period:      p.Number,
		Entries:     len(req.Rankings),
		SubmittedAt: time.Now().UTC(),
	}:
	default:
		slogLogger.Warn("ballot event dropped, queue full", "ballot_id", id)
	}

	writeJSON(w, http.StatusCreated, saveBallotResponse{
		Message:  "Ballot submitted successfully",
		BallotID: id,
		PeriodID: p.ID,
	})
}
