package api

import (
	"net/http"

	"cfb-poll/internal/platform/apperr"
)

type createTeamRequest struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

// @Summary     Team catalog
// @Tags        teams
// @Produce     json
// @Success     200  {array}   team.Team
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/teams [get]
func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// @Summary     Add a team to the catalog
// @Tags        teams
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createTeamRequest  true  "Team"
// @Success     201      {object}  team.Team
// @Failure     400      {object}  map[string]string  "invalid input"
// @Failure     403      {object}  map[string]string  "forbidden"
// @Failure     409      {object}  map[string]string  "team exists"
// @Router      /api/v1/teams [post]
func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	t, err := h.teamSvc.Create(r.Context(), req.Name, req.Badge)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
