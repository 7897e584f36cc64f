package api

import (
	"net/http"

	"cfb-poll/internal/domain/account"
	"cfb-poll/internal/platform/apperr"
)

type updateAccountResponse struct {
	Message      string        `json:"message"`
	Account      *account.View `json:"account"`
	EmailUpdated bool          `json:"emailUpdated"`
}

type addHandleRequest struct {
	SocialMediaTypeID int64  `json:"social_media_type_id"`
	Handle            string `json:"handle"`
}

// @Summary     Account profile
// @Tags        account
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  account.View
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/account [get]
func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	v, err := h.accountSvc.Get(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, v)
}

// @Summary     Update account profile
// @Description Partial update. A new email address must be verified again, so the session cookie is cleared.
// @Tags        account
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      account.Update  true  "Fields to change"
// @Success     200      {object}  updateAccountResponse
// @Failure     400      {object}  map[string]string  "invalid input"
// @Failure     409      {object}  map[string]string  "email taken"
// @Router      /api/v1/account [put]
func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req account.Update
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	v, emailChanged, err := h.accountSvc.Update(r.Context(), userIDFromCtx(r), req)
	if err != nil {
		errorResponse(w, err)
		return
	}

	msg := "Account updated successfully"
	if emailChanged {
		msg = "Account updated. Please check your new email address to verify it before signing in again."
		h.clearTokenCookie(w)
	}
	writeJSON(w, http.StatusOK, updateAccountResponse{Message: msg, Account: v, EmailUpdated: emailChanged})
}

// @Summary     List own social media handles
// @Tags        account
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  map[string][]account.Handle
// @Router      /api/v1/account/social-handles [get]
func (h *Handler) handleListHandles(w http.ResponseWriter, r *http.Request) {
	handles, err := h.accountSvc.Handles(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"handles": handles})
}

// @Summary     Add a social media handle
// @Tags        account
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      addHandleRequest  true  "Type and handle"
// @Success     201      {object}  map[string]any
// @Failure     400      {object}  map[string]string  "invalid input or duplicate handle"
// @Router      /api/v1/account/social-handles [post]
func (h *Handler) handleAddHandle(w http.ResponseWriter, r *http.Request) {
	var req addHandleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	handle, err := h.accountSvc.AddHandle(r.Context(), userIDFromCtx(r), req.SocialMediaTypeID, req.Handle)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Handle added",
		"handle":  handle,
	})
}

// @Summary     Remove a social media handle
// @Tags        account
// @Security    BearerAuth
// @Param       id  path  int64  true  "Handle ID"
// @Success     200  {object}  messageResponse
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/account/social-handles/{id} [delete]
func (h *Handler) handleDeleteHandle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid id", err))
		return
	}
	if err := h.accountSvc.RemoveHandle(r.Context(), userIDFromCtx(r), id); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Handle deleted"})
}

// @Summary     List user types
// @Tags        account
// @Produce     json
// @Success     200  {object}  map[string][]account.UserType
// @Router      /api/v1/user-types [get]
func (h *Handler) handleListUserTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.accountSvc.UserTypes(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userTypes": types})
}

// @Summary     List social media types
// @Tags        account
// @Produce     json
// @Success     200  {object}  map[string][]account.SocialType
// @Router      /api/v1/social-media-types [get]
func (h *Handler) handleListSocialTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.accountSvc.SocialTypes(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"socialMediaTypes": types})
}
