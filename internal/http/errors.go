package api

import (
	"database/sql"
	"errors"
	"net/http"

	"cfb-poll/internal/domain/account"
	"cfb-poll/internal/domain/ballot"
	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/team"
	"cfb-poll/internal/domain/user"
	"cfb-poll/internal/platform/apperr"
	"cfb-poll/internal/worker"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		slogLogger.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)

	case errors.Is(err, ballot.ErrEmptyBallot):
		return apperr.BadRequest("empty_ballot", err.Error(), err)
	case errors.Is(err, ballot.ErrTooManyEntries):
		return apperr.BadRequest("too_many_entries", err.Error(), err)
	case errors.Is(err, ballot.ErrInvalidRank):
		return apperr.BadRequest("invalid_rank", err.Error(), err)
	case errors.Is(err, ballot.ErrInvalidTeam):
		return apperr.BadRequest("invalid_team", err.Error(), err)
	case errors.Is(err, ballot.ErrUnknownTeam):
		return apperr.BadRequest("unknown_team", err.Error(), err)
	case errors.Is(err, ballot.ErrDuplicateTeam):
		return apperr.BadRequest("duplicate_team", err.Error(), err)
	case errors.Is(err, ballot.ErrDuplicateRank):
		return apperr.BadRequest("duplicate_rank", err.Error(), err)
	case errors.Is(err, ballot.ErrInvalidVariant):
		return apperr.BadRequest("invalid_variant", "variant must be draft or final", err)

	case errors.Is(err, period.ErrNoOpenPeriod):
		return apperr.BadRequest("voting_closed", "no ballot period is open for voting", err)
	case errors.Is(err, period.ErrPeriodNotFound):
		return apperr.NotFound("period_not_found", err.Error(), err)
	case errors.Is(err, period.ErrInvalidDates):
		return apperr.BadRequest("invalid_dates", "poll must open before it closes and the period must not end before it begins", err)
	case errors.Is(err, period.ErrInvalidPeriod):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, period.ErrPeriodExists):
		return apperr.Conflict("period_exists", err.Error(), err)

	case errors.Is(err, team.ErrNameRequired):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, team.ErrTeamExists):
		return apperr.Conflict("team_exists", err.Error(), err)

	case errors.Is(err, account.ErrNothingToUpdate), errors.Is(err, account.ErrHandleRequired):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, account.ErrInvalidURL):
		return apperr.BadRequest("invalid_url", err.Error(), err)
	case errors.Is(err, account.ErrInvalidFollowers):
		return apperr.BadRequest("invalid_followers", err.Error(), err)
	case errors.Is(err, account.ErrUnknownUserType):
		return apperr.BadRequest("unknown_user_type", err.Error(), err)
	case errors.Is(err, account.ErrUnknownTeam):
		return apperr.BadRequest("unknown_team", err.Error(), err)
	case errors.Is(err, account.ErrUnknownSocialType):
		return apperr.BadRequest("unknown_social_media_type", err.Error(), err)
	case errors.Is(err, account.ErrDuplicateHandle):
		return apperr.BadRequest("duplicate_handle", err.Error(), err)
	case errors.Is(err, account.ErrHandleNotFound):
		return apperr.NotFound("handle_not_found", err.Error(), err)

	case errors.Is(err, user.ErrMissingFields), errors.Is(err, user.ErrEmailRequired):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, user.ErrInvalidEmail):
		return apperr.BadRequest("invalid_email", err.Error(), err)
	case errors.Is(err, user.ErrWeakPassword):
		return apperr.BadRequest("weak_password", err.Error(), err)
	case errors.Is(err, user.ErrPasswordMismatch):
		return apperr.BadRequest("passwords_mismatch", err.Error(), err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.Conflict("email_taken", err.Error(), err)
	case errors.Is(err, user.ErrEmailNotFound):
		return apperr.NotFound("email_not_found", err.Error(), err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrEmailNotVerified):
		return apperr.Forbidden("email_not_verified", "please verify your email address before signing in", err)
	case errors.Is(err, user.ErrAlreadyVerified):
		return apperr.BadRequest("already_verified", err.Error(), err)
	case errors.Is(err, user.ErrInvalidToken):
		return apperr.BadRequest("invalid_token", err.Error(), err)
	case errors.Is(err, user.ErrInvalidRole):
		return apperr.BadRequest("invalid_role", err.Error(), err)
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NotFound("user_not_found", err.Error(), err)

	case errors.Is(err, worker.ErrMailQueueFull):
		return apperr.New(http.StatusServiceUnavailable, "mail_unavailable", "email could not be sent, try again later", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
