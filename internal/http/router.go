package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"cfb-poll/internal/domain/account"
	"cfb-poll/internal/domain/ballot"
	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/standings"
	"cfb-poll/internal/domain/team"
	"cfb-poll/internal/domain/user"
	jwtpkg "cfb-poll/internal/platform/jwt"
	"cfb-poll/internal/worker"
)

// Deps is everything the router needs. Zero rate settings fall back to the
// defaults below.
type Deps struct {
	Users     *user.Service
	Accounts  *account.Service
	Teams     *team.Service
	Periods   *period.Service
	Ballots   *ballot.Service
	Standings *standings.Service
	JWT       *jwtpkg.Manager
	BallotCh  chan<- worker.BallotEvent
	DB        *sql.DB

	AppURL       string
	CookieSecure bool
	BallotRate   rate.Limit
	BallotBurst  int
}

const (
	defaultBallotRate  = rate.Limit(30.0 / 60.0)
	defaultBallotBurst = 10
)

type Handler struct {
	userSvc      *user.Service
	accountSvc   *account.Service
	teamSvc      *team.Service
	periodSvc    *period.Service
	ballotSvc    *ballot.Service
	standingsSvc *standings.Service
	jwtMgr       *jwtpkg.Manager
	ballotCh     chan<- worker.BallotEvent
	db           *sql.DB
	appURL       string
	cookieSecure bool
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		userSvc:      d.Users,
		accountSvc:   d.Accounts,
		teamSvc:      d.Teams,
		periodSvc:    d.Periods,
		ballotSvc:    d.Ballots,
		standingsSvc: d.Standings,
		jwtMgr:       d.JWT,
		ballotCh:     d.BallotCh,
		db:           d.DB,
		appURL:       d.AppURL,
		cookieSecure: d.CookieSecure,
	}
	if d.BallotRate == 0 {
		d.BallotRate = defaultBallotRate
	}
	if d.BallotBurst <= 0 {
		d.BallotBurst = defaultBallotBurst
	}
	ballotLimit := RateLimit(d.BallotRate, d.BallotBurst, byUser)
	authLimit := RateLimit(rate.Every(time.Minute/10), 5, byClientIP)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware(d.AppURL))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", h.handleRegister)
			r.Post("/auth/login", h.handleLogin)
			r.Post("/auth/resend-verification", h.handleResendVerification)
			r.Post("/auth/forgot-password", h.handleForgotPassword)
			r.Post("/auth/reset-password", h.handleResetPassword)
		})
		r.Get("/auth/verify-email", h.handleVerifyEmail)
		r.Post("/auth/logout", h.handleLogout)

		r.Get("/teams", h.handleListTeams)
		r.Get("/ballot-periods", h.handleListPeriods)
		r.Get("/ballot-periods/current", h.handleCurrentPeriod)
		r.Get("/rankings", h.handleRankings)
		r.Get("/user-types", h.handleListUserTypes)
		r.Get("/social-media-types", h.handleListSocialTypes)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.jwtMgr))

			r.Get("/me", h.handleMe)
			r.Get("/account", h.handleGetAccount)
			r.Put("/account", h.handleUpdateAccount)
			r.Get("/account/social-handles", h.handleListHandles)
			r.Post("/account/social-handles", h.handleAddHandle)
			r.Delete("/account/social-handles/{id}", h.handleDeleteHandle)
			r.Get("/ballot", h.handleGetBallot)
			r.Get("/ballot/board", h.handleGetBoard)
			r.With(ballotLimit).Put("/ballot", h.handleSaveBallot)
			r.With(ballotLimit).Post("/ballot", h.handleSubmitBallot)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(user.RoleAdmin))
				r.Post("/teams", h.handleCreateTeam)
				r.Post("/ballot-periods", h.handleCreatePeriod)
				r.Get("/users", h.handleListUsers)
				r.Patch("/users/{id}/role", h.handleUpdateUserRole)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
