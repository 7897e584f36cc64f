package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	_ "cfb-poll/docs"
	"cfb-poll/internal/config"
	"cfb-poll/internal/domain/account"
	"cfb-poll/internal/domain/ballot"
	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/standings"
	"cfb-poll/internal/domain/team"
	"cfb-poll/internal/domain/user"
	api "cfb-poll/internal/http"
	"cfb-poll/internal/metrics"
	"cfb-poll/internal/platform/database"
	"cfb-poll/internal/platform/events"
	jwtpkg "cfb-poll/internal/platform/jwt"
	"cfb-poll/internal/platform/mail"
	"cfb-poll/internal/repository/postgres"
	"cfb-poll/internal/worker"
)

// @title           CFB Poll API
// @version         1.0
// @description     College football top 25 poll: ballots, periods and aggregated rankings
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	db, err := database.Open(cfg.DBDriver, cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(context.Background(), db, cfg.DBDriver); err != nil {
			log.Fatalf("migrate error: %v", err)
		}
	}

	userRepo := postgres.NewUserRepo(db)
	accountRepo := postgres.NewAccountRepo(db)
	teamRepo := postgres.NewTeamRepo(db)
	periodRepo := postgres.NewPeriodRepo(db)
	ballotRepo := postgres.NewBallotRepo(db)
	standingsRepo := postgres.NewStandingsRepo(db)

	mailQueue := worker.NewMailQueue(100)

	userSvc := user.NewService(userRepo, mailQueue, cfg.AppURL)
	userSvc.SetLogger(logger)
	accountSvc := account.NewService(accountRepo, userSvc)
	teamSvc := team.NewService(teamRepo)
	periodSvc := period.NewService(periodRepo)
	ballotSvc := ballot.NewService(ballotRepo, periodSvc, teamSvc)
	ballotSvc.SetLogger(logger)
	standingsSvc := standings.NewService(standingsRepo, periodSvc, cfg.StandingsCacheTTL)

	var mailer mail.Mailer = mail.LogMailer{Logger: logger}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	var publisher events.Publisher = events.LogPublisher{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	}
	defer publisher.Close()

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	ballotCh := make(chan worker.BallotEvent, 100)
	ballotWorker := worker.NewBallotWorker(ballotCh, publisher, logger)
	mailWorker := worker.NewMailWorker(mailQueue.C(), mailer, logger)

	metrics.Register()

	router := api.NewRouter(api.Deps{
		Users:        userSvc,
		Accounts:     accountSvc,
		Teams:        teamSvc,
		Periods:      periodSvc,
		Ballots:      ballotSvc,
		Standings:    standingsSvc,
		JWT:          jwtMgr,
		BallotCh:     ballotCh,
		DB:           db,
		AppURL:       cfg.AppURL,
		CookieSecure: cfg.CookieSecure,
		BallotRate:   rate.Limit(float64(cfg.BallotRatePerMin) / 60),
		BallotBurst:  cfg.BallotRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go ballotWorker.Run(ctx)
	go mailWorker.Run(ctx)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	cancel()

	logger.Info("server stopped")
}
