package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hospitex/hospitex/internal/config"
	"github.com/hospitex/hospitex/internal/domain/account"
	"github.com/hospitex/hospitex/internal/domain/ambulance"
	"github.com/hospitex/hospitex/internal/domain/appointment"
	"github.com/hospitex/hospitex/internal/domain/diagnostic"
	"github.com/hospitex/hospitex/internal/domain/prescription"
	"github.com/hospitex/hospitex/internal/domain/profile"
	"github.com/hospitex/hospitex/internal/platform/auth"
	"github.com/hospitex/hospitex/internal/platform/db"
	"github.com/hospitex/hospitex/internal/platform/mail"
	"github.com/hospitex/hospitex/internal/platform/medibot"
	"github.com/hospitex/hospitex/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospitex-server",
		Short: "HospiTex hospital management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HospiTex API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Mail transport. The server runs without one; outbound mail is
	// best-effort.
	var sender mail.Sender
	if cfg.MailConfigured() {
		sender = &mail.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SenderEmail,
		}
	} else {
		logger.Warn().Msg("SMTP not configured, outbound mail disabled")
	}
	mailer := mail.NewMailer(sender, mail.NewTemplateEngine(), logger)

	// Repositories
	userRepo := account.NewUserRepoPG(pool)
	patientRepo := profile.NewPatientRepoPG(pool)
	doctorRepo := profile.NewDoctorRepoPG(pool)
	diagProfileRepo := profile.NewDiagnosticRepoPG(pool)
	apptRepo := appointment.NewRepoPG(pool)
	rxRepo := prescription.NewRepoPG(pool)
	reportRepo := diagnostic.NewRepoPG(pool)
	ambRepo := ambulance.NewRepoPG(pool)

	// Services. The profile service answers the ownership questions the
	// other domains ask, so it is built before them.
	accountSvc := account.NewService(userRepo, mailer)
	profileSvc := profile.NewService(userRepo, patientRepo, doctorRepo, diagProfileRepo,
		apptRepo, rxRepo, reportRepo)
	apptSvc := appointment.NewService(apptRepo, profileSvc)
	rxSvc := prescription.NewService(rxRepo, profileSvc, apptSvc, &db.PoolRunner{Pool: pool})
	reportSvc := diagnostic.NewService(reportRepo, profileSvc)
	ambSvc := ambulance.NewService(ambRepo, profileSvc, accountSvc)

	issuer := auth.NewIssuer(cfg.JWTSecret)
	session := auth.Middleware(issuer)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.Timeout(cfg.RequestTimeout))
	e.Use(middleware.BodyLimit(cfg.MaxBodySize))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Routes
	accountHandler := account.NewHandler(accountSvc, issuer, cfg.IsProduction())
	accountHandler.RegisterRoutes(e.Group("/auth"), e.Group("/auth", session))

	profileHandler := profile.NewHandler(profileSvc)
	profileHandler.RegisterRoutes(e.Group("/api/users"), e.Group("/api/users", session))

	appointment.NewHandler(apptSvc).RegisterRoutes(e.Group("/api/appointments", session))
	prescription.NewHandler(rxSvc).RegisterRoutes(e.Group("/api/prescriptions", session))
	diagnostic.NewHandler(reportSvc).RegisterRoutes(e.Group("/api/diagnostics", session))
	ambulance.NewHandler(ambSvc).RegisterRoutes(e.Group("/api/ambulance", session))

	// MediBot proxy
	proxy, err := medibot.NewProxy(cfg.MediBotURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid medibot upstream")
	}
	e.Any("/medibot/*", proxy.Handler("/medibot"))

	// Liveness + health
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "HospiTex API Running")
	})
	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status": "unavailable",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
