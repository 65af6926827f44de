package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/api"
	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/backend/demo"
	"github.com/arcticroofing/arctic-portal/internal/backend/live"
	"github.com/arcticroofing/arctic-portal/internal/config"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/db"
	"github.com/arcticroofing/arctic-portal/internal/firebase"
	"github.com/arcticroofing/arctic-portal/internal/logger"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
	"github.com/arcticroofing/arctic-portal/internal/models"
	"github.com/arcticroofing/arctic-portal/pkg/mailer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, cleanup, err := newBackend(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize backend", zap.Error(err))
	}
	defer cleanup()

	gate := core.NewSessionGate(b, cfg.BaseURL, zlog)
	contractor := models.Contractor{Name: cfg.ContractorName, Phone: cfg.ContractorPhone, Email: cfg.ContractorEmail}
	svc := api.Services{
		Gate:      gate,
		Views:     core.NewViewBuilder(b, contractor, zlog),
		Messages:  core.NewMessageService(b, zlog),
		Documents: core.NewDocumentService(b, cfg.SignedURLTTL),
		Admin:     core.NewAdminService(b, gate, core.NewAuditService(b.Store()), zlog),
		Roster:    core.NewDemoRoster(cfg.BaseURL),
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(zlog))
	router.Use(middleware.RecoveryMiddleware(zlog))
	if cors := middleware.CORSMiddleware(cfg); cors != nil {
		router.Use(cors)
	}
	if err := api.SetupRoutes(router, cfg, zlog, svc); err != nil {
		zlog.Fatal("failed to set up routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("gin_mode", gin.Mode()),
			zap.String("mode", string(b.Mode())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newBackend picks the live Firebase backend when it is configured and the
// bundled demo backend otherwise.
func newBackend(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (backend.Backend, func(), error) {
	if cfg.Mode() == backend.ModeDemo {
		key, err := cfg.SessionKeyBytes()
		if err != nil {
			return nil, nil, err
		}
		b, err := demo.New(key)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info("running in demo mode; set FIREBASE_PROJECT_ID and FIREBASE_API_KEY to go live")
		return b, func() {}, nil
	}

	app, err := firebase.NewApp(ctx, cfg, zlog)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, err
	}
	repos := db.NewRepositories(client)

	var mail live.LinkMailer
	if cfg.MailEnabled() {
		m, err := mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
			AppName:  cfg.ContractorName,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		mail = m
	}

	b, err := live.New(ctx, cfg, app, repos, core.NewUserService(repos.Users), mail, zlog)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return b, func() { _ = client.Close() }, nil
}
