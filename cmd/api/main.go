package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/ddhealthcare/hrms-backend-go/internal/config"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	appHTTP "github.com/ddhealthcare/hrms-backend-go/internal/handler/http"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/cron"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/database"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/email"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/oauth"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/otp"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/storage"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/memory"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/mongodb"
	"github.com/ddhealthcare/hrms-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/ddhealthcare/hrms-backend-go/internal/service/auth"
	dashboardService "github.com/ddhealthcare/hrms-backend-go/internal/service/dashboard"
	employeeService "github.com/ddhealthcare/hrms-backend-go/internal/service/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/service/file"
)

const appName = "hrms-backend"

// set via -ldflags
var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

type backend struct {
	employees employee.EmployeeRepository
	tokens    auth.RefreshTokenRepository
	pinger    appHTTP.Pinger
	close     func()
}

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, "DD Healthcare HR management API", "https://github.com/ddhealthcare/hrms-backend-go"),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &backend{
			employees: postgresql.NewEmployeeRepository(db),
			tokens:    postgresql.NewRefreshTokenRepository(db),
			pinger:    db,
			close:     db.Close,
		}, nil

	case config.DriverMongoDB:
		db, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(context.Background())
			return nil, err
		}
		return &backend{
			employees: mongodb.NewEmployeeRepository(db),
			tokens:    mongodb.NewRefreshTokenRepository(db),
			pinger:    db,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := db.Close(ctx); err != nil {
					slog.Error("failed to disconnect mongodb", "error", err)
				}
			},
		}, nil

	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return &backend{
			employees: memory.NewEmployeeRepository(),
			tokens:    memory.NewRefreshTokenRepository(),
			pinger:    memory.Pinger{},
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func main() {
	info := buildVersion()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", appName),
		slog.String("version", info.GitVersion),
	))

	if err := run(info); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(info goversion.Info) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := openBackend(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Database.Driver, err)
	}
	defer store.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration,
		jwt.WithCookie("/api", cfg.IsProduction()))

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL,
			oauth.WithScopes(cfg.OAuth2Google.Scopes...))
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	authService := serviceAuth.NewAuthService(store.employees, store.tokens, JWTService, otp.NewGenerator(cfg.OTP.TTL), emailService)
	employeeSvc := employeeService.NewEmployeeService(store.employees, fileService, cfg.App.DefaultPassword)
	dashboardSvc := dashboardService.NewDashboardService(store.employees)

	scheduler := cron.NewScheduler(ctx)
	cron.NewCredentialJobs(authService, cfg.OTP.SweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:       appName,
		Version:       info.GitVersion,
		Env:           cfg.App.Env,
		LogLevel:      cfg.App.LogLevel,
		CORSOrigins:   cfg.App.CORSOrigins,
		AuthRateLimit: cfg.App.AuthRateLimit,
		UploadsDir:    fileStorage.BasePath(),
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.IsProduction()),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Attendance: appHTTP.NewAttendanceHandler(),
		Health:     appHTTP.NewHealthHandler(store.pinger, cfg.Database.Driver, scheduler, info),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
