package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/middleware"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName       string
	Version       string
	Env           string
	LogLevel      string
	CORSOrigins   []string
	AuthRateLimit int
	// UploadsDir is served under /uploads when set.
	UploadsDir    string
}

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Dashboard  DashboardHandler
	Attendance AttendanceHandler
	Health     HealthHandler
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  parseLevel(cfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.SecurityHeaders)

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	authRoutes := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(cfg.AuthRateLimit))
			r.Post("/login", h.Auth.Login)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/verify-otp", h.Auth.VerifyOTP)
			r.Post("/reset-password", h.Auth.ResetPassword)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Route("/oauth/google", func(r chi.Router) {
				r.Get("/", h.Auth.LoginWithGoogle)
				r.Get("/callback", h.Auth.OAuthCallbackGoogle)
			})
		})
		r.Post("/logout", h.Auth.Logout)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/version", h.Health.Version)

		r.Route("/auth", authRoutes)
		r.Route("/employees/auth", authRoutes)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.GetCurrentEmployee)
				r.Get("/search", h.Employee.SearchEmployees)
				r.Get("/department/{departmentId}", h.Employee.ListByDepartment)
				r.Get("/manager/{managerId}", h.Employee.ListByManager)
				r.Get("/team-lead/{teamLeadId}", h.Employee.ListByTeamLead)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionEmployeeViewAll))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/statistics", h.Employee.GetStatistics)
					r.Get("/export", h.Employee.ExportEmployees)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
					r.Patch("/{id}/leave-balance", h.Employee.AdjustLeaveBalance)
				})

				// self or elevated, decided per record
				r.Get("/{id}", h.Employee.GetEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
				r.Post("/{id}/photo", h.Employee.UploadPhoto)
			})

			r.Get("/dashboard", h.Dashboard.GetDashboard)
			r.Post("/attendance/summary", h.Attendance.Summarize)
		})
	})
	return r
}
