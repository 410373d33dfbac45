package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/config"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/middleware"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/jwt"
)

func NewRouter(
	appConfig config.AppConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	clockHandler ClockHandler,
	timesheetHandler TimesheetHandler,
	scheduleHandler ScheduleHandler,
	reportHandler ReportHandler,
	profileHandler ProfileHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftclock"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appConfig.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Device-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Stream token travels as a query parameter, so the SSE route
		// sits outside the bearer-token group.
		r.Get("/clock/stream", clockHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Post("/auth/stream-token", authHandler.StreamToken)

			r.Route("/clock", func(r chi.Router) {
				r.Use(middleware.EmployeeOnly)
				r.Post("/", clockHandler.Perform)
				r.Get("/state", clockHandler.State)
			})

			r.Get("/timesheets/my", timesheetHandler.My)

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/my/active", scheduleHandler.MyActiveShift)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", scheduleHandler.ListAssignments)
					r.Post("/", scheduleHandler.CreateAssignment)
					r.Put("/{id}", scheduleHandler.UpdateAssignment)
					r.Delete("/{id}", scheduleHandler.DeleteAssignment)
				})
			})

			r.Route("/templates", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", scheduleHandler.ListTemplates)
				r.Post("/", scheduleHandler.CreateTemplate)
				r.Delete("/{id}", scheduleHandler.DeleteTemplate)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", reportHandler.Get)
				r.Get("/export", reportHandler.Export)
				r.Get("/users/{userName}", reportHandler.UserDetail)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Save)
			})
		})
	})
	return r
}
