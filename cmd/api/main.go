package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/config"
	appHTTP "github.com/shiftclock/shiftclock-backend-go/internal/handler/http"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/cron"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/database"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/geo"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/jwt"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/sse"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
	"github.com/shiftclock/shiftclock-backend-go/internal/repository/postgresql"
	authService "github.com/shiftclock/shiftclock-backend-go/internal/service/auth"
	clockgateService "github.com/shiftclock/shiftclock-backend-go/internal/service/clockgate"
	profileService "github.com/shiftclock/shiftclock-backend-go/internal/service/profile"
	reportService "github.com/shiftclock/shiftclock-backend-go/internal/service/report"
	scheduleService "github.com/shiftclock/shiftclock-backend-go/internal/service/schedule"
	sessionService "github.com/shiftclock/shiftclock-backend-go/internal/service/session"
	timesheetService "github.com/shiftclock/shiftclock-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	clockRepo := postgresql.NewClockRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	templateRepo := postgresql.NewTemplateRepository(db)

	stores, err := localstore.NewManager(cfg.Store.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize device stores:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	webhookClient := webhook.NewClient(cfg.Webhook.BaseURL, cfg.Webhook.Timeout)
	hub := sse.NewHub()
	fixProvider := geo.NewContextProvider()

	sessions := sessionService.NewService(stores, hub)
	authSvc := authService.NewAuthService(userRepo, JWTService, webhookClient)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo, templateRepo, userRepo, webhookClient)
	timesheetSvc := timesheetService.NewTimesheetService(clockRepo, scheduleRepo, templateRepo)
	reportSvc := reportService.NewReportService(clockRepo, scheduleRepo, templateRepo, userRepo)
	profileSvc := profileService.NewProfileService(userRepo, webhookClient, stores)
	gateSvc := clockgateService.NewClockGateService(
		sessions,
		scheduleSvc,
		userRepo,
		stores,
		webhookClient,
		fixProvider,
		cfg.Geofence,
	)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("sweep-stale-sessions", time.Hour, sessions.SweepStale)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	clockHandler := appHTTP.NewClockHandler(JWTService, gateSvc, sessions)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	profileHandler := appHTTP.NewProfileHandler(profileSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		authHandler,
		clockHandler,
		timesheetHandler,
		scheduleHandler,
		reportHandler,
		profileHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
