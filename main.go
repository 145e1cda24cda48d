package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodJournalAPI/handlers"
	"moodJournalAPI/internal/cache"
	"moodJournalAPI/internal/config"
	"moodJournalAPI/internal/database"
	"moodJournalAPI/internal/notification"
	"moodJournalAPI/internal/workers"
	"moodJournalAPI/middleware"
	"moodJournalAPI/services"

	_ "net/http/pprof"
)

var (
	cfg              *config.Config
	dbPool           *pgxpool.Pool
	summaryCache     *cache.SummaryCache
	userService      *services.UserService
	moodLogService   *services.MoodLogService
	analyticsService *services.AnalyticsService
	reminderService  *services.ReminderService
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Println("Clerk initialized successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err = database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Println("Successfully connected to database")

	if err := database.Migrate(ctx, dbPool); err != nil {
		log.Fatal("Failed to apply schema: ", err)
	}

	// The services take an interface; only assign a live cache so a
	// disabled one stays a nil interface.
	var statsCache services.SummaryCache
	if cfg.RedisURL != "" {
		summaryCache, err = cache.NewSummaryCache(ctx, cfg.RedisURL, cfg.SummaryCacheTTL)
		if err != nil {
			log.Printf("Warning: Could not connect to Redis, summary cache disabled: %v", err)
		} else {
			statsCache = summaryCache
			log.Println("Summary cache initialized successfully")
		}
	}

	var pushSender services.PushSender = notification.LogSender{}
	fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		pushSender = fcmService
		log.Println("FCM Push Provider initialized successfully")
	}

	userService = services.NewUserService(dbPool, cfg.DefaultTimezone)
	moodLogService = services.NewMoodLogService(dbPool, userService, statsCache)
	analyticsService = services.NewAnalyticsService(userService, moodLogService, statsCache)
	reminderService = services.NewReminderService(services.NewPgReminderStore(dbPool), pushSender, cfg.ReminderHour)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()
	if summaryCache != nil {
		defer summaryCache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userHandler := handlers.NewUserHandler(userService)
	moodLogHandler := handlers.NewMoodLogHandler(moodLogService)
	statsHandler := handlers.NewStatsHandler(analyticsService)
	adminHandler := handlers.NewAdminHandler(userService)
	webhookHandler := handlers.NewWebhookHandler(userService, cfg.ClerkWebhookSecret)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.CleanupVisitors(ctx)
	go workers.StartReminderWorker(ctx, cfg.ReminderInterval, reminderService.SendStreakReminders)

	r := mux.NewRouter()
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "mood-journal-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/timezone", userHandler.UpdateTimezone).Methods("PUT")
	protected.HandleFunc("/user/devices", userHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/user/stats", statsHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/user/stats/{period}", statsHandler.GetDaysStat).Methods("GET")
	protected.HandleFunc("/user/calendar", statsHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/user/correlation/weekly", statsHandler.GetWeeklyCorrelation).Methods("GET")
	protected.HandleFunc("/user/correlation/monthly", statsHandler.GetMonthlyCorrelation).Methods("GET")

	protected.HandleFunc("/mood-log", moodLogHandler.CreateMoodLog).Methods("POST")
	protected.HandleFunc("/mood-log", moodLogHandler.ListMoodLogs).Methods("GET")
	protected.HandleFunc("/mood-log/{id}", moodLogHandler.DeleteMoodLog).Methods("DELETE")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware(cfg.IsAdmin))
	admin.HandleFunc("/active-users", adminHandler.GetActiveUsers).Methods("GET")
	admin.HandleFunc("/monthly-users", adminHandler.GetMonthlyUsers).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := ":" + cfg.Port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
