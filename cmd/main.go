package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	assignStaffHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/assign_staff"
	blockDateHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/block_date"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_available_slots"
	getCalendarSettingsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_calendar_settings"
	getLeadHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_lead"
	getMonthEventsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_month_events"
	getWizardSessionHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_wizard_session"
	initializeCalendarSettingsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/initialize_calendar_settings"
	navigateWizardHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/navigate_wizard"
	startWizardHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/start_wizard"
	unblockDateHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/unblock_date"
	updateCalendarSettingsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/update_calendar_settings"
	updateCapacityOverrideHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/update_capacity_override"
	"github.com/m04kA/SMC-CleaningBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CleaningBooking/internal/config"
	sessionStore "github.com/m04kA/SMC-CleaningBooking/internal/infra/cache/session"
	calendarRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/calendar"
	leadRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/lead"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/pricing"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/promotions"
	calendarService "github.com/m04kA/SMC-CleaningBooking/internal/service/calendar"
	leadsService "github.com/m04kA/SMC-CleaningBooking/internal/service/leads"
	wizardService "github.com/m04kA/SMC-CleaningBooking/internal/service/wizard"
	confirmBookingUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/confirm_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/metrics"
	"github.com/m04kA/SMC-CleaningBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CleaningBooking...")

	location, err := cfg.Calendar.Location()
	if err != nil {
		log.Fatal("Failed to load calendar timezone %q: %v", cfg.Calendar.Timezone, err)
	}
	log.Info("Calendar timezone: %s", location)

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: методы ничего не делают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (сессии мастера и очередь уведомлений)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Репозитории и менеджер транзакций (с метриками или без)
	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	}
	calendarRepository := calendarRepo.NewRepository(executor)
	leadRepository := leadRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(executor)

	// Очередь уведомлений
	var bookingNotifier confirmBookingUC.Notifier
	if cfg.Notifications.Enabled {
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer queueClient.Close()

		bookingNotifier = notifier.New(queueClient, cfg.Notifications.Queue, cfg.Notifications.MaxRetry, location)
		log.Info("Booking notifications enabled (queue=%s, max_retry=%d)", cfg.Notifications.Queue, cfg.Notifications.MaxRetry)
	}

	// Интеграции
	calculator := pricing.NewCalculator(cfg.Pricing)
	promoValidator := promotions.NewValidator(cfg.Promotions, location)

	// Инициализируем use cases
	zeroCapacityMeansUnset := *cfg.Calendar.ZeroCapacityMeansUnset

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		calendarRepository,
		leadRepository,
		metricsCollector,
		log,
		getAvailableSlotsUC.Options{
			ZeroCapacityMeansUnset: zeroCapacityMeansUnset,
			FallbackCapacity:       cfg.Calendar.FallbackCapacity,
			Location:               location,
		},
	)

	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		leadRepository,
		calendarRepository,
		bookingNotifier,
		txMgr,
		metricsCollector,
		log,
		confirmBookingUC.Options{
			ZeroCapacityMeansUnset: zeroCapacityMeansUnset,
			FallbackCapacity:       cfg.Calendar.FallbackCapacity,
			Location:               location,
		},
	)

	// Инициализируем сервисы
	calendarSvc := calendarService.NewService(
		calendarRepository,
		leadRepository,
		location,
		log,
	)
	leadsSvc := leadsService.NewService(
		leadRepository,
		confirmBookingUseCase,
		calculator,
		promoValidator,
		metricsCollector,
		location,
		log,
	)
	wizardSvc := wizardService.NewService(
		wizard.NewEngine(),
		sessionStore.NewStore(redisClient, cfg.Wizard.SessionTTLDuration()),
		leadsSvc,
		getAvailableSlotsUseCase,
		metricsCollector,
		location,
		log,
	)

	// Засеваем стандартную неделю, если расписание пустое
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if seeded, err := calendarSvc.InitializeDefaultSettings(seedCtx); err != nil {
		log.Warn("Failed to initialize default calendar settings: %v", err)
	} else if seeded {
		log.Info("Default calendar settings created")
	}
	seedCancel()

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	startWizard := startWizardHandler.NewHandler(wizardSvc, log)
	getWizardSession := getWizardSessionHandler.NewHandler(wizardSvc, log)
	navigateWizard := navigateWizardHandler.NewHandler(wizardSvc, log)
	getMonthEvents := getMonthEventsHandler.NewHandler(calendarSvc, log)
	blockDate := blockDateHandler.NewHandler(calendarSvc, log)
	unblockDate := unblockDateHandler.NewHandler(calendarSvc, log)
	getCalendarSettings := getCalendarSettingsHandler.NewHandler(calendarSvc, log)
	updateCalendarSettings := updateCalendarSettingsHandler.NewHandler(calendarSvc, log)
	initializeCalendarSettings := initializeCalendarSettingsHandler.NewHandler(calendarSvc, log)
	updateCapacityOverride := updateCapacityOverrideHandler.NewHandler(calendarSvc, log)
	getLead := getLeadHandler.NewHandler(leadsSvc, log)
	assignStaff := assignStaffHandler.NewHandler(leadsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// ============================================================
	// PUBLIC ROUTES (мастер бронирования)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		public.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log).Middleware())
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Свободное время на дату
	public.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Сессии мастера
	public.HandleFunc("/wizard/sessions", startWizard.Handle).Methods(http.MethodPost)
	public.HandleFunc("/wizard/sessions/{sessionId}", getWizardSession.Handle).Methods(http.MethodGet)
	public.HandleFunc("/wizard/sessions/{sessionId}/advance", navigateWizard.HandleAdvance).Methods(http.MethodPost)
	public.HandleFunc("/wizard/sessions/{sessionId}/back", navigateWizard.HandleBack).Methods(http.MethodPost)
	public.HandleFunc("/wizard/sessions/{sessionId}/edit", navigateWizard.HandleEdit).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminToken(cfg.Admin.Token, log))

	// --- Календарь ---
	admin.HandleFunc("/calendar/events", getMonthEvents.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/calendar/blocked-dates", blockDate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/calendar/blocked-dates/{id}", unblockDate.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/calendar/settings", getCalendarSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/calendar/settings", updateCalendarSettings.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/calendar/settings/initialize", initializeCalendarSettings.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/calendar/capacity-override", updateCapacityOverride.Handle).Methods(http.MethodPut)

	// --- Лиды ---
	admin.HandleFunc("/leads/{leadId}", getLead.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/leads/{leadId}/staff", assignStaff.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
