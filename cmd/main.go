package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/consultation-booking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/consultation-booking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/consultation-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/consultation-booking/internal/api/handlers/get_booking"
	getBookingConfigHandler "github.com/m04kA/consultation-booking/internal/api/handlers/get_booking_config"
	recordPaymentHandler "github.com/m04kA/consultation-booking/internal/api/handlers/record_payment"
	searchBookingsHandler "github.com/m04kA/consultation-booking/internal/api/handlers/search_bookings"
	updateBillingHandler "github.com/m04kA/consultation-booking/internal/api/handlers/update_billing"
	updateBookingStatusHandler "github.com/m04kA/consultation-booking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/consultation-booking/internal/api/middleware"
	"github.com/m04kA/consultation-booking/internal/config"
	"github.com/m04kA/consultation-booking/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking/internal/infra/storage/memory"
	paymentEventRepo "github.com/m04kA/consultation-booking/internal/infra/storage/paymentevent"
	"github.com/m04kA/consultation-booking/internal/integrations/consultantservice"
	"github.com/m04kA/consultation-booking/internal/integrations/notifier"
	bookingsService "github.com/m04kA/consultation-booking/internal/service/bookings"
	createBookingUC "github.com/m04kA/consultation-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/consultation-booking/internal/usecase/get_available_slots"
	recordPaymentUC "github.com/m04kA/consultation-booking/internal/usecase/record_payment"
	"github.com/m04kA/consultation-booking/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking/pkg/logger"
	"github.com/m04kA/consultation-booking/pkg/metrics"
	"github.com/m04kA/consultation-booking/pkg/txmanager"
)

// bookingStore объединение методов репозитория бронирований, нужных usecase и сервису
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetTakenSlots(ctx context.Context, consultantID string, date time.Time) ([]string, error)
	Search(ctx context.Context, filter domain.BookingsFilter, page domain.Pagination, sort domain.Sort) (*domain.BookingsPage, error)
	UpdateBilling(ctx context.Context, id string, billing *domain.Billing, updatedAt time.Time) error
	UpdateState(ctx context.Context, id string, change domain.StateChange) error
}

type paymentEventStore interface {
	IsProcessed(ctx context.Context, bookingID, reference string) (bool, error)
	MarkProcessed(ctx context.Context, event domain.PaymentEvent) (bool, error)
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting consultation-booking...")
	log.Info("Configuration loaded from %s", *configPath)

	template, err := cfg.Booking.SlotTemplate()
	if err != nil {
		log.Fatal("Invalid booking template: %v", err)
	}
	log.Info("Slot template: slots=%v, duration=%dm, amount=%s %s, timezone=%s",
		template.Slots, template.DurationMinutes, template.Amount.StringFixed(2), template.Currency, cfg.Booking.Timezone)

	// Метрики (если включены). nil-коллектор молча игнорирует вызовы
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var (
		bookings      bookingStore
		paymentEvents paymentEventStore
		txMgr         transactionManager
	)

	switch cfg.Database.Driver {
	case "memory":
		bookings = memory.NewBookingRepository()
		paymentEvents = memory.NewPaymentEventRepository()
		txMgr = memory.NewTxManager()
		log.Warn("Using in-memory storage: data is lost on restart")

	default:
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

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		bookings = bookingRepo.NewRepository(wrappedDB)
		paymentEvents = paymentEventRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Справочник консультантов, с кэшем в Redis если он включён
	var consultants consultantservice.Directory = consultantservice.NewClient(
		cfg.ConsultantService.URL,
		time.Duration(cfg.ConsultantService.Timeout)*time.Second,
		log,
	)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// кэш работает в режиме fail-open, сервис поднимается и без него
			log.Warn("Redis ping failed (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()

		consultants = consultantservice.NewCachedClient(
			consultants,
			rdb,
			time.Duration(cfg.ConsultantService.CacheTTL)*time.Second,
			log,
		)
		log.Info("Consultant cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.ConsultantService.CacheTTL)
	}
	log.Info("Consultant directory client initialized (url=%s, timeout=%ds)",
		cfg.ConsultantService.URL, cfg.ConsultantService.Timeout)

	// Уведомления
	var emailSender notifier.EmailSender = notifier.NewStubEmailSender(log)
	if cfg.Notifications.EmailEnabled {
		sg, err := notifier.NewSendGridSender(notifier.SendGridConfig{
			APIKey:    cfg.Notifications.SendGridAPIKey,
			FromEmail: cfg.Notifications.FromEmail,
			FromName:  cfg.Notifications.FromName,
		}, log)
		if err != nil {
			log.Warn("SendGrid is not configured, emails will be logged only: %v", err)
		} else {
			emailSender = sg
			log.Info("SendGrid email sender enabled (from=%s)", cfg.Notifications.FromEmail)
		}
	}

	var (
		eventPublisher notifier.EventPublisher
		amqpPublisher  *notifier.AMQPPublisher
	)
	if cfg.Notifications.AMQPEnabled {
		amqpPublisher, err = notifier.NewAMQPPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Exchange)
		if err != nil {
			log.Warn("RabbitMQ publisher disabled: %v", err)
		} else {
			eventPublisher = amqpPublisher
			log.Info("RabbitMQ publisher enabled (exchange=%s)", cfg.Notifications.Exchange)
		}
	}

	dispatcher := notifier.NewDispatcher(
		emailSender,
		eventPublisher,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)

	// Сервисы и use cases
	bookingSvc := bookingsService.NewService(bookings, txMgr, metricsCollector, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		consultants,
		dispatcher,
		metricsCollector,
		template,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookings,
		consultants,
		template,
		log,
	)
	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		bookings,
		paymentEvents,
		txMgr,
		dispatcher,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBookingConfig := getBookingConfigHandler.NewHandler(template, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBilling := updateBillingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	searchBookings := searchBookingsHandler.NewHandler(bookingSvc, log)

	if cfg.Auth.OperatorToken == "" {
		log.Warn("auth.operator_token is empty: operator routes will reject every request")
	}
	operatorAuth := middleware.NewOperatorAuth(cfg.Auth.OperatorToken)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/booking-config", getBookingConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants/{consultantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/billing", updateBilling.Handle).Methods(http.MethodPut)

	// Клиент отменяет по email, оператор по токену
	api.Handle("/bookings/{bookingId}/cancel",
		operatorAuth.Detect(http.HandlerFunc(cancelBooking.Handle))).Methods(http.MethodPatch)

	// ============================================================
	// OPERATOR ROUTES (X-Operator-Token или Bearer)
	// ============================================================

	operator := api.PathPrefix("").Subrouter()
	operator.Use(operatorAuth.Require)

	operator.HandleFunc("/bookings", searchBookings.Handle).Methods(http.MethodGet)
	operator.HandleFunc("/bookings/{bookingId}/payments", recordPayment.Handle).Methods(http.MethodPost)
	operator.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся фоновых уведомлений
	dispatcher.Wait()
	log.Info("Pending notifications delivered")

	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Warn("Failed to close RabbitMQ publisher: %v", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("Failed to close Redis client: %v", err)
		}
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
