package main

import (
	"context"

	authhandler "github.com/jayant413/contrashutter-backend/internal/auth/handler"
	authservice "github.com/jayant413/contrashutter-backend/internal/auth/service"
	bannerhandler "github.com/jayant413/contrashutter-backend/internal/banners/handler"
	bannerrepository "github.com/jayant413/contrashutter-backend/internal/banners/repository"
	bannerservice "github.com/jayant413/contrashutter-backend/internal/banners/service"
	bookinghandler "github.com/jayant413/contrashutter-backend/internal/bookings/handler"
	bookingrepository "github.com/jayant413/contrashutter-backend/internal/bookings/repository"
	bookingservice "github.com/jayant413/contrashutter-backend/internal/bookings/service"
	bookingvalidator "github.com/jayant413/contrashutter-backend/internal/bookings/validator"
	cataloghandler "github.com/jayant413/contrashutter-backend/internal/catalog/handler"
	catalogrepository "github.com/jayant413/contrashutter-backend/internal/catalog/repository"
	catalogservice "github.com/jayant413/contrashutter-backend/internal/catalog/service"
	formhandler "github.com/jayant413/contrashutter-backend/internal/forms/handler"
	formrepository "github.com/jayant413/contrashutter-backend/internal/forms/repository"
	formservice "github.com/jayant413/contrashutter-backend/internal/forms/service"
	notificationhandler "github.com/jayant413/contrashutter-backend/internal/notifications/handler"
	notificationrepository "github.com/jayant413/contrashutter-backend/internal/notifications/repository"
	notificationservice "github.com/jayant413/contrashutter-backend/internal/notifications/service"
	partnerhandler "github.com/jayant413/contrashutter-backend/internal/partners/handler"
	partnerrepository "github.com/jayant413/contrashutter-backend/internal/partners/repository"
	partnerservice "github.com/jayant413/contrashutter-backend/internal/partners/service"
	paymenthandler "github.com/jayant413/contrashutter-backend/internal/payments/handler"
	paymentservice "github.com/jayant413/contrashutter-backend/internal/payments/service"
	supporthandler "github.com/jayant413/contrashutter-backend/internal/support/handler"
	supportrepository "github.com/jayant413/contrashutter-backend/internal/support/repository"
	supportservice "github.com/jayant413/contrashutter-backend/internal/support/service"
	userhandler "github.com/jayant413/contrashutter-backend/internal/users/handler"
	userrepository "github.com/jayant413/contrashutter-backend/internal/users/repository"
	userservice "github.com/jayant413/contrashutter-backend/internal/users/service"
	"github.com/jayant413/contrashutter-backend/pkg/app"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/cache"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	"github.com/jayant413/contrashutter-backend/pkg/contracts"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	kafkaconfig "github.com/jayant413/contrashutter-backend/pkg/kafka/config"
	kafkamiddleware "github.com/jayant413/contrashutter-backend/pkg/kafka/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/mailer"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/razorpay"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	if err := cfg.ValidateAPI(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)

	cfg.Log.Info("Starting Contrashutter API")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func(context.Context) error { return publisher.Close() })
	serverApp.SetApp(initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	log := cfg.Log
	validator := validation.New(log)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := middleware.NewAuthenticator(tokens, log)
	txManager := mongotx.SelectTransactionManager(cfg.Client.Mongo, cfg.MongoTransactions)
	secureCookies := cfg.IsProduction()

	store, err := blob.NewLocalStore(cfg.UploadsDir, cfg.PublicBasePath)
	if err != nil {
		log.Fatal("Failed to prepare uploads directory", "error", err, "dir", cfg.UploadsDir)
	}

	userRepo := userrepository.NewMongoUserRepository(cfg)

	notifications := notificationservice.NewNotificationService(
		notificationrepository.NewMongoNotificationRepository(cfg),
		userRepo,
		validator,
		cfg,
	)

	var catalogCache catalogservice.Cache
	if cfg.Client.Redis != nil {
		catalogCache = cache.NewRedisCache(cfg.Client.Redis, "catalog:", cfg.CatalogCacheTTL)
	}
	catalog := catalogservice.NewCatalogService(
		catalogrepository.NewMongoServiceRepository(cfg),
		catalogrepository.NewMongoEventRepository(cfg),
		catalogrepository.NewMongoPackageRepository(cfg),
		txManager,
		store,
		catalogCache,
		validator,
		cfg,
	)

	users := userservice.NewUserService(userRepo, catalog, notifications, store, validator, cfg)
	accounts := authservice.NewAuthService(userRepo, tokens, publisher, initMailer(cfg), validator, cfg)
	tickets := supportservice.NewTicketService(
		supportrepository.NewMongoTicketRepository(cfg),
		store,
		notifications,
		validator,
		cfg,
	)

	partnerRepo := partnerrepository.NewMongoPartnerRepository(cfg)
	partners := partnerservice.NewPartnerService(partnerRepo, userRepo, notifications, txManager, validator, cfg)

	bookings := bookingservice.NewBookingService(
		bookingrepository.NewMongoBookingRepository(cfg),
		bookingrepository.NewMongoInvoiceRepository(cfg),
		userRepo,
		partnerRepo,
		notifications,
		publisher,
		bookingvalidator.NewBookingValidator(log),
		cfg,
	)

	banners := bannerservice.NewBannerService(bannerrepository.NewMongoBannerRepository(cfg), store, cfg)
	forms := formservice.NewFormService(formrepository.NewMongoFormRepository(cfg), catalog, txManager, validator, cfg)
	payments := paymentservice.NewPaymentService(
		razorpay.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RequestTimeout),
		cfg,
	)

	log.Info("Services initialized", "database", cfg.MongoDatabaseName, "transactions", cfg.MongoTransactions)

	return []contracts.Handler{
		store,
		authhandler.NewAuthHandler(accounts, authenticator, cfg.TokenTTL, secureCookies, log),
		userhandler.NewUserHandler(users, authenticator, secureCookies, log),
		notificationhandler.NewNotificationHandler(notifications, authenticator, log),
		supporthandler.NewTicketHandler(tickets, authenticator, log),
		cataloghandler.NewCatalogHandler(catalog, authenticator, log),
		partnerhandler.NewPartnerHandler(partners, authenticator, log),
		bookinghandler.NewBookingHandler(bookings, authenticator, log),
		bannerhandler.NewBannerHandler(banners, authenticator, log),
		formhandler.NewFormHandler(forms, authenticator, log),
		paymenthandler.NewPaymentHandler(payments, log),
	}
}

func initMailer(cfg *config.Config) mailer.Sender {
	if !cfg.SMTPEnabled() {
		cfg.Log.Warn("SMTP not configured, outgoing mail is only logged")
		return mailer.NewLogSender(cfg.Log)
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, domain events are not published")
		return events.NoopPublisher{}
	}

	kcfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log)

	bookings := newProducer(cfg, kcfg, cfg.BookingEventsTopic)
	contact := newProducer(cfg, kcfg, cfg.ContactTopic)
	return events.NewKafkaPublisher(bookings, contact)
}

func newProducer(cfg *config.Config, kcfg *kafkaconfig.Config, topic string) *kafka.Producer {
	producer, err := kafka.NewProducer(kcfg, topic, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", topic)
	}
	producer.Use(kafkamiddleware.LoggingProducer(cfg.Log))
	return producer
}
