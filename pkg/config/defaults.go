package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "contrashutter"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "5000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultEnv       = "development"

	DefaultTokenTTL       = 24 * time.Hour
	DefaultAllowedOrigins = "http://localhost:3000"

	DefaultRazorpayBaseURL = "https://api.razorpay.com/v1"

	DefaultSMTPHost = ""
	DefaultSMTPPort = 587

	DefaultUploadsDir     = "uploads"
	DefaultPublicBasePath = "/uploads"

	DefaultRedisDB         = 0
	DefaultCatalogCacheTTL = 5 * time.Minute

	DefaultBookingEventsTopic = "booking-events"
	DefaultContactTopic       = "contact-messages"
	DefaultNotifierGroupID    = "contrashutter-notifier"

	DefaultCronInterval = 10 * time.Minute

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB, banner and profile uploads

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
