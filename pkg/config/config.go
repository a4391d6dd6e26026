package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/jayant413/contrashutter-backend/pkg/client"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoTransactions bool

	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	JWTSecret      string
	TokenTTL       time.Duration
	AdminEmail     string
	AdminNumber    string
	AllowedOrigins []string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	UploadsDir     string
	PublicBasePath string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	KafkaEnabled       bool
	BookingEventsTopic string
	ContactTopic       string
	NotifierGroupID    string

	CronEndpointURL        string
	CronInterval           time.Duration
	BookingStrictLifecycle bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	src, err := newSource()
	if err != nil {
		logger.New(logger.Config{Service: serviceName}).Fatal("Failed to load configuration", "error", err)
	}

	cfg := &Config{
		MongoURI:          src.str(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: src.str(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  src.duration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoTransactions: src.boolean(EnvMongoTransactions, true),

		Port:      src.str(EnvPort, DefaultPort),
		Env:       src.str(EnvAppEnv, src.str(EnvNodeEnv, DefaultEnv)),
		LogLevel:  src.str(EnvLogLevel, DefaultLogLevel),
		LogFormat: src.str(EnvLogFormat, DefaultLogFormat),

		JWTSecret:      src.str(EnvJWTSecret, ""),
		TokenTTL:       src.duration(EnvTokenTTL, DefaultTokenTTL),
		AdminEmail:     src.str(EnvAdminEmail, ""),
		AdminNumber:    src.str(EnvAdminNumber, ""),
		AllowedOrigins: src.list(EnvAllowedOrigins, DefaultAllowedOrigins),

		RazorpayKeyID:     src.str(EnvRazorpayKeyID, ""),
		RazorpayKeySecret: src.str(EnvRazorpayKeySecret, ""),
		RazorpayBaseURL:   src.str(EnvRazorpayBaseURL, DefaultRazorpayBaseURL),

		SMTPHost:     src.str(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:     src.num(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: src.str(EnvSMTPUsername, ""),
		SMTPPassword: src.str(EnvSMTPPassword, ""),
		MailFrom:     src.str(EnvMailFrom, ""),

		UploadsDir:     src.str(EnvUploadsDir, DefaultUploadsDir),
		PublicBasePath: src.str(EnvPublicBasePath, DefaultPublicBasePath),

		RedisAddr:       src.str(EnvRedisAddr, ""),
		RedisPassword:   src.str(EnvRedisPassword, ""),
		RedisDB:         src.num(EnvRedisDB, DefaultRedisDB),
		CatalogCacheTTL: src.duration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),

		KafkaEnabled:       src.boolean(EnvKafkaEnabled, false),
		BookingEventsTopic: src.str(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		ContactTopic:       src.str(EnvContactTopic, DefaultContactTopic),
		NotifierGroupID:    src.str(EnvNotifierGroupID, DefaultNotifierGroupID),

		CronEndpointURL:        src.str(EnvCronEndpointURL, ""),
		CronInterval:           src.duration(EnvCronInterval, DefaultCronInterval),
		BookingStrictLifecycle: src.boolean(EnvBookingStrictLifecycle, false),

		RateLimitRequests: src.num(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   src.duration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: src.duration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: src.duration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: src.num(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     src.duration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    src.duration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     src.duration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: src.duration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.Env != "production",
		Service:   serviceName,
	})

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the shared Redis client when REDIS_ADDR is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, catalog cache and shared idempotency store disabled")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) IsProduction() bool {
	return cfg.Env == "production"
}

func (cfg *Config) SMTPEnabled() bool {
	return cfg.SMTPHost != "" && cfg.MailFrom != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"TokenTTL", cfg.TokenTTL},
		{"CatalogCacheTTL", cfg.CatalogCacheTTL},
		{"CronInterval", cfg.CronInterval},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", p.name, p.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}
	if cfg.CronEndpointURL != "" {
		if u, err := url.Parse(cfg.CronEndpointURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("CronEndpointURL must be an absolute URL, got: %s", cfg.CronEndpointURL))
		}
	}
	if cfg.UploadsDir == "" {
		errors = append(errors, "UploadsDir cannot be empty")
	}

	return joinErrors(errors)
}

// ValidateAPI adds the checks only the HTTP API needs on top of Validate.
func (cfg *Config) ValidateAPI() error {
	var errors []string
	if len(cfg.JWTSecret) < 16 {
		errors = append(errors, "JWTSecret must be at least 16 characters")
	}
	if cfg.IsProduction() && cfg.RazorpayKeySecret == "" {
		errors = append(errors, "RazorpayKeySecret is required in production")
	}
	return joinErrors(errors)
}

func joinErrors(errors []string) error {
	if len(errors) == 0 {
		return nil
	}
	errMsg := "Configuration validation failed:\n"
	for i, err := range errors {
		errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
	}
	return fmt.Errorf("%s", errMsg)
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"env", cfg.Env,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_transactions", cfg.MongoTransactions,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"token_ttl", cfg.TokenTTL,
		"allowed_origins", cfg.AllowedOrigins,
		"razorpay_key_set", cfg.RazorpayKeyID != "",
		"smtp_enabled", cfg.SMTPEnabled(),
		"uploads_dir", cfg.UploadsDir,
		"redis_enabled", cfg.RedisAddr != "",
		"catalog_cache_ttl", cfg.CatalogCacheTTL,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"cron_endpoint_set", cfg.CronEndpointURL != "",
		"cron_interval", cfg.CronInterval,
		"strict_lifecycle", cfg.BookingStrictLifecycle,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
