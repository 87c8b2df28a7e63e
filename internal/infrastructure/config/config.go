package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAdminPassword is rejected in production
const DefaultAdminPassword = "admin"

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Admin        AdminConfig
	SMS          SMSConfig
	Telegram     TelegramConfig
	Storage      StorageConfig
	Booking      BookingConfig
	Verification VerificationConfig
	Scheduler    SchedulerConfig
	Swagger      SwaggerConfig
	Telemetry    TelemetryConfig
	Printing     PrintingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, ":memory:" for tests
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings for admin sessions
type JWTConfig struct {
	Secret                 string
	Issuer                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	SMSRateLimit      int // requests per SMSRateWindow per client IP
	SMSRateWindow     time.Duration
	CORSAllowOrigins  []string
	TrustedProxies    []string
}

// AdminConfig holds the single administrator account
type AdminConfig struct {
	Username       string
	Password       string
	PasswordHash   string // bcrypt; takes precedence over Password
	AllowBasicAuth bool
}

// SMSConfig selects and configures the SMS gateway
type SMSConfig struct {
	Provider         string // log or twilio
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TwilioBaseURL    string
	CodeLength       int
	CodeTTL          time.Duration
	ResendCooldown   time.Duration
	MaxAttempts      int
}

// TelegramConfig holds the notification bot settings
type TelegramConfig struct {
	Enabled    bool
	BotToken   string
	ChatID     string
	APIBaseURL string
	Timeout    time.Duration
}

// S3Config holds S3-compatible object storage settings
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
}

// StorageConfig selects where order photos are kept
type StorageConfig struct {
	Driver       string // local or s3
	LocalDir     string
	PublicPrefix string // URL prefix under which local files are served
	S3           S3Config
}

// BookingConfig holds business limits for orders and the calendar
type BookingConfig struct {
	RequireVerification bool
	MaxOrdersPerPhone   int
	MaxPhotos           int
	MaxPhotoSize        int64
	SeedDays            int
	SkipWeekends        bool
	KeepPastDays        int
	CatalogPath         string
}

// VerificationConfig selects the one-time code store
type VerificationConfig struct {
	Store string // database, redis or memory
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled        bool
	Workers        int
	CalendarHour   int
	CalendarMinute int
	PurgeInterval  time.Duration
	JobTimeout     time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

// SwaggerConfig holds API documentation endpoint configuration
type SwaggerConfig struct {
	Enabled bool
}

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
	ProfilingEnabled  bool
	PyroscopeAddress  string
}

// PrintingConfig holds headless Chrome settings for work order PDFs
type PrintingConfig struct {
	Enabled   bool
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
	Language  string // BCP 47 tag of the printed labels, "pl" or "en"
	Company   string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ZR_ prefix (e.g., ZR_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds the configuration from an already prepared viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("ZR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true need an explicit default so that
	// an unset key is distinguishable from false.
	v.SetDefault("booking.require_verification", true)
	v.SetDefault("booking.skip_weekends", true)
	v.SetDefault("http.rate_limit_enabled", true)
	v.SetDefault("swagger.enabled", true)
	v.SetDefault("telemetry.insecure", true)

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			Issuer:                 v.GetString("jwt.issuer"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			SMSRateLimit:      v.GetInt("http.sms_rate_limit"),
			SMSRateWindow:     v.GetDuration("http.sms_rate_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Admin: AdminConfig{
			Username:       v.GetString("admin.username"),
			Password:       v.GetString("admin.password"),
			PasswordHash:   v.GetString("admin.password_hash"),
			AllowBasicAuth: v.GetBool("admin.allow_basic_auth"),
		},
		SMS: SMSConfig{
			Provider:         v.GetString("sms.provider"),
			TwilioAccountSID: v.GetString("sms.twilio_account_sid"),
			TwilioAuthToken:  v.GetString("sms.twilio_auth_token"),
			TwilioFromNumber: v.GetString("sms.twilio_from_number"),
			TwilioBaseURL:    v.GetString("sms.twilio_base_url"),
			CodeLength:       v.GetInt("sms.code_length"),
			CodeTTL:          v.GetDuration("sms.code_ttl"),
			ResendCooldown:   v.GetDuration("sms.resend_cooldown"),
			MaxAttempts:      v.GetInt("sms.max_attempts"),
		},
		Telegram: TelegramConfig{
			Enabled:    v.GetBool("telegram.enabled"),
			BotToken:   v.GetString("telegram.bot_token"),
			ChatID:     v.GetString("telegram.chat_id"),
			APIBaseURL: v.GetString("telegram.api_base_url"),
			Timeout:    v.GetDuration("telegram.timeout"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("storage.driver"),
			LocalDir:     v.GetString("storage.local_dir"),
			PublicPrefix: v.GetString("storage.public_prefix"),
			S3: S3Config{
				Endpoint:        v.GetString("storage.s3.endpoint"),
				Region:          v.GetString("storage.s3.region"),
				Bucket:          v.GetString("storage.s3.bucket"),
				AccessKeyID:     v.GetString("storage.s3.access_key_id"),
				SecretAccessKey: v.GetString("storage.s3.secret_access_key"),
				UsePathStyle:    v.GetBool("storage.s3.use_path_style"),
				PublicBaseURL:   v.GetString("storage.s3.public_base_url"),
			},
		},
		Booking: BookingConfig{
			RequireVerification: v.GetBool("booking.require_verification"),
			MaxOrdersPerPhone:   v.GetInt("booking.max_orders_per_phone"),
			MaxPhotos:           v.GetInt("booking.max_photos"),
			MaxPhotoSize:        v.GetInt64("booking.max_photo_size"),
			SeedDays:            v.GetInt("booking.seed_days"),
			SkipWeekends:        v.GetBool("booking.skip_weekends"),
			KeepPastDays:        v.GetInt("booking.keep_past_days"),
			CatalogPath:         v.GetString("booking.catalog_path"),
		},
		Verification: VerificationConfig{
			Store: v.GetString("verification.store"),
		},
		Scheduler: SchedulerConfig{
			Enabled:        v.GetBool("scheduler.enabled"),
			Workers:        v.GetInt("scheduler.workers"),
			CalendarHour:   v.GetInt("scheduler.calendar_hour"),
			CalendarMinute: v.GetInt("scheduler.calendar_minute"),
			PurgeInterval:  v.GetDuration("scheduler.purge_interval"),
			JobTimeout:     v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:  v.GetInt("scheduler.retry_attempts"),
			RetryDelay:     v.GetDuration("scheduler.retry_delay"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
		Printing: PrintingConfig{
			Enabled:   v.GetBool("printing.enabled"),
			RemoteURL: v.GetString("printing.remote_url"),
			NoSandbox: v.GetBool("printing.no_sandbox"),
			Timeout:   v.GetDuration("printing.timeout"),
			Language:  v.GetString("printing.language"),
			Company:   v.GetString("printing.company"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "zlota-raczka"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "handyman"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "handyman.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "zlota-raczka"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 30 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 7 * 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.SMSRateLimit == 0 {
		cfg.HTTP.SMSRateLimit = 5
	}
	if cfg.HTTP.SMSRateWindow == 0 {
		cfg.HTTP.SMSRateWindow = 10 * time.Minute
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		cfg.Admin.Password = DefaultAdminPassword
	}
	if cfg.SMS.Provider == "" {
		cfg.SMS.Provider = "log"
	}
	if cfg.SMS.TwilioBaseURL == "" {
		cfg.SMS.TwilioBaseURL = "https://api.twilio.com"
	}
	if cfg.SMS.CodeLength == 0 {
		cfg.SMS.CodeLength = 6
	}
	if cfg.SMS.CodeTTL == 0 {
		cfg.SMS.CodeTTL = 10 * time.Minute
	}
	if cfg.SMS.ResendCooldown == 0 {
		cfg.SMS.ResendCooldown = 60 * time.Second
	}
	if cfg.SMS.MaxAttempts == 0 {
		cfg.SMS.MaxAttempts = 5
	}
	if cfg.Telegram.APIBaseURL == "" {
		cfg.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 30 * time.Second
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "uploads/photos"
	}
	if cfg.Storage.PublicPrefix == "" {
		cfg.Storage.PublicPrefix = "/uploads/photos"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.Booking.MaxOrdersPerPhone == 0 {
		cfg.Booking.MaxOrdersPerPhone = 2
	}
	if cfg.Booking.MaxPhotos == 0 {
		cfg.Booking.MaxPhotos = 5
	}
	if cfg.Booking.MaxPhotoSize == 0 {
		cfg.Booking.MaxPhotoSize = 10 << 20
	}
	if cfg.Booking.SeedDays == 0 {
		cfg.Booking.SeedDays = 60
	}
	if cfg.Booking.KeepPastDays == 0 {
		cfg.Booking.KeepPastDays = 30
	}
	if cfg.Booking.CatalogPath == "" {
		cfg.Booking.CatalogPath = "config/services.yaml"
	}
	if cfg.HTTP.MaxBodySize == 0 {
		// all photos plus room for the text fields of the multipart form
		cfg.HTTP.MaxBodySize = int64(cfg.Booking.MaxPhotos)*cfg.Booking.MaxPhotoSize + 1<<20
	}
	if cfg.Verification.Store == "" {
		cfg.Verification.Store = "database"
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = 2
	}
	if cfg.Scheduler.CalendarHour == 0 && cfg.Scheduler.CalendarMinute == 0 {
		cfg.Scheduler.CalendarHour = 3
	}
	if cfg.Scheduler.PurgeInterval == 0 {
		cfg.Scheduler.PurgeInterval = 15 * time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 2 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = 30 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Printing.Language == "" {
		cfg.Printing.Language = "pl"
	}
	if cfg.Printing.Company == "" {
		cfg.Printing.Company = "Złota Rączka"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.SMS.Provider {
	case "log":
	case "twilio":
		if c.SMS.TwilioAccountSID == "" || c.SMS.TwilioAuthToken == "" || c.SMS.TwilioFromNumber == "" {
			return fmt.Errorf("sms.provider=twilio requires twilio_account_sid, twilio_auth_token and twilio_from_number")
		}
	default:
		return fmt.Errorf("sms.provider must be log or twilio, got %q", c.SMS.Provider)
	}
	if c.SMS.CodeLength < 4 || c.SMS.CodeLength > 10 {
		return fmt.Errorf("sms.code_length must be between 4 and 10, got %d", c.SMS.CodeLength)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when storage.driver=s3")
		}
	default:
		return fmt.Errorf("storage.driver must be local or s3, got %q", c.Storage.Driver)
	}

	switch c.Verification.Store {
	case "database", "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("verification.store=redis requires redis.host")
		}
	default:
		return fmt.Errorf("verification.store must be database, redis or memory, got %q", c.Verification.Store)
	}

	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.enabled requires telegram.bot_token and telegram.chat_id")
	}

	if c.Booking.MaxPhotos < 0 || c.Booking.MaxPhotos > 5 {
		return fmt.Errorf("booking.max_photos must be between 0 and 5, got %d", c.Booking.MaxPhotos)
	}
	if c.Scheduler.CalendarHour < 0 || c.Scheduler.CalendarHour > 23 ||
		c.Scheduler.CalendarMinute < 0 || c.Scheduler.CalendarMinute > 59 {
		return fmt.Errorf("scheduler calendar time %02d:%02d is invalid", c.Scheduler.CalendarHour, c.Scheduler.CalendarMinute)
	}

	if c.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Admin.PasswordHash == "" && c.Admin.Password == DefaultAdminPassword {
			return fmt.Errorf("admin.password must be changed in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allow_origins cannot be '*' in production")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis address, or "" when Redis is not configured
func (r *RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
