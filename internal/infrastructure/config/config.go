// Package config loads the storefront configuration from config.toml
// and SHOPCRAFT_-prefixed environment variables via viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration tree.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Cookie    CookieConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Cart      CartConfig
	Storage   StorageConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// AppConfig identifies the service instance.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds postgres connection and pool settings. Lifetime
// and idle time are in minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
	ExpirationHours        int // Deprecated: use AccessTokenExpiration instead
}

// AuthConfig holds account lockout settings.
type AuthConfig struct {
	MaxLoginAttempts int           // Failed attempts before the account locks
	LockDuration     time.Duration // How long a lockout lasts
}

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Domain   string // empty means current domain
	Path     string
	Secure   bool   // must be true in production
	SameSite string // "strict", "lax" or "none"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// EventConfig tunes the outbox processor.
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
}

// HTTPConfig holds server, rate limit and CORS settings.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// CartConfig holds shopping cart storage settings.
type CartConfig struct {
	TTL time.Duration // Idle time before an abandoned cart expires
}

// StorageConfig holds the S3-compatible object storage settings used
// for design artwork uploads.
type StorageConfig struct {
	Endpoint          string // empty means the localhost MinIO default
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool // required for MinIO and most S3-compatible services
	PresignExpiration time.Duration
}

// SwaggerConfig controls the API documentation endpoint.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // empty allows all
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // non-TLS collector connection, development only
	DBTraceEnabled    bool // otelgorm query tracing
	DBLogFullSQL      bool // full SQL in spans; never enable in production
	DBSlowQueryThresh time.Duration
}

// Load reads configuration in priority order: SHOPCRAFT_-prefixed
// environment variables, then config.toml, then built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOPCRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database:  databaseConfig(v),
		Redis:     redisConfig(v),
		JWT:       jwtConfig(v),
		Auth:      authConfig(v),
		Cookie:    cookieConfig(v),
		Log:       logConfig(v),
		Event:     eventConfig(v),
		HTTP:      httpConfig(v),
		Cart:      CartConfig{TTL: v.GetDuration("cart.ttl")},
		Storage:   storageConfig(v),
		Swagger:   swaggerConfig(v),
		Telemetry: telemetryConfig(v),
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func databaseConfig(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func redisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func jwtConfig(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		ExpirationHours:        v.GetInt("jwt.expiration_hours"),
	}
}

func authConfig(v *viper.Viper) AuthConfig {
	return AuthConfig{
		MaxLoginAttempts: v.GetInt("auth.max_login_attempts"),
		LockDuration:     v.GetDuration("auth.lock_duration"),
	}
}

func cookieConfig(v *viper.Viper) CookieConfig {
	return CookieConfig{
		Domain:   v.GetString("cookie.domain"),
		Path:     v.GetString("cookie.path"),
		Secure:   v.GetBool("cookie.secure"),
		SameSite: v.GetString("cookie.same_site"),
	}
}

func logConfig(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
}

func eventConfig(v *viper.Viper) EventConfig {
	return EventConfig{
		ProcessorEnabled: v.GetBool("event.processor_enabled"),
		BatchSize:        v.GetInt("event.batch_size"),
		PollInterval:     v.GetDuration("event.poll_interval"),
		MaxRetries:       v.GetInt("event.max_retries"),
		CleanupEnabled:   v.GetBool("event.cleanup_enabled"),
		CleanupRetention: v.GetDuration("event.cleanup_retention"),
	}
}

func httpConfig(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:           v.GetDuration("http.read_timeout"),
		WriteTimeout:          v.GetDuration("http.write_timeout"),
		IdleTimeout:           v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
		MaxBodySize:           v.GetInt64("http.max_body_size"),
		RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
		RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
		RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
		AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
		AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
		AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
		CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
	}
}

func storageConfig(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Endpoint:          v.GetString("storage.endpoint"),
		Region:            v.GetString("storage.region"),
		Bucket:            v.GetString("storage.bucket"),
		AccessKey:         v.GetString("storage.access_key"),
		SecretKey:         v.GetString("storage.secret_key"),
		UseSSL:            v.GetBool("storage.use_ssl"),
		UsePathStyle:      v.GetBool("storage.use_path_style"),
		PresignExpiration: v.GetDuration("storage.presign_expiration"),
	}
}

func swaggerConfig(v *viper.Viper) SwaggerConfig {
	return SwaggerConfig{
		Enabled:     v.GetBool("swagger.enabled"),
		RequireAuth: v.GetBool("swagger.require_auth"),
		AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
	}
}

func telemetryConfig(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:       v.GetString("telemetry.service_name"),
		Insecure:          v.GetBool("telemetry.insecure"),
		DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
	}
}

// applyDefaults fills in zero-valued fields. A zero counts as unset, so
// explicitly configuring a numeric setting to 0 falls back to the
// default instead.
func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "shopcraft-backend"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.Port == "" {
		c.App.Port = "8080"
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "shopcraft"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 60
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 30
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}

	if c.JWT.AccessTokenExpiration == 0 {
		c.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if c.JWT.RefreshTokenExpiration == 0 {
		c.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "shopcraft-backend"
	}
	if c.JWT.MaxRefreshCount == 0 {
		c.JWT.MaxRefreshCount = 10
	}

	if c.Auth.MaxLoginAttempts == 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Auth.LockDuration == 0 {
		c.Auth.LockDuration = 15 * time.Minute
	}

	if c.Cookie.Path == "" {
		c.Cookie.Path = "/"
	}
	if c.Cookie.SameSite == "" {
		c.Cookie.SameSite = "lax"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.Event.BatchSize == 0 {
		c.Event.BatchSize = 100
	}
	if c.Event.PollInterval == 0 {
		c.Event.PollInterval = 5 * time.Second
	}
	if c.Event.MaxRetries == 0 {
		c.Event.MaxRetries = 5
	}
	if c.Event.CleanupRetention == 0 {
		c.Event.CleanupRetention = 168 * time.Hour
	}

	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.MaxHeaderBytes == 0 {
		c.HTTP.MaxHeaderBytes = 1 << 20
	}
	if c.HTTP.MaxBodySize == 0 {
		c.HTTP.MaxBodySize = 10 << 20
	}
	if c.HTTP.RateLimitRequests == 0 {
		c.HTTP.RateLimitRequests = 100
	}
	if c.HTTP.RateLimitWindow == 0 {
		c.HTTP.RateLimitWindow = time.Minute
	}
	if c.HTTP.AuthRateLimitRequests == 0 {
		c.HTTP.AuthRateLimitRequests = 5
	}
	if c.HTTP.AuthRateLimitWindow == 0 {
		c.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins stay empty until configured; there is no "*"
	// fallback. Cross-origin requests are rejected until the deployment
	// sets its origins.
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	if c.Cart.TTL == 0 {
		c.Cart.TTL = 720 * time.Hour // 30 days
	}

	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "shopcraft-designs"
	}
	if c.Storage.PresignExpiration == 0 {
		c.Storage.PresignExpiration = 15 * time.Minute
	}

	if c.Telemetry.CollectorEndpoint == "" {
		c.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if c.Telemetry.SamplingRatio == 0 {
		c.Telemetry.SamplingRatio = 1.0
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "shopcraft-backend"
	}
	if c.Telemetry.DBSlowQueryThresh == 0 {
		c.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction rejects settings that are acceptable in
// development but unsafe in production.
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	if !c.Cookie.Secure {
		return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
	}
	return nil
}

// DSN builds the postgres connection string, escaping credentials.
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
