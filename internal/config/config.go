package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env       string
	Server    ServerConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Mail      MailConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Analytics AnalyticsConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// SMTPConfig holds outbound mail settings. User and Pass may come from
// either SMTP_* or the legacy EMAIL_* variables.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Configured reports whether enough is set to talk to a real server.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// MailConfig controls the console fallback.
type MailConfig struct {
	LogSecrets bool
}

// RedisConfig holds cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig holds audit event settings. An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AnalyticsConfig holds reporting settings
type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// CatalogConfig holds course catalog reconciliation settings
type CatalogConfig struct {
	ReconcileInterval time.Duration
}

// RateLimitConfig limits the public endpoints
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load loads configuration from a .env file, environment variables and
// an optional config.yaml found in path or path/config.
func Load(path string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(path + "/config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return &config, nil
}

// bindEnv maps the documented environment variable names onto config keys
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"Env":                       {"APP_ENV"},
		"Server.Port":               {"PORT", "SERVER_PORT"},
		"Server.AllowedOrigins":     {"ALLOWED_ORIGINS"},
		"MongoDB.URI":               {"MONGODB_URI"},
		"MongoDB.Database":          {"MONGODB_DATABASE"},
		"JWT.Secret":                {"JWT_SECRET"},
		"JWT.ExpiresIn":             {"JWT_EXPIRES_IN"},
		"SMTP.Host":                 {"SMTP_HOST"},
		"SMTP.Port":                 {"SMTP_PORT"},
		"SMTP.User":                 {"SMTP_USER", "EMAIL_USER"},
		"SMTP.Pass":                 {"SMTP_PASS", "EMAIL_PASSWORD"},
		"SMTP.From":                 {"SMTP_FROM"},
		"Mail.LogSecrets":           {"MAIL_LOG_SECRETS"},
		"Redis.Addr":                {"REDIS_ADDR"},
		"Redis.Password":            {"REDIS_PASSWORD"},
		"Redis.DB":                  {"REDIS_DB"},
		"RabbitMQ.URL":              {"RABBITMQ_URL"},
		"RabbitMQ.Exchange":         {"RABBITMQ_EXCHANGE"},
		"Analytics.CacheTTL":        {"ANALYTICS_CACHE_TTL"},
		"Catalog.ReconcileInterval": {"CATALOG_RECONCILE_INTERVAL"},
		"RateLimit.RPS":             {"RATE_LIMIT_RPS"},
		"RateLimit.Burst":           {"RATE_LIMIT_BURST"},
		"LogLevel":                  {"LOG_LEVEL"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Env", "development")
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("Server.ReadTimeout", 15*time.Second)
	v.SetDefault("Server.WriteTimeout", 30*time.Second)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "actinova")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("SMTP.Port", "587")
	v.SetDefault("SMTP.From", "Actinova <no-reply@actinova.ai>")
	v.SetDefault("Mail.LogSecrets", false)
	v.SetDefault("RabbitMQ.Exchange", "actinova.admin")
	v.SetDefault("Analytics.CacheTTL", time.Minute)
	v.SetDefault("Catalog.ReconcileInterval", 15*time.Minute)
	v.SetDefault("RateLimit.RPS", 2.0)
	v.SetDefault("RateLimit.Burst", 5)
	v.SetDefault("LogLevel", "info")
}
