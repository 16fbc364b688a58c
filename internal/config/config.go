package config

import (
	"appointment-ivr/internal/scheduling"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrInvalidEnvironmentValue  = errors.New("invalid environment variable")
)

const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Business BusinessConfig
	LLM      LLMConfig
	Twilio   TwilioConfig
	Admin    AdminConfig
	Mail     MailConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Tracing  TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	// PublicBaseURL is the externally reachable address Twilio calls back on.
	PublicBaseURL  string
	AllowedOrigins []string
	// RateLimitPerMinute caps speech and agent requests per client IP. Zero disables it.
	RateLimitPerMinute int
}

// BusinessConfig holds the opening hours appointments are validated against
type BusinessConfig struct {
	OpenTime        time.Duration
	CloseTime       time.Duration
	Days            []time.Weekday
	SlotGranularity time.Duration
	Timezone        string
	Location        *time.Location
}

// Hours converts the business configuration into scheduling rules.
func (b BusinessConfig) Hours() scheduling.Hours {
	return scheduling.Hours{
		Open:        b.OpenTime,
		Close:       b.CloseTime,
		Days:        b.Days,
		Granularity: b.SlotGranularity,
		Location:    b.Location,
	}
}

// LLMConfig holds language model provider settings
type LLMConfig struct {
	Provider       string
	OpenAIAPIKey   string
	OpenAIModel    string
	GoogleAIAPIKey string
	GeminiModel    string
	Timeout        time.Duration
}

// TwilioConfig holds telephony settings
type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	FromNumber        string
	ValidateSignature bool
	Voice             string
	Language          string
}

// AdminConfig holds staff API credentials
type AdminConfig struct {
	Username     string
	JWTSecret    string
	PasswordHash string
}

func (a AdminConfig) Enabled() bool {
	return a.JWTSecret != "" && a.PasswordHash != ""
}

// MailConfig holds transactional email settings
type MailConfig struct {
	ResendAPIKey       string
	DefaultEmailSender string
}

func (m MailConfig) Enabled() bool {
	return m.ResendAPIKey != "" && m.DefaultEmailSender != ""
}

// KafkaConfig holds Kafka/event streaming configuration
type KafkaConfig struct {
	Brokers string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return k.Brokers != ""
}

// BrokerList splits the comma separated broker addresses.
func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

// RedisConfig holds call session storage settings
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DatabaseConfig holds the optional call log database
type DatabaseConfig struct {
	URL string
}

func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// TracingConfig holds OpenTelemetry trace export configuration
type TracingConfig struct {
	Enabled bool
	// Endpoint is the OTLP gRPC collector as host:port.
	Endpoint    string
	SampleRatio float64
	ServiceName string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	// Server configuration
	serverPort := getEnvWithDefault("SERVER_PORT", "8080")
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	cfg.Server.AllowedOrigins = splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))
	cfg.Server.RateLimitPerMinute, err = strconv.Atoi(getEnvWithDefault("RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil || cfg.Server.RateLimitPerMinute < 0 {
		return nil, fmt.Errorf("%w: RATE_LIMIT_PER_MINUTE must be a non-negative integer", ErrInvalidEnvironmentValue)
	}

	if cfg.Business, err = loadBusiness(); err != nil {
		return nil, err
	}
	if cfg.LLM, err = loadLLM(); err != nil {
		return nil, err
	}
	if cfg.Twilio, err = loadTwilio(); err != nil {
		return nil, err
	}

	// Admin configuration
	cfg.Admin.Username = getEnvWithDefault("ADMIN_USERNAME", "admin")
	cfg.Admin.JWTSecret = os.Getenv("ADMIN_JWT_SECRET")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	// Mail configuration
	cfg.Mail.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Mail.DefaultEmailSender = os.Getenv("DEFAULT_EMAIL_SENDER_ADDRESS")

	// Kafka configuration
	cfg.Kafka.Brokers = os.Getenv("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "appointment-events")

	if cfg.Redis, err = loadRedis(); err != nil {
		return nil, err
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	if cfg.Tracing, err = LoadTracing(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadBusiness() (BusinessConfig, error) {
	var b BusinessConfig

	open, err := requireEnv("BUSINESS_OPEN_TIME")
	if err != nil {
		return b, err
	}
	if b.OpenTime, err = scheduling.ParseClock(open); err != nil {
		return b, fmt.Errorf("BUSINESS_OPEN_TIME: %w: %v", ErrInvalidEnvironmentValue, err)
	}

	closing, err := requireEnv("BUSINESS_CLOSE_TIME")
	if err != nil {
		return b, err
	}
	if b.CloseTime, err = scheduling.ParseClock(closing); err != nil {
		return b, fmt.Errorf("BUSINESS_CLOSE_TIME: %w: %v", ErrInvalidEnvironmentValue, err)
	}

	days, err := requireEnv("BUSINESS_DAYS")
	if err != nil {
		return b, err
	}
	if b.Days, err = scheduling.ParseWeekdays(days); err != nil {
		return b, fmt.Errorf("BUSINESS_DAYS: %w: %v", ErrInvalidEnvironmentValue, err)
	}

	granularity, err := requireEnv("SLOT_GRANULARITY_MINUTES")
	if err != nil {
		return b, err
	}
	minutes, err := strconv.Atoi(granularity)
	if err != nil || minutes <= 0 {
		return b, fmt.Errorf("SLOT_GRANULARITY_MINUTES: %w: must be a positive integer", ErrInvalidEnvironmentValue)
	}
	b.SlotGranularity = time.Duration(minutes) * time.Minute

	// No default timezone: bookings in the wrong zone are worse than failing to start.
	if b.Timezone, err = requireEnv("TIMEZONE"); err != nil {
		return b, err
	}
	if b.Location, err = time.LoadLocation(b.Timezone); err != nil {
		return b, fmt.Errorf("TIMEZONE: %w: %v", ErrInvalidEnvironmentValue, err)
	}

	if err := b.Hours().Check(); err != nil {
		return b, err
	}
	return b, nil
}

func loadLLM() (LLMConfig, error) {
	l := LLMConfig{
		Provider:       strings.ToLower(getEnvWithDefault("LLM_PROVIDER", LLMProviderOpenAI)),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GoogleAIAPIKey: os.Getenv("GOOGLE_AI_API_KEY"),
		GeminiModel:    getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	timeout, err := time.ParseDuration(getEnvWithDefault("LLM_TIMEOUT", "20s"))
	if err != nil || timeout <= 0 {
		return l, fmt.Errorf("LLM_TIMEOUT: %w: must be a positive duration", ErrInvalidEnvironmentValue)
	}
	l.Timeout = timeout

	switch l.Provider {
	case LLMProviderOpenAI:
		if l.OpenAIAPIKey == "" {
			return l, fmt.Errorf("OPENAI_API_KEY is not set: %w", ErrEmptyEnvironmentVariable)
		}
	case LLMProviderGemini:
		if l.GoogleAIAPIKey == "" {
			return l, fmt.Errorf("GOOGLE_AI_API_KEY is not set: %w", ErrEmptyEnvironmentVariable)
		}
	default:
		return l, fmt.Errorf("LLM_PROVIDER: %w: %q is not openai or gemini", ErrInvalidEnvironmentValue, l.Provider)
	}
	return l, nil
}

func loadTwilio() (TwilioConfig, error) {
	t := TwilioConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		Voice:      getEnvWithDefault("TWILIO_VOICE", "Polly.Salli"),
		Language:   getEnvWithDefault("TWILIO_LANGUAGE", "en-US"),
	}

	validate, err := strconv.ParseBool(getEnvWithDefault("TWILIO_VALIDATE_SIGNATURE", "true"))
	if err != nil {
		return t, fmt.Errorf("TWILIO_VALIDATE_SIGNATURE: %w: %v", ErrInvalidEnvironmentValue, err)
	}
	t.ValidateSignature = validate && t.AuthToken != ""
	return t, nil
}

func loadRedis() (RedisConfig, error) {
	r := RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	db, err := strconv.Atoi(getEnvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return r, fmt.Errorf("failed to parse REDIS_DB: %w", err)
	}
	r.DB = db

	ttl, err := strconv.Atoi(getEnvWithDefault("SESSION_TTL_MINUTES", "60"))
	if err != nil || ttl <= 0 {
		return r, fmt.Errorf("SESSION_TTL_MINUTES: %w: must be a positive integer", ErrInvalidEnvironmentValue)
	}
	r.SessionTTL = time.Duration(ttl) * time.Minute
	return r, nil
}

// LoadTracing reads the OTEL_* variables on their own so tools other than the
// server can export traces.
func LoadTracing() (TracingConfig, error) {
	t := TracingConfig{
		Endpoint:    getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName: getEnvWithDefault("OTEL_SERVICE_NAME", "appointment-ivr"),
	}

	enabled, err := strconv.ParseBool(getEnvWithDefault("OTEL_ENABLED", "false"))
	if err != nil {
		return t, fmt.Errorf("OTEL_ENABLED: %w: %v", ErrInvalidEnvironmentValue, err)
	}
	t.Enabled = enabled

	ratio, err := strconv.ParseFloat(getEnvWithDefault("OTEL_SAMPLING_RATIO", "1"), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return t, fmt.Errorf("OTEL_SAMPLING_RATIO: %w: must be between 0 and 1", ErrInvalidEnvironmentValue)
	}
	t.SampleRatio = ratio
	return t, nil
}

// splitList splits a comma separated value and drops empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
