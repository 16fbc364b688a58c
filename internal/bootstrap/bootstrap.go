package bootstrap

import (
	"appointment-ivr/internal/agent"
	"appointment-ivr/internal/agent/tools"
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/email"
	"appointment-ivr/internal/events"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/ratelimit"
	"appointment-ivr/internal/scheduling"
	"appointment-ivr/internal/sessions"
	"appointment-ivr/internal/store"
	"context"
	"fmt"
	"time"

	appointmentHandler "appointment-ivr/internal/appointments/handler"
	appointmentProcessor "appointment-ivr/internal/appointments/processor"
	authHandler "appointment-ivr/internal/auth/handler"
	authProcessor "appointment-ivr/internal/auth/processor"
	callLogHandler "appointment-ivr/internal/calllog/handler"
	kafkaClient "appointment-ivr/internal/clients/kafka"
	"appointment-ivr/internal/clients/mail"
	openaiClient "appointment-ivr/internal/clients/openai"
	redisClient "appointment-ivr/internal/clients/redis"
	speechHandler "appointment-ivr/internal/speech/handler"
	voiceCallHandler "appointment-ivr/internal/voicecall/handler"
	voiceCallProcessor "appointment-ivr/internal/voicecall/processor"

	"github.com/gin-gonic/gin"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store                *store.Store
	AppointmentProcessor *appointmentProcessor.AppointmentProcessor
	Agent                agent.Agent
	Logger               *observability.Logger

	// Handlers
	AuthHandler        authHandler.Handler
	AppointmentHandler appointmentHandler.Handler
	VoiceCallHandler   voiceCallHandler.Handler
	SpeechHandler      speechHandler.Handler
	CallLogHandler     *callLogHandler.Handler
	TwilioSignature    gin.HandlerFunc
	RateLimit          gin.HandlerFunc

	// Clients (for cleanup)
	KafkaProducer *kafkaClient.Producer
	RedisClient   *redisClient.Client
	CallLog       *calllog.Store

	shutdownTracing func(context.Context) error
}

// Initialize sets up all application dependencies. Optional integrations
// (email, Kafka, Redis, the call log database, speech) are only built when
// configured.
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}
	apierrors.SetLogger(logger)

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}
	deps.shutdownTracing = shutdownTracing

	hours := cfg.Business.Hours()
	validator, err := scheduling.NewValidator(hours)
	if err != nil {
		return nil, fmt.Errorf("invalid business hours: %w", err)
	}
	deps.Store = store.New(validator, logger)

	// Initialize email notifications
	var notifier appointmentProcessor.Notifier
	if cfg.Mail.Enabled() {
		mailClient, err := mail.NewResendClient(cfg.Mail.ResendAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create resend client: %w", err)
		}
		emailService, err := email.New(mailClient, cfg.Mail.DefaultEmailSender, cfg.Business.Location, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
		notifier = emailService
	} else {
		logger.Info(ctx, "Email is disabled, appointment notifications will not be sent")
	}

	// Initialize Kafka event publishing
	var publisher appointmentProcessor.EventPublisher
	if cfg.Kafka.Enabled() {
		deps.KafkaProducer = kafkaClient.NewProducer(kafkaClient.ProducerConfig{
			Brokers: cfg.Kafka.BrokerList(),
			Topic:   cfg.Kafka.Topic,
		}, logger)
		publisher = events.NewPublisher(deps.KafkaProducer, logger)
	} else {
		logger.Info(ctx, "Kafka is disabled, appointment events will not be published")
	}

	// Initialize appointment processor and handler
	apptProc := appointmentProcessor.New(deps.Store, logger, notifier, publisher)
	deps.AppointmentProcessor = &apptProc
	deps.AppointmentHandler = appointmentHandler.New(deps.AppointmentProcessor, cfg.Business.Location, logger)

	// Initialize the booking agent
	facade := tools.New(deps.AppointmentProcessor, hours, logger)
	deps.Agent, err = agent.New(cfg.LLM, facade, hours, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	// Initialize conversation sessions
	sessionStore, err := newSessionStore(cfg.Redis, deps, logger)
	if err != nil {
		return nil, err
	}

	// Initialize rate limiting for the speech and agent endpoints
	if cfg.Server.RateLimitPerMinute > 0 {
		deps.RateLimit = ratelimit.NewService(deps.RedisClient, cfg.Server.RateLimitPerMinute, logger).Middleware()
	}

	// Initialize call log
	var recorder calllog.Recorder
	if cfg.Database.Enabled() {
		deps.CallLog, err = calllog.New(cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		if err := deps.CallLog.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		recorder = deps.CallLog
		h := callLogHandler.New(deps.CallLog, logger)
		deps.CallLogHandler = &h
	}

	// Initialize speech client. Whisper and TTS are OpenAI only.
	var transcriber voiceCallProcessor.Transcriber
	var speechTranscriber speechHandler.Transcriber
	var speechSynthesizer speechHandler.Synthesizer
	if cfg.LLM.OpenAIAPIKey != "" {
		speechClient, err := openaiClient.NewSpeechClient(cfg.LLM.OpenAIAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create speech client: %w", err)
		}
		transcriber = speechClient
		speechTranscriber = speechClient
		speechSynthesizer = speechClient
	} else {
		logger.Info(ctx, "OPENAI_API_KEY is not set, speech endpoints and live transcription are disabled")
	}
	deps.SpeechHandler = speechHandler.New(speechTranscriber, speechSynthesizer, deps.Agent, sessionStore, logger)

	// Initialize voice call processor and handler
	voiceProc := voiceCallProcessor.NewVoiceCallProcessor(deps.Agent, sessionStore, recorder, transcriber, logger)
	deps.VoiceCallHandler = voiceCallHandler.New(voiceProc, voiceCallHandler.Options{
		Voice:         cfg.Twilio.Voice,
		Language:      cfg.Twilio.Language,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	}, logger)
	if cfg.Twilio.ValidateSignature {
		deps.TwilioSignature = voiceCallHandler.ValidateSignature(cfg.Twilio.AuthToken, cfg.Server.PublicBaseURL, logger)
	} else {
		logger.Warn(ctx, "Twilio signature validation is disabled")
	}

	// Initialize admin auth processor and handler
	authProc := authProcessor.New(cfg.Admin, logger)
	if !authProc.Enabled() {
		logger.Warn(ctx, "ADMIN_JWT_SECRET or ADMIN_PASSWORD_HASH is not set, staff API is disabled")
	}
	deps.AuthHandler = authHandler.New(authProc, logger)

	return deps, nil
}

func newSessionStore(cfg config.RedisConfig, deps *Dependencies, logger *observability.Logger) (sessions.Store, error) {
	client, err := redisClient.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return sessions.NewMemoryStore(cfg.SessionTTL), nil
	}
	deps.RedisClient = client
	return sessions.NewRedisStore(client, cfg.SessionTTL, logger), nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	ctx := context.Background()
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close kafka producer", err)
		}
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close redis client", err)
		}
	}
	if d.CallLog != nil {
		if err := d.CallLog.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close call log database", err)
		}
	}
	if d.shutdownTracing != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := d.shutdownTracing(flushCtx); err != nil {
			d.Logger.Error(ctx, "failed to flush traces", err)
		}
	}
}
