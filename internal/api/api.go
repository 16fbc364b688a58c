package api

import (
	appointmentHandler "appointment-ivr/internal/appointments/handler"
	authHandler "appointment-ivr/internal/auth/handler"
	callLogHandler "appointment-ivr/internal/calllog/handler"
	speechHandler "appointment-ivr/internal/speech/handler"
	voiceCallHandler "appointment-ivr/internal/voicecall/handler"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router             *gin.RouterGroup
	authHandler        authHandler.Handler
	appointmentHandler appointmentHandler.Handler
	voiceCallHandler   voiceCallHandler.Handler
	speechHandler      speechHandler.Handler
	// callLogHandler is nil when no call log database is configured.
	callLogHandler *callLogHandler.Handler
	// twilioSignature guards the phone webhooks. Nil disables the check.
	twilioSignature gin.HandlerFunc
	// rateLimit throttles the public speech and agent endpoints. Nil disables it.
	rateLimit gin.HandlerFunc
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	appointmentHandler appointmentHandler.Handler,
	voiceCallHandler voiceCallHandler.Handler,
	speechHandler speechHandler.Handler,
	callLogHandler *callLogHandler.Handler,
	twilioSignature gin.HandlerFunc,
	rateLimit gin.HandlerFunc,
) API {
	return API{
		router:             router,
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		voiceCallHandler:   voiceCallHandler,
		speechHandler:      speechHandler,
		callLogHandler:     callLogHandler,
		twilioSignature:    twilioSignature,
		rateLimit:          rateLimit,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	phoneGroup := apiGroup.Group("/phone")
	{
		// Only the form webhooks are signature checked.
		phoneGroup.GET("/media-stream", a.voiceCallHandler.HandleMediaStream)

		webhooks := phoneGroup.Group("")
		if a.twilioSignature != nil {
			webhooks.Use(a.twilioSignature)
		}
		webhooks.POST("/incoming-call", a.voiceCallHandler.HandleIncomingCall)
		webhooks.POST("/handle-speech", a.voiceCallHandler.HandleSpeech)
		webhooks.POST("/status", a.voiceCallHandler.HandleStatus)
	}

	limited := apiGroup.Group("")
	if a.rateLimit != nil {
		limited.Use(a.rateLimit)
	}
	{
		limited.POST("/speech/transcribe", a.speechHandler.HandleTranscribe)
		limited.POST("/speech/synthesize", a.speechHandler.HandleSynthesize)
		limited.POST("/agent/ask", a.speechHandler.HandleAsk)
	}

	apiGroup.GET("/appointments/slots", a.appointmentHandler.HandleListSlots)

	apiGroup.POST("/admin/login", a.authHandler.HandleLogin)
	adminGroup := apiGroup.Group("/admin", a.authHandler.HandleJWTMiddleware)
	{
		adminGroup.POST("/appointments", a.appointmentHandler.HandleCreateAppointment)
		adminGroup.GET("/appointments", a.appointmentHandler.HandleListAppointments)
		adminGroup.GET("/appointments/:id", a.appointmentHandler.HandleGetAppointment)
		adminGroup.POST("/appointments/:id/reschedule", a.appointmentHandler.HandleRescheduleAppointment)
		adminGroup.POST("/appointments/:id/cancel", a.appointmentHandler.HandleCancelAppointment)

		if a.callLogHandler != nil {
			adminGroup.GET("/calls/:sid", a.callLogHandler.HandleGetCall)
		}
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
