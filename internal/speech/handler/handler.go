package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAudioBytes matches the Whisper upload limit.
const maxAudioBytes = 25 << 20

var errSpeechDisabled = errors.New("speech service is not configured")

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

type Agent interface {
	Reply(ctx context.Context, history []sessions.Message) (string, error)
}

type Handler struct {
	transcriber Transcriber
	synthesizer Synthesizer
	agent       Agent
	sessions    sessions.Store
	logger      *observability.Logger
}

// New builds the handler. transcriber and synthesizer may be nil when no
// speech provider is configured; their endpoints then answer 503.
func New(transcriber Transcriber, synthesizer Synthesizer, agent Agent, store sessions.Store, logger *observability.Logger) Handler {
	return Handler{
		transcriber: transcriber,
		synthesizer: synthesizer,
		agent:       agent,
		sessions:    store,
		logger:      logger,
	}
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SynthesizeRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

type AskRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id"`
}

type AskResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (h *Handler) HandleTranscribe(c *gin.Context) {
	if h.transcriber == nil {
		apierrors.RespondWithError(c, apierrors.ServiceUnavailable(apierrors.CodeFeatureDisabled, "Speech service is not configured", errSpeechDisabled))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "An audio file is required in the 'file' field"))
		return
	}
	if fileHeader.Size > maxAudioBytes {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Audio file must be 25MB or smaller"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Audio file could not be read"))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Audio file could not be read"))
		return
	}

	ctx := observability.WithFields(c.Request.Context(),
		observability.Field{Key: "filename", Value: fileHeader.Filename},
		observability.Field{Key: "audio_bytes", Value: len(audio)},
	)
	text, err := h.transcriber.Transcribe(ctx, audio, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TranscribeResponse{Text: text})
}

func (h *Handler) HandleSynthesize(c *gin.Context) {
	if h.synthesizer == nil {
		apierrors.RespondWithError(c, apierrors.ServiceUnavailable(apierrors.CodeFeatureDisabled, "Speech service is not configured", errSpeechDisabled))
		return
	}

	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	audio, err := h.synthesizer.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="speech.mp3"`)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// HandleAsk runs one text turn through the booking agent. Omitting
// session_id starts a new conversation.
func (h *Handler) HandleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Text is required"))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "session_id", Value: sessionID})

	if err := h.sessions.Append(ctx, sessionID, sessions.UserMessage(text)); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	history, err := h.sessions.History(ctx, sessionID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	reply, err := h.agent.Reply(ctx, history)
	if err != nil {
		h.logger.Error(ctx, "agent failed to answer", err)
		apierrors.RespondWithError(c, err)
		return
	}

	if err := h.sessions.Append(ctx, sessionID, sessions.AssistantMessage(reply)); err != nil {
		h.logger.Error(ctx, "failed to store assistant reply", err)
	}

	c.JSON(http.StatusOK, AskResponse{Response: reply, SessionID: sessionID})
}
