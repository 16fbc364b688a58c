package handler

import (
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/voicecall/processor"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	speechPath      = "/api/phone/handle-speech"
	mediaStreamPath = "/api/phone/media-stream"
)

type Options struct {
	Voice    string
	Language string
	// PublicBaseURL enables live media transcription when set. Twilio needs
	// an absolute wss:// URL for <Stream>.
	PublicBaseURL string
}

type Handler struct {
	voiceProcessor *processor.VoiceCallProcessor
	options        Options
	logger         *observability.Logger
}

func New(voiceProcessor *processor.VoiceCallProcessor, options Options, logger *observability.Logger) Handler {
	return Handler{
		voiceProcessor: voiceProcessor,
		options:        options,
		logger:         logger,
	}
}

func (h *Handler) mediaStreamURL() string {
	base := strings.TrimRight(h.options.PublicBaseURL, "/")
	switch {
	case base == "":
		return ""
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + mediaStreamPath
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + mediaStreamPath
	default:
		return base + mediaStreamPath
	}
}

// Twilio connects from its own infrastructure, so there is no browser
// origin to check.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
