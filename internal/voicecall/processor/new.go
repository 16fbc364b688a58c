package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=new.go -destination=mocks_test.go -package=processor

import (
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/clients/openai"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"context"
)

const (
	Greeting      = "Hello! Thanks for calling. I can book, check, reschedule or cancel an appointment for you. How can I help you today?"
	FallbackReply = "I'm sorry, I'm having a little trouble understanding. Could you please say that again?"
	RepromptReply = "Sorry, I didn't catch that. Could you please repeat?"
	NoInputReply  = "We didn't receive any input. Goodbye!"
)

// Agent answers the caller given the conversation so far.
type Agent interface {
	Reply(ctx context.Context, history []sessions.Message) (string, error)
}

// Transcriber streams call audio to a realtime speech-to-text service.
type Transcriber interface {
	StartRealtimeTranscription(ctx context.Context, audioStream <-chan []byte, cfg openai.RealtimeTranscriptionConfig) (<-chan openai.TranscriptionResult, error)
}

type VoiceCallProcessor struct {
	agent       Agent
	sessions    sessions.Store
	recorder    calllog.Recorder
	transcriber Transcriber
	logger      *observability.Logger
}

// NewVoiceCallProcessor wires the call loop. A nil recorder disables the
// call log and a nil transcriber disables live media transcription.
func NewVoiceCallProcessor(agent Agent, store sessions.Store, recorder calllog.Recorder, transcriber Transcriber, logger *observability.Logger) *VoiceCallProcessor {
	if recorder == nil {
		recorder = calllog.Nop{}
	}
	return &VoiceCallProcessor{
		agent:       agent,
		sessions:    store,
		recorder:    recorder,
		transcriber: transcriber,
		logger:      logger,
	}
}
