package processor

import (
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/clients/openai"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingCallSid       = errors.New("call sid is required")
	ErrTranscriptionOffline = errors.New("live transcription is not configured")
)

var terminalStatuses = map[string]bool{
	"completed": true,
	"busy":      true,
	"failed":    true,
	"no-answer": true,
	"canceled":  true,
}

// IsTerminalStatus reports whether a Twilio call status ends the call.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[strings.ToLower(status)]
}

func callContext(ctx context.Context, callSid string) context.Context {
	return observability.WithFields(ctx, observability.Field{Key: "call_sid", Value: callSid})
}

// StartCall records a new call and returns the greeting to speak.
func (v *VoiceCallProcessor) StartCall(ctx context.Context, callSid, from, to string) (string, error) {
	if callSid == "" {
		return "", ErrMissingCallSid
	}
	ctx = callContext(ctx, callSid)

	if err := v.recorder.StartCall(ctx, callSid, from, to); err != nil {
		v.logger.Error(ctx, "failed to record call start", err)
	}
	v.recordTurn(ctx, callSid, calllog.TurnRoleAssistant, Greeting)

	v.logger.Info(ctx, "incoming call")
	return Greeting, nil
}

// Converse adds the caller's utterance to the session and returns the
// agent's answer. Agent failures produce FallbackReply rather than an error.
func (v *VoiceCallProcessor) Converse(ctx context.Context, callSid, speech string) (string, error) {
	if callSid == "" {
		return "", ErrMissingCallSid
	}
	ctx = callContext(ctx, callSid)

	speech = strings.TrimSpace(speech)
	if speech == "" {
		return RepromptReply, nil
	}

	if err := v.sessions.Append(ctx, callSid, sessions.UserMessage(speech)); err != nil {
		v.logger.Error(ctx, "failed to store caller turn", err)
		return FallbackReply, nil
	}
	v.recordTurn(ctx, callSid, calllog.TurnRoleUser, speech)

	history, err := v.sessions.History(ctx, callSid)
	if err != nil {
		v.logger.Error(ctx, "failed to load call history", err)
		return FallbackReply, nil
	}

	reply, err := v.agent.Reply(ctx, history)
	if err != nil {
		v.logger.Error(ctx, "agent failed to reply", err)
		reply = FallbackReply
	}

	if err := v.sessions.Append(ctx, callSid, sessions.AssistantMessage(reply)); err != nil {
		v.logger.Error(ctx, "failed to store assistant turn", err)
	}
	v.recordTurn(ctx, callSid, calllog.TurnRoleAssistant, reply)

	return reply, nil
}

// EndCall drops the session once Twilio reports a terminal status.
func (v *VoiceCallProcessor) EndCall(ctx context.Context, callSid, status string) error {
	if callSid == "" {
		return ErrMissingCallSid
	}
	ctx = observability.WithFields(callContext(ctx, callSid), observability.Field{Key: "call_status", Value: status})

	if err := v.sessions.End(ctx, callSid); err != nil {
		v.logger.Error(ctx, "failed to end call session", err)
		return err
	}
	if err := v.recorder.EndCall(ctx, callSid, status); err != nil && !errors.Is(err, calllog.ErrNotFound) {
		v.logger.Error(ctx, "failed to record call end", err)
	}

	v.logger.Info(ctx, "call ended")
	return nil
}

// StartTranscription streams call audio to the transcriber and records
// every completed transcript. Send audio on the returned channel and close
// it when the stream ends; done closes once the last transcript is stored.
func (v *VoiceCallProcessor) StartTranscription(ctx context.Context, callSid string) (chan<- []byte, <-chan struct{}, error) {
	if v.transcriber == nil {
		return nil, nil, ErrTranscriptionOffline
	}
	ctx = callContext(ctx, callSid)

	audio := make(chan []byte, 64)
	results, err := v.transcriber.StartRealtimeTranscription(ctx, audio, openai.RealtimeTranscriptionConfig{
		Model:       "whisper-1",
		Language:    "en",
		InputFormat: "g711_ulaw",
		VAD:         true,
	})
	if err != nil {
		v.logger.Error(ctx, "failed to start live transcription", err)
		return nil, nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			switch res.Type {
			case openai.ResultCompleted:
				if text := strings.TrimSpace(res.Transcript); text != "" {
					v.recordTurn(ctx, callSid, calllog.TurnRoleTranscript, text)
				}
			case openai.ResultError:
				v.logger.Warn(ctx, "live transcription error: "+res.Delta)
			}
		}
	}()

	return audio, done, nil
}

func (v *VoiceCallProcessor) recordTurn(ctx context.Context, callSid, role, content string) {
	if err := v.recorder.RecordTurn(ctx, callSid, role, content); err != nil && !errors.Is(err, calllog.ErrNotFound) {
		v.logger.Error(ctx, "failed to record call turn", err)
	}
}
