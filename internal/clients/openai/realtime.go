package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

const realtimeURL = "wss://api.openai.com/v1/realtime?intent=transcription"

const (
	ResultDelta     = "delta"
	ResultCompleted = "completed"
	ResultError     = "error"
)

// RealtimeTranscriptionConfig configures a realtime transcription session.
type RealtimeTranscriptionConfig struct {
	Model          string // "gpt-4o-transcribe", "whisper-1"
	Language       string // ISO-639-1
	Prompt         string
	NoiseReduction string // "near_field", "far_field" or ""
	VAD            bool
	// InputFormat is "pcm16", "g711_ulaw" or "g711_alaw". Twilio media
	// streams carry g711_ulaw.
	InputFormat string
}

// TranscriptionResult is a partial or final transcript.
type TranscriptionResult struct {
	Type       string
	Delta      string
	Transcript string
	ItemID     string
}

func sessionUpdate(cfg RealtimeTranscriptionConfig) map[string]interface{} {
	format := cfg.InputFormat
	if format == "" {
		format = "pcm16"
	}
	session := map[string]interface{}{
		"input_audio_format": format,
		"input_audio_transcription": map[string]string{
			"model":    cfg.Model,
			"prompt":   cfg.Prompt,
			"language": cfg.Language,
		},
	}
	if cfg.NoiseReduction != "" {
		session["input_audio_noise_reduction"] = map[string]string{"type": cfg.NoiseReduction}
	}
	if cfg.VAD {
		session["turn_detection"] = map[string]interface{}{
			"type":                "server_vad",
			"threshold":           0.5,
			"prefix_padding_ms":   300,
			"silence_duration_ms": 500,
		}
	} else {
		session["turn_detection"] = nil
	}
	return map[string]interface{}{
		"type":    "transcription_session.update",
		"session": session,
	}
}

// parseRealtimeEvent maps a server event to a result; ok is false for
// events that carry no transcript.
func parseRealtimeEvent(msg []byte) (TranscriptionResult, bool) {
	var event struct {
		Type       string `json:"type"`
		ItemID     string `json:"item_id"`
		Delta      string `json:"delta"`
		Transcript string `json:"transcript"`
		Error      struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		return TranscriptionResult{}, false
	}
	switch event.Type {
	case "conversation.item.input_audio_transcription.delta":
		return TranscriptionResult{Type: ResultDelta, Delta: event.Delta, ItemID: event.ItemID}, true
	case "conversation.item.input_audio_transcription.completed":
		return TranscriptionResult{Type: ResultCompleted, Transcript: event.Transcript, ItemID: event.ItemID}, true
	case "error":
		return TranscriptionResult{Type: ResultError, Delta: event.Error.Message}, true
	}
	return TranscriptionResult{}, false
}

// StartRealtimeTranscription opens a websocket session, streams audio from
// audioStream and returns the transcripts. The result channel closes when
// the stream ends, ctx is cancelled or the connection drops.
func (c *SpeechClient) StartRealtimeTranscription(ctx context.Context, audioStream <-chan []byte, cfg RealtimeTranscriptionConfig) (<-chan TranscriptionResult, error) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.apiKey)
	headers.Set("OpenAI-Beta", "realtime=v1")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.realtime, headers)
	if err != nil {
		c.logger.Error(ctx, "failed to connect to realtime transcription", err)
		return nil, err
	}
	if err := conn.WriteJSON(sessionUpdate(cfg)); err != nil {
		conn.Close()
		c.logger.Error(ctx, "failed to configure transcription session", err)
		return nil, err
	}

	results := make(chan TranscriptionResult)
	done := make(chan struct{})

	go func() {
		defer close(results)
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			result, ok := parseRealtimeEvent(msg)
			if !ok {
				continue
			}
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case chunk, ok := <-audioStream:
				if !ok {
					if err := c.commitAudio(ctx, conn); err != nil {
						return
					}
					select {
					case <-done:
					case <-ctx.Done():
					}
					return
				}
				appendEvent := map[string]string{
					"type":  "input_audio_buffer.append",
					"audio": base64.StdEncoding.EncodeToString(chunk),
				}
				if err := conn.WriteJSON(appendEvent); err != nil {
					c.logger.Error(ctx, "failed to send audio chunk", err)
					return
				}
			}
		}
	}()

	return results, nil
}

// commitAudio asks the server to transcribe whatever audio is still buffered.
func (c *SpeechClient) commitAudio(ctx context.Context, conn *websocket.Conn) error {
	if err := conn.WriteJSON(map[string]string{"type": "input_audio_buffer.commit"}); err != nil {
		c.logger.Error(ctx, "failed to commit audio buffer", err)
		return err
	}
	return nil
}
