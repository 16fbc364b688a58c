package twilio

import (
	"appointment-ivr/internal/observability"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var ErrStreamClosed = errors.New("media stream closed before start")

// MediaEvent is one message on a Twilio media stream websocket.
type MediaEvent struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid,omitempty"`
	Start     struct {
		StreamSid string   `json:"streamSid"`
		CallSid   string   `json:"callSid"`
		Tracks    []string `json:"tracks"`
	} `json:"start,omitempty"`
	Media struct {
		Track   string `json:"track"`
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
	Stop struct {
		CallSid string `json:"callSid"`
	} `json:"stop,omitempty"`
}

type StreamInfo struct {
	StreamSid string
	CallSid   string
}

// StreamReader decodes the inbound side of a media stream.
type StreamReader struct {
	conn   *websocket.Conn
	logger *observability.Logger
}

func NewStreamReader(conn *websocket.Conn, logger *observability.Logger) *StreamReader {
	return &StreamReader{conn: conn, logger: logger}
}

func (r *StreamReader) next() (MediaEvent, error) {
	_, msg, err := r.conn.ReadMessage()
	if err != nil {
		return MediaEvent{}, err
	}
	var event MediaEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return MediaEvent{}, fmt.Errorf("failed to parse twilio event: %w", err)
	}
	return event, nil
}

// WaitForStart reads until the stream's start event.
func (r *StreamReader) WaitForStart(ctx context.Context) (StreamInfo, error) {
	for {
		event, err := r.next()
		if err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				r.logger.Warn(ctx, "skipping malformed media stream message")
				continue
			}
			return StreamInfo{}, fmt.Errorf("%w: %v", ErrStreamClosed, err)
		}
		switch event.Event {
		case "start":
			return StreamInfo{StreamSid: event.Start.StreamSid, CallSid: event.Start.CallSid}, nil
		case "stop":
			return StreamInfo{}, ErrStreamClosed
		}
	}
}

// Pump forwards inbound audio to audioIn until the stream stops, the
// connection drops or ctx ends. audioIn is closed on return. Chunks are
// dropped while audioIn is full.
func (r *StreamReader) Pump(ctx context.Context, audioIn chan<- []byte) error {
	defer close(audioIn)

	dropped := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		event, err := r.next()
		if err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				continue
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch event.Event {
		case "media":
			if event.Media.Track != "" && event.Media.Track != "inbound" {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(event.Media.Payload)
			if err != nil {
				r.logger.Warn(ctx, "failed to decode media payload")
				continue
			}
			select {
			case audioIn <- audio:
			case <-ctx.Done():
				return ctx.Err()
			default:
				dropped++
				if dropped%100 == 1 {
					r.logger.Warn(ctx, fmt.Sprintf("audio buffer full, dropped %d chunks", dropped))
				}
			}
		case "stop":
			return nil
		}
	}
}
