package handler

import (
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/voicecall/twilio"
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// transcriptDrainTimeout bounds the wait for final transcripts after the
// caller's audio ends.
const transcriptDrainTimeout = 5 * time.Second

// HandleMediaStream receives a Twilio media stream and records live
// transcripts of the caller.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "websocket upgrade failed", err)
		return
	}
	defer conn.Close()

	reader := twilio.NewStreamReader(conn, h.logger)
	info, err := reader.WaitForStart(ctx)
	if err != nil {
		h.logger.Warn(ctx, "media stream ended before start")
		return
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_sid", Value: info.CallSid},
		observability.Field{Key: "stream_sid", Value: info.StreamSid},
	)
	h.logger.Info(ctx, "media stream started")

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	audio, done, err := h.voiceProcessor.StartTranscription(streamCtx, info.CallSid)
	if err != nil {
		h.logger.Warn(ctx, "live transcription unavailable, ignoring media stream")
		return
	}

	if err := reader.Pump(streamCtx, audio); err != nil {
		h.logger.Warn(ctx, "media stream closed: "+err.Error())
	}

	select {
	case <-done:
	case <-time.After(transcriptDrainTimeout):
		cancel()
		<-done
	}
	h.logger.Info(ctx, "media stream finished")
}
