package handler

import (
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/voicecall/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

const callErrorMessage = "Sorry, we could not identify this call. Please call again."

// HandleIncomingCall answers a new call with the greeting.
func (h *Handler) HandleIncomingCall(c *gin.Context) {
	ctx := c.Request.Context()
	callSid := c.PostForm("CallSid")

	greeting, err := h.voiceProcessor.StartCall(ctx, callSid, c.PostForm("From"), c.PostForm("To"))
	if err != nil {
		h.logger.Warn(ctx, "incoming call without call sid")
		doc, err := h.hangupTwiML(callErrorMessage)
		h.writeTwiML(c, doc, err)
		return
	}

	var leading []twiml.Element
	if url := h.mediaStreamURL(); url != "" {
		leading = append(leading, &twiml.VoiceStart{
			InnerElements: []twiml.Element{&twiml.VoiceStream{Name: callSid, Url: url, Track: "inbound_track"}},
		})
	}

	doc, err := h.converseTwiML(greeting, leading...)
	h.writeTwiML(c, doc, err)
}

// HandleSpeech runs one conversation turn on Twilio's speech result.
func (h *Handler) HandleSpeech(c *gin.Context) {
	callSid := c.PostForm("CallSid")
	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "call_sid", Value: callSid})

	reply, err := h.voiceProcessor.Converse(ctx, callSid, c.PostForm("SpeechResult"))
	if err != nil {
		h.logger.Warn(ctx, "speech webhook without call sid")
		doc, err := h.hangupTwiML(callErrorMessage)
		h.writeTwiML(c, doc, err)
		return
	}

	doc, err := h.converseTwiML(reply)
	h.writeTwiML(c, doc, err)
}

// HandleStatus receives call status callbacks.
func (h *Handler) HandleStatus(c *gin.Context) {
	callSid := c.PostForm("CallSid")
	status := c.PostForm("CallStatus")

	if processor.IsTerminalStatus(status) {
		if err := h.voiceProcessor.EndCall(c.Request.Context(), callSid, status); err != nil {
			h.logger.Warn(c.Request.Context(), "failed to end call on status callback")
		}
	}
	c.Status(http.StatusNoContent)
}
