package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

func (h *Handler) say(message string) *twiml.VoiceSay {
	return &twiml.VoiceSay{
		Message:  message,
		Voice:    h.options.Voice,
		Language: h.options.Language,
	}
}

// gather speaks prompt and posts the caller's answer to the speech webhook.
func (h *Handler) gather(prompt string) *twiml.VoiceGather {
	return &twiml.VoiceGather{
		Input:         "speech",
		Action:        speechPath,
		Method:        http.MethodPost,
		SpeechTimeout: "auto",
		SpeechModel:   "experimental_conversational",
		Language:      h.options.Language,
		InnerElements: []twiml.Element{h.say(prompt)},
	}
}

// converseTwiML asks prompt and hangs up politely if the caller stays silent.
func (h *Handler) converseTwiML(prompt string, leading ...twiml.Element) (string, error) {
	elements := append(leading, h.gather(prompt), h.say("We didn't receive any input. Goodbye!"), &twiml.VoiceHangup{})
	return twiml.Voice(elements)
}

func (h *Handler) hangupTwiML(message string) (string, error) {
	return twiml.Voice([]twiml.Element{h.say(message), &twiml.VoiceHangup{}})
}

func (h *Handler) writeTwiML(c *gin.Context, doc string, err error) {
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to render twiml", err)
		c.String(http.StatusInternalServerError, "failed to render twiml")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, doc)
}
