package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/observability"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CallReader loads recorded calls.
type CallReader interface {
	GetCall(ctx context.Context, callSid string) (calllog.Call, error)
	ListTurns(ctx context.Context, callSid string) ([]calllog.Turn, error)
}

type Handler struct {
	reader CallReader
	logger *observability.Logger
}

func New(reader CallReader, logger *observability.Logger) Handler {
	return Handler{reader: reader, logger: logger}
}

type CallResponse struct {
	calllog.Call
	EndedAt *time.Time     `json:"ended_at,omitempty"`
	Turns   []calllog.Turn `json:"turns"`
}

// HandleGetCall returns a call and its transcript in order.
func (h *Handler) HandleGetCall(c *gin.Context) {
	callSid := c.Param("sid")
	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "call_sid", Value: callSid})

	call, err := h.reader.GetCall(ctx, callSid)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	turns, err := h.reader.ListTurns(ctx, callSid)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if turns == nil {
		turns = []calllog.Turn{}
	}

	resp := CallResponse{Call: call, Turns: turns}
	if call.EndedAt.Valid {
		resp.EndedAt = &call.EndedAt.Time
	}
	c.JSON(http.StatusOK, resp)
}
