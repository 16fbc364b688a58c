package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/calllog"
	"appointment-ivr/internal/observability"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeReader struct {
	calls map[string]calllog.Call
	turns map[string][]calllog.Turn
}

func (f fakeReader) GetCall(ctx context.Context, callSid string) (calllog.Call, error) {
	call, ok := f.calls[callSid]
	if !ok {
		return calllog.Call{}, calllog.ErrNotFound
	}
	return call, nil
}

func (f fakeReader) ListTurns(ctx context.Context, callSid string) ([]calllog.Turn, error) {
	return f.turns[callSid], nil
}

func TestHandleGetCall(t *testing.T) {
	gin.SetMode(gin.TestMode)
	apierrors.SetLogger(observability.NewNopLogger())

	started := time.Date(2030, 1, 8, 4, 30, 0, 0, time.UTC)
	reader := fakeReader{
		calls: map[string]calllog.Call{
			"CA1": {CallSid: "CA1", FromNumber: "+15550001111", Status: "completed", StartedAt: started,
				EndedAt: sql.NullTime{Time: started.Add(3 * time.Minute), Valid: true}},
			"CA2": {CallSid: "CA2", Status: "in-progress", StartedAt: started},
		},
		turns: map[string][]calllog.Turn{
			"CA1": {
				{ID: 1, CallSid: "CA1", Role: calllog.TurnRoleUser, Content: "book me in"},
				{ID: 2, CallSid: "CA1", Role: calllog.TurnRoleAssistant, Content: "Sure."},
			},
		},
	}
	h := New(reader, observability.NewNopLogger())
	router := gin.New()
	router.GET("/api/admin/calls/:sid", h.HandleGetCall)

	get := func(sid string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/calls/"+sid, nil))
		return w
	}

	w := get("CA1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["call_sid"] != "CA1" || body["ended_at"] == nil {
		t.Errorf("body = %v", body)
	}
	if turns, _ := body["turns"].([]any); len(turns) != 2 {
		t.Errorf("turns = %v", body["turns"])
	}

	w = get("CA2")
	body = map[string]any{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body["ended_at"]; ok {
		t.Errorf("open call should not report ended_at: %v", body)
	}
	if turns, ok := body["turns"].([]any); !ok || len(turns) != 0 {
		t.Errorf("turns = %v, want empty list", body["turns"])
	}

	if w := get("CA404"); w.Code != http.StatusNotFound {
		t.Errorf("unknown call status = %d", w.Code)
	}
}
