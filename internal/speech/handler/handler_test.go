package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/clients/openai"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeSpeech struct {
	transcript string
	audio      []byte
	err        error
	gotAudio   []byte
	gotVoice   string
}

func (f *fakeSpeech) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	f.gotAudio = audio
	return f.transcript, f.err
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	f.gotVoice = voice
	return f.audio, f.err
}

type fakeAgent struct {
	err     error
	lengths []int
}

func (f *fakeAgent) Reply(ctx context.Context, history []sessions.Message) (string, error) {
	f.lengths = append(f.lengths, len(history))
	if f.err != nil {
		return "", f.err
	}
	return "Which date works for you?", nil
}

func newRouter(h Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apierrors.SetLogger(observability.NewNopLogger())

	router := gin.New()
	router.POST("/api/speech/transcribe", h.HandleTranscribe)
	router.POST("/api/speech/synthesize", h.HandleSynthesize)
	router.POST("/api/agent/ask", h.HandleAsk)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleTranscribe(t *testing.T) {
	speech := &fakeSpeech{transcript: "book me for tuesday"}
	router := newRouter(New(speech, speech, &fakeAgent{}, sessions.NewMemoryStore(time.Hour), observability.NewNopLogger()))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "call.wav")
	part.Write([]byte("RIFF-audio"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/speech/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp TranscribeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "book me for tuesday" || string(speech.gotAudio) != "RIFF-audio" {
		t.Errorf("resp = %+v, audio = %q", resp, speech.gotAudio)
	}
}

func TestHandleTranscribe_Errors(t *testing.T) {
	router := newRouter(New(&fakeSpeech{}, nil, &fakeAgent{}, sessions.NewMemoryStore(time.Hour), observability.NewNopLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/speech/transcribe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d", w.Code)
	}

	disabled := newRouter(New(nil, nil, &fakeAgent{}, sessions.NewMemoryStore(time.Hour), observability.NewNopLogger()))
	w = postJSON(disabled, "/api/speech/transcribe", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled status = %d", w.Code)
	}
}

func TestHandleSynthesize(t *testing.T) {
	speech := &fakeSpeech{audio: []byte("ID3-mp3")}
	router := newRouter(New(speech, speech, &fakeAgent{}, sessions.NewMemoryStore(time.Hour), observability.NewNopLogger()))

	w := postJSON(router, "/api/speech/synthesize", SynthesizeRequest{Text: "Your appointment ID is 1.", Voice: "nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "audio/mpeg" || w.Body.String() != "ID3-mp3" {
		t.Errorf("Content-Type = %q, body = %q", w.Header().Get("Content-Type"), w.Body.String())
	}
	if speech.gotVoice != "nova" {
		t.Errorf("voice = %q", speech.gotVoice)
	}

	if w := postJSON(router, "/api/speech/synthesize", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing text status = %d", w.Code)
	}

	speech.err = openai.ErrEmptyText
	if w := postJSON(router, "/api/speech/synthesize", SynthesizeRequest{Text: " "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank text status = %d", w.Code)
	}
}

func TestHandleAsk(t *testing.T) {
	agent := &fakeAgent{}
	store := sessions.NewMemoryStore(time.Hour)
	router := newRouter(New(nil, nil, agent, store, observability.NewNopLogger()))

	w := postJSON(router, "/api/agent/ask", AskRequest{Text: "I need an appointment"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var first AskResponse
	json.Unmarshal(w.Body.Bytes(), &first)
	if first.SessionID == "" || first.Response != "Which date works for you?" {
		t.Fatalf("resp = %+v", first)
	}

	w = postJSON(router, "/api/agent/ask", AskRequest{Text: "Tuesday", SessionID: first.SessionID})
	var second AskResponse
	json.Unmarshal(w.Body.Bytes(), &second)
	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %q -> %q", first.SessionID, second.SessionID)
	}

	if len(agent.lengths) != 2 || agent.lengths[0] != 1 || agent.lengths[1] != 3 {
		t.Errorf("history lengths = %v, want [1 3]", agent.lengths)
	}
	history, _ := store.History(context.Background(), first.SessionID)
	if len(history) != 4 {
		t.Errorf("stored history = %d turns", len(history))
	}
}

func TestHandleAsk_Errors(t *testing.T) {
	agent := &fakeAgent{err: errors.New("gemini quota exceeded")}
	router := newRouter(New(nil, nil, agent, sessions.NewMemoryStore(time.Hour), observability.NewNopLogger()))

	if w := postJSON(router, "/api/agent/ask", AskRequest{Text: "   "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank text status = %d", w.Code)
	}

	w := postJSON(router, "/api/agent/ask", AskRequest{Text: "hello"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("agent failure status = %d, body = %s", w.Code, w.Body.String())
	}
}
