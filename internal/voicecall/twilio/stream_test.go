package twilio

import (
	"appointment-ivr/internal/observability"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type streamResult struct {
	info  StreamInfo
	audio [][]byte
	err   error
}

func serveStream(t *testing.T) (string, <-chan streamResult) {
	t.Helper()
	results := make(chan streamResult, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		reader := NewStreamReader(conn, observability.NewNopLogger())
		info, err := reader.WaitForStart(r.Context())
		if err != nil {
			results <- streamResult{err: err}
			return
		}

		audioIn := make(chan []byte, 16)
		pumpErr := reader.Pump(r.Context(), audioIn)

		var audio [][]byte
		for chunk := range audioIn {
			audio = append(audio, chunk)
		}
		results <- streamResult{info: info, audio: audio, err: pumpErr}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), results
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitResult(t *testing.T, results <-chan streamResult) streamResult {
	t.Helper()
	select {
	case res := <-results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("stream reader did not finish")
		return streamResult{}
	}
}

func TestStreamReader(t *testing.T) {
	url, results := serveStream(t)
	conn := dial(t, url)

	for _, msg := range []string{
		`{"event":"connected","protocol":"Call","version":"1.0.0"}`,
		`{"event":"start","start":{"streamSid":"MZ1","callSid":"CA1","tracks":["inbound"]}}`,
		`{"event":"media","media":{"track":"inbound","payload":"AQID"}}`,
		`not json`,
		`{"event":"media","media":{"track":"outbound","payload":"BAUG"}}`,
		`{"event":"media","media":{"track":"inbound","payload":"BAUG"}}`,
		`{"event":"stop","stop":{"callSid":"CA1"}}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}

	res := waitResult(t, results)
	if res.err != nil {
		t.Fatalf("Pump() error = %v", res.err)
	}
	if res.info.CallSid != "CA1" || res.info.StreamSid != "MZ1" {
		t.Errorf("info = %+v", res.info)
	}
	if len(res.audio) != 2 {
		t.Fatalf("received %d chunks, want 2", len(res.audio))
	}
	if string(res.audio[0]) != "\x01\x02\x03" || string(res.audio[1]) != "\x04\x05\x06" {
		t.Errorf("audio = %v", res.audio)
	}
}

func TestStreamReader_StopBeforeStart(t *testing.T) {
	url, results := serveStream(t)
	conn := dial(t, url)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"stop","stop":{"callSid":"CA1"}}`))

	res := waitResult(t, results)
	if !errors.Is(res.err, ErrStreamClosed) {
		t.Errorf("WaitForStart() error = %v, want ErrStreamClosed", res.err)
	}
}

func TestStreamReader_ConnectionClosed(t *testing.T) {
	url, results := serveStream(t)
	conn := dial(t, url)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"start","start":{"streamSid":"MZ2","callSid":"CA2"}}`))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	res := waitResult(t, results)
	if res.err != nil {
		t.Errorf("Pump() error = %v, want nil on normal close", res.err)
	}
	if res.info.CallSid != "CA2" {
		t.Errorf("info = %+v", res.info)
	}
}
