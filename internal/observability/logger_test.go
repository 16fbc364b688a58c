package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "long local part keeps first and last character",
			email: "jane.doe@example.com",
			want:  "j******e@example.com",
		},
		{
			name:  "two character local part",
			email: "jd@example.com",
			want:  "j*@example.com",
		},
		{
			name:  "single character local part",
			email: "j@example.com",
			want:  "j@example.com",
		},
		{
			name:  "not an email is returned unchanged",
			email: "not-an-email",
			want:  "not-an-email",
		},
		{
			name:  "empty string",
			email: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskEmail(tt.email); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestWithFields_DoesNotShareBackingArray(t *testing.T) {
	base := WithFields(context.Background(), Field{"a", 1})
	left := WithFields(base, Field{"left", true})
	right := WithFields(base, Field{"right", true})

	leftFields := getObservabilityFields(left)
	rightFields := getObservabilityFields(right)

	if len(leftFields) != 2 || leftFields[1].Key != "left" {
		t.Fatalf("left fields = %+v", leftFields)
	}
	if len(rightFields) != 2 || rightFields[1].Key != "right" {
		t.Fatalf("right fields = %+v", rightFields)
	}
}

func TestGetRealClientIP(t *testing.T) {
	tests := []struct {
		name              string
		cloudFrontAddress string
		fallbackIP        string
		want              string
	}{
		{
			name:              "CloudFront header with port",
			cloudFrontAddress: "203.0.113.50:12345",
			want:              "203.0.113.50",
		},
		{
			name:              "CloudFront header IPv6 with port",
			cloudFrontAddress: "2001:db8::1:54321",
			want:              "2001:db8::1",
		},
		{
			name:       "No CloudFront header uses fallback",
			fallbackIP: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cloudFrontAddress != "" {
				c.Request.Header.Set("CloudFront-Viewer-Address", tt.cloudFrontAddress)
			}
			if tt.fallbackIP != "" {
				c.Request.RemoteAddr = tt.fallbackIP + ":8080"
			}

			if got := GetRealClientIP(c); got != tt.want {
				t.Errorf("GetRealClientIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewNopLogger()))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	t.Run("generates request id when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if got := w.Header().Get("X-Request-ID"); !strings.HasPrefix(got, "req-") {
			t.Errorf("X-Request-ID = %q, want req- prefix", got)
		}
	})

	t.Run("echoes caller supplied request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		r.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("X-Request-ID = %q, want abc-123", got)
		}
	})
}

func TestMiddleware_RecoversFromPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
