package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmic/seat-service/internal/limiter"
)

func chatRequest(t *testing.T, e *echo.Echo, sourceIP string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	if sourceIP != "" {
		req.Header.Set("X-Forwarded-For", sourceIP)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatAdmissionBurstThenThrottle(t *testing.T) {
	e := echo.New()
	l := limiter.New(2*time.Second, 3)
	e.POST("/v1/chat", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, ChatAdmission(l))

	for i := 0; i < 3; i++ {
		rec := chatRequest(t, e, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d inside burst", i+1)
	}

	rec := chatRequest(t, e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"slow down"}`, rec.Body.String())

	// another source is unaffected
	rec = chatRequest(t, e, "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSourceIDHeaderPrecedence(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "forwarded-for wins",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1", "X-Real-IP": "5.6.7.8"},
			want:    "1.2.3.4",
		},
		{
			name:    "cloudflare header",
			headers: map[string]string{"CF-Connecting-IP": "9.9.9.9"},
			want:    "9.9.9.9",
		},
		{
			name:    "real-ip fallback",
			headers: map[string]string{"X-Real-IP": "5.6.7.8"},
			want:    "5.6.7.8",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tc.want, SourceID(c))
		})
	}
}

func TestSourceIDUnknownFallback(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	req.RemoteAddr = ""
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "unknown", SourceID(c))
}
