package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestConnectAllowed_PerIPCap(t *testing.T) {
	rl := newLimiter(2, 10, time.Second, time.Now)

	assert.True(t, rl.ConnectAllowed("1.1.1.1"))
	assert.True(t, rl.ConnectAllowed("1.1.1.1"))
	assert.False(t, rl.ConnectAllowed("1.1.1.1"))
	assert.True(t, rl.ConnectAllowed("2.2.2.2"), "caps are per IP")

	rl.Disconnect("1.1.1.1")
	assert.True(t, rl.ConnectAllowed("1.1.1.1"))
}

func TestDisconnect_NeverNegative(t *testing.T) {
	rl := newLimiter(1, 10, time.Second, time.Now)
	rl.Disconnect("unknown")
	assert.True(t, rl.ConnectAllowed("3.3.3.3"))
	rl.Disconnect("3.3.3.3")
	rl.Disconnect("3.3.3.3")
	assert.True(t, rl.ConnectAllowed("3.3.3.3"))
	assert.False(t, rl.ConnectAllowed("3.3.3.3"))
}

func TestMessageAllowed_TokenBucket(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	rl := newLimiter(4, 3, time.Second, clk.now)
	rl.ConnectAllowed("ip")

	for i := 0; i < 3; i++ {
		assert.True(t, rl.MessageAllowed("ip"), "message %d", i)
	}
	assert.False(t, rl.MessageAllowed("ip"))

	clk.t = clk.t.Add(999 * time.Millisecond)
	assert.False(t, rl.MessageAllowed("ip"), "no refill before a full window")

	clk.t = clk.t.Add(10 * time.Second)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.MessageAllowed("ip"))
	}
	assert.False(t, rl.MessageAllowed("ip"), "refill caps at the rate")
}

func TestSweep_DropsIdleVisitors(t *testing.T) {
	rl := newLimiter(4, 3, time.Second, time.Now)
	rl.ConnectAllowed("a")
	rl.ConnectAllowed("b")
	rl.Disconnect("b")

	rl.sweep()
	assert.Equal(t, 1, rl.Tracked())
}

func TestClose_StopsSweeper(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewIPRateLimiter(4, 120, time.Second)
	rl.Close()
	rl.Close()
	// cleanup exits asynchronously; goleak retries until it is gone.
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{"forwarded chain", "10.0.0.1, 172.16.0.1", "127.0.0.1:5555", "10.0.0.1"},
		{"forwarded single", " 10.0.0.2 ", "127.0.0.1:5555", "10.0.0.2"},
		{"remote addr", "", "192.168.1.4:40000", "192.168.1.4"},
		{"bare remote", "", "pipe", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, RealIP(r))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
