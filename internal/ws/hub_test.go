package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vladimirvolkov/courtside/internal/middleware"
)

// echoStarter answers every ping with a pong until the peer leaves.
type echoStarter struct {
	nicknames chan string
}

func (e *echoStarter) StartSession(conn *Conn) <-chan struct{} {
	done := make(chan struct{})
	if e.nicknames != nil {
		e.nicknames <- conn.Nickname
	}
	go func() {
		defer close(done)
		for msg := range conn.ReadLoop(context.Background()) {
			if msg.Type == MsgPing {
				pong, _ := NewMessage(MsgPong, msg.Tick, PongPayload{})
				conn.Send(pong)
			}
		}
	}()
	return done
}

func newHubServer(t *testing.T, starter SessionStarter, limiter *middleware.IPRateLimiter, cfg HubConfig) (*Hub, string) {
	t.Helper()
	hub := NewHub(starter, limiter, cfg, zaptest.NewLogger(t))
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, target string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, target, nil)
	require.NoError(t, err)
	return c
}

func roundTrip(t *testing.T, c *websocket.Conn, msg Message) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := Encode(msg)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
	_, got, err := c.Read(ctx)
	require.NoError(t, err)
	reply, err := Decode(got)
	require.NoError(t, err)
	return reply
}

func TestHub_SessionLifecycle(t *testing.T) {
	starter := &echoStarter{nicknames: make(chan string, 1)}
	hub, wsURL := newHubServer(t, starter, nil, HubConfig{})

	c := dial(t, wsURL+"?name="+url.QueryEscape("<b>Ann</b>"))
	assert.Equal(t, "bAnnb", <-starter.nicknames)

	ping, err := NewMessage(MsgPing, 7, PingPayload{ClientTime: 1})
	require.NoError(t, err)
	reply := roundTrip(t, c, ping)
	assert.Equal(t, MsgPong, reply.Type)
	assert.Equal(t, uint32(7), reply.Tick)

	stats := hub.Stats()
	assert.Equal(t, int64(1), stats.ActiveSessions)
	assert.Equal(t, uint64(1), stats.TotalConnections)

	c.Close(websocket.StatusNormalClosure, "")
	assert.Eventually(t, func() bool { return hub.Stats().ActiveSessions == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsWhenFull(t *testing.T) {
	hub, wsURL := newHubServer(t, &echoStarter{}, nil, HubConfig{MaxSessions: 1})

	first := dial(t, wsURL)
	defer first.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool { return hub.Stats().ActiveSessions == 1 }, 5*time.Second, 10*time.Millisecond)

	second := dial(t, wsURL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := second.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusTryAgainLater, websocket.CloseStatus(err))
	assert.Equal(t, uint64(1), hub.Stats().Rejected)
}

func TestHub_PerIPLimit(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 100, time.Second)
	defer limiter.Close()
	hub, wsURL := newHubServer(t, &echoStarter{}, limiter, HubConfig{})

	first := dial(t, wsURL)
	defer first.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, uint64(1), hub.Stats().Rejected)
}

func TestSanitizeNickname(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "Player"},
		{"a", "Player"},
		{"Ann", "Ann"},
		{"a very long nickname", "a very long "},
		{"<script>", "script"},
		{"Вася", "Вася"},
		{"\xff\xfe", "Player"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeNickname(tt.in), tt.in)
	}
}

func TestMessage_EnvelopeShape(t *testing.T) {
	msg, err := NewMessage(MsgScored, 42, ScoredPayload{Team: 1, Points: 2, Score: [2]int{0, 2}})
	require.NoError(t, err)
	data, err := Encode(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":132,"tick":42,"payload":{"team":1,"points":2,"score":[0,2],"dunk":false}}`, string(data))
}
