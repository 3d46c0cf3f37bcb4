package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/middleware"
)

// DefaultMaxSessions caps concurrent sessions when HubConfig leaves it zero.
const DefaultMaxSessions = 100

// sanitizeNickname validates and cleans a nickname.
// Strips invalid chars, enforces 2-12 rune length, ensures valid UTF-8.
func sanitizeNickname(raw string) string {
	if !utf8.ValidString(raw) {
		return "Player"
	}
	cleaned := []rune{}
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '-' || r == ' ' ||
			(r >= 0x0400 && r <= 0x04FF) {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < 2 {
		return "Player"
	}
	if len(cleaned) > 12 {
		cleaned = cleaned[:12]
	}
	return string(cleaned)
}

// SessionStarter runs one single-player session on an accepted connection.
// StartSession must not block. The returned channel closes once the session
// has stopped, which it must do after the connection closes.
type SessionStarter interface {
	StartSession(conn *Conn) (done <-chan struct{})
}

// HubStats holds live server metrics.
type HubStats struct {
	ActiveSessions   int64  `json:"activeSessions"`
	TotalConnections uint64 `json:"totalConnections"`
	Rejected         uint64 `json:"rejected"`
}

type HubConfig struct {
	MaxSessions    int
	OriginPatterns []string
}

type Hub struct {
	starter SessionStarter
	cfg     HubConfig

	activeSessions   atomic.Int64
	totalConnections atomic.Uint64
	rejected         atomic.Uint64

	limiter *middleware.IPRateLimiter
	log     *zap.Logger
}

func NewHub(starter SessionStarter, limiter *middleware.IPRateLimiter, cfg HubConfig, log *zap.Logger) *Hub {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		starter: starter,
		cfg:     cfg,
		limiter: limiter,
		log:     log,
	}
}

// Stats returns a snapshot of current server metrics.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveSessions:   h.activeSessions.Load(),
		TotalConnections: h.totalConnections.Load(),
		Rejected:         h.rejected.Load(),
	}
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := middleware.RealIP(r)
	if h.limiter != nil && !h.limiter.ConnectAllowed(ip) {
		h.rejected.Add(1)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.cfg.OriginPatterns) > 0 {
		acceptOpts.OriginPatterns = h.cfg.OriginPatterns
	}

	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
		h.log.Warn("ws accept error", zap.Error(err))
		return
	}

	// Input frames are well under 200 bytes.
	ws.SetReadLimit(1024)

	h.totalConnections.Add(1)
	id := uuid.NewString()
	conn := NewConn(ws, id, ip, h.limiter, h.log)
	conn.Nickname = sanitizeNickname(r.URL.Query().Get("name"))
	h.log.Info("new connection",
		zap.String("conn", id),
		zap.String("nickname", conn.Nickname),
		zap.String("ip", ip),
		zap.Uint64("total", h.totalConnections.Load()),
	)

	// Background context so the connection outlives the upgrade request.
	go conn.WriteLoop(context.Background())

	defer func() {
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
	}()

	if h.activeSessions.Add(1) > int64(h.cfg.MaxSessions) {
		h.activeSessions.Add(-1)
		h.rejected.Add(1)
		h.log.Warn("max sessions reached", zap.String("conn", id))
		conn.CloseWith(websocket.StatusTryAgainLater, "server full")
		return
	}

	done := h.starter.StartSession(conn)

	// Block until the connection is closed; returning would tear down the
	// hijacked TCP connection.
	<-conn.Done()
	<-done
	h.activeSessions.Add(-1)
	h.log.Info("connection closed", zap.String("conn", id))
}
