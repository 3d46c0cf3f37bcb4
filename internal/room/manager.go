package room

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/ws"
)

// Manager starts a Room for each accepted connection. Tuning and settings
// may be swapped at runtime; running rooms keep what they started with.
type Manager struct {
	mu       sync.RWMutex
	tuning   game.Tuning
	settings game.Settings

	results Recorder
	log     *zap.Logger
	seed    func() uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(t game.Tuning, s game.Settings, results Recorder, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:      ctx,
		cancel:   cancel,
		tuning:   t,
		settings: s,
		results:  results,
		log:      log,
		seed:     func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// Configure replaces the tuning and settings used by new rooms.
func (m *Manager) Configure(t game.Tuning, s game.Settings) {
	m.mu.Lock()
	m.tuning, m.settings = t, s
	m.mu.Unlock()
	m.log.Info("match config updated", zap.Int("opponents", s.Opponents), zap.Float32("duration", s.DurationSecs))
}

// StartSession implements ws.SessionStarter. A zero configured seed gives
// every session a fresh one.
func (m *Manager) StartSession(conn *ws.Conn) <-chan struct{} {
	return m.start(conn, conn.ID, conn.Nickname)
}

func (m *Manager) start(peer Peer, id, nickname string) <-chan struct{} {
	m.mu.RLock()
	cfg := Config{
		SessionID: id,
		Nickname:  nickname,
		Tuning:    m.tuning,
		Settings:  m.settings,
	}
	m.mu.RUnlock()
	if cfg.Settings.Seed == 0 {
		cfg.Settings.Seed = m.seed()
	}

	r := New(peer, cfg, WithRecorder(m.results), WithLogger(m.log))
	m.wg.Add(1)
	r.Start(m.ctx)
	go func() {
		defer m.wg.Done()
		<-r.Done()
	}()
	return r.Done()
}

// Shutdown stops every room and waits for them to exit.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
}
