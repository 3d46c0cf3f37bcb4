// Package room hosts one single-player match per websocket connection.
package room

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/store"
	"github.com/vladimirvolkov/courtside/internal/ws"
)

// Peer is the client side of a session. *ws.Conn implements it.
type Peer interface {
	Send(ws.Message)
	ReadLoop(ctx context.Context) <-chan ws.Message
}

// Recorder stores finished results. *store.ResultStore implements it.
type Recorder interface {
	Record(ctx context.Context, r store.Result) (int64, error)
}

type Config struct {
	SessionID string
	Nickname  string
	Tuning    game.Tuning
	Settings  game.Settings

	// TickInterval defaults to one fixed game tick.
	TickInterval time.Duration
}

type Option func(*Room)

func WithRecorder(rec Recorder) Option { return func(r *Room) { r.results = rec } }

func WithLogger(l *zap.Logger) Option { return func(r *Room) { r.log = l } }

func WithClock(now func() time.Time) Option { return func(r *Room) { r.now = now } }

type Room struct {
	cfg   Config
	peer  Peer
	match *game.Match

	// Fed by the read loop, drained by the game loop.
	adapter input.Adapter
	lastSeq uint32
	inputMu sync.Mutex

	tick      atomic.Uint32
	results   Recorder
	recorded  bool
	startedAt time.Time

	log    *zap.Logger
	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func New(peer Peer, cfg Config, opts ...Option) *Room {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second / game.TickRate
	}
	r := &Room{
		cfg:  cfg,
		peer: peer,
		log:  zap.NewNop(),
		now:  time.Now,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(zap.String("session", cfg.SessionID))
	r.match = game.NewMatch(cfg.Tuning, cfg.Settings, game.WithLogger(r.log))
	return r
}

// Start announces the session and runs it until the peer goes away or ctx
// ends.
func (r *Room) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.startedAt = r.now()

	msg, _ := ws.NewMessage(ws.MsgGameStart, 0, ws.GameStartPayload{
		SessionID: r.cfg.SessionID,
		Seed:      r.cfg.Settings.Seed,
		Names:     []string{r.cfg.Nickname, "CPU"},
	})
	r.peer.Send(msg)

	go r.readLoop(ctx, r.peer.ReadLoop(ctx))

	go func() {
		r.gameLoop(ctx)
		close(r.done)
	}()
}

// Done returns a channel that closes when the room's game loop exits.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Stop ends the session.
func (r *Room) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Room) readLoop(ctx context.Context, msgs <-chan ws.Message) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				r.log.Info("player disconnected")
				r.cancel()
				return
			}
			r.handleMessage(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) handleMessage(msg ws.Message) {
	switch msg.Type {
	case ws.MsgPlayerInput:
		var p ws.PlayerInputPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		r.inputMu.Lock()
		defer r.inputMu.Unlock()
		if p.Seq != 0 && p.Seq <= r.lastSeq {
			return
		}
		r.lastSeq = p.Seq
		r.adapter.Feed(input.Held{MoveX: p.MoveX, MoveY: p.MoveY, Buttons: input.Button(p.Buttons)})

	case ws.MsgPing:
		var ping ws.PingPayload
		if err := json.Unmarshal(msg.Payload, &ping); err != nil {
			return
		}
		pong, _ := ws.NewMessage(ws.MsgPong, r.tick.Load(), ws.PongPayload{
			ClientTime: ping.ClientTime,
			ServerTime: uint64(r.now().UnixMilli()),
		})
		r.peer.Send(pong)
	}
}

func (r *Room) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.step(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// step runs one match tick. After game over the final state has been sent
// and the room idles until the peer leaves.
func (r *Room) step(ctx context.Context) {
	if r.match.Over() {
		return
	}

	r.inputMu.Lock()
	snap := r.adapter.Tick()
	r.inputMu.Unlock()

	events := r.match.Step(snap)
	s := r.match.State()
	r.tick.Store(s.Tick)

	for _, e := range events {
		r.publish(s, e)
		if e.Kind == game.EventGameOver {
			r.record(ctx, s)
		}
	}
	r.broadcastState(s)
}

func (r *Room) publish(s game.GameState, e game.Event) {
	var (
		msg ws.Message
		err error
	)
	switch e.Kind {
	case game.EventScore:
		msg, err = ws.NewMessage(ws.MsgScored, e.Tick, ws.ScoredPayload{
			Team:   int8(e.Team),
			Points: e.Points,
			Score:  s.Score,
			Dunk:   e.Dunk,
		})
	case game.EventFeedback:
		msg, err = ws.NewMessage(ws.MsgFeedback, e.Tick, ws.FeedbackPayload{
			Cue:   e.Cue.String(),
			Text:  e.Text,
			Color: e.Color,
			TTL:   e.TTL,
			X:     e.X,
			Y:     e.Y,
		})
	case game.EventGameOver:
		msg, err = ws.NewMessage(ws.MsgGameOver, e.Tick, ws.GameOverPayload{
			Winner: int8(s.Winner),
			Score:  s.Score,
		})
	default:
		return
	}
	if err != nil {
		r.log.Warn("failed to encode event", zap.Stringer("kind", e.Kind), zap.Error(err))
		return
	}
	r.peer.Send(msg)
}

func (r *Room) record(ctx context.Context, s game.GameState) {
	if r.results == nil || r.recorded {
		return
	}
	r.recorded = true

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	id, err := r.results.Record(ctx, store.Result{
		SessionID:  r.cfg.SessionID,
		Nickname:   r.cfg.Nickname,
		Red:        s.Score[game.TeamRed],
		Purple:     s.Score[game.TeamPurple],
		Winner:     int(s.Winner),
		Ticks:      s.Tick,
		StartedAt:  r.startedAt,
		FinishedAt: r.now(),
	})
	if err != nil {
		r.log.Error("failed to record result", zap.Error(err))
		return
	}
	r.log.Info("result recorded", zap.Int64("id", id))
}

func (r *Room) broadcastState(s game.GameState) {
	msg, err := ws.NewMessage(ws.MsgGameState, s.Tick, s)
	if err != nil {
		r.log.Warn("failed to encode state", zap.Error(err))
		return
	}
	r.peer.Send(msg)
}
