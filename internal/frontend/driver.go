// Package frontend holds what the desktop and terminal clients share: the
// per-tick driver that feeds a match and the palette both draw with.
package frontend

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/hud"
	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/replay"
)

// ErrSourceDone is returned by Step once a replay source runs out.
var ErrSourceDone = errors.New("input source exhausted")

// Source yields the level state for the next tick. *replay.Reader is one.
type Source interface {
	Next() (input.Held, error)
}

// SourceFunc adapts a device poll to Source.
type SourceFunc func() input.Held

func (f SourceFunc) Next() (input.Held, error) { return f(), nil }

type fanout []game.Sink

func (f fanout) Emit(e game.Event) {
	for _, s := range f {
		s.Emit(e)
	}
}

type Option func(*Driver)

// WithSounds adds a sink that hears every event, typically an sfx.Player.
func WithSounds(s game.Sink) Option { return func(d *Driver) { d.extra = append(d.extra, s) } }

// WithRecorder writes every tick's input to rec.
func WithRecorder(rec *replay.Recorder) Option { return func(d *Driver) { d.rec = rec } }

func WithLogger(l *zap.Logger) Option { return func(d *Driver) { d.log = l } }

// WithMatchOptions passes options through to game.NewMatch.
func WithMatchOptions(opts ...game.Option) Option {
	return func(d *Driver) { d.matchOpts = append(d.matchOpts, opts...) }
}

// Driver steps a match once per frame from a Source and keeps the HUD in
// sync.
type Driver struct {
	match   *game.Match
	board   *hud.Board
	src     Source
	adapter input.Adapter

	rec       *replay.Recorder
	extra     []game.Sink
	matchOpts []game.Option
	log       *zap.Logger

	state game.GameState
}

func NewDriver(t game.Tuning, s game.Settings, src Source, opts ...Option) *Driver {
	d := &Driver{
		board: hud.NewBoard(s),
		src:   src,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	sinks := append(fanout{d.board}, d.extra...)
	mopts := append([]game.Option{game.WithSink(sinks), game.WithLogger(d.log)}, d.matchOpts...)
	d.match = game.NewMatch(t, s, mopts...)
	d.state = d.match.State()
	return d
}

// Step advances one tick. It returns ErrSourceDone when the source ends.
func (d *Driver) Step() error {
	h, err := d.src.Next()
	if errors.Is(err, io.EOF) {
		return ErrSourceDone
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if d.rec != nil {
		if err := d.rec.Record(h); err != nil {
			return err
		}
	}

	d.match.Step(d.adapter.Sample(h))
	d.state = d.match.State()
	d.board.Update(d.state)
	return nil
}

// State is the state after the last Step.
func (d *Driver) State() *game.GameState { return &d.state }

func (d *Driver) Board() *hud.Board { return d.board }

func (d *Driver) Hoop() game.Hoop { return d.match.Hoop() }

func (d *Driver) Tuning() game.Tuning { return d.match.Tuning() }

func (d *Driver) Over() bool { return d.match.Over() }

// Close flushes the recorder, if any.
func (d *Driver) Close() error {
	if d.rec == nil {
		return nil
	}
	if err := d.rec.Flush(); err != nil {
		return fmt.Errorf("flush replay: %w", err)
	}
	d.log.Info("replay saved", zap.Int("frames", d.rec.Frames()))
	return nil
}
