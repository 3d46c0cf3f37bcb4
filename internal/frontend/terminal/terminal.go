// Package terminal runs a match in a tcell screen. Terminals report key
// presses but not releases, so held keys are synthesised by an
// input.KeyTracker.
package terminal

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/frontend"
	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/input"
)

// Keys returns a live input source reading bindings from tr.
func Keys(tr *input.KeyTracker, b input.Bindings) frontend.SourceFunc {
	return func() input.Held { return b.Resolve(tr.IsDown) }
}

// keyName maps a key event to a binding key name.
func keyName(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return "left", true
	case tcell.KeyRight:
		return "right", true
	case tcell.KeyUp:
		return "up", true
	case tcell.KeyDown:
		return "down", true
	case tcell.KeyEnter:
		return "enter", true
	case tcell.KeyTab, tcell.KeyBacktab:
		return "tab", true
	case tcell.KeyEscape:
		return "escape", true
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return "space", true
		}
		return string(unicode.ToLower(r)), true
	}
	return "", false
}

// shifted reports whether the event implies a held shift key.
func shifted(ev *tcell.EventKey) bool {
	if ev.Modifiers()&tcell.ModShift != 0 || ev.Key() == tcell.KeyBacktab {
		return true
	}
	return ev.Key() == tcell.KeyRune && unicode.IsUpper(ev.Rune())
}

func quits(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape
}

type Options struct {
	// Tracker receives key presses. It may be nil for replays.
	Tracker *input.KeyTracker
	// TickInterval defaults to one game tick.
	TickInterval time.Duration
	Log          *zap.Logger
}

// Run drives d on screen until escape, ctrl-c or ctx ends. The screen must
// already be initialised; Run does not finalise it.
func Run(ctx context.Context, screen tcell.Screen, d *frontend.Driver, opts Options) error {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second / game.TickRate
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := &renderer{screen: screen, tuning: d.Tuning(), hoop: d.Hoop()}

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	footer := ""
	finished := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quits(ev) {
					return nil
				}
				if opts.Tracker == nil {
					continue
				}
				if name, ok := keyName(ev); ok {
					opts.Tracker.Press(name)
				}
				if shifted(ev) {
					opts.Tracker.Press("shift")
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			if !finished && !d.Over() {
				err := d.Step()
				switch {
				case errors.Is(err, frontend.ErrSourceDone):
					log.Info("replay finished", zap.Uint32("tick", d.State().Tick))
					finished = true
					footer = " replay finished - esc to quit "
				case err != nil:
					return err
				}
			}
			r.draw(d.State(), d.Board(), footer)
		}
	}
}
