// Package sfx plays short synthesized cues for match events.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/game"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

var (
	chimeScore = []note{{523.25, 80 * time.Millisecond}, {659.25, 80 * time.Millisecond}, {783.99, 140 * time.Millisecond}}
	chimeDunk  = []note{{392, 90 * time.Millisecond}, {523.25, 90 * time.Millisecond}, {659.25, 90 * time.Millisecond}, {1046.5, 200 * time.Millisecond}}
	chimeSteal = []note{{880, 60 * time.Millisecond}, {1174.66, 90 * time.Millisecond}}
	chimeMiss  = []note{{220, 120 * time.Millisecond}}
	chimeShove = []note{{110, 70 * time.Millisecond}, {82.41, 110 * time.Millisecond}}
	chimeShot  = []note{{660, 50 * time.Millisecond}}
	buzzer     = []note{{180, 600 * time.Millisecond}}
)

// notesFor picks the cue for an event; nil means silence.
func notesFor(e game.Event) []note {
	switch e.Kind {
	case game.EventScore:
		if e.Dunk {
			return chimeDunk
		}
		return chimeScore
	case game.EventGameOver:
		return buzzer
	case game.EventFeedback:
		switch e.Cue {
		case game.CueSteal:
			return chimeSteal
		case game.CueMiss:
			return chimeMiss
		case game.CueShove:
			return chimeShove
		case game.CueShot:
			return chimeShot
		}
	}
	return nil
}

// tone is a sine oscillator with a short linear fade at both ends to avoid
// clicks.
type tone struct {
	freq  float64
	phase float64
	pos   int
	total int
	fade  int
}

func newTone(freq float64, d time.Duration) *tone {
	total := sampleRate.N(d)
	fade := sampleRate.N(5 * time.Millisecond)
	if fade*2 > total {
		fade = total / 2
	}
	return &tone{freq: freq, total: total, fade: fade}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		gain := 1.0
		switch {
		case t.pos < t.fade:
			gain = float64(t.pos) / float64(t.fade)
		case t.pos >= t.total-t.fade:
			gain = float64(t.total-t.pos) / float64(t.fade)
		}
		v := 0.25 * gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func sequence(notes []note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = newTone(n.freq, n.dur)
	}
	return beep.Seq(parts...)
}

// Player implements game.Sink. Until Init succeeds every call is a no-op,
// so headless hosts and machines without audio keep working.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	enabled bool
	log     *zap.Logger
}

func New(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{mixer: &beep.Mixer{}, log: log}
}

// Init opens the audio device. A failure is logged and leaves the player
// silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		p.log.Warn("audio unavailable, sound disabled", zap.Error(err))
		return err
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return nil
}

// SetVolume sets the gain in halvings; 0 is unchanged, -1 is half.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *Player) Emit(e game.Event) {
	notes := notesFor(e)
	if notes == nil {
		return
	}
	p.mu.Lock()
	enabled, volume := p.enabled, p.volume
	p.mu.Unlock()
	if !enabled {
		return
	}

	s := &effects.Volume{Streamer: sequence(notes), Base: 2, Volume: volume}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Clear()
	p.enabled = false
}
