// Package hud keeps the presentation state both clients draw: the score
// line, the phase banner and floating feedback text.
package hud

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vladimirvolkov/courtside/internal/game"
)

// RisePixels is how far feedback text floats up over its lifetime.
const RisePixels = 48

// FlashTicks is how long the score line highlights the team that scored.
const FlashTicks = 45

// Floater is one piece of feedback text.
type Floater struct {
	Text  string
	Color uint32
	X, Y  float32
	TTL   int
	Age   int
}

// Progress runs from 0 when spawned to 1 when expired.
func (f Floater) Progress() float32 {
	if f.TTL <= 0 {
		return 1
	}
	return float32(f.Age) / float32(f.TTL)
}

// Position is the drawn position, eased upward from the spawn point.
func (f Floater) Position() (x, y float32) {
	p := f.Progress()
	ease := 1 - (1-p)*(1-p)
	return f.X, f.Y - RisePixels*ease
}

// Alpha fades out over the last third of the lifetime.
func (f Floater) Alpha() float32 {
	p := f.Progress()
	if p < 2.0/3 {
		return 1
	}
	return float32(math.Max(0, float64(3*(1-p))))
}

// Board implements game.Sink.
type Board struct {
	score    [2]int
	flash    game.Team
	flashTTL int

	phase    game.MatchPhase
	timer    float32
	clock    float32
	duration float32
	winner   game.Team

	floaters []Floater
}

func NewBoard(s game.Settings) *Board {
	return &Board{
		flash:    game.NoTeam,
		winner:   game.NoTeam,
		duration: s.DurationSecs,
	}
}

func (b *Board) Emit(e game.Event) {
	switch e.Kind {
	case game.EventScore:
		if e.Team == game.TeamRed || e.Team == game.TeamPurple {
			b.score[e.Team] = e.Total
			b.flash = e.Team
			b.flashTTL = FlashTicks
		}
	case game.EventFeedback:
		b.floaters = append(b.floaters, Floater{
			Text:  e.Text,
			Color: e.Color,
			X:     e.X,
			Y:     e.Y,
			TTL:   e.TTL,
		})
	case game.EventGameOver:
		b.winner = e.Team
	}
}

// Update ages feedback by one tick and syncs the clock and phase from s.
func (b *Board) Update(s game.GameState) {
	kept := b.floaters[:0]
	for _, f := range b.floaters {
		f.Age++
		if f.Age < f.TTL {
			kept = append(kept, f)
		}
	}
	b.floaters = kept

	if b.flashTTL > 0 {
		b.flashTTL--
		if b.flashTTL == 0 {
			b.flash = game.NoTeam
		}
	}

	b.score = s.Score
	b.phase = s.Phase
	b.timer = s.PhaseTimer
	b.clock = s.Clock
	if s.Phase == game.PhaseGameOver {
		b.winner = s.Winner
	}
}

// Floaters returns the live feedback, oldest first.
func (b *Board) Floaters() []Floater { return b.floaters }

func (b *Board) Score() [2]int { return b.score }

// Flash reports the team whose score is highlighted, or NoTeam.
func (b *Board) Flash() game.Team { return b.flash }

// ScoreLine is "RED 4 - 2 PURPLE  01:45". Endless matches count up.
func (b *Board) ScoreLine() string {
	whole := int(b.clock)
	if b.duration > 0 {
		whole = int(math.Ceil(math.Max(0, float64(b.duration-b.clock))))
	}
	return fmt.Sprintf("RED %d - %d PURPLE  %02d:%02d",
		b.score[game.TeamRed], b.score[game.TeamPurple], whole/60, whole%60)
}

// Banner is the centre text: the countdown, or the result once over.
func (b *Board) Banner() string {
	switch b.phase {
	case game.PhaseCountdown:
		return strconv.Itoa(int(math.Ceil(float64(b.timer))))
	case game.PhaseGameOver:
		switch b.winner {
		case game.TeamRed:
			return "RED WINS"
		case game.TeamPurple:
			return "PURPLE WINS"
		}
		return "DRAW"
	}
	return ""
}
