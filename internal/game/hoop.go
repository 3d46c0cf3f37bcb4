package game

import (
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/physics"
)

// Hoop is the static geometry around the basket: the rim the ball bounces
// off, and the Entry and Exit trigger zones stacked above and below it.
type Hoop struct {
	Rim   physics.Rim
	Entry physics.Rect
	Exit  physics.Rect
}

// Zone ids in contact drain order.
const (
	ZoneEntry = iota
	ZoneExit
)

func NewHoop(t *Tuning) Hoop {
	left := t.HoopX - t.RimHalfWidth
	right := t.HoopX + t.RimHalfWidth
	inner := t.RimHalfWidth - t.RimRadius

	return Hoop{
		Rim: physics.Rim{
			LeftX:                left,
			RightX:               right,
			Y:                    t.RimY,
			Radius:               t.RimRadius,
			BackboardX:           right + t.BackboardOffset,
			BackboardTopY:        t.RimY - t.BackboardHeight + 6,
			BackboardBottom:      t.RimY + 6,
			Restitution:          t.RimRestitution,
			BackboardRestitution: t.BackboardRestitution,
		},
		Entry: physics.Rect{
			MinX: t.HoopX - inner,
			MinY: t.RimY - t.EntryDepth,
			MaxX: t.HoopX + inner,
			MaxY: t.RimY,
		},
		Exit: physics.Rect{
			MinX: t.HoopX - inner,
			MinY: t.RimY + t.ExitGap,
			MaxX: t.HoopX + inner,
			MaxY: t.RimY + t.ExitGap + t.ExitDepth,
		},
	}
}

// onEntry arms the basket when a free ball drops into the rim.
func (m *Match) onEntry() {
	s := &m.state
	if s.Ball.Body.VY <= 0 {
		return
	}
	if s.Possession.Kind() == KindCarried || s.Dunk.Phase != DunkNone {
		return
	}
	s.Ball.EnteredHoop = true
}

// onExit scores an armed ball that keeps falling through the net.
func (m *Match) onExit() {
	s := &m.state
	if !s.Ball.EnteredHoop || s.Ball.Body.VY <= 0 {
		return
	}
	s.Ball.EnteredHoop = false

	team := NoTeam
	if s.Ball.LastOwner != NoActor {
		team = s.Actors[s.Ball.LastOwner].Team
	}
	if team == NoTeam {
		m.log.Warn("basket without a shooter", zap.Uint32("tick", s.Tick))
		return
	}
	m.score(team, false)
}

// score credits a basket and emits the score event.
func (m *Match) score(team Team, dunk bool) {
	s := &m.state
	pts := m.tuning.BasketPoints
	s.Score[team] += pts
	m.emit(Event{
		Kind:   EventScore,
		Team:   team,
		Points: pts,
		Total:  s.Score[team],
		Dunk:   dunk,
	})
	m.log.Debug("score",
		zap.Stringer("team", team),
		zap.Int("total", s.Score[team]),
		zap.Bool("dunk", dunk),
	)
}
