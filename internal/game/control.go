package game

import (
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/input"
)

// control turns one actor's snapshot into velocity commands and actions.
// Every action is guarded; an illegal action is dropped.
func (m *Match) control(a *Actor, in input.Snapshot) {
	s := &m.state
	m.applyMovement(a, in)

	carrying := s.Possession.CarriedBy(a.ID)
	dunking := s.Dunk.InProgress() && s.Dunk.Dunker == a.ID

	switch {
	case in.ShootPressed && a.Body.IsGrounded():
		if carrying && s.Dunk.Phase == DunkNone && m.inDunkRange(a.Body.X) {
			m.startDunk(a)
		} else {
			m.jump(a, m.tuning.JumpVelocity)
		}
	case in.ShootReleased && !a.Body.IsGrounded() && carrying && !dunking:
		m.shoot(a)
		return
	}

	if in.PassPressed && carrying && !dunking && a.Controlled {
		if m.pass(a) {
			return
		}
	}

	if in.StealPressed {
		if in.Modifier {
			m.tryShove(a)
		} else {
			m.trySteal(a)
		}
	}
}

// switchActive hands the stick to the next controlled actor.
func (m *Match) switchActive() {
	s := &m.state
	roster := s.Controlled()
	if len(roster) < 2 {
		return
	}

	prev := s.Active
	next := roster[0]
	for i, id := range roster {
		if id == prev {
			next = roster[(i+1)%len(roster)]
			break
		}
	}

	p := &s.Actors[prev]
	if p.Body.IsGrounded() {
		p.Body.VX = 0
	}
	s.Active = next
	m.log.Debug("switch", zap.Int("from", int(prev)), zap.Int("to", int(next)))
}
