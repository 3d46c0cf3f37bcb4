package game

import (
	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/physics"
)

func newActor(t *Tuning, id ActorID, team Team, x float32, facing int8, controlled bool) Actor {
	return Actor{
		ID:         id,
		Team:       team,
		Body:       physics.NewBody(x, t.FloorY-t.ActorHeight/2, t.ActorWidth, t.ActorHeight),
		Facing:     facing,
		Controlled: controlled,
	}
}

// applyMovement sets horizontal velocity from the stick. Air momentum is
// kept when the stick is released; a committed dunker only gets nudges.
func (m *Match) applyMovement(a *Actor, in input.Snapshot) {
	s := &m.state
	if s.Dunk.Phase == DunkApproaching && s.Dunk.Dunker == a.ID {
		m.nudgeDunk(a, in.MoveX)
		return
	}

	if in.MoveX != 0 {
		a.Body.VX = in.MoveX * m.tuning.MoveSpeed
		a.Facing = int8(sign(in.MoveX))
		return
	}
	if a.Body.IsGrounded() {
		a.Body.VX = 0
	}
}

// jump takes off from the floor with v.
func (m *Match) jump(a *Actor, v float32) {
	a.Body.VY = v
	a.Body.Grounded = false
}

func (m *Match) updateHint(a *Actor) {
	s := &m.state
	switch {
	case s.Dunk.InProgress() && s.Dunk.Dunker == a.ID:
		a.Hint = HintDunking
	case s.Possession.CarriedBy(a.ID) && a.Body.IsGrounded() && m.inDunkRange(a.Body.X):
		a.Hint = HintReadyToDunk
	case s.Possession.CarriedBy(a.ID):
		a.Hint = HintHasBall
	default:
		a.Hint = HintIdle
	}
}
