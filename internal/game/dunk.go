package game

import "go.uber.org/zap"

type DunkPhase uint8

const (
	DunkNone DunkPhase = iota
	DunkApproaching
	DunkCompleted
)

func (p DunkPhase) String() string {
	switch p {
	case DunkApproaching:
		return "approaching"
	case DunkCompleted:
		return "completed"
	}
	return "none"
}

// Dunk tracks one committed dunk from takeoff until the dunker lands.
type Dunk struct {
	Phase       DunkPhase `json:"phase"`
	Dunker      ActorID   `json:"dunker"`
	WasAirborne bool      `json:"wasAirborne"`
}

// InProgress reports whether a dunk has started and its dunker has not
// landed yet.
func (d Dunk) InProgress() bool { return d.Phase != DunkNone }

// inDunkRange reports whether a takeoff from x becomes a dunk.
func (m *Match) inDunkRange(x float32) bool {
	return absF(x-m.tuning.HoopX) <= m.tuning.DunkRange
}

// startDunk commits a to a dunk approach toward the rim.
func (m *Match) startDunk(a *Actor) {
	t := &m.tuning
	vx := (t.HoopX - a.Body.X) / t.DunkApproachTime
	speed := clampF(absF(vx), t.DunkMinSpeed, t.DunkMaxSpeed)
	if vx < 0 {
		vx = -speed
	} else {
		vx = speed
	}
	a.Body.SetVelocity(vx, t.DunkJumpVelocity)
	a.Body.Grounded = false
	if vx < 0 {
		a.Facing = -1
	} else {
		a.Facing = 1
	}

	m.state.Dunk = Dunk{Phase: DunkApproaching, Dunker: a.ID}
	m.log.Debug("dunk start", actorField(a), zap.Float32("vx", vx))
}

// nudgeDunk applies the limited air control a dunker keeps.
func (m *Match) nudgeDunk(a *Actor, moveX float32) {
	if moveX == 0 {
		return
	}
	t := &m.tuning
	vx := a.Body.VX + sign(moveX)*t.DunkNudge
	a.Body.VX = clampF(vx, -t.DunkMaxSpeed, t.DunkMaxSpeed)
}

// updateDunk runs after physics: it completes, aborts or resets the dunk.
func (m *Match) updateDunk() {
	s := &m.state
	d := &s.Dunk
	if d.Phase == DunkNone {
		return
	}
	t := &m.tuning
	a := &s.Actors[d.Dunker]

	if !a.Body.IsGrounded() {
		d.WasAirborne = true
	}

	if d.Phase == DunkApproaching {
		switch {
		case !s.Possession.CarriedBy(d.Dunker):
			d.Phase = DunkCompleted
			m.log.Debug("dunk aborted", actorField(a))
		case absF(a.Body.X-t.DunkRimX) < t.DunkRimTolerance && a.Body.Y <= t.DunkHeightY:
			m.completeDunk(a)
		}
	}

	if d.WasAirborne && a.Body.IsGrounded() {
		*d = Dunk{Phase: DunkNone, Dunker: NoActor}
	}
}

// completeDunk stuffs the ball through the rim and scores it directly.
func (m *Match) completeDunk(a *Actor) {
	t := &m.tuning
	s := &m.state

	s.Dunk.Phase = DunkCompleted
	s.Possession = InFlight()
	s.Ball.Body.SetPosition(t.HoopX, t.RimY)
	s.Ball.Body.SetVelocity(0, t.DunkBallDropSpeed)
	s.Ball.Body.SetGravityEnabled(true)
	s.Ball.EnteredHoop = false
	s.Ball.PickupCooldown = t.ShootPickupCooldown

	m.feedback(CueDunk, "DUNK!", ColorOrange, a.Body.X, a.Body.Top())
	m.score(a.Team, true)
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

func clampF(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
