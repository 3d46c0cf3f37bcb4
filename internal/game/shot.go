package game

import (
	"math"

	"go.uber.org/zap"
)

// Accuracy is the release quality tier of a jump shot.
type Accuracy uint8

const (
	Perfect Accuracy = iota
	Good
	OK
)

func (a Accuracy) String() string {
	switch a {
	case Perfect:
		return "PERFECT"
	case Good:
		return "GOOD"
	}
	return "OK"
}

// Value is the nominal accuracy of the tier.
func (a Accuracy) Value() float32 {
	switch a {
	case Perfect:
		return 1.0
	case Good:
		return 0.9
	}
	return 0.7
}

// Jitter is the maximum relative velocity error the tier allows.
func (a Accuracy) Jitter(t *Tuning) float32 {
	switch a {
	case Perfect:
		return 0
	case Good:
		return t.GoodJitter
	}
	return t.OKJitter
}

// ClassifyRelease grades a shot by the shooter's vertical speed at release.
// Releasing at the top of the jump is best; long shots get wider bands.
func ClassifyRelease(t *Tuning, vy, dist float32) Accuracy {
	perfect, good := t.PerfectShort, t.GoodShort
	if dist >= t.LongRange {
		perfect, good = t.PerfectLong, t.GoodLong
	}
	speed := absF(vy)
	switch {
	case speed < perfect:
		return Perfect
	case speed < good:
		return Good
	}
	return OK
}

// ShotFlightTime is how long a shot over dist stays in the air.
func ShotFlightTime(t *Tuning, dist float32) float32 {
	ft := dist / t.ShotPace
	if ft < t.ShotMinFlightTime {
		ft = t.ShotMinFlightTime
	}
	if t.ShotMaxFlightTime > 0 && ft > t.ShotMaxFlightTime {
		ft = t.ShotMaxFlightTime
	}
	return ft
}

// SolveArc returns the launch velocity that carries a projectile by
// (dx, dy) in exactly ft seconds under gravity g.
func SolveArc(dx, dy, ft, g float32) (vx, vy float32) {
	vx = dx / ft
	vy = (dy - 0.5*g*ft*ft) / ft
	return vx, vy
}

// shoot launches the carried ball at the hoop.
func (m *Match) shoot(a *Actor) {
	t := &m.tuning
	s := &m.state

	bx, by := s.Ball.Body.Position()
	dx := t.HoopX - bx
	dy := t.RimY - by
	dist := hypot(dx, dy)

	ft := ShotFlightTime(t, dist)
	vx, vy := SolveArc(dx, dy, ft, t.Gravity)

	_, releaseVY := a.Body.Velocity()
	acc := ClassifyRelease(t, releaseVY, dist)
	if j := acc.Jitter(t); j > 0 {
		vx *= 1 + (m.rng.Float32()*2-1)*j
		vy *= 1 + (m.rng.Float32()*2-1)*j
	}

	m.release(vx, vy, t.ShootPickupCooldown)
	m.feedback(CueShot, acc.String(), accuracyColor(acc), a.Body.X, a.Body.Top())
	m.log.Debug("shot",
		actorField(a),
		zap.Float32("dist", dist),
		zap.Float32("releaseVY", releaseVY),
		zap.String("accuracy", acc.String()),
		zap.Float32("vx", vx),
		zap.Float32("vy", vy),
	)
}

// pass lobs the ball to the other controlled actor.
func (m *Match) pass(a *Actor) bool {
	s := &m.state
	mate := m.teammate(a.ID)
	if mate == NoActor {
		return false
	}
	target := &s.Actors[mate]

	bx, by := s.Ball.Body.Position()
	vx, vy := SolveArc(target.Body.X-bx, target.Body.Y-by, m.tuning.PassFlightTime, m.tuning.Gravity)
	m.release(vx, vy, m.tuning.PassPickupCooldown)
	m.log.Debug("pass", actorField(a), zap.Int("to", int(mate)))
	return true
}

// teammate returns the other controlled actor, for a roster of two.
func (m *Match) teammate(id ActorID) ActorID {
	for _, other := range m.state.Controlled() {
		if other != id {
			return other
		}
	}
	return NoActor
}

func accuracyColor(a Accuracy) uint32 {
	switch a {
	case Perfect:
		return ColorGold
	case Good:
		return ColorGreen
	}
	return ColorWhite
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func hypot(dx, dy float32) float32 {
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
