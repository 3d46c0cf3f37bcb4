package game

import "github.com/vladimirvolkov/courtside/internal/physics"

func newBall(t *Tuning, x, y float32) Ball {
	d := 2 * t.BallRadius
	body := physics.NewBody(x, y, d, d)
	body.Bounce = t.BallBounce
	return Ball{Body: body, LastOwner: NoActor}
}

// release launches the carried ball with the given velocity.
func (m *Match) release(vx, vy float32, cooldown int) {
	s := &m.state
	s.Possession = InFlight()
	s.Ball.Body.SetGravityEnabled(true)
	s.Ball.Body.SetVelocity(vx, vy)
	s.Ball.PickupCooldown = cooldown
}

// knockLoose strips the ball from its carrier with a random pop.
func (m *Match) knockLoose() {
	t := &m.tuning
	s := &m.state
	vx := (m.rng.Float32()*2 - 1) * t.LooseImpulseX
	vy := t.LooseImpulseMinY + m.rng.Float32()*(t.LooseImpulseMaxY-t.LooseImpulseMinY)

	s.Possession = Loose()
	s.Ball.Body.SetGravityEnabled(true)
	s.Ball.Body.SetVelocity(vx, vy)
	s.Ball.PickupCooldown = t.LoosePickupCooldown
}

// followCarrier pins a carried ball to its carrier's hand.
func (m *Match) followCarrier() {
	s := &m.state
	c := s.Carrier()
	if c == nil {
		return
	}
	s.Ball.Body.SetPosition(
		c.Body.X+float32(c.Facing)*c.Body.W/2,
		c.Body.Y-c.Body.H/4,
	)
	s.Ball.Body.SetVelocity(0, 0)
}

func (b *Ball) tickCooldown() {
	b.PickupCooldown = decr(b.PickupCooldown)
}
