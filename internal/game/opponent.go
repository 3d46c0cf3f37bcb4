package game

import "github.com/vladimirvolkov/courtside/internal/input"

// Controller decides the control levels of a non-human actor each tick.
// The match debounces its output like human input, so scripted actors go
// through the same guards.
type Controller interface {
	Decide(s *GameState, self ActorID) input.Held
}

type botMemory struct {
	jumping      bool
	releaseSlack float32
}

// RuleController is the scripted opponent: carry the ball to the hoop and
// shoot or dunk, chase a free ball, and harass a red carrier.
type RuleController struct {
	tuning *Tuning
	rng    Rand
	memory map[ActorID]*botMemory
}

func NewRuleController(t *Tuning, rng Rand) *RuleController {
	return &RuleController{
		tuning: t,
		rng:    rng,
		memory: make(map[ActorID]*botMemory),
	}
}

func (c *RuleController) Decide(s *GameState, self ActorID) input.Held {
	a := &s.Actors[self]
	mem, ok := c.memory[self]
	if !ok {
		mem = &botMemory{}
		c.memory[self] = mem
	}
	if mem.jumping && a.Body.IsGrounded() && !(s.Dunk.InProgress() && s.Dunk.Dunker == self) {
		mem.jumping = false
	}

	carrier := s.Carrier()
	switch {
	case carrier != nil && carrier.ID == self:
		return c.attack(s, a, mem)
	case carrier == nil:
		return c.approach(a, s.Ball.Body.X, 6)
	case carrier.Team != a.Team:
		return c.defend(s, a, carrier)
	}
	return c.approach(a, c.tuning.HoopX-c.tuning.DunkRange, 20)
}

func (c *RuleController) attack(s *GameState, a *Actor, mem *botMemory) input.Held {
	t := c.tuning
	if mem.jumping {
		var h input.Held
		dunking := s.Dunk.InProgress() && s.Dunk.Dunker == a.ID
		if dunking || a.Body.VY < -mem.releaseSlack {
			h.Buttons |= input.Shoot
		}
		return h
	}

	h := c.approach(a, t.HoopX, 4)
	if !a.Body.IsGrounded() {
		return h
	}

	dx := absF(t.HoopX - a.Body.X)
	switch {
	case dx <= t.DunkRange:
		mem.jumping = true
		h.Buttons |= input.Shoot
	case dx <= t.AIShootRange && c.rng.Float32() < t.AIShootChance:
		mem.jumping = true
		mem.releaseSlack = c.rng.Float32() * t.AIReleaseSlackMax
		h.Buttons |= input.Shoot
	}
	return h
}

// defend shadows the carrier on the hoop side and swipes now and then.
func (c *RuleController) defend(s *GameState, a *Actor, carrier *Actor) input.Held {
	t := c.tuning
	side := sign(t.HoopX - carrier.Body.X)
	h := c.approach(a, carrier.Body.X+side*carrier.Body.W, 4)

	if absF(carrier.Body.X-a.Body.X) > t.StealRange {
		return h
	}
	if c.rng.Float32() >= t.AIStealIntent {
		return h
	}
	h.Buttons |= input.Steal
	if a.Cooldowns.Steal > 0 && a.Cooldowns.Shove == 0 {
		h.Buttons |= input.Modifier
	}
	return h
}

// approach walks toward x and stops inside the dead zone.
func (c *RuleController) approach(a *Actor, x, deadZone float32) input.Held {
	var h input.Held
	dx := x - a.Body.X
	if absF(dx) > deadZone {
		h.MoveX = sign(dx) * c.tuning.AISpeedScale
	}
	return h
}
