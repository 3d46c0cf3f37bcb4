package game

import "go.uber.org/zap"

// contestable returns the opposing carrier if a is close enough to take a
// swipe at it.
func (m *Match) contestable(a *Actor) (*Actor, bool) {
	c := m.state.Carrier()
	if c == nil || c.Team == a.Team {
		return nil, false
	}
	if absF(c.Body.X-a.Body.X) > m.tuning.StealRange {
		return nil, false
	}
	return c, true
}

// trySteal rolls for the ball. It reports whether the steal succeeded; a
// failed roll still starts the long cooldown.
func (m *Match) trySteal(a *Actor) bool {
	t := &m.tuning
	cd := m.state.cooldowns(a)
	if cd.Steal > 0 {
		return false
	}
	carrier, ok := m.contestable(a)
	if !ok {
		return false
	}

	roll := m.rng.Float32()
	if roll >= t.StealChance {
		cd.Steal = t.StealFailCooldown
		m.feedback(CueMiss, "MISS", ColorGrey, a.Body.X, a.Body.Top())
		m.log.Debug("steal missed", actorField(a), zap.Float32("roll", roll))
		return false
	}

	m.knockLoose()
	cd.Steal = t.StealSuccessCooldown
	m.feedback(CueSteal, "STEAL!", ColorGreen, a.Body.X, a.Body.Top())
	m.log.Debug("steal", actorField(a), zap.Int("from", int(carrier.ID)), zap.Float32("roll", roll))
	return true
}

// tryShove knocks the carrier back and the ball loose. It always lands when
// its guards pass.
func (m *Match) tryShove(a *Actor) bool {
	t := &m.tuning
	cd := m.state.cooldowns(a)
	if cd.Shove > 0 {
		return false
	}
	carrier, ok := m.contestable(a)
	if !ok {
		return false
	}

	dir := float32(a.Facing)
	if carrier.Body.X != a.Body.X {
		dir = sign(carrier.Body.X - a.Body.X)
	}
	halfW := carrier.Body.W / 2
	carrier.Body.X = clampF(carrier.Body.X+dir*t.ShoveDistance, halfW, t.CourtWidth-halfW)

	m.knockLoose()
	cd.Shove = t.ShoveCooldown
	m.feedback(CueShove, "SHOVE!", ColorRed, a.Body.X, a.Body.Top())
	m.log.Debug("shove", actorField(a), zap.Int("target", int(carrier.ID)))
	return true
}
