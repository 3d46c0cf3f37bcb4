package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimirvolkov/courtside/internal/input"
)

func newRuleState(t *testing.T) (*Match, *RuleController) {
	t.Helper()
	d := newTestMatch(t)
	return d.m, NewRuleController(&d.m.tuning, &scriptedRand{t: t})
}

func TestRuleController_ChasesFreeBall(t *testing.T) {
	m, c := newRuleState(t)
	m.state.Possession = Loose()
	m.state.Ball.Body.X = 500

	h := c.Decide(&m.state, 2)
	assert.Less(t, h.MoveX, float32(0))
	assert.Zero(t, h.Buttons)
}

func TestRuleController_DunksInRange(t *testing.T) {
	m, c := newRuleState(t)
	giveBall(t, m, 2)

	h := c.Decide(&m.state, 2)
	assert.True(t, h.Has(input.Shoot), "900 is inside dunk range")

	m.state.Actors[2].Body.Grounded = false
	m.state.Dunk = Dunk{Phase: DunkApproaching, Dunker: 2}
	h = c.Decide(&m.state, 2)
	assert.True(t, h.Has(input.Shoot), "holds through the dunk")
}

func TestRuleController_ReleasesNearApex(t *testing.T) {
	m, _ := newRuleState(t)
	c := NewRuleController(&m.tuning, &scriptedRand{t: t, vals: []float32{0, 0.5}})
	a := &m.state.Actors[2]
	a.Body.X = 700
	giveBall(t, m, 2)

	h := c.Decide(&m.state, 2)
	assert.True(t, h.Has(input.Shoot), "shoot roll passed")

	a.Body.Grounded = false
	a.Body.VY = -400
	assert.True(t, c.Decide(&m.state, 2).Has(input.Shoot))

	a.Body.VY = -50
	assert.False(t, c.Decide(&m.state, 2).Has(input.Shoot), "slack is 60, release once vy >= -60")
}

func TestRuleController_SwipesAtCarrier(t *testing.T) {
	m, _ := newRuleState(t)
	c := NewRuleController(&m.tuning, &scriptedRand{t: t, vals: []float32{0.01, 0.99}})
	m.state.Actors[2].Body.X = 240

	h := c.Decide(&m.state, 2)
	assert.True(t, h.Has(input.Steal))
	assert.False(t, h.Has(input.Modifier))

	h = c.Decide(&m.state, 2)
	assert.False(t, h.Has(input.Steal))

	m.state.Actors[2].Cooldowns.Steal = 10
	c.rng = &scriptedRand{t: t, vals: []float32{0.01}}
	h = c.Decide(&m.state, 2)
	assert.True(t, h.Has(input.Steal|input.Modifier), "shoves while the steal recovers")
}
