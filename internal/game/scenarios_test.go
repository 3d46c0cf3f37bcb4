package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimirvolkov/courtside/internal/input"
)

func TestScenario_DunkFromDunkRange(t *testing.T) {
	d := newTestMatch(t)
	tn := d.m.tuning

	for i := 0; i < 300 && d.m.state.Actors[0].Body.X < 870; i++ {
		d.step(input.Held{MoveX: 1})
	}
	require.GreaterOrEqual(t, d.m.state.Actors[0].Body.X, float32(870))
	assert.Equal(t, HintReadyToDunk, d.m.State().Actors[0].Hint)

	takeoffX := d.m.state.Actors[0].Body.X
	d.step(input.Held{Buttons: input.Shoot})

	s := d.m.State()
	require.Equal(t, DunkApproaching, s.Dunk.Phase)
	assert.Equal(t, ActorID(0), s.Dunk.Dunker)
	wantVX := clampF((tn.HoopX-takeoffX)/tn.DunkApproachTime, tn.DunkMinSpeed, tn.DunkMaxSpeed)
	assert.InDelta(t, wantVX, s.Actors[0].Body.VX, 0.01)
	assert.Equal(t, HintDunking, s.Actors[0].Hint)

	var scores []Event
	completedAt := -1
	for i := 0; i < 180; i++ {
		events := d.step(input.Held{Buttons: input.Shoot})
		for _, e := range events {
			if e.Kind == EventScore {
				scores = append(scores, e)
			}
		}
		if completedAt < 0 && d.m.state.Dunk.Phase == DunkCompleted {
			completedAt = i
			s := d.m.State()
			assert.Equal(t, KindInFlight, s.Possession.Kind())
			assert.Equal(t, tn.HoopX, s.Ball.Body.X)
			assert.Equal(t, tn.RimY, s.Ball.Body.Y)
			assert.Equal(t, float32(0), s.Ball.Body.VX)
			assert.Equal(t, tn.DunkBallDropSpeed, s.Ball.Body.VY)
			assert.True(t, s.Ball.Body.GravityEnabled())
			assert.False(t, s.Ball.EnteredHoop)
			assert.Contains(t, feedbackTexts(events), "DUNK!")
		}
	}

	require.GreaterOrEqual(t, completedAt, 0, "dunk never completed")
	require.Len(t, scores, 1, "dunk must score exactly once")
	assert.True(t, scores[0].Dunk)
	assert.Equal(t, TeamRed, scores[0].Team)
	assert.Equal(t, 2, scores[0].Points)

	s = d.m.State()
	assert.Equal(t, [2]int{2, 0}, s.Score)
	assert.Equal(t, DunkNone, s.Dunk.Phase, "dunk resets once the dunker lands")
}

func TestScenario_DunkAbortedWhenBallLost(t *testing.T) {
	d := newTestMatch(t)
	d.m.state.Actors[0].Body.X = 900
	d.m.followCarrier()

	d.step(input.Held{Buttons: input.Shoot})
	require.Equal(t, DunkApproaching, d.m.state.Dunk.Phase)

	d.m.knockLoose()
	var events []Event
	events = append(events, d.step(input.Held{Buttons: input.Shoot})...)
	assert.Equal(t, DunkCompleted, d.m.state.Dunk.Phase)

	for i := 0; i < 120; i++ {
		events = append(events, d.step(input.Held{})...)
	}
	assert.Zero(t, countEvents(events, EventScore))
	assert.Equal(t, DunkNone, d.m.state.Dunk.Phase)
}

func TestScenario_DunkBlocksPickups(t *testing.T) {
	d := newTestMatch(t)
	d.m.state.Dunk = Dunk{Phase: DunkCompleted, Dunker: 0}
	d.m.state.Possession = Loose()
	d.m.state.Ball.PickupCooldown = 0

	assert.False(t, d.m.tryPickup(1))
	d.m.state.Dunk = Dunk{Dunker: NoActor}
	assert.True(t, d.m.tryPickup(1))
}

func TestScenario_PerfectShotFollowsPureArc(t *testing.T) {
	d := newTestMatch(t, WithRand(&scriptedRand{t: t}))
	tn := d.m.tuning

	a := &d.m.state.Actors[0]
	a.Body.SetPosition(tn.HoopX-270, 430)
	a.Body.SetVelocity(0, -10)
	a.Body.Grounded = false
	d.m.followCarrier()

	bx, by := d.m.state.Ball.Body.Position()
	dist := hypot(tn.HoopX-bx, tn.RimY-by)
	require.Less(t, dist, tn.LongRange)
	wantVX, wantVY := SolveArc(tn.HoopX-bx, tn.RimY-by, ShotFlightTime(&tn, dist), tn.Gravity)

	d.in.Sample(input.Held{Buttons: input.Shoot})
	events := d.step(input.Held{})

	s := d.m.State()
	require.Equal(t, KindInFlight, s.Possession.Kind())
	assert.Equal(t, tn.ShootPickupCooldown, s.Ball.PickupCooldown)
	assert.InDelta(t, wantVX, s.Ball.Body.VX, 0.001)
	assert.InDelta(t, wantVY+tn.Gravity*DT, s.Ball.Body.VY, 0.001)
	assert.Equal(t, []string{"PERFECT"}, feedbackTexts(events))
}

func TestScenario_ShotOnlyOnReleaseInAir(t *testing.T) {
	d := newTestMatch(t)

	d.in.Sample(input.Held{Buttons: input.Shoot})
	d.step(input.Held{})
	assert.True(t, d.m.state.Possession.CarriedBy(0), "grounded release is ignored")

	d.step(input.Held{Buttons: input.Shoot})
	require.False(t, d.m.state.Actors[0].Body.IsGrounded())
	assert.True(t, d.m.state.Possession.CarriedBy(0))

	d.step(input.Held{})
	assert.Equal(t, KindInFlight, d.m.state.Possession.Kind())
}

func TestScenario_MadeBasketScoresOnce(t *testing.T) {
	d := newTestMatch(t)
	tn := d.m.tuning
	s := &d.m.state

	launch := func(y, vy float32) {
		s.Possession = InFlight()
		s.Ball.LastOwner = 0
		s.Ball.EnteredHoop = false
		s.Ball.PickupCooldown = 30
		s.Ball.Body.SetGravityEnabled(true)
		s.Ball.Body.SetPosition(tn.HoopX, y)
		s.Ball.Body.SetVelocity(0, vy)
	}
	run := func(ticks int) int {
		n := 0
		for i := 0; i < ticks; i++ {
			n += countEvents(d.step(input.Held{}), EventScore)
		}
		return n
	}

	launch(tn.RimY-60, 100)
	assert.Equal(t, 1, run(30))
	assert.Equal(t, [2]int{2, 0}, s.Score)
	assert.False(t, s.Ball.EnteredHoop)

	// Falling through the exit again without a fresh entry.
	launch(tn.RimY+16, 100)
	assert.Zero(t, run(30))

	// Popping up into the net from below.
	launch(tn.RimY+50, -150)
	assert.Zero(t, run(60))

	assert.Equal(t, [2]int{2, 0}, s.Score)
}

func TestScenario_EntryIgnoresRisingBall(t *testing.T) {
	d := newTestMatch(t)
	s := &d.m.state
	s.Possession = InFlight()
	s.Ball.Body.SetGravityEnabled(true)
	s.Ball.Body.SetVelocity(0, -50)

	d.m.onEntry()
	assert.False(t, s.Ball.EnteredHoop)

	s.Ball.Body.SetVelocity(0, 50)
	d.m.onEntry()
	assert.True(t, s.Ball.EnteredHoop)

	s.Ball.Body.SetVelocity(0, -50)
	d.m.onExit()
	assert.True(t, s.Ball.EnteredHoop, "a rising ball never scores")
}

func TestScenario_StealTenPresses(t *testing.T) {
	rolls := []float32{0.1, 0.5, 0.9, 0.2, 0.7, 0.4, 0.25, 0.8, 0.6, 0.95}
	var draws []float32
	for _, r := range rolls {
		draws = append(draws, r)
		if r < 0.3 {
			draws = append(draws, 0.5, 0.5)
		}
	}
	d := newTestMatch(t, WithRand(&scriptedRand{t: t, vals: draws}))
	tn := d.m.tuning
	s := &d.m.state

	s.Actors[0].Body.X = 860
	giveBall(t, d.m, 2)

	successes, misses := 0, 0
	for i, roll := range rolls {
		if !s.Possession.CarriedBy(2) {
			giveBall(t, d.m, 2)
		}
		for s.RedCooldowns.Steal > 0 {
			before := s.RedCooldowns.Steal
			d.step(input.Held{})
			assert.Equal(t, before-1, s.RedCooldowns.Steal)
		}

		events := d.step(input.Held{Buttons: input.Steal})
		texts := feedbackTexts(events)

		if roll < tn.StealChance {
			successes++
			assert.Equal(t, []string{"STEAL!"}, texts, "press %d", i)
			assert.Equal(t, KindLoose, s.Possession.Kind())
			assert.Equal(t, tn.StealSuccessCooldown, s.RedCooldowns.Steal)
			assert.Equal(t, tn.LoosePickupCooldown, s.Ball.PickupCooldown)
		} else {
			misses++
			assert.Equal(t, []string{"MISS"}, texts, "press %d", i)
			assert.True(t, s.Possession.CarriedBy(2))
			assert.Equal(t, tn.StealFailCooldown, s.RedCooldowns.Steal)

			d.step(input.Held{})
			events = d.step(input.Held{Buttons: input.Steal})
			assert.Empty(t, feedbackTexts(events), "cooldown blocks the retry")
			assert.True(t, s.Possession.CarriedBy(2))
		}
		d.step(input.Held{})
	}

	assert.Equal(t, 3, successes)
	assert.Equal(t, 7, misses)
}

func TestScenario_StealOutOfRange(t *testing.T) {
	d := newTestMatch(t, WithRand(&scriptedRand{t: t}))
	giveBall(t, d.m, 2)
	d.m.state.Actors[0].Body.X = 900 - d.m.tuning.StealRange - 1

	assert.Empty(t, feedbackTexts(d.step(input.Held{Buttons: input.Steal})))
	assert.Zero(t, d.m.state.RedCooldowns.Steal)
	assert.True(t, d.m.state.Possession.CarriedBy(2))
}

func TestScenario_StealNeedsOpposingCarrier(t *testing.T) {
	d := newTestMatch(t, WithRand(&scriptedRand{t: t}))
	d.step(input.Held{Buttons: input.Switch})
	d.step(input.Held{})
	d.m.state.Actors[1].Body.X = 210

	assert.Empty(t, feedbackTexts(d.step(input.Held{Buttons: input.Steal})))
	assert.True(t, d.m.state.Possession.CarriedBy(0))
}

func TestScenario_Shove(t *testing.T) {
	d := newTestMatch(t)
	tn := d.m.tuning
	s := &d.m.state
	s.Actors[0].Body.X = 860
	giveBall(t, d.m, 2)

	events := d.step(input.Held{Buttons: input.Modifier | input.Steal})

	assert.Equal(t, []string{"SHOVE!"}, feedbackTexts(events))
	assert.Equal(t, KindLoose, s.Possession.Kind())
	assert.InDelta(t, 960, s.Actors[2].Body.X, 0.001)
	assert.Equal(t, tn.ShoveCooldown, s.RedCooldowns.Shove)
	assert.Zero(t, s.RedCooldowns.Steal, "shove and steal never share a press")

	giveBall(t, d.m, 2)
	s.Actors[0].Body.X = 920
	d.step(input.Held{Buttons: input.Modifier})
	events = d.step(input.Held{Buttons: input.Modifier | input.Steal})
	assert.Empty(t, feedbackTexts(events), "shove cooldown")
}

func TestScenario_ShoveClampedToCourt(t *testing.T) {
	d := newTestMatch(t)
	tn := d.m.tuning
	s := &d.m.state
	s.Actors[2].Body.X = 1250
	s.Actors[0].Body.X = 1200
	giveBall(t, d.m, 2)

	d.step(input.Held{Buttons: input.Modifier | input.Steal})

	assert.Equal(t, tn.CourtWidth-tn.ActorWidth/2, s.Actors[2].Body.X)
}
