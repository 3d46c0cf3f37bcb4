package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vladimirvolkov/courtside/internal/input"
)

type idleController struct{}

func (idleController) Decide(*GameState, ActorID) input.Held { return input.Held{} }

// scriptedRand replays fixed draws and fails the test when it runs dry.
type scriptedRand struct {
	t    *testing.T
	vals []float32
}

func (r *scriptedRand) Float32() float32 {
	r.t.Helper()
	require.NotEmpty(r.t, r.vals, "unexpected random draw")
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v
}

type driver struct {
	m  *Match
	in input.Adapter
}

func (d *driver) step(h input.Held) []Event {
	return d.m.Step(d.in.Sample(h))
}

func newTestMatch(t *testing.T, opts ...Option) *driver {
	t.Helper()
	s := DefaultSettings()
	s.CountdownSecs = 0
	s.DurationSecs = 0
	base := []Option{WithController(idleController{}), WithLogger(zaptest.NewLogger(t))}
	return &driver{m: NewMatch(DefaultTuning(), s, append(base, opts...)...)}
}

// giveBall hands the ball to id regardless of the current holder.
func giveBall(t *testing.T, m *Match, id ActorID) {
	t.Helper()
	m.state.Possession = Loose()
	m.state.Ball.PickupCooldown = 0
	m.state.Dunk = Dunk{Dunker: NoActor}
	require.True(t, m.tryPickup(id))
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func feedbackTexts(events []Event) []string {
	var out []string
	for _, e := range events {
		if e.Kind == EventFeedback {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestNewMatch_InitialLayout(t *testing.T) {
	d := newTestMatch(t)
	s := d.m.State()

	require.Len(t, s.Actors, 3)
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.True(t, s.Possession.CarriedBy(0))
	assert.Equal(t, ActorID(0), s.Active)
	assert.Equal(t, ActorID(0), s.Ball.LastOwner)
	assert.False(t, s.Ball.Body.GravityEnabled())
	assert.Equal(t, []ActorID{0, 1}, s.Controlled())
	assert.Equal(t, TeamPurple, s.Actors[2].Team)
	assert.Equal(t, NoTeam, s.Winner)
}

func TestNewMatch_RejectsBadRoster(t *testing.T) {
	s := DefaultSettings()
	s.Opponents = 0
	assert.Panics(t, func() { NewMatch(DefaultTuning(), s) })
}

func TestStep_CountdownIgnoresInput(t *testing.T) {
	s := DefaultSettings()
	s.CountdownSecs = 0.5
	s.DurationSecs = 0
	d := &driver{m: NewMatch(DefaultTuning(), s, WithController(idleController{}))}

	for i := 0; i < 20; i++ {
		d.step(input.Held{MoveX: 1})
	}
	st := d.m.State()
	assert.Equal(t, PhaseCountdown, st.Phase)
	assert.Equal(t, float32(200), st.Actors[0].Body.X)

	for i := 0; i < 20 && d.m.State().Phase == PhaseCountdown; i++ {
		d.step(input.Held{MoveX: 1})
	}
	assert.Equal(t, PhasePlaying, d.m.State().Phase)
}

func TestStep_GameOverPicksWinner(t *testing.T) {
	s := DefaultSettings()
	s.CountdownSecs = 0
	s.DurationSecs = 1
	d := &driver{m: NewMatch(DefaultTuning(), s, WithController(idleController{}))}
	d.m.state.Score[TeamPurple] = 2

	var events []Event
	for i := 0; i < TickRate+5 && !d.m.Over(); i++ {
		events = append(events, d.step(input.Held{})...)
	}

	require.True(t, d.m.Over())
	assert.Equal(t, TeamPurple, d.m.State().Winner)
	assert.Equal(t, 1, countEvents(events, EventGameOver))

	before := d.m.State()
	d.step(input.Held{MoveX: 1})
	assert.Equal(t, before.Actors, d.m.State().Actors, "nothing moves after the final whistle")
}

func TestStep_SwitchZeroesGroundedVelocity(t *testing.T) {
	d := newTestMatch(t)
	d.step(input.Held{MoveX: 1})
	d.step(input.Held{MoveX: 1})
	require.Equal(t, float32(300), d.m.State().Actors[0].Body.VX)

	d.step(input.Held{MoveX: 1, Buttons: input.Switch})
	s := d.m.State()
	assert.Equal(t, ActorID(1), s.Active)
	assert.Equal(t, float32(0), s.Actors[0].Body.VX)
	assert.Equal(t, float32(300), s.Actors[1].Body.VX)

	d.step(input.Held{})
	d.step(input.Held{Buttons: input.Switch})
	assert.Equal(t, ActorID(0), d.m.State().Active)
}

func TestStep_AirMomentumKept(t *testing.T) {
	d := newTestMatch(t)
	d.step(input.Held{MoveX: 1, Buttons: input.Shoot})
	s := d.m.State()
	require.False(t, s.Actors[0].Body.IsGrounded())

	d.step(input.Held{Buttons: input.Shoot})
	assert.Equal(t, float32(300), d.m.State().Actors[0].Body.VX)
}

func TestStep_PassReachesTeammate(t *testing.T) {
	d := newTestMatch(t)

	d.step(input.Held{Buttons: input.Pass})
	s := d.m.State()
	require.Equal(t, KindInFlight, s.Possession.Kind())
	assert.Equal(t, d.m.tuning.PassPickupCooldown, s.Ball.PickupCooldown)

	for i := 0; i < 60 && !d.m.state.Possession.CarriedBy(1); i++ {
		d.step(input.Held{})
	}
	s = d.m.State()
	assert.True(t, s.Possession.CarriedBy(1))
	assert.Equal(t, ActorID(1), s.Active, "catching a pass hands over the stick")
	assert.Equal(t, HintHasBall, s.Actors[1].Hint)
}

func TestStep_JumpNeedsGround(t *testing.T) {
	d := newTestMatch(t)
	d.step(input.Held{Buttons: input.Shoot})
	vy := d.m.State().Actors[0].Body.VY
	require.Less(t, vy, float32(0))

	d.step(input.Held{})
	d.step(input.Held{Buttons: input.Shoot})
	assert.Greater(t, d.m.State().Actors[0].Body.VY, vy, "a second press mid-air must not re-launch")
}

func TestStep_PropertiesHoldUnderPlay(t *testing.T) {
	s := DefaultSettings()
	s.CountdownSecs = 0
	s.DurationSecs = 0
	s.Opponents = 2
	s.Seed = 42
	d := &driver{m: NewMatch(DefaultTuning(), s)}
	script := NewRand(7)

	prev := d.m.State()
	for i := 0; i < 6000; i++ {
		h := input.Held{MoveX: float32(int(script.Float32()*3) - 1)}
		if script.Float32() < 0.3 {
			h.Buttons = input.Button(script.Float32() * 32)
		}
		d.step(h)
		cur := d.m.State()

		carriers := 0
		for _, a := range cur.Actors {
			if cur.Possession.CarriedBy(a.ID) {
				carriers++
			}
			assert.GreaterOrEqual(t, a.Cooldowns.Steal, 0)
			assert.GreaterOrEqual(t, a.Cooldowns.Shove, 0)
		}
		assert.GreaterOrEqual(t, cur.RedCooldowns.Steal, 0)
		assert.GreaterOrEqual(t, cur.RedCooldowns.Shove, 0)
		assert.GreaterOrEqual(t, cur.Ball.PickupCooldown, 0)

		if cur.Possession.Kind() == KindCarried {
			assert.Equal(t, 1, carriers)
			vx, vy := cur.Ball.Body.Velocity()
			assert.Zero(t, vx)
			assert.Zero(t, vy)
			assert.False(t, cur.Ball.Body.GravityEnabled())
		} else {
			assert.Zero(t, carriers)
			assert.True(t, cur.Ball.Body.GravityEnabled())
		}

		for team := range cur.Score {
			delta := cur.Score[team] - prev.Score[team]
			assert.Contains(t, []int{0, 2}, delta, "tick %d", cur.Tick)
		}
		prev = cur
	}
}

func TestStep_Deterministic(t *testing.T) {
	run := func() GameState {
		s := DefaultSettings()
		s.CountdownSecs = 0
		s.DurationSecs = 0
		s.Seed = 99
		d := &driver{m: NewMatch(DefaultTuning(), s)}
		script := NewRand(3)
		for i := 0; i < 2000; i++ {
			h := input.Held{MoveX: float32(int(script.Float32()*3) - 1)}
			if script.Float32() < 0.2 {
				h.Buttons = input.Button(script.Float32() * 32)
			}
			d.step(h)
		}
		return d.m.State()
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed and input diverged (-first +second):\n%s", diff)
	}
}
