package game

import (
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/physics"
)

// Settings describe one match.
type Settings struct {
	Seed          uint64  `yaml:"seed" msgpack:"seed"`
	Opponents     int     `yaml:"opponents" msgpack:"opponents"`
	DurationSecs  float32 `yaml:"duration_secs" msgpack:"duration"`
	CountdownSecs float32 `yaml:"countdown_secs" msgpack:"countdown"`
}

func DefaultSettings() Settings {
	return Settings{
		Seed:          1,
		Opponents:     1,
		DurationSecs:  120,
		CountdownSecs: 3,
	}
}

// Roster layout: red actors first, then purple.
const redRoster = 2

var (
	redStartX    = [redRoster]float32{200, 420}
	purpleStartX = []float32{900, 760, 1040}
)

// MaxOpponents is the largest purple roster a match accepts.
const MaxOpponents = 3

type Option func(*Match)

// WithRand replaces the gameplay RNG used for steals, shot jitter and loose
// ball impulses.
func WithRand(r Rand) Option { return func(m *Match) { m.rng = r } }

func WithSink(s Sink) Option { return func(m *Match) { m.sink = s } }

func WithLogger(l *zap.Logger) Option { return func(m *Match) { m.log = l } }

// WithController replaces the scripted opponent.
func WithController(c Controller) Option { return func(m *Match) { m.ctrl = c } }

// Match owns a GameState and advances it one fixed tick per Step.
type Match struct {
	tuning   Tuning
	settings Settings
	hoop     Hoop
	world    *physics.World

	state GameState

	rng      Rand
	ctrl     Controller
	adapters map[ActorID]*input.Adapter
	sink     Sink
	log      *zap.Logger

	events []Event
	bodies []*physics.Body
}

// NewMatch sets up the court with the ball in the first red actor's hands.
// It panics on a roster it cannot lay out.
func NewMatch(t Tuning, s Settings, opts ...Option) *Match {
	if s.Opponents < 1 || s.Opponents > MaxOpponents {
		panic("game: opponents out of range")
	}

	m := &Match{
		tuning:   t,
		settings: s,
		hoop:     NewHoop(&t),
		rng:      NewRand(s.Seed),
		adapters: make(map[ActorID]*input.Adapter),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ctrl == nil {
		m.ctrl = NewRuleController(&m.tuning, NewRand(s.Seed+1))
	}

	m.world = physics.NewWorld(physics.Params{
		Gravity:         t.Gravity,
		Width:           t.CourtWidth,
		Height:          t.CourtHeight,
		FloorY:          t.FloorY,
		FloorFriction:   t.FloorFriction,
		WallRestitution: t.WallRestitution,
		CeilRestitution: t.CeilRestitution,
	})
	m.world.SetRim(m.hoop.Rim)
	m.world.AddZone(m.hoop.Entry)
	m.world.AddZone(m.hoop.Exit)

	m.state = GameState{
		Phase:      PhaseCountdown,
		PhaseTimer: s.CountdownSecs,
		Winner:     NoTeam,
		Possession: Loose(),
		Dunk:       Dunk{Dunker: NoActor},
	}
	for i, x := range redStartX {
		m.state.Actors = append(m.state.Actors, newActor(&t, ActorID(i), TeamRed, x, 1, true))
	}
	for i := 0; i < s.Opponents; i++ {
		id := ActorID(redRoster + i)
		m.state.Actors = append(m.state.Actors, newActor(&t, id, TeamPurple, purpleStartX[i], -1, false))
		m.adapters[id] = &input.Adapter{}
	}
	m.bodies = make([]*physics.Body, len(m.state.Actors))

	m.state.Ball = newBall(&t, 0, 0)
	m.tryPickup(0)
	m.state.Active = 0

	if s.CountdownSecs <= 0 {
		m.state.Phase = PhasePlaying
	}
	return m
}

// Step advances the match by one tick with the human's input and returns
// the events of that tick. The returned slice is reused by the next Step.
func (m *Match) Step(in input.Snapshot) []Event {
	m.events = m.events[:0]
	s := &m.state
	s.Tick++

	switch s.Phase {
	case PhaseCountdown:
		s.PhaseTimer -= DT
		if s.PhaseTimer <= 0 {
			s.PhaseTimer = 0
			s.Phase = PhasePlaying
			m.log.Debug("tip-off", zap.Uint32("tick", s.Tick))
		}
	case PhasePlaying:
		m.tickPlaying(in)
	}
	return m.events
}

func (m *Match) tickPlaying(in input.Snapshot) {
	s := &m.state

	s.RedCooldowns.tick()
	for i := range s.Actors {
		s.Actors[i].Cooldowns.tick()
	}
	s.Ball.tickCooldown()

	if in.SwitchPressed {
		m.switchActive()
	}

	// Decide everything from the same state before anyone moves.
	snaps := make([]input.Snapshot, len(s.Actors))
	for i := range s.Actors {
		a := &s.Actors[i]
		switch {
		case a.ID == s.Active:
			snaps[i] = in
		case !a.Controlled:
			snaps[i] = m.adapters[a.ID].Sample(m.ctrl.Decide(s, a.ID))
		}
	}
	for i := range s.Actors {
		m.control(&s.Actors[i], snaps[i])
	}

	for i := range s.Actors {
		m.bodies[i] = &s.Actors[i].Body
	}
	m.world.Step(DT, m.bodies, &s.Ball.Body)
	m.followCarrier()
	m.updateDunk()
	m.drainContacts()

	for i := range s.Actors {
		m.updateHint(&s.Actors[i])
	}

	s.Clock += DT
	if d := m.settings.DurationSecs; d > 0 && s.Clock >= d {
		m.gameOver()
	}
}

// drainContacts applies this tick's overlaps in a fixed order: pickups
// nearest the ball first, then the Entry zone, then the Exit zone.
func (m *Match) drainContacts() {
	for _, c := range m.world.Contacts(m.bodies, &m.state.Ball.Body) {
		switch c.Kind {
		case physics.ContactBody:
			m.tryPickup(ActorID(c.Index))
		case physics.ContactZone:
			switch c.Index {
			case ZoneEntry:
				m.onEntry()
			case ZoneExit:
				m.onExit()
			}
		}
	}
}

func (m *Match) gameOver() {
	s := &m.state
	s.Phase = PhaseGameOver
	switch {
	case s.Score[TeamRed] > s.Score[TeamPurple]:
		s.Winner = TeamRed
	case s.Score[TeamPurple] > s.Score[TeamRed]:
		s.Winner = TeamPurple
	default:
		s.Winner = NoTeam
	}
	m.emit(Event{Kind: EventGameOver, Team: s.Winner})
	m.log.Info("game over",
		zap.Int("red", s.Score[TeamRed]),
		zap.Int("purple", s.Score[TeamPurple]),
		zap.Stringer("winner", s.Winner),
		zap.Uint32("ticks", s.Tick),
	)
}

// State returns a copy of the current state.
func (m *Match) State() GameState { return m.state.Clone() }

func (m *Match) Over() bool { return m.state.Phase == PhaseGameOver }

func (m *Match) Tuning() Tuning { return m.tuning }

func (m *Match) Settings() Settings { return m.settings }

func (m *Match) Hoop() Hoop { return m.hoop }
