package game

import "github.com/vladimirvolkov/courtside/internal/physics"

// Fixed simulation rate
const (
	TickRate = 60
	DT       = 1.0 / float32(TickRate)
)

// Tuning holds every gameplay constant. Distances are pixels, speeds are
// pixels per second, cooldowns are ticks.
type Tuning struct {
	Gravity     float32 `yaml:"gravity"`
	CourtWidth  float32 `yaml:"court_width"`
	CourtHeight float32 `yaml:"court_height"`
	FloorY      float32 `yaml:"floor_y"`

	ActorWidth       float32 `yaml:"actor_width"`
	ActorHeight      float32 `yaml:"actor_height"`
	MoveSpeed        float32 `yaml:"move_speed"`
	JumpVelocity     float32 `yaml:"jump_velocity"`
	DunkJumpVelocity float32 `yaml:"dunk_jump_velocity"`

	BallRadius      float32 `yaml:"ball_radius"`
	BallBounce      float32 `yaml:"ball_bounce"`
	FloorFriction   float32 `yaml:"floor_friction"`
	WallRestitution float32 `yaml:"wall_restitution"`
	CeilRestitution float32 `yaml:"ceil_restitution"`

	HoopX                float32 `yaml:"hoop_x"`
	RimY                 float32 `yaml:"rim_y"`
	RimHalfWidth         float32 `yaml:"rim_half_width"`
	RimRadius            float32 `yaml:"rim_radius"`
	RimRestitution       float32 `yaml:"rim_restitution"`
	BackboardOffset      float32 `yaml:"backboard_offset"`
	BackboardHeight      float32 `yaml:"backboard_height"`
	BackboardRestitution float32 `yaml:"backboard_restitution"`
	EntryDepth           float32 `yaml:"entry_depth"`
	ExitGap              float32 `yaml:"exit_gap"`
	ExitDepth            float32 `yaml:"exit_depth"`
	BasketPoints         int     `yaml:"basket_points"`

	// Shot solver
	ShotPace          float32 `yaml:"shot_pace"`
	ShotMinFlightTime float32 `yaml:"shot_min_flight_time"`
	ShotMaxFlightTime float32 `yaml:"shot_max_flight_time"`
	PassFlightTime    float32 `yaml:"pass_flight_time"`
	LongRange         float32 `yaml:"long_range"`
	PerfectShort      float32 `yaml:"perfect_short"`
	GoodShort         float32 `yaml:"good_short"`
	PerfectLong       float32 `yaml:"perfect_long"`
	GoodLong          float32 `yaml:"good_long"`
	GoodJitter        float32 `yaml:"good_jitter"`
	OKJitter          float32 `yaml:"ok_jitter"`

	ShootPickupCooldown int     `yaml:"shoot_pickup_cooldown"`
	PassPickupCooldown  int     `yaml:"pass_pickup_cooldown"`
	LoosePickupCooldown int     `yaml:"loose_pickup_cooldown"`
	LooseImpulseX       float32 `yaml:"loose_impulse_x"`
	LooseImpulseMinY    float32 `yaml:"loose_impulse_min_y"`
	LooseImpulseMaxY    float32 `yaml:"loose_impulse_max_y"`

	// Dunk
	DunkRange         float32 `yaml:"dunk_range"`
	DunkApproachTime  float32 `yaml:"dunk_approach_time"`
	DunkMinSpeed      float32 `yaml:"dunk_min_speed"`
	DunkMaxSpeed      float32 `yaml:"dunk_max_speed"`
	DunkNudge         float32 `yaml:"dunk_nudge"`
	DunkRimX          float32 `yaml:"dunk_rim_x"`
	DunkRimTolerance  float32 `yaml:"dunk_rim_tolerance"`
	DunkHeightY       float32 `yaml:"dunk_height_y"`
	DunkBallDropSpeed float32 `yaml:"dunk_ball_drop_speed"`

	// Defense
	StealRange           float32 `yaml:"steal_range"`
	StealChance          float32 `yaml:"steal_chance"`
	StealFailCooldown    int     `yaml:"steal_fail_cooldown"`
	StealSuccessCooldown int     `yaml:"steal_success_cooldown"`
	ShoveCooldown        int     `yaml:"shove_cooldown"`
	ShoveDistance        float32 `yaml:"shove_distance"`

	// Scripted opponent
	AISpeedScale      float32 `yaml:"ai_speed_scale"`
	AIShootRange      float32 `yaml:"ai_shoot_range"`
	AIShootChance     float32 `yaml:"ai_shoot_chance"`
	AIReleaseSlackMax float32 `yaml:"ai_release_slack_max"`
	AIStealIntent     float32 `yaml:"ai_steal_intent"`

	FeedbackTTL int `yaml:"feedback_ttl"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:     1200,
		CourtWidth:  1280,
		CourtHeight: 720,
		FloorY:      650,

		ActorWidth:       40,
		ActorHeight:      80,
		MoveSpeed:        300,
		JumpVelocity:     -650,
		DunkJumpVelocity: -900,

		BallRadius:      12,
		BallBounce:      0.6,
		FloorFriction:   0.95,
		WallRestitution: 0.8,
		CeilRestitution: 0.5,

		HoopX:                1070,
		RimY:                 355,
		RimHalfWidth:         30,
		RimRadius:            4,
		RimRestitution:       0.6,
		BackboardOffset:      8,
		BackboardHeight:      116,
		BackboardRestitution: 0.7,
		EntryDepth:           40,
		ExitGap:              26,
		ExitDepth:            28,
		BasketPoints:         2,

		ShotPace:          500,
		ShotMinFlightTime: 0.8,
		ShotMaxFlightTime: 1.2,
		PassFlightTime:    0.4,
		LongRange:         400,
		PerfectShort:      40,
		GoodShort:         120,
		PerfectLong:       60,
		GoodLong:          160,
		GoodJitter:        0.05,
		OKJitter:          0.15,

		ShootPickupCooldown: 20,
		PassPickupCooldown:  8,
		LoosePickupCooldown: 12,
		LooseImpulseX:       120,
		LooseImpulseMinY:    -260,
		LooseImpulseMaxY:    -160,

		DunkRange:         200,
		DunkApproachTime:  0.7,
		DunkMinSpeed:      100,
		DunkMaxSpeed:      400,
		DunkNudge:         20,
		DunkRimX:          1050,
		DunkRimTolerance:  50,
		DunkHeightY:       355,
		DunkBallDropSpeed: 250,

		StealRange:           70,
		StealChance:          0.3,
		StealFailCooldown:    80,
		StealSuccessCooldown: 30,
		ShoveCooldown:        50,
		ShoveDistance:        60,

		AISpeedScale:      0.85,
		AIShootRange:      450,
		AIShootChance:     0.03,
		AIReleaseSlackMax: 120,
		AIStealIntent:     0.05,

		FeedbackTTL: 60,
	}
}

type Team int8

const (
	NoTeam Team = iota - 1
	TeamRed
	TeamPurple
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamPurple:
		return "purple"
	}
	return "none"
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamPurple
	case TeamPurple:
		return TeamRed
	}
	return NoTeam
}

// ActorID is an index into GameState.Actors.
type ActorID int8

const NoActor ActorID = -1

type MatchPhase uint8

const (
	PhaseCountdown MatchPhase = iota
	PhasePlaying
	PhaseGameOver
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	}
	return "unknown"
}

// VisualHint is the pose a renderer should draw for an actor.
type VisualHint uint8

const (
	HintIdle VisualHint = iota
	HintHasBall
	HintReadyToDunk
	HintDunking
)

func (h VisualHint) String() string {
	switch h {
	case HintHasBall:
		return "has-ball"
	case HintReadyToDunk:
		return "ready-to-dunk"
	case HintDunking:
		return "dunking"
	}
	return "idle"
}

// Cooldowns are tick counters. An action is legal only at exactly zero.
type Cooldowns struct {
	Steal int `json:"steal"`
	Shove int `json:"shove"`
}

func (c *Cooldowns) tick() {
	c.Steal = decr(c.Steal)
	c.Shove = decr(c.Shove)
}

func decr(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}

type Actor struct {
	ID         ActorID      `json:"id"`
	Team       Team         `json:"team"`
	Body       physics.Body `json:"body"`
	Facing     int8         `json:"facing"`
	Controlled bool         `json:"controlled"`
	Cooldowns  Cooldowns    `json:"cooldowns"`
	Hint       VisualHint   `json:"hint"`
}

type Ball struct {
	Body           physics.Body `json:"body"`
	LastOwner      ActorID      `json:"lastOwner"`
	EnteredHoop    bool         `json:"enteredHoop"`
	PickupCooldown int          `json:"pickupCooldown"`
}

// GameState is the whole simulation state. Match owns it and mutates it
// only inside Step.
type GameState struct {
	Tick       uint32     `json:"tick"`
	Phase      MatchPhase `json:"phase"`
	PhaseTimer float32    `json:"phaseTimer"`
	Clock      float32    `json:"clock"`
	Winner     Team       `json:"winner"`

	Actors     []Actor    `json:"actors"`
	Ball       Ball       `json:"ball"`
	Possession Possession `json:"possession"`
	Dunk       Dunk       `json:"dunk"`
	Score      [2]int     `json:"score"`

	// Active is the actor the human currently steers.
	Active ActorID `json:"active"`

	// RedCooldowns is shared by the whole controlled roster.
	RedCooldowns Cooldowns `json:"redCooldowns"`
}

// Clone returns a deep copy.
func (s *GameState) Clone() GameState {
	c := *s
	c.Actors = append([]Actor(nil), s.Actors...)
	return c
}

// Carrier returns the carrying actor, or nil.
func (s *GameState) Carrier() *Actor {
	id, ok := s.Possession.Carrier()
	if !ok {
		return nil
	}
	return &s.Actors[id]
}

func (s *GameState) cooldowns(a *Actor) *Cooldowns {
	if a.Controlled {
		return &s.RedCooldowns
	}
	return &a.Cooldowns
}

// Controlled returns the ids of the human roster in roster order.
func (s *GameState) Controlled() []ActorID {
	var ids []ActorID
	for i := range s.Actors {
		if s.Actors[i].Controlled {
			ids = append(ids, ActorID(i))
		}
	}
	return ids
}
