// Package input turns device level states into per-tick snapshots with
// debounced press and release edges.
package input

// Button is a bitmask of action buttons held at one instant.
type Button uint8

const (
	Shoot Button = 1 << iota
	Pass
	Switch
	Steal
	Modifier
)

// Held is the raw level state of the controls at one instant, as sampled by
// a frontend or decoded from the wire.
type Held struct {
	MoveX   float32 `json:"moveX" msgpack:"x"`
	MoveY   float32 `json:"moveY" msgpack:"y"`
	Buttons Button  `json:"buttons" msgpack:"b"`
}

// Has reports whether every button in b is down.
func (h Held) Has(b Button) bool { return h.Buttons&b == b }

// Snapshot is what the gameplay core reads once per tick.
type Snapshot struct {
	MoveX float32
	MoveY float32

	ShootPressed  bool
	ShootReleased bool
	ShootHeld     bool
	PassPressed   bool
	SwitchPressed bool
	StealPressed  bool
	Modifier      bool

	// Level is the effective level state this snapshot was derived from.
	Level Held
}

// Adapter debounces level input into edges. Frontends may Feed several
// times between ticks; a button that went down and up again before the tick
// is latched so the core still sees exactly one press and one release.
type Adapter struct {
	cur     Held
	latched Button
	prev    Button
}

// Feed records the latest level state.
func (a *Adapter) Feed(h Held) {
	a.cur = h
	a.latched |= h.Buttons
}

// Tick derives the snapshot for the current tick and clears the latch.
func (a *Adapter) Tick() Snapshot {
	eff := a.cur.Buttons | a.latched
	pressed := eff &^ a.prev
	released := a.prev &^ eff

	s := Snapshot{
		MoveX:         clampAxis(a.cur.MoveX),
		MoveY:         clampAxis(a.cur.MoveY),
		ShootPressed:  pressed&Shoot != 0,
		ShootReleased: released&Shoot != 0,
		ShootHeld:     eff&Shoot != 0,
		PassPressed:   pressed&Pass != 0,
		SwitchPressed: pressed&Switch != 0,
		StealPressed:  pressed&Steal != 0,
		Modifier:      eff&Modifier != 0,
		Level:         Held{MoveX: a.cur.MoveX, MoveY: a.cur.MoveY, Buttons: eff},
	}

	a.prev = eff
	a.latched = 0
	return s
}

// Sample is Feed followed by Tick, for sources that deliver exactly one
// level state per tick.
func (a *Adapter) Sample(h Held) Snapshot {
	a.Feed(h)
	return a.Tick()
}

// Reset forgets all held buttons. The next tick reports presses for
// anything still down.
func (a *Adapter) Reset() {
	*a = Adapter{}
}

func clampAxis(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
