package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_OneEdgePerPress(t *testing.T) {
	var a Adapter

	s := a.Sample(Held{Buttons: Shoot})
	assert.True(t, s.ShootPressed)
	assert.True(t, s.ShootHeld)
	assert.False(t, s.ShootReleased)

	for i := 0; i < 5; i++ {
		s = a.Sample(Held{Buttons: Shoot})
		assert.False(t, s.ShootPressed, "held tick %d", i)
		assert.True(t, s.ShootHeld)
	}

	s = a.Sample(Held{})
	assert.True(t, s.ShootReleased)
	assert.False(t, s.ShootHeld)

	s = a.Sample(Held{})
	assert.False(t, s.ShootReleased)
}

func TestAdapter_SubTickTapIsLatched(t *testing.T) {
	var a Adapter

	a.Feed(Held{Buttons: Pass | Shoot})
	a.Feed(Held{})
	s := a.Tick()
	assert.True(t, s.PassPressed)
	assert.True(t, s.ShootPressed)

	s = a.Tick()
	assert.True(t, s.ShootReleased)
	assert.False(t, s.PassPressed)
	assert.False(t, s.ShootPressed)
}

func TestAdapter_ModifierIsLevel(t *testing.T) {
	var a Adapter

	s := a.Sample(Held{Buttons: Modifier})
	assert.True(t, s.Modifier)
	s = a.Sample(Held{Buttons: Modifier | Steal})
	assert.True(t, s.Modifier)
	assert.True(t, s.StealPressed)
	s = a.Sample(Held{Buttons: Modifier | Steal})
	assert.False(t, s.StealPressed)
}

func TestAdapter_ClampsMovement(t *testing.T) {
	var a Adapter

	s := a.Sample(Held{MoveX: -3, MoveY: 0.5})
	assert.Equal(t, float32(-1), s.MoveX)
	assert.Equal(t, float32(0.5), s.MoveY)
}

func TestAdapter_ResetReportsFreshPress(t *testing.T) {
	var a Adapter
	a.Sample(Held{Buttons: Switch})
	a.Reset()

	s := a.Sample(Held{Buttons: Switch})
	assert.True(t, s.SwitchPressed)
}

func TestBindings_Resolve(t *testing.T) {
	b := DefaultBindings()
	down := map[string]bool{"left": true, "d": true, "space": true, "shift": true, "l": true}

	h := b.Resolve(func(k string) bool { return down[k] })

	assert.Equal(t, float32(0), h.MoveX, "opposite directions cancel")
	assert.True(t, h.Has(Shoot|Modifier|Steal))
	assert.False(t, h.Has(Pass))
}

func TestBindings_Validate(t *testing.T) {
	require.NoError(t, DefaultBindings().Validate())

	b := DefaultBindings()
	b.Pass = nil
	assert.Error(t, b.Validate())

	b = DefaultBindings()
	b.Shoot = []string{"spacebar"}
	assert.Error(t, b.Validate())

	b = DefaultBindings()
	b.Shoot = []string{"J"}
	assert.Error(t, b.Validate())
}

func TestKeyTracker_HoldWindows(t *testing.T) {
	clock := time.Unix(0, 0)
	kt := NewKeyTracker()
	kt.now = func() time.Time { return clock }

	kt.Press("j")
	assert.True(t, kt.IsDown("j"))

	clock = clock.Add(DefaultFirstHold - time.Millisecond)
	assert.True(t, kt.IsDown("j"), "first press waits for the OS repeat delay")

	kt.Press("j")
	clock = clock.Add(DefaultRepeatHold + time.Millisecond)
	assert.False(t, kt.IsDown("j"), "repeats use the short window")

	kt.Press("j")
	assert.True(t, kt.IsDown("j"))
	kt.Release("j")
	assert.False(t, kt.IsDown("j"))
}
