package input

import (
	"fmt"
	"strings"
)

// Bindings maps controls to key names. Key names are lower case; single
// characters name themselves and named keys use the aliases below.
type Bindings struct {
	Left     []string `yaml:"left"`
	Right    []string `yaml:"right"`
	Up       []string `yaml:"up"`
	Down     []string `yaml:"down"`
	Shoot    []string `yaml:"shoot"`
	Pass     []string `yaml:"pass"`
	Switch   []string `yaml:"switch"`
	Steal    []string `yaml:"steal"`
	Modifier []string `yaml:"modifier"`
}

// KeyNames lists the named keys a binding may use besides single characters.
var KeyNames = []string{"left", "right", "up", "down", "space", "enter", "tab", "shift", "escape"}

func DefaultBindings() Bindings {
	return Bindings{
		Left:     []string{"a", "left"},
		Right:    []string{"d", "right"},
		Up:       []string{"w", "up"},
		Down:     []string{"s", "down"},
		Shoot:    []string{"space", "j"},
		Pass:     []string{"k"},
		Switch:   []string{"tab", "q"},
		Steal:    []string{"l"},
		Modifier: []string{"shift", "e"},
	}
}

// Resolve builds a level state from a key-down predicate.
func (b Bindings) Resolve(down func(key string) bool) Held {
	held := func(keys []string) bool {
		for _, k := range keys {
			if down(k) {
				return true
			}
		}
		return false
	}

	var h Held
	if held(b.Left) {
		h.MoveX--
	}
	if held(b.Right) {
		h.MoveX++
	}
	if held(b.Up) {
		h.MoveY--
	}
	if held(b.Down) {
		h.MoveY++
	}
	if held(b.Shoot) {
		h.Buttons |= Shoot
	}
	if held(b.Pass) {
		h.Buttons |= Pass
	}
	if held(b.Switch) {
		h.Buttons |= Switch
	}
	if held(b.Steal) {
		h.Buttons |= Steal
	}
	if held(b.Modifier) {
		h.Buttons |= Modifier
	}
	return h
}

// Validate rejects unknown key names and empty controls.
func (b Bindings) Validate() error {
	groups := []struct {
		name string
		keys []string
	}{
		{"left", b.Left}, {"right", b.Right}, {"up", b.Up}, {"down", b.Down},
		{"shoot", b.Shoot}, {"pass", b.Pass}, {"switch", b.Switch},
		{"steal", b.Steal}, {"modifier", b.Modifier},
	}
	for _, g := range groups {
		if len(g.keys) == 0 {
			return fmt.Errorf("binding %q: no keys", g.name)
		}
		for _, k := range g.keys {
			if !validKey(k) {
				return fmt.Errorf("binding %q: unknown key %q", g.name, k)
			}
		}
	}
	return nil
}

func validKey(k string) bool {
	if k != strings.ToLower(k) {
		return false
	}
	if len([]rune(k)) == 1 {
		return true
	}
	for _, n := range KeyNames {
		if k == n {
			return true
		}
	}
	return false
}
