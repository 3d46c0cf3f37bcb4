package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vladimirvolkov/courtside/internal/input"
)

var namedKeys = map[string]ebiten.Key{
	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"tab":    ebiten.KeyTab,
	"shift":  ebiten.KeyShift,
	"escape": ebiten.KeyEscape,

	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"0": ebiten.KeyDigit0, "1": ebiten.KeyDigit1, "2": ebiten.KeyDigit2,
	"3": ebiten.KeyDigit3, "4": ebiten.KeyDigit4, "5": ebiten.KeyDigit5,
	"6": ebiten.KeyDigit6, "7": ebiten.KeyDigit7, "8": ebiten.KeyDigit8,
	"9": ebiten.KeyDigit9,

	",": ebiten.KeyComma, ".": ebiten.KeyPeriod, "/": ebiten.KeySlash,
	";": ebiten.KeySemicolon, "'": ebiten.KeyQuote, "-": ebiten.KeyMinus,
	"=": ebiten.KeyEqual, "[": ebiten.KeyBracketLeft, "]": ebiten.KeyBracketRight,
}

// keyFor maps a binding key name to an ebiten key.
func keyFor(name string) (ebiten.Key, bool) {
	k, ok := namedKeys[name]
	return k, ok
}

// Unbound lists the keys in b this frontend cannot read.
func Unbound(b input.Bindings) []string {
	var missing []string
	for _, group := range [][]string{b.Left, b.Right, b.Up, b.Down, b.Shoot, b.Pass, b.Switch, b.Steal, b.Modifier} {
		for _, k := range group {
			if _, ok := keyFor(k); !ok {
				missing = append(missing, k)
			}
		}
	}
	return missing
}

const padDeadzone = 0.25

// gamepad reads the first connected standard-layout pad.
func gamepad() input.Held {
	var h input.Held
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		h.MoveX = deadzone(float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)))
		h.MoveY = deadzone(float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)))

		buttons := []struct {
			pad ebiten.StandardGamepadButton
			btn input.Button
		}{
			{ebiten.StandardGamepadButtonRightBottom, input.Shoot},
			{ebiten.StandardGamepadButtonRightRight, input.Pass},
			{ebiten.StandardGamepadButtonRightLeft, input.Steal},
			{ebiten.StandardGamepadButtonRightTop, input.Switch},
			{ebiten.StandardGamepadButtonFrontBottomRight, input.Modifier},
		}
		for _, b := range buttons {
			if ebiten.IsStandardGamepadButtonPressed(id, b.pad) {
				h.Buttons |= b.btn
			}
		}
		return h
	}
	return h
}

func deadzone(v float32) float32 {
	if v > -padDeadzone && v < padDeadzone {
		return 0
	}
	return v
}

// merge overlays a pad on the keyboard; keys win on an axis they press.
func merge(keys, pad input.Held) input.Held {
	if keys.MoveX == 0 {
		keys.MoveX = pad.MoveX
	}
	if keys.MoveY == 0 {
		keys.MoveY = pad.MoveY
	}
	keys.Buttons |= pad.Buttons
	return keys
}

// poller resolves bindings against a key predicate each tick.
func poller(b input.Bindings, pressed func(ebiten.Key) bool, pad func() input.Held) func() input.Held {
	down := func(name string) bool {
		k, ok := keyFor(name)
		return ok && pressed(k)
	}
	return func() input.Held {
		h := b.Resolve(down)
		if pad != nil {
			h = merge(h, pad())
		}
		return h
	}
}
