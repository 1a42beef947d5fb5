package input

import (
	"math"
	"strings"

	"github.com/tomz197/snake/internal/game"
)

// MinSwipeDistance is the smallest touch displacement, in CSS pixels, treated as a swipe.
const MinSwipeDistance = 30

// ParseKeyName maps a DOM KeyboardEvent.key value to a Key.
func ParseKeyName(name string) Key {
	switch name {
	case "ArrowUp":
		return KeyUp
	case "ArrowDown":
		return KeyDown
	case "ArrowLeft":
		return KeyLeft
	case "ArrowRight":
		return KeyRight
	case " ", "Spacebar", "Enter":
		return KeyConfirm
	case "Escape", "Esc":
		return KeyPause
	}
	if len(name) != 1 {
		return KeyNone
	}
	// Single characters share the terminal bindings.
	return byteKey(strings.ToLower(name)[0])
}

// Swipe classifies a touch gesture from its start-to-end displacement. The axis with
// the larger magnitude wins; gestures shorter than MinSwipeDistance on that axis are
// ignored.
func Swipe(dx, dy float64) (game.Direction, bool) {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ax > ay && ax >= MinSwipeDistance:
		if dx > 0 {
			return game.Right, true
		}
		return game.Left, true
	case ay >= ax && ay >= MinSwipeDistance:
		if dy > 0 {
			return game.Down, true
		}
		return game.Up, true
	}
	return game.None, false
}
