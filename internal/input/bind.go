package input

import (
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
)

// Command maps a key to the controller command it triggers. Keys handled by the
// frontend itself (quit, mute) report false.
func Command(k Key) (loop.Command, bool) {
	switch k {
	case KeyUp:
		return loop.Command{Kind: loop.CmdSteer, Direction: game.Up}, true
	case KeyDown:
		return loop.Command{Kind: loop.CmdSteer, Direction: game.Down}, true
	case KeyLeft:
		return loop.Command{Kind: loop.CmdSteer, Direction: game.Left}, true
	case KeyRight:
		return loop.Command{Kind: loop.CmdSteer, Direction: game.Right}, true
	case KeyConfirm:
		return loop.Command{Kind: loop.CmdConfirm}, true
	case KeyPause:
		return loop.Command{Kind: loop.CmdTogglePause}, true
	case KeyMode1:
		return loop.Command{Kind: loop.CmdSelectMode, Mode: game.ModeClassic}, true
	case KeyMode2:
		return loop.Command{Kind: loop.CmdSelectMode, Mode: game.ModeSpeed}, true
	case KeyMode3:
		return loop.Command{Kind: loop.CmdSelectMode, Mode: game.ModeSurvival}, true
	case KeyResetStats:
		return loop.Command{Kind: loop.CmdResetStats}, true
	}
	return loop.Command{}, false
}

// SteerCommand wraps a direction, e.g. from a swipe.
func SteerCommand(d game.Direction) loop.Command {
	return loop.Command{Kind: loop.CmdSteer, Direction: d}
}
