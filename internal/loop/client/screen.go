package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/effect"
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/stats"
)

var (
	cellHead     = draw.Cell{Glyph: "██", Color: draw.ColorBrightGreen}
	cellBody     = draw.Cell{Glyph: "▓▓", Color: draw.ColorGreen}
	cellDeadHead = draw.Cell{Glyph: "██", Color: draw.ColorBrightRed}
	cellDeadBody = draw.Cell{Glyph: "▓▓", Color: draw.ColorRed}
	cellFood     = draw.Cell{Glyph: "██", Color: draw.ColorRed}
)

// figlet "small" font
var titleArt = []string{
	"  ___ _  _   _   _  _____ ",
	" / __| \\| | /_\\ | |/ / __|",
	" \\__ \\ .` |/ _ \\| ' <| _| ",
	" |___/_|\\_/_/ \\_\\_|\\_\\___|",
}

var causeText = map[game.Cause]string{
	game.CauseWall:      "You hit the wall",
	game.CauseSelf:      "You ran into yourself",
	game.CauseTimeout:   "Time's up",
	game.CauseBoardFull: "Board cleared!",
}

// currentScreen picks what to show this frame.
func (c *Client) currentScreen(u loop.Update) screen {
	switch {
	case !c.state.fits:
		return screenTooSmall
	case c.state.shuttingDown:
		return screenShutdown
	case c.state.isInactive:
		return screenInactive
	}
	switch u.Phase {
	case loop.PhasePlaying:
		return screenPlaying
	case loop.PhasePaused:
		return screenPaused
	case loop.PhaseGameOver:
		return screenGameOver
	}
	return screenTitle
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(u loop.Update) error {
	cw := c.frame

	// On screen transitions do a full terminal clear so overlays from the previous
	// screen don't persist.
	scr := c.currentScreen(u)
	if scr != c.state.prevScreen {
		cw.SetOffset(0, 0)
		cw.WriteString("\033[H\033[2J")
		c.board.ForceRedraw()
		c.state.prevScreen = scr
	}

	if scr == screenTooSmall {
		c.drawTooSmall()
		return cw.Flush()
	}

	c.fillBoard(u, scr)
	cw.SetOffset(c.offsetCol, c.offsetRow+config.HUDRows)
	c.board.Render(cw)

	switch scr {
	case screenTitle:
		c.drawTitleScreen(u)
	case screenPaused:
		c.drawPausedScreen()
	case screenGameOver:
		c.drawGameOverScreen(u)
	case screenInactive:
		c.drawInactivityScreen()
	case screenShutdown:
		c.drawShutdownScreen()
	}

	cw.SetOffset(c.offsetCol, c.offsetRow)
	c.drawHUD(u)
	c.drawFooter(scr)

	return cw.Flush()
}

// fillBoard paints the snake, food and particles into the board cells.
func (c *Client) fillBoard(u loop.Update, scr screen) {
	c.board.Clear()
	if scr != screenPlaying && scr != screenPaused && scr != screenGameOver {
		return
	}

	s := u.State
	if !s.GameOver {
		c.board.Set(s.Food.X, s.Food.Y, cellFood)
	}

	head, body := cellHead, cellBody
	if s.GameOver {
		head, body = cellDeadHead, cellDeadBody
	}
	for i := len(s.Snake) - 1; i >= 0; i-- {
		seg := s.Snake[i]
		if i == 0 {
			c.board.Set(seg.X, seg.Y, head)
		} else {
			c.board.Set(seg.X, seg.Y, body)
		}
	}

	if scr != screenPlaying {
		return
	}
	c.particles.Each(func(p *effect.Particle) {
		x, y := p.Cell()
		if c.board.At(x, y) != draw.Empty {
			return
		}
		shade := string(draw.ShadeLevel(p.Intensity()))
		c.board.Set(x, y, draw.Cell{Glyph: shade + shade, Color: draw.ColorYellow})
	})
}

// line writes s centered across the board's inner width at the given board row,
// padding with spaces so the whole row is overwritten.
func (c *Client) line(row int, s string) {
	inner := c.board.Width() - 2
	w := draw.TextWidth(s)
	if w >= inner {
		c.frame.WriteAt(2, row, s)
		return
	}
	left := (inner - w) / 2
	c.frame.WriteAt(2, row, strings.Repeat(" ", left)+s+strings.Repeat(" ", inner-w-left))
}

// blink returns s during the visible half of the blink cycle and blanks otherwise.
func blink(s string) string {
	if time.Now().UnixMilli()/600%2 == 0 {
		return s
	}
	return strings.Repeat(" ", draw.TextWidth(s))
}

// drawTitleScreen draws the mode selection screen with lifetime stats.
func (c *Client) drawTitleScreen(u loop.Update) {
	row := 3
	for _, l := range titleArt {
		c.line(row, draw.ColorBrightGreen+l+draw.ColorReset)
		row++
	}

	row++
	c.line(row, "Select mode")
	row++
	for i, m := range game.Modes {
		cfg := m.Config()
		text := fmt.Sprintf("  %d  %-9s x%d", i+1, cfg.Name, cfg.ScoreMultiplier)
		if m == u.Selected {
			text = draw.ColorBold + fmt.Sprintf("> %d  %-9s x%d", i+1, cfg.Name, cfg.ScoreMultiplier) + draw.ColorReset
		}
		c.line(row, text)
		row++
	}
	c.line(row, draw.ColorDim+u.Selected.Config().Description+draw.ColorReset)

	row += 2
	rec := stats.Empty()
	if c.stats != nil {
		rec = c.stats.Record()
	}
	c.line(row, fmt.Sprintf("Games %d   Avg %d   Best %d", rec.TotalGames, rec.AverageScore, u.State.HighScore))
	row++
	c.line(row, fmt.Sprintf("Longest %d   Achievements %d/%d",
		rec.LongestSnake, len(rec.Achievements), len(stats.Achievements)))

	row += 2
	c.line(row, blink(">>  Press SPACE to Start  <<"))

	if c.sound != nil {
		state := "on"
		if c.state.muted {
			state = "off"
		}
		row += 2
		c.line(row, draw.ColorDim+"M  sound "+state+draw.ColorReset)
	}

	if c.leaderboard != nil {
		c.line(c.board.Height()-1, leaderboardLine(c.leaderboard.Snapshot(), c.board.Width()-2))
	}
}

// leaderboardLine summarizes the server in one row: the player count and as many of
// the top two scores as fit in width.
func leaderboardLine(s server.Snapshot, width int) string {
	line := fmt.Sprintf("Online %d", s.Players)
	for i, e := range s.TopScores {
		if i == 2 {
			break
		}
		next := line + fmt.Sprintf("   %d. %s %d", i+1, e.Username, e.Score)
		if len(next) > width {
			break
		}
		line = next
	}
	return draw.ColorDim + line + draw.ColorReset
}

// drawPausedScreen draws the pause overlay.
func (c *Client) drawPausedScreen() {
	mid := c.board.Height() / 2
	c.line(mid-1, "")
	c.line(mid, draw.ColorBold+"P A U S E D"+draw.ColorReset)
	c.line(mid+1, "")
	c.line(mid+2, "Press P to resume")
	c.line(mid+3, "")
}

// drawGameOverScreen draws the result of the finished game.
func (c *Client) drawGameOverScreen(u loop.Update) {
	s := u.State
	row := 6
	c.line(row, draw.ColorBrightRed+draw.ColorBold+"G A M E   O V E R"+draw.ColorReset)
	row += 2
	c.line(row, causeText[u.Tick.Cause])
	row += 2
	c.line(row, fmt.Sprintf("Score %d   Length %d", s.Score, len(s.Snake)))
	row++
	c.line(row, fmt.Sprintf("Mode %s", s.Mode.Config().Name))
	row++
	if s.Score > 0 && s.Score == s.HighScore {
		c.line(row, draw.ColorYellow+"New high score!"+draw.ColorReset)
	} else {
		c.line(row, fmt.Sprintf("High score %d", s.HighScore))
	}
	row += 2
	c.line(row, blink(">>  Press SPACE for Menu  <<"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	left := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	mid := c.board.Height() / 2
	c.line(mid-2, draw.ColorBold+"INACTIVITY WARNING"+draw.ColorReset)
	c.line(mid, fmt.Sprintf("Disconnecting in %d seconds", max(left, 0)))
	c.line(mid+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	mid := c.board.Height() / 2
	c.line(mid-3, draw.ColorBold+"SERVER SHUTTING DOWN"+draw.ColorReset)
	c.line(mid-1, "The server is restarting.")
	c.line(mid, "Please reconnect in a moment.")
	c.line(mid+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	c.line(mid+4, "Press Q to disconnect now")
}

// drawTooSmall asks for a larger terminal.
func (c *Client) drawTooSmall() {
	width, height := c.layoutSize()
	c.frame.SetOffset(0, 0)
	c.frame.WriteAt(1, 1, "Terminal too small")
	c.frame.WriteAt(1, 2, fmt.Sprintf("Need %dx%d", width, height))
	c.frame.WriteAt(1, 3, "Press Q to quit")
}

// drawHUD draws the status lines above the board. Fields use fixed-width formatting
// so shrinking values don't leave residual characters on screen.
func (c *Client) drawHUD(u loop.Update) {
	cw := c.frame
	s := u.State
	width := c.board.Width()

	cw.WriteAt(1, 1, fmt.Sprintf("Score %-6d High %-6d", s.Score, s.HighScore))
	mode := fmt.Sprintf("%9s", s.Mode.Config().Name)
	cw.WriteAt(width-len(mode)+1, 1, mode)

	cw.WriteAt(1, 2, fmt.Sprintf("Length %-4d Speed %3dms", len(s.Snake), s.Speed))
	var right string
	switch {
	case s.Mode.Timed() && s.Started:
		right = fmt.Sprintf("Time %d:%02d", s.TimeRemaining/60, s.TimeRemaining%60)
		if s.TimeRemaining <= 10 {
			right = draw.ColorBrightRed + right + draw.ColorReset
		}
	case c.username != "":
		right = c.username
	}
	right = strings.Repeat(" ", max(0, 12-draw.TextWidth(right))) + right
	cw.WriteAt(width-draw.TextWidth(right)+1, 2, right)
}

// drawFooter draws the key hints below the board.
func (c *Client) drawFooter(scr screen) {
	var hint string
	switch scr {
	case screenTitle:
		hint = "1-3 mode  SPACE start  X clear  Q quit"
	case screenPlaying:
		hint = "ARROWS/WASD move  P pause  Q quit"
	case screenPaused:
		hint = "P resume  Q quit"
	case screenGameOver:
		hint = "SPACE menu  Q quit"
	case screenShutdown, screenInactive:
		hint = "Q quit"
	}
	width := c.board.Width()
	row := config.HUDRows + c.board.Height() + 1
	pad := max(0, width-len(hint))
	c.frame.WriteAt(1, row, draw.ColorDim+strings.Repeat(" ", pad/2)+hint+strings.Repeat(" ", pad-pad/2)+draw.ColorReset)
}
