package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/client"
	"github.com/tomz197/snake/internal/stats"
	"github.com/tomz197/snake/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "snake: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	mode, err := game.ParseMode(config.GetEnv("SNAKE_MODE", game.ModeClassic.String()))
	if err != nil {
		return fmt.Errorf("SNAKE_MODE: %w", err)
	}

	// Anything written to stderr would corrupt the screen, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SNAKE_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "snake")

	db, closeDB, err := store.Open(config.GetEnv("SNAKE_DB", ""))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}()

	tracker := stats.NewTracker(db, logger)
	ctrl := loop.New(loop.Options{
		Scores: store.NewHighScores(db),
		Mode:   mode,
		Logger: logger,
	})
	ctrl.Subscribe(tracker)

	opts := client.ClientOptions{Stats: tracker, Logger: logger}
	if config.GetEnvBool("SNAKE_AUDIO", true) {
		if spk := newSpeaker(logger); spk != nil {
			defer spk.Close()
			ctrl.Subscribe(audio.Cues{Player: spk})
			tracker.OnUnlock(func(stats.Achievement) { spk.Play(audio.CueAchievement) })
			opts.Sound = spk
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	logger.Info("session started", "mode", mode)
	c := client.NewClient(ctrl, bufio.NewReader(os.Stdin), os.Stdout, opts)
	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	logger.Info("session ended", "high", ctrl.Snapshot().State.HighScore)
	return nil
}

// newSpeaker opens the audio device. Playing without sound is fine, so failures
// are only logged.
func newSpeaker(logger *log.Logger) *audio.Speaker {
	spk, err := audio.NewSpeaker()
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return nil
	}
	return spk
}
