package main

import (
	"fmt"
	"io"
	"os"

	rand "math/rand/v2"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/mth/switcheroo/cmd/switcheroo/shared"
	"github.com/mth/switcheroo/internal/game"
	"github.com/mth/switcheroo/internal/randutil"
	"github.com/mth/switcheroo/internal/tui"
)

// PlayCmd plays a game locally in the terminal
type PlayCmd struct {
	Seed  *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug bool   `kong:"help='Write debug logs to switcheroo.log'"`
}

func (c *PlayCmd) Run() error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	logWriter := io.Writer(io.Discard)
	if c.Debug {
		f, err := os.OpenFile("switcheroo.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create debug log: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	logger := shared.NewLogger(logWriter, "debug")

	lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())

	var rng *rand.Rand
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	} else {
		rng, _ = randutil.NewTimeSeeded()
	}
	machine := game.NewMachine(game.NewGenerator(rng), quartz.NewReal(), logger)
	defer machine.Close()

	return tui.Run(machine, logger)
}
