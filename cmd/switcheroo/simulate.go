package main

import (
	"time"

	"github.com/mth/switcheroo/cmd/switcheroo/shared"
	"github.com/mth/switcheroo/internal/simulator"
)

// SimulateCmd runs automated games and reports statistics
type SimulateCmd struct {
	Games      int    `kong:"default='1000',help='Number of games to simulate'"`
	Difficulty string `kong:"default='easy',enum='easy,medium,hard',help='Difficulty tier'"`
	TileCount  int    `kong:"default='0',help='Fixed grid size (0 picks randomly per game)'"`
	Strategy   string `kong:"default='random',enum='random,perfect,first',help='Guessing strategy'"`
	Seed       int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Workers    int    `kong:"default='0',help='Parallel workers (0 for GOMAXPROCS)'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(level)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	}

	config := simulator.Config{
		Games:      c.Games,
		Difficulty: c.Difficulty,
		TileCount:  c.TileCount,
		Strategy:   c.Strategy,
		Seed:       seed,
		Workers:    c.Workers,
		Logger:     logger,
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	start := time.Now()
	stats, err := simulator.New(config).Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Simulation complete",
		"games", stats.Games,
		"elapsed", time.Since(start).Round(time.Millisecond))
	simulator.PrintSummary(stats, config)
	return nil
}
