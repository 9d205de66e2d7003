package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mth/switcheroo/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestSimulatorPerfectStrategyAlwaysWins(t *testing.T) {
	t.Parallel()

	stats, err := New(Config{
		Games:      20,
		Difficulty: "easy",
		Strategy:   "perfect",
		Seed:       42,
		Logger:     testLogger(),
	}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Games)
	assert.Equal(t, 20, stats.Wins)
	assert.Equal(t, 0, stats.Losses)
	assert.Equal(t, 1.0, stats.WinRate())
	assert.Equal(t, float64(game.WinThreshold), stats.Mean())
	assert.Equal(t, 5.0, stats.MeanRounds(), "winning takes exactly five correct rounds")
}

func TestSimulatorRandomStrategy(t *testing.T) {
	t.Parallel()

	stats, err := New(Config{
		Games:      200,
		Difficulty: "hard",
		Strategy:   "random",
		Seed:       7,
		Workers:    4,
		Logger:     testLogger(),
	}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, stats.Games)
	assert.Equal(t, stats.Games, stats.Wins+stats.Losses)
	// Random guessing on 12-16 tiles should lose almost every game.
	assert.Less(t, stats.WinRate(), 0.05)
	require.NoError(t, stats.Validate())
}

func TestSimulatorDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	run := func(workers int) float64 {
		stats, err := New(Config{
			Games:      50,
			Difficulty: "medium",
			Strategy:   "random",
			Seed:       99,
			Workers:    workers,
			Logger:     testLogger(),
		}).Run(context.Background())
		require.NoError(t, err)
		return stats.Mean()
	}

	assert.Equal(t, run(1), run(8), "per-game seeds make results independent of scheduling")
}

func TestSimulatorFixedTileCount(t *testing.T) {
	t.Parallel()

	stats, err := New(Config{
		Games:      10,
		Difficulty: "easy",
		TileCount:  6,
		Strategy:   "perfect",
		Seed:       1,
		Logger:     testLogger(),
	}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Wins)
}

func TestSimulatorRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Games: 1, Difficulty: "brutal", Logger: testLogger()}).Run(context.Background())
	assert.Error(t, err)

	_, err = New(Config{Games: 1, Difficulty: "easy", Strategy: "psychic", Logger: testLogger()}).Run(context.Background())
	assert.Error(t, err)
}

func TestSimulatorInvalidTileCountFails(t *testing.T) {
	t.Parallel()

	_, err := New(Config{
		Games:      1,
		Difficulty: "easy",
		TileCount:  30,
		Strategy:   "random",
		Seed:       5,
		Logger:     testLogger(),
	}).Run(context.Background())
	assert.Error(t, err)
}

func TestSimulatorCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{
		Games:      100,
		Difficulty: "easy",
		Strategy:   "random",
		Seed:       3,
		Workers:    1,
		Logger:     testLogger(),
	}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
