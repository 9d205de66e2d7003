package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(score, rounds int, won bool, difficulty string) GameResult {
	return GameResult{
		Difficulty: difficulty,
		TileCount:  4,
		Rounds:     rounds,
		Score:      score,
		Won:        won,
	}
}

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.StdDev())
	assert.Equal(t, 0.0, s.Median())
	assert.Equal(t, 0.0, s.WinRate())
	assert.NoError(t, s.Validate())
}

func TestStatisticsAccumulation(t *testing.T) {
	t.Parallel()

	s := New()
	s.Add(result(100, 5, true, "easy"))
	s.Add(result(0, 0, false, "easy"))
	s.Add(result(40, 2, false, "medium"))
	s.Add(result(60, 3, false, "medium"))

	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 3, s.Losses)
	assert.Equal(t, 0.25, s.WinRate())
	assert.Equal(t, 50.0, s.Mean())
	assert.Equal(t, 2.5, s.MeanRounds())
	assert.Equal(t, 5, s.MaxRounds)
	require.NoError(t, s.Validate())
}

func TestStatisticsVariance(t *testing.T) {
	t.Parallel()

	s := New()
	for _, score := range []int{20, 40, 60} {
		s.Add(result(score, score/20, false, "easy"))
	}

	// Sample variance of {20, 40, 60} is 400.
	assert.InDelta(t, 400.0, s.Variance(), 1e-9)
	assert.InDelta(t, 20.0, s.StdDev(), 1e-9)
}

func TestStatisticsMedianAndPercentiles(t *testing.T) {
	t.Parallel()

	s := New()
	for _, score := range []int{0, 20, 40, 60, 80} {
		s.Add(result(score, score/20, false, "hard"))
	}

	assert.Equal(t, 40.0, s.Median())
	assert.Equal(t, 0.0, s.Percentile(0))
	assert.Equal(t, 80.0, s.Percentile(1))
	assert.Equal(t, 20.0, s.Percentile(0.25))
}

func TestStatisticsPerDifficulty(t *testing.T) {
	t.Parallel()

	s := New()
	s.Add(result(100, 5, true, "easy"))
	s.Add(result(20, 1, false, "easy"))
	s.Add(result(0, 0, false, "hard"))

	assert.Equal(t, 60.0, s.DifficultyMean("easy"))
	assert.Equal(t, 0.0, s.DifficultyMean("hard"))
	assert.Equal(t, 0.0, s.DifficultyMean("medium"))
	assert.Equal(t, 2, s.PerDifficulty["easy"].Games)
	assert.Equal(t, 1, s.PerDifficulty["easy"].Wins)
	require.NoError(t, s.Validate())
}

func TestStatisticsValidateDetectsDrift(t *testing.T) {
	t.Parallel()

	s := New()
	s.Add(result(20, 1, false, "easy"))
	s.Games++ // corrupt on purpose

	assert.Error(t, s.Validate())
}
