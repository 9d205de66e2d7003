package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single simulated play-through
type GameResult struct {
	Seed       int64  // RNG seed for this game (for replay)
	Difficulty string // Difficulty the game was played at
	TileCount  int    // Grid size chosen for the game
	Rounds     int    // Rounds played before the game ended
	Score      int    // Final total score
	Won        bool   // Reached the winning score
}

// DifficultyStats tracks statistics for a single difficulty tier
type DifficultyStats struct {
	Games     int
	Wins      int
	SumScore  float64
	SumScore2 float64
}

// Statistics tracks aggregate simulation results
type Statistics struct {
	Games     int
	Wins      int
	Losses    int
	SumScore  float64
	SumScore2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all scores for median/percentile calculation

	RoundsPlayed int // Total rounds across all games
	MaxRounds    int // Longest single game

	// Per-difficulty analytics
	PerDifficulty map[string]*DifficultyStats
}

// New returns an empty statistics accumulator.
func New() *Statistics {
	return &Statistics{PerDifficulty: make(map[string]*DifficultyStats)}
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	score := float64(result.Score)
	s.Games++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Values = append(s.Values, score)

	if result.Won {
		s.Wins++
	} else {
		s.Losses++
	}

	s.RoundsPlayed += result.Rounds
	if result.Rounds > s.MaxRounds {
		s.MaxRounds = result.Rounds
	}

	ds, ok := s.PerDifficulty[result.Difficulty]
	if !ok {
		ds = &DifficultyStats{}
		s.PerDifficulty[result.Difficulty] = ds
	}
	ds.Games++
	if result.Won {
		ds.Wins++
	}
	ds.SumScore += score
	ds.SumScore2 += score * score
}

// Mean returns the arithmetic mean score per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// Variance returns the sample variance of scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean score
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the score at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}

	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}

	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// WinRate returns the fraction of games won
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// MeanRounds returns the average number of rounds survived per game
func (s *Statistics) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.RoundsPlayed) / float64(s.Games)
}

// DifficultyMean returns the mean score for one difficulty tier
func (s *Statistics) DifficultyMean(difficulty string) float64 {
	ds, ok := s.PerDifficulty[difficulty]
	if !ok || ds.Games == 0 {
		return 0
	}
	return ds.SumScore / float64(ds.Games)
}

// Validate performs consistency checks on the accumulated statistics
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses != s.Games {
		return fmt.Errorf("wins (%d) + losses (%d) != games (%d)", s.Wins, s.Losses, s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("stored values (%d) != games (%d)", len(s.Values), s.Games)
	}

	perDiff := 0
	for _, ds := range s.PerDifficulty {
		perDiff += ds.Games
	}
	if perDiff != s.Games {
		return fmt.Errorf("per-difficulty games (%d) != games (%d)", perDiff, s.Games)
	}

	return nil
}
