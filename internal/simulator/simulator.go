package simulator

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mth/switcheroo/internal/game"
	"github.com/mth/switcheroo/internal/randutil"
	"github.com/mth/switcheroo/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Difficulty string
	TileCount  int // 0 means pick randomly within the difficulty's range per game
	Strategy   string
	Seed       int64
	Workers    int
	Logger     *log.Logger
}

// Simulator plays automated games against the session logic to measure how
// far different guessing strategies get.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Strategy == "" {
		config.Strategy = "random"
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns aggregate results. Games run in
// parallel; each game derives its own seed so results are reproducible
// regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if _, ok := game.ParseDifficulty(s.config.Difficulty); !ok {
		return nil, fmt.Errorf("unknown difficulty: %s", s.config.Difficulty)
	}
	if !validStrategy(s.config.Strategy) {
		return nil, fmt.Errorf("unknown strategy: %s", s.config.Strategy)
	}

	stats := statistics.New()
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Games; i++ {
		gameSeed := s.config.Seed + int64(i)
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := s.playGame(gameSeed)
			if err != nil {
				return fmt.Errorf("game with seed %d: %w", gameSeed, err)
			}

			mu.Lock()
			stats.Add(result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	return stats, nil
}

// playGame drives one full play-through using the pure session transitions.
// The memorize countdown is a presentation concern, so the simulator reveals
// each round immediately.
func (s *Simulator) playGame(seed int64) (statistics.GameResult, error) {
	rng := randutil.New(seed)
	gen := game.NewGenerator(rng)

	difficulty, _ := game.ParseDifficulty(s.config.Difficulty)
	tileCount := s.config.TileCount
	if tileCount == 0 {
		min, max := game.TileCountBounds(difficulty)
		tileCount = min + rng.IntN(max-min+1)
	}

	session := game.NewSession().
		Begin().
		ChooseDifficulty(difficulty).
		ChooseTileCount(tileCount, gen)
	if session.Phase != game.PhaseMemorize {
		return statistics.GameResult{}, fmt.Errorf("could not start round: %s", session.Feedback)
	}

	rounds := 0
	for {
		session = session.Reveal()
		session = session.Select(s.pickTile(rng, session)).Submit()
		rounds++

		switch session.Phase {
		case game.PhaseRoundWin:
			session = session.NextRound(gen)
			if session.Phase != game.PhaseMemorize {
				return statistics.GameResult{}, fmt.Errorf("could not start next round: %s", session.Feedback)
			}

		case game.PhaseOverallWin:
			return s.result(seed, tileCount, rounds, session, true), nil

		case game.PhaseGameOver:
			return s.result(seed, tileCount, rounds, session, false), nil

		default:
			return statistics.GameResult{}, fmt.Errorf("unexpected phase after submit: %s", session.Phase)
		}
	}
}

func (s *Simulator) result(seed int64, tileCount, rounds int, session game.Session, won bool) statistics.GameResult {
	return statistics.GameResult{
		Seed:       seed,
		Difficulty: s.config.Difficulty,
		TileCount:  tileCount,
		Rounds:     rounds,
		Score:      session.TotalScore,
		Won:        won,
	}
}

// pickTile chooses a tile index according to the configured strategy.
func (s *Simulator) pickTile(rng *rand.Rand, session game.Session) int {
	switch s.config.Strategy {
	case "perfect":
		return session.Round.ChangedIndex
	case "first":
		return 0
	default: // random
		return rng.IntN(session.TileCount)
	}
}

func validStrategy(strategy string) bool {
	switch strategy {
	case "random", "perfect", "first":
		return true
	default:
		return false
	}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, games int, difficulty, strategy string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Games:      games,
		Difficulty: difficulty,
		Strategy:   strategy,
		Seed:       seed,
		Logger:     logger,
	}).Run(ctx)
}

// PrintSummary prints a summary of simulation results
func PrintSummary(stats *statistics.Statistics, config Config) {
	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Games played: %d (difficulty=%s, strategy=%s)\n",
		stats.Games, config.Difficulty, config.Strategy)
	fmt.Printf("Wins: %d (%.1f%%), Losses: %d\n",
		stats.Wins, stats.WinRate()*100, stats.Losses)

	fmt.Printf("\n=== SCORE ===\n")
	fmt.Printf("Mean: %.2f points\n", stats.Mean())
	fmt.Printf("Median: %.2f points\n", stats.Median())
	fmt.Printf("Std Dev: %.2f points\n", stats.StdDev())
	low, high := stats.ConfidenceInterval95()
	fmt.Printf("95%% CI: [%.2f, %.2f] points\n", low, high)
	fmt.Printf("Percentiles: P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Printf("\n=== ROUNDS ===\n")
	fmt.Printf("Mean rounds survived: %.2f\n", stats.MeanRounds())
	fmt.Printf("Longest game: %d rounds\n", stats.MaxRounds)
}
