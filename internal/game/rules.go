package game

import "time"

// Fixed game constants. These are deliberately not configurable: the scoring
// curve and value range are part of the game's identity.
const (
	// RangeMax is the upper bound of the tile value range [1, RangeMax].
	RangeMax = 100

	// PointsPerCorrect is awarded for identifying the changed tile.
	PointsPerCorrect = 20

	// WinThreshold is the total score at which the player wins outright.
	WinThreshold = 100
)

// Difficulty selects the tile count range and memorization time for a session.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the lowercase name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a difficulty name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	default:
		return Easy, false
	}
}

// Static lookup tables keyed by difficulty. Tables rather than branching so a
// new tier only needs a row here.
var (
	tileCountRange = map[Difficulty][2]int{
		Easy:   {4, 8},
		Medium: {8, 12},
		Hard:   {12, 16},
	}

	memorizeDuration = map[Difficulty]time.Duration{
		Easy:   4 * time.Second,
		Medium: 8 * time.Second,
		Hard:   12 * time.Second,
	}
)

// TileCountBounds returns the inclusive min and max tile counts allowed for a
// difficulty.
func TileCountBounds(d Difficulty) (min, max int) {
	r := tileCountRange[d]
	return r[0], r[1]
}

// ValidTileCount reports whether count is an allowed grid size for the
// difficulty.
func ValidTileCount(d Difficulty, count int) bool {
	min, max := TileCountBounds(d)
	return count >= min && count <= max
}

// MemorizeDuration returns how long the original grid stays visible for the
// difficulty.
func MemorizeDuration(d Difficulty) time.Duration {
	return memorizeDuration[d]
}
