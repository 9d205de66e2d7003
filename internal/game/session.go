package game

import "fmt"

// Phase identifies where a session is in the game flow.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseDifficulty
	PhaseNumberSelection
	PhaseMemorize
	PhaseRecall
	PhaseRoundWin
	PhaseOverallWin
	PhaseGameOver
)

// String returns the snake_case name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseDifficulty:
		return "difficulty"
	case PhaseNumberSelection:
		return "number_selection"
	case PhaseMemorize:
		return "memorize"
	case PhaseRecall:
		return "recall"
	case PhaseRoundWin:
		return "round_win"
	case PhaseOverallWin:
		return "overall_win"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// NoSelection marks a session with no tile picked yet.
const NoSelection = -1

// Session is one player's state across rounds within a single play-through.
// It is a value: every transition returns a new Session, which keeps
// transitions independently testable and lets presentation layers hold
// consistent snapshots. Invalid transitions return the session unchanged
// except for the Feedback message.
type Session struct {
	Phase      Phase
	Difficulty Difficulty
	TileCount  int
	TotalScore int
	Selection  int
	Round      *Round
	Feedback   string
}

// NewSession returns a session at the start screen.
func NewSession() Session {
	return Session{Phase: PhaseStart, Selection: NoSelection}
}

// Begin moves from the start screen to difficulty selection.
func (s Session) Begin() Session {
	if s.Phase != PhaseStart {
		return s
	}
	s.Phase = PhaseDifficulty
	s.Feedback = "Choose a difficulty."
	return s
}

// ChooseDifficulty records the difficulty and resets the score for a fresh
// play-through.
func (s Session) ChooseDifficulty(d Difficulty) Session {
	if s.Phase != PhaseDifficulty {
		return s
	}
	s.Difficulty = d
	s.TotalScore = 0
	s.Phase = PhaseNumberSelection
	min, max := TileCountBounds(d)
	s.Feedback = fmt.Sprintf("How many tiles? Pick %d to %d.", min, max)
	return s
}

// ChooseTileCount validates the grid size against the difficulty's allowed
// set, builds the first round, and enters the memorize phase.
func (s Session) ChooseTileCount(count int, g *Generator) Session {
	if s.Phase != PhaseNumberSelection {
		return s
	}
	if !ValidTileCount(s.Difficulty, count) {
		min, max := TileCountBounds(s.Difficulty)
		s.Feedback = fmt.Sprintf("%d tiles is not allowed on %s. Pick %d to %d.", count, s.Difficulty, min, max)
		return s
	}
	s.TileCount = count
	return s.startRound(g)
}

// Reveal swaps the memorized grid for the scrambled recall layout. It is
// driven by the memorize timer expiring.
func (s Session) Reveal() Session {
	if s.Phase != PhaseMemorize {
		return s
	}
	s.Phase = PhaseRecall
	s.Feedback = "One number changed. Which tile is it?"
	return s
}

// Select records the player's tile pick. Picks outside the recall phase are
// no-ops.
func (s Session) Select(index int) Session {
	if s.Phase != PhaseRecall {
		return s
	}
	if s.Round == nil || index < 0 || index >= len(s.Round.RecallLayout) {
		s.Feedback = "That tile does not exist."
		return s
	}
	s.Selection = index
	s.Feedback = fmt.Sprintf("Tile %d selected. Submit when ready.", index+1)
	return s
}

// Submit scores the recorded selection. A correct pick awards points and wins
// the round (or the game at the threshold); a wrong pick ends the game with
// the score untouched. Submitting without a selection is rejected locally.
func (s Session) Submit() Session {
	if s.Phase != PhaseRecall {
		return s
	}
	if s.Selection == NoSelection {
		s.Feedback = "Pick a tile before submitting."
		return s
	}

	if s.Selection == s.Round.ChangedIndex {
		s.TotalScore += PointsPerCorrect
		if s.TotalScore >= WinThreshold {
			s.Phase = PhaseOverallWin
			s.Feedback = fmt.Sprintf("You win! Final score %d.", s.TotalScore)
		} else {
			s.Phase = PhaseRoundWin
			s.Feedback = fmt.Sprintf("Correct! %d points, %d total.", PointsPerCorrect, s.TotalScore)
		}
		return s
	}

	s.Phase = PhaseGameOver
	s.Feedback = fmt.Sprintf("Wrong tile. The new number was %d.", s.Round.ChangedValue)
	return s
}

// NextRound regenerates a round at the same tile count after a round win or a
// game over ("try again").
func (s Session) NextRound(g *Generator) Session {
	if s.Phase != PhaseRoundWin && s.Phase != PhaseGameOver {
		return s
	}
	return s.startRound(g)
}

// GoHome resets the session to the start screen from any phase.
func (s Session) GoHome() Session {
	return NewSession()
}

func (s Session) startRound(g *Generator) Session {
	round, err := g.BuildRound(s.TileCount, RangeMax)
	if err != nil {
		s.Feedback = "Could not build a round: " + err.Error()
		return s
	}
	s.Round = round
	s.Selection = NoSelection
	s.Phase = PhaseMemorize
	s.Feedback = "Memorize the numbers!"
	return s
}

// VisibleLayout returns the numbers the player should currently see: the
// original grid while memorizing, the scrambled layout from recall onwards,
// nothing elsewhere.
func (s Session) VisibleLayout() []int {
	if s.Round == nil {
		return nil
	}
	switch s.Phase {
	case PhaseMemorize:
		return s.Round.Original
	case PhaseRecall, PhaseRoundWin, PhaseOverallWin, PhaseGameOver:
		return s.Round.RecallLayout
	default:
		return nil
	}
}

// RoundActive reports whether the session currently holds a live round.
func (s Session) RoundActive() bool {
	return s.Phase == PhaseMemorize || s.Phase == PhaseRecall
}
