package tui

import (
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mth/switcheroo/internal/game"
	"github.com/mth/switcheroo/internal/randutil"
)

func testModel(t *testing.T) (*Model, *game.Machine, *quartz.Mock) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	mock := quartz.NewMock(t)
	machine := game.NewMachine(game.NewGenerator(randutil.New(42)), mock, logger)
	t.Cleanup(machine.Close)
	return New(machine, logger), machine, mock
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// drainEvents applies any queued machine events to the model, standing in
// for the Bubble Tea command loop.
func drainEvents(m *Model) {
	for {
		select {
		case ev := <-m.events:
			m.applyEvent(ev)
		default:
			return
		}
	}
}

// revealRound expires the memorize countdown and syncs the model.
func revealRound(t *testing.T, m *Model, machine *game.Machine, mock *quartz.Mock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seconds := int(game.MemorizeDuration(machine.Session().Difficulty).Seconds())
	for i := 0; i < seconds; i++ {
		mock.Advance(time.Second).MustWait(ctx)
	}
	require.Eventually(t, func() bool {
		return machine.Session().Phase == game.PhaseRecall
	}, time.Second, time.Millisecond)
	drainEvents(m)
}

func TestModelStartScreen(t *testing.T) {
	m, _, _ := testModel(t)

	view := m.View()
	assert.Contains(t, view, "SWITCHEROO")
	assert.Contains(t, view, "enter to play")
}

func TestModelWalkToMemorize(t *testing.T) {
	m, machine, _ := testModel(t)

	press(m, "enter")
	assert.Equal(t, game.PhaseDifficulty, machine.Session().Phase)
	assert.Contains(t, m.View(), "Choose a difficulty")

	press(m, "e")
	assert.Equal(t, game.PhaseNumberSelection, machine.Session().Phase)
	assert.Contains(t, m.View(), "How many tiles? (4-8)")

	typeText(m, "5")
	press(m, "enter")
	assert.Equal(t, game.PhaseMemorize, machine.Session().Phase)

	view := m.View()
	assert.Contains(t, view, "Memorize!")
	for _, v := range machine.Session().Round.Original {
		assert.Contains(t, view, strconv.Itoa(v))
	}
}

func TestModelRejectsNonNumericTileCount(t *testing.T) {
	m, machine, _ := testModel(t)

	press(m, "enter")
	press(m, "m")

	typeText(m, "ab")
	press(m, "enter")

	assert.Equal(t, game.PhaseNumberSelection, machine.Session().Phase)
	assert.Contains(t, m.View(), "Enter a number.")
}

func TestModelOutOfRangeTileCountKeepsPhase(t *testing.T) {
	m, machine, _ := testModel(t)

	press(m, "enter")
	press(m, "e")
	typeText(m, "99")
	press(m, "enter")

	assert.Equal(t, game.PhaseNumberSelection, machine.Session().Phase)
	assert.NotEmpty(t, machine.Session().Feedback)
}

func TestModelRecallAndSubmit(t *testing.T) {
	m, machine, mock := testModel(t)

	press(m, "enter")
	press(m, "e")
	typeText(m, "4")
	press(m, "enter")
	require.Equal(t, game.PhaseMemorize, machine.Session().Phase)

	revealRound(t, m, machine, mock)
	assert.Contains(t, m.View(), "Which tile changed?")

	changed := machine.Session().Round.ChangedIndex
	for i := 0; i < changed; i++ {
		press(m, "right")
	}
	if changed > 0 {
		assert.Equal(t, changed, machine.Session().Selection)
	}

	press(m, "enter")
	assert.Equal(t, game.PhaseRoundWin, machine.Session().Phase)
	assert.Equal(t, game.PointsPerCorrect, machine.Session().TotalScore)

	drainEvents(m)
	assert.Contains(t, m.View(), "Correct!")
	assert.Contains(t, m.View(), "The changed tile was")
}

func TestModelWrongGuessShowsGameOver(t *testing.T) {
	m, machine, mock := testModel(t)

	press(m, "enter")
	press(m, "e")
	typeText(m, "4")
	press(m, "enter")
	revealRound(t, m, machine, mock)

	changed := machine.Session().Round.ChangedIndex
	wrong := (changed + 1) % machine.Session().TileCount
	for i := 0; i < wrong; i++ {
		press(m, "right")
	}
	press(m, "enter")

	assert.Equal(t, game.PhaseGameOver, machine.Session().Phase)
	drainEvents(m)
	assert.Contains(t, m.View(), "Wrong tile.")
}

func TestModelCountdownTick(t *testing.T) {
	m, machine, _ := testModel(t)

	press(m, "enter")
	press(m, "e")
	typeText(m, "4")
	press(m, "enter")
	require.Equal(t, game.PhaseMemorize, machine.Session().Phase)

	m.applyEvent(game.NewTimerTickEvent(2))
	assert.Contains(t, m.View(), "2s left")
}

func TestModelQuitKey(t *testing.T) {
	m, _, _ := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
}
