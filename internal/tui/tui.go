package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mth/switcheroo/internal/game"
)

// tilesPerRow caps grid width so a hard round still fits a small terminal.
const tilesPerRow = 4

// Model is the Bubble Tea model for local play. All game state lives in the
// machine; the model holds only the latest snapshot plus display concerns
// like the cursor and countdown.
type Model struct {
	machine *game.Machine
	logger  *log.Logger

	countInput textinput.Model

	session     game.Session
	secondsLeft int
	result      *game.RoundResultEvent
	cursor      int
	inputErr    string

	events   chan game.Event
	width    int
	quitting bool
}

// eventMsg wraps a machine event for the Bubble Tea update loop.
type eventMsg struct {
	event game.Event
}

// New creates a model bound to a machine and subscribes to its events.
func New(machine *game.Machine, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "tile count"
	ti.CharLimit = 2
	ti.Width = 12
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Focus()

	m := &Model{
		machine:    machine,
		logger:     logger.WithPrefix("tui"),
		countInput: ti,
		session:    machine.Session(),
		events:     make(chan game.Event, 64),
	}
	machine.EventBus().Subscribe(m)
	return m
}

// OnEvent implements game.EventSubscriber. Events are forwarded into the
// update loop rather than handled here, since the bus calls from the timer
// goroutine.
func (m *Model) OnEvent(event game.Event) {
	select {
	case m.events <- event:
	default:
		m.logger.Warn("Dropping event, display queue full", "type", event.EventType())
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent returns a command that delivers the next machine event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-m.events}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case eventMsg:
		m.applyEvent(msg.event)
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.countInput, cmd = m.countInput.Update(msg)
	return m, cmd
}

// applyEvent folds a machine event into the display state.
func (m *Model) applyEvent(event game.Event) {
	switch ev := event.(type) {
	case game.PhaseChangeEvent:
		prev := m.session.Phase
		m.session = ev.Session
		if m.session.Phase != prev {
			switch m.session.Phase {
			case game.PhaseNumberSelection:
				m.countInput.SetValue("")
				m.inputErr = ""
			case game.PhaseMemorize:
				m.result = nil
			case game.PhaseRecall:
				m.cursor = 0
			}
		}

	case game.RoundStartEvent:
		m.secondsLeft = ev.SecondsLeft

	case game.TimerTickEvent:
		m.secondsLeft = ev.SecondsLeft

	case game.RoundResultEvent:
		result := ev
		m.result = &result
	}
}

// handleKey dispatches a key press according to the current phase.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || (key == "q" && m.session.Phase != game.PhaseNumberSelection) {
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	}

	switch m.session.Phase {
	case game.PhaseStart:
		if key == "enter" {
			m.session = m.machine.Begin()
		}

	case game.PhaseDifficulty:
		switch key {
		case "e", "1":
			m.session = m.machine.ChooseDifficulty(game.Easy)
		case "m", "2":
			m.session = m.machine.ChooseDifficulty(game.Medium)
		case "h", "3":
			m.session = m.machine.ChooseDifficulty(game.Hard)
		}

	case game.PhaseNumberSelection:
		if key == "enter" {
			count, err := strconv.Atoi(strings.TrimSpace(m.countInput.Value()))
			if err != nil {
				m.inputErr = "Enter a number."
				m.countInput.SetValue("")
				return m, nil
			}
			m.inputErr = ""
			m.session = m.machine.ChooseTileCount(count)
			return m, nil
		}
		var cmd tea.Cmd
		m.countInput, cmd = m.countInput.Update(msg)
		return m, cmd

	case game.PhaseRecall:
		switch key {
		case "left":
			if m.cursor > 0 {
				m.cursor--
				m.session = m.machine.Select(m.cursor)
			}
		case "right":
			if m.cursor < m.session.TileCount-1 {
				m.cursor++
				m.session = m.machine.Select(m.cursor)
			}
		case "enter":
			if m.session.Selection == game.NoSelection {
				m.session = m.machine.Select(m.cursor)
			}
			m.session = m.machine.Submit()
		}

	case game.PhaseRoundWin, game.PhaseGameOver:
		switch key {
		case "n", "enter":
			m.session = m.machine.NextRound()
		case "h":
			m.session = m.machine.GoHome()
		}

	case game.PhaseOverallWin:
		if key == "h" || key == "enter" {
			m.session = m.machine.GoHome()
		}
	}

	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("SWITCHEROO"))
	b.WriteString("\n\n")

	if m.session.Phase != game.PhaseStart {
		b.WriteString(ScoreStyle.Render(fmt.Sprintf("Score: %d / %d", m.session.TotalScore, game.WinThreshold)))
		b.WriteString("\n\n")
	}

	switch m.session.Phase {
	case game.PhaseStart:
		b.WriteString("One number in the grid will change while you are not looking.\n")
		b.WriteString("Memorize the grid, then point at the impostor.\n\n")
		b.WriteString(HelpStyle.Render("enter to play, q to quit"))

	case game.PhaseDifficulty:
		b.WriteString("Choose a difficulty:\n\n")
		for _, d := range []game.Difficulty{game.Easy, game.Medium, game.Hard} {
			min, max := game.TileCountBounds(d)
			secs := int(game.MemorizeDuration(d).Seconds())
			b.WriteString(fmt.Sprintf("  [%c] %-6s  %d-%d tiles, %ds to memorize\n",
				d.String()[0], d.String(), min, max, secs))
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("e/m/h to choose, q to quit"))

	case game.PhaseNumberSelection:
		min, max := game.TileCountBounds(m.session.Difficulty)
		b.WriteString(fmt.Sprintf("How many tiles? (%d-%d)\n\n", min, max))
		b.WriteString(m.countInput.View())
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString(ErrorStyle.Render(m.inputErr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("enter to confirm"))

	case game.PhaseMemorize:
		b.WriteString(CountdownStyle.Render(fmt.Sprintf("Memorize! %ds left", m.secondsLeft)))
		b.WriteString("\n\n")
		b.WriteString(m.renderGrid(-1, -1))

	case game.PhaseRecall:
		b.WriteString("Which tile changed?\n\n")
		b.WriteString(m.renderGrid(m.cursor, -1))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("left/right to choose, enter to submit, q to quit"))

	case game.PhaseRoundWin:
		b.WriteString(SuccessStyle.Render("Correct!"))
		b.WriteString("\n\n")
		b.WriteString(m.renderResultGrid())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("n for next round, h for home, q to quit"))

	case game.PhaseOverallWin:
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("You win! Final score: %d", m.session.TotalScore)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("h for home, q to quit"))

	case game.PhaseGameOver:
		b.WriteString(ErrorStyle.Render("Wrong tile."))
		b.WriteString("\n\n")
		b.WriteString(m.renderResultGrid())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("n to try again, h for home, q to quit"))
	}

	if m.session.Feedback != "" {
		b.WriteString("\n\n")
		b.WriteString(FeedbackStyle.Render(m.session.Feedback))
	}

	b.WriteString("\n")
	return b.String()
}

// renderGrid draws the visible layout, highlighting the tile at selected and
// marking the tile at changed when a result has been revealed.
func (m *Model) renderGrid(selected, changed int) string {
	layout := m.session.VisibleLayout()
	if len(layout) == 0 {
		return ""
	}

	var rows []string
	for start := 0; start < len(layout); start += tilesPerRow {
		end := start + tilesPerRow
		if end > len(layout) {
			end = len(layout)
		}

		var tiles []string
		for i := start; i < end; i++ {
			style := TileStyle
			switch i {
			case changed:
				style = ChangedTileStyle
			case selected:
				style = SelectedTileStyle
			}
			tiles = append(tiles, style.Render(fmt.Sprintf("%3d", layout[i])))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderResultGrid shows the grid after a submission with the changed tile
// marked.
func (m *Model) renderResultGrid() string {
	changed := -1
	if m.result != nil {
		changed = m.result.ChangedIndex
	}
	grid := m.renderGrid(m.session.Selection, changed)
	if m.result == nil {
		return grid
	}
	reveal := fmt.Sprintf("The changed tile was #%d, now showing %d.",
		m.result.ChangedIndex+1, m.result.ChangedValue)
	return grid + "\n" + FeedbackStyle.Render(reveal)
}

// Run starts a local game in the terminal and blocks until the player quits.
func Run(machine *game.Machine, logger *log.Logger) error {
	model := New(machine, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
