package game

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Machine drives a single session through the game flow. It serializes all
// mutation behind one mutex, owns the memorize timer, and publishes events so
// presentation layers (websocket connection, terminal UI) can react without
// reaching into game state.
type Machine struct {
	mu      sync.Mutex
	session Session

	gen    *Generator
	timer  *MemorizeTimer
	bus    EventBus
	logger *log.Logger
}

// NewMachine creates a machine at the start screen. The clock is forwarded to
// the memorize timer; pass quartz.NewReal() outside tests.
func NewMachine(gen *Generator, clock quartz.Clock, logger *log.Logger) *Machine {
	return &Machine{
		session: NewSession(),
		gen:     gen,
		timer:   NewMemorizeTimer(clock),
		bus:     NewEventBus(),
		logger:  logger.WithPrefix("machine"),
	}
}

// EventBus returns the bus transitions are published on.
func (m *Machine) EventBus() EventBus {
	return m.bus
}

// Session returns a snapshot of the current session.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Begin moves from the start screen to difficulty selection.
func (m *Machine) Begin() Session {
	return m.transition(func(s Session) Session { return s.Begin() })
}

// ChooseDifficulty records the difficulty and resets the score.
func (m *Machine) ChooseDifficulty(d Difficulty) Session {
	return m.transition(func(s Session) Session { return s.ChooseDifficulty(d) })
}

// ChooseTileCount builds the first round and starts the memorize countdown.
func (m *Machine) ChooseTileCount(count int) Session {
	return m.transition(func(s Session) Session { return s.ChooseTileCount(count, m.gen) })
}

// Select records a tile pick during recall.
func (m *Machine) Select(index int) Session {
	return m.transition(func(s Session) Session { return s.Select(index) })
}

// Submit scores the recorded selection.
func (m *Machine) Submit() Session {
	return m.transition(func(s Session) Session { return s.Submit() })
}

// NextRound starts a fresh round at the same tile count.
func (m *Machine) NextRound() Session {
	return m.transition(func(s Session) Session { return s.NextRound(m.gen) })
}

// GoHome resets to the start screen from any phase.
func (m *Machine) GoHome() Session {
	return m.transition(func(s Session) Session { return s.GoHome() })
}

// Close cancels any outstanding timer. The machine must not be used after.
func (m *Machine) Close() {
	m.timer.Stop()
}

// transition applies a pure session transition, then reconciles the timer
// with the resulting phase and publishes events. The bus is invoked outside
// the lock so subscribers may call back into the machine.
func (m *Machine) transition(f func(Session) Session) Session {
	m.mu.Lock()
	from := m.session
	next := f(from)
	m.session = next
	m.mu.Unlock()

	if from.Phase != next.Phase {
		m.logger.Debug("Phase transition",
			"from", from.Phase,
			"to", next.Phase,
			"score", next.TotalScore)
	}

	leftMemorize := from.Phase == PhaseMemorize && next.Phase != PhaseMemorize
	newRound := next.Phase == PhaseMemorize && next.Round != from.Round

	if leftMemorize {
		m.timer.Stop()
	}
	if newRound {
		m.startMemorizeTimer(next)
		m.bus.Publish(NewRoundStartEvent(next.TileCount, int(MemorizeDuration(next.Difficulty).Seconds())))
	}

	if from.Phase == PhaseRecall && next.Phase != PhaseRecall && next.Round != nil {
		switch next.Phase {
		case PhaseRoundWin, PhaseOverallWin:
			m.bus.Publish(NewRoundResultEvent(true, next.Round.ChangedIndex, next.Round.ChangedValue, next.TotalScore))
		case PhaseGameOver:
			m.bus.Publish(NewRoundResultEvent(false, next.Round.ChangedIndex, next.Round.ChangedValue, next.TotalScore))
		}
	}

	m.bus.Publish(NewPhaseChangeEvent(from.Phase, next))
	return next
}

// startMemorizeTimer arms the countdown for the round captured in s. The
// round pointer is threaded through the completion callback so an expiry
// belonging to a replaced round is discarded instead of revealing the new one
// early.
func (m *Machine) startMemorizeTimer(s Session) {
	round := s.Round
	m.timer.Start(MemorizeDuration(s.Difficulty),
		func(secondsLeft int) {
			m.bus.Publish(NewTimerTickEvent(secondsLeft))
		},
		func() {
			m.expireMemorize(round)
		},
	)
}

func (m *Machine) expireMemorize(round *Round) {
	m.mu.Lock()
	if m.session.Phase != PhaseMemorize || m.session.Round != round {
		m.mu.Unlock()
		return
	}
	from := m.session.Phase
	m.session = m.session.Reveal()
	next := m.session
	m.mu.Unlock()

	m.logger.Debug("Memorize timer expired", "tiles", next.TileCount)
	m.bus.Publish(NewPhaseChangeEvent(from, next))
}
