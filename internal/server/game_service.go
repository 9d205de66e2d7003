package server

import (
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/mth/switcheroo/internal/game"
	"github.com/mth/switcheroo/internal/randutil"
	"github.com/mth/switcheroo/internal/sessionid"
)

// MessageSender is the slice of Connection the game layer needs, split out so
// games can be exercised in tests without a live socket.
type MessageSender interface {
	SendMessage(msg *Message) error
}

// GameService creates and tracks one game machine per connection. The server
// is single-player: each socket owns its own session and timer, and nothing
// is shared between them beyond the clock.
type GameService struct {
	logger *log.Logger
	clock  quartz.Clock
	seed   *int64

	mu   sync.Mutex
	next int64
}

// NewGameService creates a game service. A non-nil seed makes every session's
// rounds deterministic (seed + session sequence), which the simulator and
// tests rely on.
func NewGameService(logger *log.Logger, clock quartz.Clock, seed *int64) *GameService {
	return &GameService{
		logger: logger.WithPrefix("games"),
		clock:  clock,
		seed:   seed,
	}
}

// StartGame builds a machine for a new connection and wires its events to
// the sender. The caller must Close the returned game when the connection
// goes away.
func (gs *GameService) StartGame(sender MessageSender) *PlayerGame {
	id := sessionid.New()

	gs.mu.Lock()
	gs.next++
	seq := gs.next
	gs.mu.Unlock()

	var rng *rand.Rand
	if gs.seed != nil {
		rng = randutil.New(*gs.seed + seq)
	} else {
		rng, _ = randutil.NewTimeSeeded()
	}

	logger := gs.logger.With("session", id)
	pg := &PlayerGame{
		id:      id,
		machine: game.NewMachine(game.NewGenerator(rng), gs.clock, logger),
		sender:  sender,
		logger:  logger,
	}
	pg.machine.EventBus().Subscribe(pg)

	gs.logger.Info("Session started", "session", id)
	return pg
}

// PlayerGame binds one connection to one game machine, translating player
// messages into transitions and machine events into outbound messages.
type PlayerGame struct {
	id      string
	machine *game.Machine
	sender  MessageSender
	logger  *log.Logger
}

// ID returns the session identifier.
func (pg *PlayerGame) ID() string {
	return pg.id
}

// Close cancels the session's pending timer.
func (pg *PlayerGame) Close() {
	pg.machine.Close()
	pg.logger.Info("Session closed")
}

// SendCurrentState pushes a snapshot of the session, used right after the
// socket opens so the client can render the start screen.
func (pg *PlayerGame) SendCurrentState() {
	pg.sendState(pg.machine.Session())
}

// Begin moves the session from the start screen to difficulty selection.
func (pg *PlayerGame) Begin() {
	pg.machine.Begin()
}

// SelectDifficulty parses and applies a difficulty choice.
func (pg *PlayerGame) SelectDifficulty(name string) bool {
	d, ok := game.ParseDifficulty(name)
	if !ok {
		return false
	}
	pg.machine.ChooseDifficulty(d)
	return true
}

// SelectTileCount applies a grid size choice and, when valid, starts the
// memorize countdown.
func (pg *PlayerGame) SelectTileCount(count int) {
	pg.machine.ChooseTileCount(count)
}

// SelectTile records a tile pick during recall.
func (pg *PlayerGame) SelectTile(index int) {
	pg.machine.Select(index)
}

// Submit scores the recorded selection.
func (pg *PlayerGame) Submit() {
	pg.machine.Submit()
}

// NextRound starts a fresh round at the same tile count.
func (pg *PlayerGame) NextRound() {
	pg.machine.NextRound()
}

// GoHome resets the session to the start screen.
func (pg *PlayerGame) GoHome() {
	pg.machine.GoHome()
}

// OnEvent implements game.EventSubscriber, forwarding machine events to the
// client.
func (pg *PlayerGame) OnEvent(event game.Event) {
	switch ev := event.(type) {
	case game.PhaseChangeEvent:
		pg.sendState(ev.Session)

	case game.TimerTickEvent:
		pg.send(MessageTypeTimerTick, TimerTickData{SecondsLeft: ev.SecondsLeft})

	case game.RoundResultEvent:
		pg.send(MessageTypeRoundResult, RoundResultData{
			Correct:      ev.Correct,
			ChangedIndex: ev.ChangedIndex,
			ChangedValue: ev.ChangedValue,
			TotalScore:   ev.TotalScore,
		})
	}
}

// sendState serializes a session snapshot. The changed index stays
// server-side while the round is live; only RoundResultData reveals it.
func (pg *PlayerGame) sendState(s game.Session) {
	data := StateData{
		SessionID:  pg.id,
		Phase:      s.Phase.String(),
		Difficulty: s.Difficulty.String(),
		TileCount:  s.TileCount,
		TotalScore: s.TotalScore,
		Layout:     s.VisibleLayout(),
		Feedback:   s.Feedback,
	}
	if s.Selection != game.NoSelection {
		sel := s.Selection
		data.Selection = &sel
	}
	if s.Phase == game.PhaseMemorize {
		data.SecondsLeft = int(game.MemorizeDuration(s.Difficulty).Seconds())
	}

	pg.send(MessageTypeState, data)
}

func (pg *PlayerGame) send(mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		pg.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	if err := pg.sender.SendMessage(msg); err != nil {
		pg.logger.Debug("Failed to send message", "type", mt, "error", err)
	}
}
