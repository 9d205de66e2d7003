package game

import "time"

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypePhaseChange EventType = "phase_change"
	EventTypeRoundStart  EventType = "round_start"
	EventTypeTimerTick   EventType = "timer_tick"
	EventTypeRoundResult EventType = "round_result"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents anything that happens during a play-through that a
// presentation layer may want to react to.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// PhaseChangeEvent is published after every session transition, carrying the
// resulting session snapshot.
type PhaseChangeEvent struct {
	From      Phase
	Session   Session
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewPhaseChangeEvent creates a new phase change event
func NewPhaseChangeEvent(from Phase, session Session) PhaseChangeEvent {
	return PhaseChangeEvent{From: from, Session: session, timestamp: time.Now()}
}

// RoundStartEvent is published when a fresh round enters the memorize phase.
type RoundStartEvent struct {
	TileCount   int
	SecondsLeft int
	timestamp   time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(tileCount, secondsLeft int) RoundStartEvent {
	return RoundStartEvent{TileCount: tileCount, SecondsLeft: secondsLeft, timestamp: time.Now()}
}

// TimerTickEvent is published once per second while the memorize countdown
// runs.
type TimerTickEvent struct {
	SecondsLeft int
	timestamp   time.Time
}

func (e TimerTickEvent) EventType() EventType { return EventTypeTimerTick }
func (e TimerTickEvent) Timestamp() time.Time { return e.timestamp }

// NewTimerTickEvent creates a new timer tick event
func NewTimerTickEvent(secondsLeft int) TimerTickEvent {
	return TimerTickEvent{SecondsLeft: secondsLeft, timestamp: time.Now()}
}

// RoundResultEvent is published when a submission resolves a round.
type RoundResultEvent struct {
	Correct      bool
	ChangedIndex int
	ChangedValue int
	TotalScore   int
	timestamp    time.Time
}

func (e RoundResultEvent) EventType() EventType { return EventTypeRoundResult }
func (e RoundResultEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundResultEvent creates a new round result event
func NewRoundResultEvent(correct bool, changedIndex, changedValue, totalScore int) RoundResultEvent {
	return RoundResultEvent{
		Correct:      correct,
		ChangedIndex: changedIndex,
		ChangedValue: changedValue,
		TotalScore:   totalScore,
		timestamp:    time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
