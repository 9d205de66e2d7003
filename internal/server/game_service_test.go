package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mth/switcheroo/internal/game"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// fakeSender records outbound messages in place of a live socket.
type fakeSender struct {
	mu   sync.Mutex
	msgs []*Message
}

func (f *fakeSender) SendMessage(msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeSender) byType(mt MessageType) []*Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Message
	for _, m := range f.msgs {
		if m.Type == mt {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) lastState(t *testing.T) StateData {
	t.Helper()
	states := f.byType(MessageTypeState)
	require.NotEmpty(t, states, "expected at least one state message")

	var data StateData
	require.NoError(t, json.Unmarshal(states[len(states)-1].Data, &data))
	return data
}

func (f *fakeSender) statePhases() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var phases []string
	for _, m := range f.msgs {
		if m.Type != MessageTypeState {
			continue
		}
		var data StateData
		if err := json.Unmarshal(m.Data, &data); err == nil {
			phases = append(phases, data.Phase)
		}
	}
	return phases
}

func TestGameServiceFullFlow(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	seed := int64(42)
	gs := NewGameService(testLogger(), mock, &seed)

	sender := &fakeSender{}
	pg := gs.StartGame(sender)
	defer pg.Close()

	pg.SendCurrentState()
	assert.Equal(t, "start", sender.lastState(t).Phase)

	pg.Begin()
	require.True(t, pg.SelectDifficulty("easy"))
	pg.SelectTileCount(4)

	memorize := sender.lastState(t)
	assert.Equal(t, "memorize", memorize.Phase)
	assert.Equal(t, 4, memorize.SecondsLeft)
	assert.Len(t, memorize.Layout, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 4; i++ {
		mock.Advance(time.Second).MustWait(ctx)
	}

	require.Eventually(t, func() bool {
		return pg.machine.Session().Phase == game.PhaseRecall
	}, time.Second, time.Millisecond)

	// The machine is in the same package tree, so the test can peek at the
	// answer the way no client can.
	changed := pg.machine.Session().Round.ChangedIndex
	pg.SelectTile(changed)
	pg.Submit()

	final := sender.lastState(t)
	assert.Equal(t, "round_win", final.Phase)
	assert.Equal(t, 20, final.TotalScore)

	results := sender.byType(MessageTypeRoundResult)
	require.Len(t, results, 1)
	var result RoundResultData
	require.NoError(t, json.Unmarshal(results[0].Data, &result))
	assert.True(t, result.Correct)
	assert.Equal(t, changed, result.ChangedIndex)
	assert.Equal(t, 20, result.TotalScore)

	ticks := sender.byType(MessageTypeTimerTick)
	assert.Len(t, ticks, 3, "a four second countdown ticks at 3, 2 and 1")
}

func TestGameServiceInvalidDifficulty(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	gs := NewGameService(testLogger(), mock, nil)

	sender := &fakeSender{}
	pg := gs.StartGame(sender)
	defer pg.Close()

	pg.Begin()
	assert.False(t, pg.SelectDifficulty("nightmare"))
	assert.True(t, pg.SelectDifficulty("medium"))
}

func TestGameServiceStateHidesAnswer(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	seed := int64(7)
	gs := NewGameService(testLogger(), mock, &seed)

	sender := &fakeSender{}
	pg := gs.StartGame(sender)
	defer pg.Close()

	pg.Begin()
	require.True(t, pg.SelectDifficulty("easy"))
	pg.SelectTileCount(5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 4; i++ {
		mock.Advance(time.Second).MustWait(ctx)
	}
	require.Eventually(t, func() bool {
		return pg.machine.Session().Phase == game.PhaseRecall
	}, time.Second, time.Millisecond)

	// During the live round the state payload carries only the layout. The
	// changed index must not appear until a result is sent.
	states := sender.byType(MessageTypeState)
	for _, m := range states {
		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(m.Data, &raw))
		assert.NotContains(t, raw, "changedIndex")
		assert.NotContains(t, raw, "changedValue")
	}
	assert.Empty(t, sender.byType(MessageTypeRoundResult))
}

func TestGameServiceDeterministicSeed(t *testing.T) {
	t.Parallel()

	seed := int64(99)

	layout := func() []int {
		mock := quartz.NewMock(t)
		gs := NewGameService(testLogger(), mock, &seed)
		sender := &fakeSender{}
		pg := gs.StartGame(sender)
		defer pg.Close()

		pg.Begin()
		require.True(t, pg.SelectDifficulty("hard"))
		pg.SelectTileCount(12)
		return sender.lastState(t).Layout
	}

	first := layout()
	second := layout()
	assert.Equal(t, first, second, "same seed must produce the same opening round")
}

func TestGameServiceSessionIDsUnique(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	gs := NewGameService(testLogger(), mock, nil)

	a := gs.StartGame(&fakeSender{})
	defer a.Close()
	b := gs.StartGame(&fakeSender{})
	defer b.Close()

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGameServicePhaseSequence(t *testing.T) {
	t.Parallel()

	mock := quartz.NewMock(t)
	seed := int64(3)
	gs := NewGameService(testLogger(), mock, &seed)

	sender := &fakeSender{}
	pg := gs.StartGame(sender)
	defer pg.Close()

	pg.Begin()
	require.True(t, pg.SelectDifficulty("easy"))
	pg.SelectTileCount(4)
	pg.GoHome()

	assert.Equal(t, []string{
		"difficulty",
		"number_selection",
		"memorize",
		"start",
	}, sender.statePhases())
}
