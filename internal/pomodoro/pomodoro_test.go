package pomodoro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimer(t *testing.T) {
	tm := New(DefaultSettings())
	assert.Equal(t, Focus, tm.Phase())
	assert.Equal(t, 25*time.Minute, tm.Remaining())
	assert.False(t, tm.Running())
	assert.Equal(t, 0, tm.Round())
}

func TestTickOnlyWhenRunning(t *testing.T) {
	tm := New(DefaultSettings())
	_, ended := tm.Tick(time.Minute)
	assert.False(t, ended)
	assert.Equal(t, 25*time.Minute, tm.Remaining())

	tm.Toggle()
	tm.Tick(time.Minute)
	assert.Equal(t, 24*time.Minute, tm.Remaining())
}

func TestCycleWithLongBreak(t *testing.T) {
	tm := New(Settings{Focus: 2 * time.Minute, Break: time.Minute, LongBreak: 3 * time.Minute, RoundsBeforeLong: 2})
	tm.Bind("task-1")

	run := func() Event {
		tm.Toggle()
		for {
			if ev, ended := tm.Tick(30 * time.Second); ended {
				return ev
			}
		}
	}

	ev := run()
	assert.Equal(t, Event{Ended: Focus, Next: Break, Round: 1, Task: "task-1"}, ev)
	assert.False(t, tm.Running(), "phase end stops the timer")
	assert.Equal(t, time.Minute, tm.Remaining())

	ev = run()
	assert.Equal(t, Break, ev.Ended)
	assert.Equal(t, Focus, ev.Next)
	assert.Equal(t, 1, ev.Round, "breaks do not count rounds")

	ev = run()
	assert.Equal(t, LongBreak, ev.Next)
	assert.Equal(t, 3*time.Minute, tm.Remaining())

	ev = run()
	assert.Equal(t, Focus, ev.Next)
}

func TestDefaultFourthRoundIsLong(t *testing.T) {
	tm := New(DefaultSettings())
	var nexts []Phase
	for i := 0; i < 8; i++ {
		nexts = append(nexts, tm.Skip().Next)
	}
	assert.Equal(t, []Phase{Break, Focus, Break, Focus, Break, Focus, LongBreak, Focus}, nexts)
	assert.Equal(t, 4, tm.Round())
}

func TestReset(t *testing.T) {
	tm := New(DefaultSettings())
	tm.Skip()
	tm.Toggle()
	tm.Reset()

	assert.Equal(t, Focus, tm.Phase())
	assert.Equal(t, 0, tm.Round())
	assert.False(t, tm.Running())
	assert.Equal(t, 25*time.Minute, tm.Remaining())
}

func TestSetSettingsRestartsPhase(t *testing.T) {
	tm := New(DefaultSettings())
	tm.Toggle()
	tm.Tick(10 * time.Minute)

	s := DefaultSettings()
	s.Focus = 50 * time.Minute
	tm.SetSettings(s)
	assert.Equal(t, 50*time.Minute, tm.Remaining())

	tm.SetSettings(Settings{})
	assert.Equal(t, DefaultSettings(), tm.Settings(), "invalid lengths fall back to defaults")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "25:00", Format(25*time.Minute))
	assert.Equal(t, "00:01", Format(500*time.Millisecond))
	assert.Equal(t, "04:05", Format(4*time.Minute+5*time.Second))
	assert.Equal(t, "00:00", Format(-time.Second))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Focus", Focus.String())
	assert.Equal(t, "Long break", LongBreak.String())
	assert.True(t, Break.IsBreak())
	assert.False(t, Focus.IsBreak())
}
