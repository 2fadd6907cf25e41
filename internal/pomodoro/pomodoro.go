// Package pomodoro implements a focus/break countdown timer.
package pomodoro

import (
	"fmt"
	"time"
)

// Phase is the current segment of the cycle.
type Phase int

// Phases of a pomodoro cycle.
const (
	Focus Phase = iota
	Break
	LongBreak
)

// String returns a display label for the phase.
func (p Phase) String() string {
	switch p {
	case Break:
		return "Break"
	case LongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

// IsBreak reports whether p is a short or long break.
func (p Phase) IsBreak() bool { return p != Focus }

// Settings are the phase lengths.
type Settings struct {
	Focus            time.Duration
	Break            time.Duration
	LongBreak        time.Duration
	RoundsBeforeLong int
}

// DefaultSettings returns 25/5/15 minutes with a long break every fourth round.
func DefaultSettings() Settings {
	return Settings{
		Focus:            25 * time.Minute,
		Break:            5 * time.Minute,
		LongBreak:        15 * time.Minute,
		RoundsBeforeLong: 4, //nolint:mnd // classic pomodoro
	}
}

func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.Focus < time.Minute {
		s.Focus = d.Focus
	}
	if s.Break < time.Minute {
		s.Break = d.Break
	}
	if s.LongBreak < time.Minute {
		s.LongBreak = d.LongBreak
	}
	if s.RoundsBeforeLong < 1 {
		s.RoundsBeforeLong = d.RoundsBeforeLong
	}
	return s
}

func (s Settings) length(p Phase) time.Duration {
	switch p {
	case Break:
		return s.Break
	case LongBreak:
		return s.LongBreak
	default:
		return s.Focus
	}
}

// Event describes a phase that just ran out.
type Event struct {
	Ended Phase
	Next  Phase
	Round int
	Task  string
}

// Timer counts down the current phase. It is not safe for concurrent use;
// the TUI drives it from its update loop.
type Timer struct {
	settings  Settings
	phase     Phase
	remaining time.Duration
	running   bool
	round     int
	task      string
}

// New returns a stopped timer at the start of a focus phase.
func New(s Settings) *Timer {
	t := &Timer{settings: s.normalized()}
	t.remaining = t.settings.Focus
	return t
}

// Settings returns the active phase lengths.
func (t *Timer) Settings() Settings { return t.settings }

// SetSettings changes the phase lengths and restarts the current phase
// with its new length.
func (t *Timer) SetSettings(s Settings) {
	t.settings = s.normalized()
	t.remaining = t.settings.length(t.phase)
}

// Phase returns the current phase.
func (t *Timer) Phase() Phase { return t.phase }

// Remaining returns the time left in the current phase.
func (t *Timer) Remaining() time.Duration { return t.remaining }

// Running reports whether the countdown is active.
func (t *Timer) Running() bool { return t.running }

// Round returns the number of completed focus phases.
func (t *Timer) Round() int { return t.round }

// Task returns the ID of the bound task, if any.
func (t *Timer) Task() string { return t.task }

// Bind associates the timer with a task ID. An empty ID unbinds.
func (t *Timer) Bind(id string) { t.task = id }

// Toggle starts or pauses the countdown.
func (t *Timer) Toggle() { t.running = !t.running }

// Reset stops the timer and returns to a fresh focus phase with no
// completed rounds.
func (t *Timer) Reset() {
	t.running = false
	t.phase = Focus
	t.round = 0
	t.remaining = t.settings.Focus
}

// Skip ends the current phase immediately, as if it had run out.
func (t *Timer) Skip() Event {
	return t.finish()
}

// Tick advances a running timer by d. When the phase runs out the timer
// stops, moves to the next phase and reports the transition. A finished
// focus phase counts a round; every RoundsBeforeLong-th round is followed by
// a long break.
func (t *Timer) Tick(d time.Duration) (Event, bool) {
	if !t.running {
		return Event{}, false
	}
	t.remaining -= d
	if t.remaining > 0 {
		return Event{}, false
	}
	return t.finish(), true
}

func (t *Timer) finish() Event {
	ended := t.phase
	next := Focus
	if ended == Focus {
		t.round++
		next = Break
		if t.round%t.settings.RoundsBeforeLong == 0 {
			next = LongBreak
		}
	}

	t.running = false
	t.phase = next
	t.remaining = t.settings.length(next)
	return Event{Ended: ended, Next: next, Round: t.round, Task: t.task}
}

// Format renders a duration as MM:SS, rounding partial seconds up.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60) //nolint:mnd // seconds per minute
}
