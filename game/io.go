package game

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/model"
	"github.com/sheikhrachel/gol-term/patterns"
)

var (
	// ErrInvalidSelection is returned when a key picks a pattern or menu
	// entry outside the valid range. Callers re-prompt.
	ErrInvalidSelection = patterns.ErrInvalidSelection
	// ErrExternalToolUnavailable is returned when the external grid editor
	// cannot be used. The edit session keeps its previous grid.
	ErrExternalToolUnavailable = errors.New("external editor unavailable")
	// ErrCommitted is returned by edit operations after Finish.
	ErrCommitted = errors.New("edit session already committed")
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)

// KeyPoller returns the next pending key without blocking
type KeyPoller interface {
	PollKey() (Key, bool)
}

// Display shows one full frame, replacing the previous one
type Display interface {
	RenderFrame(frame string) error
}

// Sleeper suspends the caller for d or until ctx is done
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Console is the terminal as seen by the editor and the simulation loop
type Console interface {
	KeyPoller
	Display
	Sleeper
}

// Exchanger hands a grid to an external editor and loads the result back
// into it. On error the grid must be left unchanged.
type Exchanger interface {
	Exchange(ctx context.Context, g *model.Grid) error
}

// SleepFunc adapts a function to Sleeper
type SleepFunc func(ctx context.Context, d time.Duration) error

func (f SleepFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper sleeps on a timer and wakes early when ctx is cancelled
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WaitForKey polls until a key arrives, sleeping between polls
func WaitForKey(ctx context.Context, keys KeyPoller, sleeper Sleeper, poll time.Duration) (Key, error) {
	for {
		if k, ok := keys.PollKey(); ok {
			return k, nil
		}
		if err := sleeper.Sleep(ctx, poll); err != nil {
			return Key{}, err
		}
	}
}
