package terminal

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/game"
)

const keyBuffer = 64

// Screen adapts a tcell screen to the game console: keys are pumped from
// tcell's blocking event queue into a buffer that PollKey drains without
// blocking, and every frame repaints the whole screen.
type Screen struct {
	screen tcell.Screen
	keys   chan game.Key
	style  tcell.Style
	game.TimerSleeper
}

// NewScreen opens the terminal
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "[NewScreen] failed to create screen")
	}
	return Wrap(s)
}

// Wrap initialises s and adapts it
func Wrap(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "[Wrap] failed to initialise screen")
	}
	s.HideCursor()
	s.Clear()
	return &Screen{
		screen: s,
		keys:   make(chan game.Key, keyBuffer),
		style:  tcell.StyleDefault,
	}, nil
}

// Pump forwards key events until the screen is closed or ctx is done
func (s *Screen) Pump(ctx context.Context) error {
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			k, ok := translateKey(ev)
			if !ok {
				continue
			}
			select {
			case s.keys <- k:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func translateKey(ev *tcell.EventKey) (game.Key, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return game.Key{Code: game.KeyEnter}, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Key{Code: game.KeyEscape}, true
	case tcell.KeyUp:
		return game.Key{Code: game.KeyUp}, true
	case tcell.KeyDown:
		return game.Key{Code: game.KeyDown}, true
	case tcell.KeyLeft:
		return game.Key{Code: game.KeyLeft}, true
	case tcell.KeyRight:
		return game.Key{Code: game.KeyRight}, true
	case tcell.KeyRune:
		return game.RuneKey(ev.Rune()), true
	}
	return game.Key{}, false
}

// PollKey returns the oldest unread key, if any
func (s *Screen) PollKey() (game.Key, bool) {
	select {
	case k := <-s.keys:
		return k, true
	default:
		return game.Key{}, false
	}
}

// Drain discards pending keys
func (s *Screen) Drain() {
	for {
		if _, ok := s.PollKey(); !ok {
			return
		}
	}
}

// RenderFrame replaces the screen contents with frame
func (s *Screen) RenderFrame(frame string) error {
	s.screen.Clear()
	for y, line := range strings.Split(strings.TrimSuffix(frame, "\n"), "\n") {
		x := 0
		for _, r := range line {
			s.screen.SetContent(x, y, r, nil, s.style)
			x++
		}
	}
	s.screen.Show()
	return nil
}

// Suspend hands the terminal back to the shell
func (s *Screen) Suspend() error {
	return errors.Wrap(s.screen.Suspend(), "[Suspend] failed to suspend screen")
}

// Resume takes the terminal back after Suspend
func (s *Screen) Resume() error {
	if err := s.screen.Resume(); err != nil {
		return errors.Wrap(err, "[Resume] failed to resume screen")
	}
	s.screen.HideCursor()
	return nil
}

// Close restores the terminal and ends Pump
func (s *Screen) Close() {
	s.screen.Fini()
}
