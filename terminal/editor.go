package terminal

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/game"
	"github.com/sheikhrachel/gol-term/model"
)

// Suspender releases and reclaims the terminal around an external program
type Suspender interface {
	Suspend() error
	Resume() error
}

// ExternalEditor exchanges a grid with a separate editing program through
// a file: the grid is written, the program runs, the file is read back.
type ExternalEditor struct {
	Path    string
	Command []string
	Screen  Suspender // may be nil
	Logger  *log.Logger
}

// Exchange implements game.Exchanger. Every failure wraps
// game.ErrExternalToolUnavailable and leaves g unchanged.
func (e *ExternalEditor) Exchange(ctx context.Context, g *model.Grid) error {
	logger := e.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(e.Command) == 0 {
		return errors.Wrap(game.ErrExternalToolUnavailable, "[Exchange] no editor command configured")
	}

	if err := e.export(g); err != nil {
		return err
	}

	if err := e.run(ctx); err != nil {
		return err
	}

	f, err := os.Open(e.Path)
	if err != nil {
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] cannot import state from %+v: %v", e.Path, err)
	}
	defer f.Close()
	if err := model.ReadExchange(f, g); err != nil {
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %v", err)
	}
	logger.Info("grid imported", "path", e.Path, "population", g.CountLivePopulation())
	return nil
}

func (e *ExternalEditor) export(g *model.Grid) error {
	f, err := os.Create(e.Path)
	if err != nil {
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] cannot load state into %+v: %v", e.Path, err)
	}
	if err := model.WriteExchange(f, g); err != nil {
		f.Close()
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %v", err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %v", err)
	}
	return nil
}

func (e *ExternalEditor) run(ctx context.Context) (err error) {
	if e.Screen != nil {
		if err := e.Screen.Suspend(); err != nil {
			return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %v", err)
		}
		defer func() {
			if rerr := e.Screen.Resume(); rerr != nil && err == nil {
				err = errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %v", rerr)
			}
		}()
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(game.ErrExternalToolUnavailable, "[Exchange] %+v: %v", e.Command, err)
	}
	return nil
}
