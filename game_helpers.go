package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sheikhrachel/gol-term/game"
	"github.com/sheikhrachel/gol-term/model"
	"github.com/sheikhrachel/gol-term/patterns"
	"github.com/sheikhrachel/gol-term/terminal"
	"github.com/sheikhrachel/gol-term/utils"
)

const (
	menuPlay = iota + 1
	menuDemo
	menuManual
	menuExit
)

const manual = `
  === How to play ===

  Editing
    WASD / arrows   move the cursor
    1-9             pick a pattern, move it, ENTER to place, ESC to cancel
    0               single cell mode, SPACE toggles, ENTER when done
    c               clear the grid
    n               add a random soup
    e               edit the grid in the external editor
    ENTER           start the simulation

  Running
    SPACE           pause / resume
    .               step one generation while paused
    r               restart (demo only)
    ENTER           back to the menu
    ESC             quit

  Press any key to return.
`

// shellConsole is the terminal as the shell uses it
type shellConsole interface {
	game.Console
	Drain()
}

// shell drives the title screen, the main menu and the runs started from it
type shell struct {
	config   utils.Config
	console  shellConsole
	logger   *log.Logger
	policy   model.Policy
	merge    game.MergeMode
	renderer *model.FrameRenderer
	catalog  *patterns.Catalog
	editor   game.Exchanger

	runs        int
	generations int
	runtime     time.Duration
}

func newShell(config utils.Config, screen *terminal.Screen, logger *log.Logger) (*shell, error) {
	policy, err := model.ParsePolicy(config.Boundary)
	if err != nil {
		return nil, err
	}
	merge, err := game.ParseMergeMode(config.EditMerge)
	if err != nil {
		return nil, err
	}
	return &shell{
		config:   config,
		console:  screen,
		logger:   logger,
		policy:   policy,
		merge:    merge,
		renderer: model.NewFrameRenderer(),
		catalog:  patterns.Default(),
		editor: &terminal.ExternalEditor{
			Path:    config.ExchangeFile,
			Command: config.EditorCommand,
			Screen:  screen,
			Logger:  logger,
		},
	}, nil
}

// run shows the title screen once and then the menu until the user exits
func (s *shell) run(ctx context.Context) error {
	if err := s.title(ctx); err != nil {
		return err
	}
	return s.menu(ctx)
}

// title waits for a key. After AttractAfter without input it plays the
// banner until a key is pressed and then shows the title again.
func (s *shell) title(ctx context.Context) error {
	frame := "\n\n  Game of Life\n\n  Press any key to start\n"
	for {
		if err := s.console.RenderFrame(frame); err != nil {
			return err
		}
		pressed, err := s.waitIdle(ctx, s.config.AttractAfter)
		if err != nil || pressed {
			return err
		}

		s.logger.Debug("attract mode")
		grid := s.newGrid()
		patterns.SeedBanner(grid)
		if _, err := s.simulate(ctx, grid, game.LoopOptions{AnyKeyStops: true}); err != nil {
			return err
		}
	}
}

// waitIdle polls for a key for up to d and reports whether one arrived
func (s *shell) waitIdle(ctx context.Context, d time.Duration) (bool, error) {
	for idle := time.Duration(0); ; idle += s.config.PollInterval {
		if _, ok := s.console.PollKey(); ok {
			return true, nil
		}
		if idle >= d {
			return false, nil
		}
		if err := s.console.Sleep(ctx, s.config.PollInterval); err != nil {
			return false, err
		}
	}
}

// menu shows the main menu until Exit is chosen or a run is quit with ESC.
// Every other way out of a run comes back here.
func (s *shell) menu(ctx context.Context) error {
	m := game.NewMenu("Game of Life", "Play", "DEMO", "Manual", "Exit")
	for {
		choice, err := game.RunMenu(ctx, m, s.console, s.config.PollInterval)
		if err != nil {
			return err
		}
		s.logger.Debug("menu", "choice", m.Items[choice-1])

		var res game.Result
		switch choice {
		case menuPlay:
			res, err = s.play(ctx)
		case menuDemo:
			res, err = s.demo(ctx)
		case menuManual:
			err = s.manual(ctx)
		case menuExit:
			return nil
		}
		if err != nil {
			return err
		}
		if res.Reason == game.StopExit {
			return nil
		}
	}
}

func (s *shell) play(ctx context.Context) (game.Result, error) {
	session := game.NewEditSession(s.newGrid(), s.catalog, game.EditOptions{
		Merge: s.merge,
		Noise: patterns.NoiseOptions{
			Density: s.config.NoiseDensity,
			Seed:    s.config.NoiseSeed,
		},
		Exchanger: s.editor,
		Logger:    s.logger,
	})
	grid, err := game.RunEditor(ctx, session, s.console, s.renderer, s.config.PollInterval)
	if err != nil {
		return game.Result{}, err
	}
	return s.simulate(ctx, grid, game.LoopOptions{MaxGenerations: s.config.MaxGenerations})
}

func (s *shell) demo(ctx context.Context) (game.Result, error) {
	grid := s.newGrid()
	patterns.SeedDemo(grid)
	return s.simulate(ctx, grid, game.LoopOptions{
		MaxGenerations: s.config.MaxGenerations,
		Reseed:         patterns.SeedDemo,
	})
}

func (s *shell) manual(ctx context.Context) error {
	if err := s.console.RenderFrame(strings.TrimPrefix(manual, "\n")); err != nil {
		return err
	}
	_, err := game.WaitForKey(ctx, s.console, s.console, s.config.PollInterval)
	return err
}

func (s *shell) simulate(ctx context.Context, grid *model.Grid, opts game.LoopOptions) (game.Result, error) {
	opts.Interval = s.config.FrameRate
	opts.PollInterval = s.config.PollInterval
	opts.Renderer = s.renderer
	opts.Logger = s.logger

	engine := model.NewEngineFor(grid, model.EngineOptions{Parallel: s.config.UseParallel})
	loop := game.NewLoop(grid, engine, s.console, opts)
	res, err := loop.Run(ctx)
	s.runs++
	s.generations += res.Generations
	s.runtime += loop.Stats().Runtime(time.Now())
	s.console.Drain()
	return res, err
}

func (s *shell) newGrid() *model.Grid {
	return model.NewGrid(s.config.Rows, s.config.Cols, s.policy)
}
