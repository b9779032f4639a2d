package game

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/model"
	"github.com/sheikhrachel/gol-term/utils"
)

// LoopState is the state of a simulation run
type LoopState int

const (
	Running LoopState = iota
	Paused
	Stopped
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("loop(%d)", int(s))
}

// StopReason tells the caller why a run ended
type StopReason int

const (
	// StopMenu returns to the top-level menu.
	StopMenu StopReason = iota
	// StopExit leaves the program.
	StopExit
	// StopLimit means the generation limit was reached.
	StopLimit
)

func (r StopReason) String() string {
	switch r {
	case StopMenu:
		return "menu"
	case StopExit:
		return "exit"
	case StopLimit:
		return "limit"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Result summarises a finished run
type Result struct {
	Reason      StopReason
	Generations int
}

// LoopOptions configures a Loop
type LoopOptions struct {
	Interval       time.Duration // pause between generations
	PollInterval   time.Duration // key polling cadence while paused
	MaxGenerations int           // 0 runs until stopped

	// Reseed enables demo restarts on 'r'.
	Reseed func(*model.Grid)
	// AnyKeyStops ends the run on the first key, for the title screen.
	AnyKeyStops bool

	Renderer *model.FrameRenderer
	Logger   *log.Logger
	Now      func() time.Time
}

// Loop advances a grid at a fixed cadence and reacts to keys between
// generations. It owns the grid for the duration of Run.
type Loop struct {
	grid    *model.Grid
	engine  *model.Engine
	console Console
	opts    LoopOptions
	logger  *log.Logger
	stats   *utils.Stats

	state      LoopState
	generation int
	result     Result
}

const (
	defaultInterval     = 175 * time.Millisecond
	defaultPollInterval = 50 * time.Millisecond
)

// NewLoop prepares a run of grid using engine, which must match its shape
func NewLoop(grid *model.Grid, engine *model.Engine, console Console, opts LoopOptions) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Renderer == nil {
		opts.Renderer = model.NewFrameRenderer()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loop{
		grid:    grid,
		engine:  engine,
		console: console,
		opts:    opts,
		logger:  logger,
		stats:   utils.NewStats(opts.Now()),
	}
}

// State returns the current loop state
func (l *Loop) State() LoopState { return l.state }

// Generation returns the number of generations computed in this run
func (l *Loop) Generation() int { return l.generation }

// Stats returns the run statistics
func (l *Loop) Stats() *utils.Stats { return l.stats }

// Run renders and advances the grid until a stop key, the generation limit
// or ctx cancellation. Input and cancellation are only observed between
// generations.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	l.state = Running
	l.generation = 0
	l.grid.ResetHistory()
	l.stats.Reset(l.opts.Now())
	l.logger.Info("simulation started", "rows", l.grid.Rows(), "cols", l.grid.Cols(),
		"policy", l.grid.Policy(), "population", l.grid.CountLivePopulation())

	for {
		if err := ctx.Err(); err != nil {
			l.stop(StopExit)
			return l.result, err
		}

		switch l.state {
		case Running:
			if err := l.tick(); err != nil {
				l.stop(StopExit)
				return l.result, err
			}
			if l.opts.MaxGenerations > 0 && l.generation >= l.opts.MaxGenerations {
				l.stop(StopLimit)
				break
			}
			if k, ok := l.console.PollKey(); ok {
				if err := l.handleKey(k); err != nil {
					l.stop(StopExit)
					return l.result, err
				}
			}
			if l.state == Running {
				if err := l.console.Sleep(ctx, l.opts.Interval); err != nil {
					l.stop(StopExit)
					return l.result, err
				}
			}
		case Paused:
			k, ok := l.console.PollKey()
			if !ok {
				if err := l.console.Sleep(ctx, l.opts.PollInterval); err != nil {
					l.stop(StopExit)
					return l.result, err
				}
				continue
			}
			if err := l.handleKey(k); err != nil {
				l.stop(StopExit)
				return l.result, err
			}
		}

		if l.state == Stopped {
			l.logger.Info("simulation stopped", "reason", l.result.Reason, "generations", l.generation,
				"avg_population", fmt.Sprintf("%.1f", l.stats.AveragePopulation))
			return l.result, nil
		}
	}
}

// tick renders the current generation and then computes the next one
func (l *Loop) tick() error {
	stagnant := l.grid.IsStagnant()
	population := l.grid.CountLivePopulation()
	l.stats.Record(l.generation, population, l.opts.Now())
	if err := l.console.RenderFrame(l.frame(population, stagnant)); err != nil {
		return errors.Wrap(err, "[tick] failed to render")
	}
	return l.advance()
}

func (l *Loop) advance() error {
	l.grid.UpdateHistory()
	if err := l.engine.Step(l.grid); err != nil {
		return errors.Wrapf(err, "[advance] generation %d", l.generation)
	}
	l.generation++
	return nil
}

func (l *Loop) handleKey(k Key) error {
	if l.opts.AnyKeyStops {
		l.stop(StopMenu)
		return nil
	}
	switch {
	case k.Code == KeySpace:
		if l.state == Running {
			l.state = Paused
			l.logger.Debug("paused", "generation", l.generation)
			return l.renderPaused()
		}
		l.state = Running
		l.logger.Debug("resumed", "generation", l.generation)
	case k.Code == KeyEnter:
		l.stop(StopMenu)
	case k.Code == KeyEscape:
		l.stop(StopExit)
	case k.Is('r') && l.opts.Reseed != nil:
		l.opts.Reseed(l.grid)
		l.grid.ResetHistory()
		l.generation = 0
		l.stats.Reset(l.opts.Now())
		l.state = Running
		l.logger.Info("demo restarted", "population", l.grid.CountLivePopulation())
	case k.Is('.') && l.state == Paused:
		if err := l.advance(); err != nil {
			return err
		}
		return l.renderPaused()
	}
	return nil
}

func (l *Loop) stop(reason StopReason) {
	l.state = Stopped
	l.result = Result{Reason: reason, Generations: l.generation}
}

func (l *Loop) renderPaused() error {
	frame := l.frame(l.grid.CountLivePopulation(), l.grid.IsStagnant())
	return errors.Wrap(l.console.RenderFrame(frame), "[renderPaused] failed to render")
}

func (l *Loop) frame(population int, stagnant bool) string {
	var b strings.Builder
	b.WriteString(l.opts.Renderer.Render(l.grid))
	fmt.Fprintf(&b, "Population = %4d | Generation = %d\n", population, l.generation)

	status := "Active"
	switch {
	case population == 0:
		status = "Extinct"
	case stagnant:
		status = "Stagnant"
	}
	fmt.Fprintf(&b, "Status: %s | %.1f gen/sec | Avg Pop: %.1f\n",
		status, l.stats.GenerationsPerSecond, l.stats.AveragePopulation)

	if l.state == Paused {
		b.WriteString("PAUSED  SPACE resume | . step | ENTER menu | ESC exit\n")
	} else if !l.opts.AnyKeyStops {
		hint := "SPACE pause | ENTER menu | ESC exit"
		if l.opts.Reseed != nil {
			hint += " | r restart"
		}
		b.WriteString(hint + "\n")
	}
	return b.String()
}
