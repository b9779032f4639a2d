package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/gol-term/terminal"
	"github.com/sheikhrachel/gol-term/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gol: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	config, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, closer, err := utils.NewLogger(config)
	if err != nil {
		return err
	}
	defer closer.Close()

	screen, err := terminal.NewScreen()
	if err != nil {
		return err
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh, err := newShell(config, screen, logger)
	if err != nil {
		screen.Close()
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return screen.Pump(ctx)
	})
	eg.Go(func() error {
		defer screen.Close()
		return sh.run(ctx)
	})
	err = eg.Wait()

	fmt.Printf("Final stats: %d runs, %d generations in %.1f seconds\n",
		sh.runs, sh.generations, sh.runtime.Seconds())
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down", "reason", "signal")
		return nil
	}
	return err
}

// loadConfig reads the JSON file named by -config, falling back to defaults
// when it does not exist, and then applies the remaining flags on top.
func loadConfig(args []string) (utils.Config, error) {
	pre := flag.NewFlagSet("gol", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	path := pre.String("config", "config.json", "")
	scratch := utils.DefaultConfig()
	scratch.Bind(pre)
	_ = pre.Parse(args)

	config, err := utils.LoadConfig(*path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		config = utils.DefaultConfig()
	case err != nil:
		return config, err
	}

	fs := flag.NewFlagSet("gol", flag.ExitOnError)
	fs.String("config", *path, "JSON configuration file")
	config.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return config, errors.Wrap(err, "[loadConfig] failed to parse flags")
	}
	return config, config.Validate()
}
