package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/bcdxn/lapboard/internal/config"
	"github.com/bcdxn/lapboard/internal/device"
	"github.com/bcdxn/lapboard/internal/domain"
	"github.com/bcdxn/lapboard/internal/laps"
	"github.com/bcdxn/lapboard/internal/logger"
	"github.com/bcdxn/lapboard/internal/standings"
	"github.com/bcdxn/lapboard/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cfg.ListPorts {
		ports, err := device.ListPorts()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return 0
	}

	l, f, err := logger.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()
	l.Info("starting", "drivers", cfg.Drivers, "sort", cfg.Sort, "variant", cfg.Variant)
	if cfg.ResetDigit() != 0 && len(cfg.Drivers) >= cfg.ResetDigit() {
		l.Warn("the reset digit shadows a car; it will never be credited a lap", "track", cfg.ResetDigit())
	}

	src, err := openSource(cfg, l)
	if err != nil {
		l.Error("could not open detector", "err", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		if err := src.Close(); err != nil {
			l.Error("could not close detector", "err", err)
		}
		l.Debug("detector closed")
	}()

	table := laps.New(cfg.Drivers, laps.WithResetDigit(cfg.ResetDigit()), laps.WithLogger(l))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// cancel the shared context between the TUI and the detector pump if either exits
	ctx, cancelCtx := context.WithCancel(ctx)
	defer cancelCtx()

	program := tui.NewLeaderboard(table,
		tui.WithContext(ctx),
		tui.WithLogger(l),
		tui.WithTitle(cfg.Title),
		tui.WithVariant(cfg.Variant),
		tui.WithCriterion(cfg.Sort),
	)

	var final tea.Model
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancelCtx()
		var err error
		final, err = program.Run()
		l.Debug("tui exited")
		if errors.Is(err, tea.ErrProgramKilled) {
			// interrupted; the terminal has been restored
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := device.Pump(gctx, src, func(c domain.Crossing) {
			program.Send(tui.CrossingMsg(c))
		}, l)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
		}
		l.Debug("pump exited")
		return nil
	})
	if err := g.Wait(); err != nil {
		l.Error("leaderboard exited with error", "err", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	board, ok := final.(tui.Leaderboard)
	if !ok {
		return 0
	}
	standings.Render(os.Stdout, board.Standings(), board.Criterion())
	if err := board.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	l.Info("stopped")
	return 0
}

func openSource(cfg config.Config, l *slog.Logger) (device.Source, error) {
	switch {
	case cfg.Simulate:
		cars := len(cfg.Drivers)
		if d := cfg.ResetDigit(); d != 0 && cars >= d {
			cars = d - 1
		}
		l.Info("using simulated detector", "cars", cars)
		return device.NewSimulator(cars, device.WithWait(cfg.ReadTimeout), device.WithNoise(0.01)), nil
	case cfg.Replay != "":
		l.Info("replaying captured session", "file", cfg.Replay)
		return device.OpenReplay(cfg.Replay, device.WithPace(cfg.ReadTimeout))
	}
	l.Info("opening serial detector", "device", cfg.Device, "baud", cfg.Baud)
	return device.OpenSerial(cfg.Device, cfg.Baud, cfg.ReadTimeout)
}
