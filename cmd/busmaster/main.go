// cmd/busmaster/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chzyer/readline"

	"busmaster/internal/aggregate"
	"busmaster/internal/bus"
	"busmaster/internal/config"
	"busmaster/internal/peer"
	"busmaster/internal/poller"
	"busmaster/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "busmaster:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("usage: busmaster <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	// --------------------
	// Open the shared bus
	// --------------------

	timeout := time.Duration(cfg.Master.Bus.TimeoutMs) * time.Millisecond

	port, err := bus.OpenSerial(bus.SerialConfig{
		Device:      cfg.Master.Serial.Device,
		BaudRate:    cfg.Master.Serial.BaudRate,
		ReadTimeout: timeout,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	transport, err := bus.NewTransport(port, timeout)
	if err != nil {
		return err
	}

	// --------------------
	// Wire the orchestrator
	// --------------------

	registry, err := peer.Build(cfg.Master.Peers)
	if err != nil {
		return err
	}

	sensorHub, err := registry.Lookup(peer.SensorHub)
	if err != nil {
		return err
	}

	agg := aggregate.New(time.Duration(cfg.Master.Events.MinIntervalMs) * time.Millisecond)

	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	// Log output goes through readline so it never corrupts the
	// prompt line.
	logger := slog.New(slog.NewTextHandler(rl.Stderr(), nil))

	out := make(chan string, 8)

	pol, err := poller.New(
		poller.Config{
			Target:   sensorHub,
			Interval: time.Duration(cfg.Master.Poll.IntervalMs) * time.Millisecond,
		},
		transport, agg, out, logger,
	)
	if err != nil {
		return err
	}

	rtr, err := router.New(registry, transport, agg, pol)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go pol.Run(ctx)

	// Poll lines are asynchronous with respect to operator input and
	// share the console through readline's writer.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case line := <-out:
				fmt.Fprintln(rl.Stdout(), line)
			}
		}
	}()

	logger.Info("busmaster ready",
		"device", cfg.Master.Serial.Device,
		"baud", cfg.Master.Serial.BaudRate,
		"peers", len(cfg.Master.Peers),
	)

	// --------------------
	// Operator loop
	// --------------------

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
			logger.Info("shutting down")
			return nil
		case err != nil:
			return err
		}

		if line == "" {
			continue
		}

		fmt.Fprintln(rl.Stdout(), rtr.Handle(line))
	}
}
