package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/backend/headless"
	"github.com/valerio/go-dmgcore/dmg/backend/terminal"
	"github.com/valerio/go-dmgcore/dmg/romfile"
	"github.com/valerio/go-dmgcore/dmg/timing"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A DMG handheld emulator core with terminal and headless frontends"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (.gb, .gz, .xz, .zip or .7z)",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a 256 byte boot ROM; without one the post-boot state is loaded directly",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory in headless mode, working directory otherwise)",
		},
		cli.BoolFlag{
			Name:  "strict",
			Usage: "Stop on illegal opcodes instead of running them as NOP",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging and the debug panel",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing in terminal mode: adaptive, ticker or none",
			Value: "adaptive",
		},
	}
	app.Action = runEmulator
	return app
}

func runEmulator(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			_ = cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	var opts []dmg.Option
	if path := c.String("boot-rom"); path != "" {
		boot, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
		opts = append(opts, dmg.WithBootROM(boot))
	}
	if c.Bool("strict") {
		opts = append(opts, dmg.WithStrictOpcodes())
	}

	data, err := romfile.Load(romPath)
	if err != nil {
		return err
	}

	emu := dmg.New(opts...)
	if err := emu.LoadROM(data); err != nil {
		return fmt.Errorf("%s: %w", romPath, err)
	}

	var b backend.Backend
	var limiter timing.Limiter = timing.NoOp{}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}
		b = headless.New(frames, snapshots)
	} else {
		limiter, err = timing.New(c.String("limiter"))
		if err != nil {
			return err
		}
		b = terminal.New()
	}

	config := backend.Config{
		Title:     emu.Title(),
		ShowDebug: c.Bool("debug"),
		LogLevel:  level,
		DebugText: emu.DebugText,
	}
	if r, ok := limiter.(timing.FPSReporter); ok {
		config.FPS = r.FPS
	}
	if err := b.Init(config); err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("backend cleanup failed", "error", err)
		}
		if t, ok := limiter.(*timing.Ticker); ok {
			t.Stop()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return backend.Run(ctx, emu, b, limiter, backend.WithSnapshotDir(c.String("snapshot-dir")))
}
