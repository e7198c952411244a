package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/injector"
)

func main() {
	paths := injector.Paths{}
	flag.StringVar(&paths.Config, "config", "", "YAML config file; defaults are used when empty")
	flag.StringVar(&paths.Settings, "settings", defaultSettingsPath(), "file the player's settings are kept in")
	flag.StringVar(&paths.Log, "log", "snake.log", "log file; the terminal is taken by the game")
	flag.Parse()

	if err := run(paths); err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(1)
	}
}

func run(paths injector.Paths) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	game, err := injector.InitializeGame(paths, screen)
	if err != nil {
		return err
	}
	defer func() { _ = game.Logger.Sync() }()

	sr := beep.SampleRate(game.Config.Audio.SampleRate)
	if err = speaker.Init(sr, sr.N(game.Config.Audio.Buffer)); err != nil {
		game.Logger.Warn("audio disabled", log.Error(err))
	} else {
		speaker.Play(game.Player)
		defer speaker.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// PollEvent returns nil once the screen is finalized.
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventFocus:
				if !ev.Focused {
					game.Input.ReleaseAll()
				}
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					game.App.Quit()
				}
			}
			game.Input.HandleEvent(ev)
		}
	})

	g.Go(func() error {
		defer screen.Fini()
		if err := game.App.Start(); err != nil {
			return err
		}
		err := game.App.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return errors.Join(err, game.App.Shutdown())
	})

	return g.Wait()
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "snake", "settings.yaml")
}
