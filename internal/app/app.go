// Package app assembles the engine systems into a playable snake game and
// drives them one frame at a time.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/platform/sound"
	"github.com/zeusync/snakecore/internal/core/registry"
	"github.com/zeusync/snakecore/internal/core/scene"
	"github.com/zeusync/snakecore/internal/core/systems/collision"
	"github.com/zeusync/snakecore/internal/core/systems/movement"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

const (
	SceneMenu     = "menu"
	SceneGame     = "game"
	SceneGameOver = "gameover"
	ScenePause    = "pause"

	// maxCatchUp bounds the physics steps taken in one frame after a stall.
	maxCatchUp = 4
)

var (
	ErrNilLogger      = errors.New("app: logger is nil")
	ErrNilConfig      = errors.New("app: config is nil")
	ErrNilSettings    = errors.New("app: settings are nil")
	ErrNilWorld       = errors.New("app: physics world is nil")
	ErrIncompleteHost = errors.New("app: host needs input, surface and audio")
	ErrAlreadyRunning = errors.New("app: already running")
)

// FrameInput is an Input that latches presses between frames.
type FrameInput interface {
	platform.Input
	NextFrame()
}

// Host is what the platform provides to the game.
type Host struct {
	Input   FrameInput
	Surface platform.Surface
	Audio   platform.Audio
}

// Session is the running score.
type Session struct {
	Score int
	Best  int
	Level int
	Games int
}

// App owns every engine system and the scenes built on them. All methods
// run on the frame goroutine; only the host input is touched concurrently.
type App struct {
	log      log.Log
	cfg      *config.Config
	settings *config.Settings
	bus      bus.EventBus
	world    physics.World
	host     Host

	movement  *movement.Manager
	collision *collision.System
	scenes    *scene.StateMachine
	overlays  *scene.Manager
	pause     scene.Scene
	idle      *registry.EntityManager
	subs      []bus.Subscription

	session Session
	acc     float64
	frames  uint64
	running atomic.Bool
	quit    atomic.Bool
}

func New(logger log.Log, cfg *config.Config, settings *config.Settings, world physics.World, host Host, b bus.EventBus) (*App, error) {
	switch {
	case logger == nil:
		return nil, ErrNilLogger
	case cfg == nil:
		return nil, ErrNilConfig
	case settings == nil:
		return nil, ErrNilSettings
	case world == nil:
		return nil, ErrNilWorld
	case host.Input == nil || host.Surface == nil || host.Audio == nil:
		return nil, ErrIncompleteHost
	}
	if b == nil {
		b = bus.New()
	}

	a := &App{
		log:      logger.Named("app"),
		cfg:      cfg,
		settings: settings,
		bus:      b,
		world:    world,
		host:     host,
	}

	var err error
	if a.movement, err = movement.NewManager(logger, host.Input, settings, cfg.Movement, movement.WithBus(b)); err != nil {
		return nil, err
	}
	if a.idle, err = registry.NewEntityManager(logger, registry.WithWorld(world)); err != nil {
		return nil, err
	}
	if a.collision, err = collision.NewSystem(logger, world, a.idle, collision.WithBus(b)); err != nil {
		return nil, err
	}
	if a.scenes, err = scene.NewStateMachine(logger, scene.WithMachineBus(b)); err != nil {
		return nil, err
	}
	if a.overlays, err = scene.NewManager(logger, scene.WithManagerBus(b)); err != nil {
		return nil, err
	}
	if err = a.registerScenes(); err != nil {
		return nil, err
	}
	if err = a.subscribe(); err != nil {
		return nil, err
	}

	host.Audio.SetMusicVolume(settings.MusicVolume())
	host.Audio.SetSoundVolume(settings.SoundVolume())
	return a, nil
}

func (a *App) registerScenes() error {
	builders := []func(*App) (*scene.Base, error){newMenuScene, newGameScene, newGameOverScene}
	for _, build := range builders {
		s, err := build(a)
		if err != nil {
			return err
		}
		if err = a.scenes.Register(s); err != nil {
			return err
		}
	}

	pause, err := newPauseScene(a)
	if err != nil {
		return err
	}
	a.pause = pause
	return nil
}

func (a *App) subscribe() error {
	sub, err := a.bus.Subscribe(events.SceneChanged, a.onSceneChanged)
	if err != nil {
		return err
	}
	a.subs = append(a.subs, sub)

	sub, err = a.bus.Subscribe(events.ControlModeChanged, func(bus.Event) error {
		a.host.Audio.PlaySound(sound.SoundSelect)
		return nil
	})
	if err != nil {
		return err
	}
	a.subs = append(a.subs, sub)
	return nil
}

// onSceneChanged points the overlap scan and contact resolution at the
// entities of the scene that just became current.
func (a *App) onSceneChanged(ev bus.Event) error {
	payload, ok := ev.Data().(events.SceneChangePayload)
	if !ok {
		return nil
	}
	target := a.idle
	if s, found := a.scenes.Scene(payload.To); found {
		if owner, ok := s.(interface {
			Entities() *registry.EntityManager
		}); ok && owner.Entities() != nil {
			target = owner.Entities()
		}
	}
	return a.collision.SetEntityManager(target)
}

// Start enters the configured initial scene.
func (a *App) Start() error {
	initial := a.cfg.Scenes.Initial
	if initial == "" {
		initial = SceneMenu
	}
	if !a.scenes.ChangeScene(initial) {
		return scene.ErrUnknownScene
	}
	a.log.Info("game started", log.String("scene", initial))
	return nil
}

// Frame advances the game by dt seconds: input, movement, physics and
// contacts, overlap scan, scene update, then render. While an overlay is
// open only the overlay is updated.
func (a *App) Frame(dt float64) {
	a.host.Input.NextFrame()

	if a.overlays.Depth() > 0 {
		a.overlays.Update(dt)
	} else {
		a.movement.Update(dt)
		a.stepPhysics(dt)
		a.collision.CheckOverlappingEntities()
		a.scenes.Update(dt)
	}

	s := a.host.Surface
	s.Begin()
	a.scenes.Render(s)
	a.overlays.Render(s)
	s.End()
	a.frames++
}

func (a *App) stepPhysics(dt float64) {
	step := a.cfg.Physics.TimeStep
	if step <= 0 {
		a.world.Step(dt)
		return
	}
	a.acc = min(a.acc+dt, step*maxCatchUp)
	for a.acc >= step {
		a.world.Step(step)
		a.acc -= step
	}
}

// Run drives Frame from a ticker at the physics rate until ctx ends or the
// game asks to quit.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	interval := time.Duration(a.cfg.Physics.TimeStep * float64(time.Second))
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			a.Frame(now.Sub(last).Seconds())
			last = now
			if a.quit.Load() {
				return nil
			}
		}
	}
}

// Shutdown disposes every scene and persists changed settings.
func (a *App) Shutdown() error {
	a.overlays.Clear()
	a.scenes.Shutdown()
	a.host.Audio.StopMusic()
	for _, sub := range a.subs {
		_ = a.bus.Unsubscribe(sub)
	}
	a.subs = nil

	if err := a.settings.Save(); err != nil {
		a.log.Error("settings save failed", log.String("path", a.settings.Path()), log.Error(err))
		return err
	}
	a.log.Info("game stopped", log.Uint64("frames", a.frames), log.Int("best", a.session.Best))
	return nil
}

// Pause opens the pause overlay over the current scene.
func (a *App) Pause() {
	if a.overlays.Depth() > 0 {
		return
	}
	if err := a.overlays.Push(a.pause); err != nil {
		return
	}
	a.host.Audio.PlaySound(sound.SoundSelect)
}

func (a *App) Resume() {
	if a.overlays.Depth() == 0 {
		return
	}
	a.overlays.Pop()
}

func (a *App) Paused() bool { return a.overlays.Depth() > 0 }

// Quit makes Run return after the current frame.
func (a *App) Quit()                { a.quit.Store(true) }
func (a *App) Quitting() bool       { return a.quit.Load() }
func (a *App) Frames() uint64       { return a.frames }
func (a *App) Session() Session     { return a.session }
func (a *App) CurrentScene() string { return a.scenes.CurrentName() }

func (a *App) Scenes() *scene.StateMachine  { return a.scenes }
func (a *App) Movement() *movement.Manager  { return a.movement }
func (a *App) Collision() *collision.System { return a.collision }

// changeScene switches with the configured fade.
func (a *App) changeScene(name string) bool {
	return a.scenes.ChangeSceneWith(name, scene.FadeThrough, a.cfg.Scenes.TransitionDuration)
}
