package injector

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"

	"github.com/zeusync/snakecore/internal/app"
	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform/sound"
	"github.com/zeusync/snakecore/internal/core/platform/terminal"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/internal/core/systems/physics/box2d"
)

// Paths locates the files the game reads. Empty paths use defaults and
// skip persistence.
type Paths struct {
	Config   string
	Settings string
	// Log overrides the configured log output.
	Log string
}

// Game is everything the host process needs to run and tear down a game.
type Game struct {
	App    *app.App
	Logger *log.Logger
	Input  *terminal.Input
	Player *sound.Player
	Config *config.Config
}

type glyph struct {
	r rune
	c color.RGBA
}

var glyphs = map[app.Texture]glyph{
	app.TexSnakeHead: {'●', color.RGBA{R: 0x7c, G: 0xfc, B: 0x00, A: 0xff}},
	app.TexSnakeBody: {'o', color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff}},
	app.TexFood:      {'*', color.RGBA{R: 0xff, G: 0x45, B: 0x00, A: 0xff}},
	app.TexWall:      {'█', color.RGBA{R: 0x69, G: 0x69, B: 0x69, A: 0xff}},
	app.TexRock:      {'▲', color.RGBA{R: 0xa0, G: 0x52, B: 0x2d, A: 0xff}},
}

func provideConfig(paths Paths) (*config.Config, error) {
	return config.Load(paths.Config)
}

func provideLogger(paths Paths, cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	var outputs []string
	switch {
	case paths.Log != "":
		outputs = append(outputs, paths.Log)
	case cfg.Logging.Output != "":
		outputs = append(outputs, cfg.Logging.Output)
	}
	return log.New(level, cfg.Logging.Encoding, outputs...)
}

func provideSettings(paths Paths, cfg *config.Config) (*config.Settings, error) {
	if paths.Settings == "" {
		return config.NewSettings(cfg.Movement.ControlMode), nil
	}
	return config.LoadSettings(paths.Settings, cfg.Movement.ControlMode)
}

func provideWorld(logger log.Log, cfg *config.Config) (*box2d.World, error) {
	g := cfg.Physics.Gravity
	return box2d.NewWorld(logger, physics.V(g.X, g.Y))
}

func provideSurface(screen tcell.Screen) *terminal.Surface {
	s := terminal.NewSurface(screen, terminal.DefaultScale)
	for _, tex := range app.Textures() {
		if g, ok := glyphs[tex]; ok {
			s.RegisterGlyph(tex.Name(), g.r, g.c)
		}
	}
	return s
}

func provideInput(surface *terminal.Surface) *terminal.Input {
	return terminal.NewInput(surface)
}

func providePlayer(logger log.Log, cfg *config.Config) *sound.Player {
	p := sound.NewPlayer(logger, beep.SampleRate(cfg.Audio.SampleRate))
	p.RegisterDefaults()
	return p
}

func provideHost(input *terminal.Input, surface *terminal.Surface, player *sound.Player) app.Host {
	return app.Host{Input: input, Surface: surface, Audio: player}
}

func provideBus() bus.EventBus { return bus.New() }
