//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/zeusync/snakecore/internal/app"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/internal/core/systems/physics/box2d"
)

var gameSet = wire.NewSet(
	provideConfig,
	provideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	provideSettings,
	provideWorld,
	wire.Bind(new(physics.World), new(*box2d.World)),
	provideSurface,
	provideInput,
	providePlayer,
	provideHost,
	provideBus,
	app.New,
	wire.Struct(new(Game), "*"),
)

func InitializeGame(paths Paths, screen tcell.Screen) (*Game, error) {
	wire.Build(gameSet)
	return nil, nil
}
