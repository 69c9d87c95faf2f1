//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/world"
	"github.com/zeusync/worldcore/internal/demo"
)

func InitializeWorld(cfg world.Config, types *messages.TypeRegistry) (*world.World, error) {
	wire.Build(WorldSet)
	return nil, nil
}

func InitializeScene(cfg world.Config, types *messages.TypeRegistry) (*demo.Scene, error) {
	wire.Build(WorldSet, demo.Build)
	return nil, nil
}
