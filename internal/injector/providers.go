package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/observability/log"
	"github.com/zeusync/worldcore/internal/core/world"
	"github.com/zeusync/worldcore/internal/demo"
)

// WorldSet builds a validated world with its own logger.
var WorldSet = wire.NewSet(ProvideLogger, ProvideWorld)

// ProvideLogger creates the process logger at the level named by cfg.
func ProvideLogger(cfg world.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

// ProvideTypeRegistry creates a registry holding the demo message types. It
// is shared by every world of the process.
func ProvideTypeRegistry() (*messages.TypeRegistry, error) {
	types := messages.NewTypeRegistry()
	if err := demo.RegisterMessages(types); err != nil {
		return nil, err
	}
	return types, nil
}

func ProvideWorld(cfg world.Config, logger log.Log, types *messages.TypeRegistry) (*world.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return world.New(cfg, world.WithLogger(logger), world.WithTypeRegistry(types)), nil
}
