//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/changebus/internal/core/link"
	"github.com/zeusync/changebus/internal/core/observability/log"
	"github.com/zeusync/changebus/internal/core/observer"
)

var busSet = wire.NewSet(
	log.New,
	wire.Bind(new(log.Log), new(*log.Logger)),
	observer.NewRegistry,
	link.NewController,
	wire.Struct(new(Bus), "*"),
)

func InitializeBus(level log.Level) *Bus {
	wire.Build(busSet)
	return nil
}
