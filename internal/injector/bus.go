package injector

import (
	"github.com/zeusync/changebus/internal/core/link"
	"github.com/zeusync/changebus/internal/core/observability/log"
	"github.com/zeusync/changebus/internal/core/observer"
)

// Bus bundles the process-wide pieces every subsystem shares.
type Bus struct {
	Logger     *log.Logger
	Registry   *observer.Registry
	Controller *link.Controller
}
