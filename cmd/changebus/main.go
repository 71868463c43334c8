package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cogentcore.org/core/math32"

	"github.com/zeusync/changebus/internal/config"
	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/observability/log"
	"github.com/zeusync/changebus/internal/core/observer"
	"github.com/zeusync/changebus/internal/core/spatial"
	"github.com/zeusync/changebus/internal/injector"
	"github.com/zeusync/changebus/pkg/concurrent"
)

const defaultScene = `
links:
  - subject: ship
    observer: turret
    interest: [Spatial.AllWorld]
  - subject: turret
    observer: barrel
    interest: [Spatial.AllWorld]
  - subject: barrel
    observer: tracker
    interest: [Spatial.WorldPosition, Spatial.WorldRotationQuat]
`

func main() {
	configPath := flag.String("config", "", "path to a YAML link configuration")
	ticks := flag.Int("ticks", 60, "number of simulated ticks per subsystem")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *ticks); err != nil {
		fmt.Fprintln(os.Stderr, "changebus:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadYAML(strings.NewReader(defaultScene))
	}
	return config.LoadFile(path)
}

func run(ctx context.Context, configPath string, ticks int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	bus := injector.InitializeBus(cfg.LogLevel())
	logger := bus.Logger.Named("scene")
	defer func() { _ = bus.Logger.Sync() }()

	nodes := map[string]*spatial.Node{}
	for _, name := range []string{"ship", "turret", "barrel"} {
		n := spatial.NewNode(name, bus.Registry, spatial.WithLogger(logger))
		nodes[name] = n
		if err = bus.Controller.RegisterObject(n); err != nil {
			return err
		}
	}

	tracker := bus.Registry.Register(observer.ObserverFunc(func(s *observer.Subject, changed changes.BitMask) {
		if changed == changes.None {
			logger.Info("tracked object destroyed", log.String("subject", s.Name()))
			return
		}
		logger.Debug("tracked object moved",
			log.String("subject", s.Name()),
			log.Mask("changed", changed),
			log.Stringer("position", vec3(s.GetVec3(changes.SpatialWorldPosition))),
		)
	}))
	if err = bus.Controller.RegisterObserver("tracker", tracker); err != nil {
		return err
	}

	if err = bus.Controller.ApplyConfig(cfg); err != nil {
		return err
	}

	ship, turret := nodes["ship"], nodes["turret"]
	_ = turret.SetLocalPosition(math32.Vec3(0, 2, 0))
	_ = nodes["barrel"].SetLocalPosition(math32.Vec3(0, 0, 3))

	start := time.Now()
	physics := func(ctx context.Context) error {
		for i := 0; i < ticks; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := ship.SetLocalPosition(math32.Vec3(float32(i)*0.5, 0, 0)); err != nil {
				return fmt.Errorf("physics tick %d: %w", i, err)
			}
		}
		return nil
	}
	script := func(ctx context.Context) error {
		for i := 0; i < ticks; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), float32(i)*0.05)
			if err := turret.SetLocalRotationQuat(q); err != nil {
				return fmt.Errorf("script tick %d: %w", i, err)
			}
		}
		return nil
	}
	if err = concurrent.Run(ctx, physics, script); err != nil {
		return err
	}

	for _, name := range []string{"ship", "turret", "barrel"} {
		n := nodes[name]
		world := n.WorldSpace()
		logger.Info("final world state",
			log.String("object", name),
			log.Stringer("position", vec3(world.Position)),
			log.Uint64("updates", n.UpdateCount()),
		)
	}
	logger.Info("simulation finished",
		log.Int("links", len(bus.Controller.Links())),
		log.Duration("elapsed", time.Since(start)),
	)

	for _, name := range []string{"barrel", "turret", "ship"} {
		if err = bus.Controller.UnregisterObject(name); err != nil {
			return err
		}
		if err = nodes[name].Destroy(); err != nil {
			return err
		}
	}
	return nil
}

type vec3 math32.Vector3

func (v vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
