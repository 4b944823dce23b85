// churn is a headless stress run for arbor. It builds a large random forest
// and then hammers it with random reparent, remove, insert, enable and dirty
// operations, refreshing world matrices every tick.
//
//	go run ./demos/churn -config demos/churn/churn.toml
package main

import (
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/phanxgames/arbor"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

type config struct {
	Objects      int          `toml:"objects"`
	Ticks        int          `toml:"ticks"`
	OpsPerTick   int          `toml:"ops_per_tick"`
	Seed         uint64       `toml:"seed"`
	ValidateEach bool         `toml:"validate_each"` // Validate after every tick
	Profile      string       `toml:"profile"`       // "", "cpu" or "mem"
	ProfilePath  string       `toml:"profile_path"`
	Hierarchy    arbor.Config `toml:"hierarchy"`
}

func defaultConfig() config {
	return config{
		Objects:     10_000,
		Ticks:       600,
		OpsPerTick:  200,
		Seed:        1,
		ProfilePath: ".",
		Hierarchy:   *arbor.DefaultConfig(),
	}
}

func main() {
	path := flag.String("config", "", "TOML config file")
	flag.Parse()

	cfg := defaultConfig()
	if *path != "" {
		if _, err := toml.DecodeFile(*path, &cfg); err != nil {
			log.Fatalf("load config %s: %v", *path, err)
		}
	}

	logger, err := arbor.NewLogger(cfg.Hierarchy.Logging)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook).Stop()
	}

	r := newRunner(cfg)
	r.h.SetLogger(logger)
	start := time.Now()
	for tick := 0; tick < cfg.Ticks; tick++ {
		r.tick()
		if cfg.ValidateEach {
			if err := r.h.Validate(); err != nil {
				logger.Fatal("hierarchy invalid", zap.Int("tick", tick), zap.Error(err))
			}
		}
	}
	elapsed := time.Since(start)

	if err := r.h.Validate(); err != nil {
		logger.Fatal("hierarchy invalid", zap.Error(err))
	}
	logger.Info("churn finished",
		zap.Int("objects", r.h.Len()),
		zap.Int("ticks", cfg.Ticks),
		zap.Int("reparents", r.reparents),
		zap.Int("cycles_rejected", r.cycles),
		zap.Int("removed", r.removed),
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_tick", elapsed/time.Duration(max(cfg.Ticks, 1))),
	)
}

type runner struct {
	cfg    config
	rng    *rand.Rand
	h      *arbor.Hierarchy[int]
	ids    *arbor.Allocator
	locals map[arbor.ObjectID]arbor.Transform

	reparents, cycles, removed int
}

func newRunner(cfg config) *runner {
	r := &runner{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		h:      arbor.New[int](&cfg.Hierarchy),
		ids:    arbor.NewAllocator(),
		locals: make(map[arbor.ObjectID]arbor.Transform, cfg.Objects),
	}
	for i := 0; i < cfg.Objects; i++ {
		id := r.spawn()
		if i > 0 && r.rng.IntN(4) != 0 {
			r.setParent(id, r.pick())
		}
	}
	return r
}

func (r *runner) spawn() arbor.ObjectID {
	id := r.ids.Alloc()
	t := arbor.IdentityTransform()
	t.SetPosition(r.rng.Float64()*10, r.rng.Float64()*10)
	t.Rotation = r.rng.Float64()
	r.locals[id] = t
	r.h.Insert(id, int(id))
	return id
}

func (r *runner) pick() arbor.ObjectID {
	objects := r.h.Objects()
	return objects[r.rng.IntN(len(objects))]
}

func (r *runner) setParent(id, parent arbor.ObjectID) {
	err := r.h.SetParent(id, parent)
	switch {
	case errors.Is(err, arbor.ErrCycle):
		r.cycles++
	case err != nil:
		panic(err)
	default:
		r.reparents++
	}
}

func (r *runner) tick() {
	for op := 0; op < r.cfg.OpsPerTick && r.h.Len() > 0; op++ {
		id := r.pick()
		switch n := r.rng.IntN(100); {
		case n < 60:
			parent := arbor.NoObject
			if r.rng.IntN(8) != 0 {
				parent = r.pick()
			}
			r.setParent(id, parent)
		case n < 70:
			for _, o := range r.h.ObjectAndDescendants(id) {
				delete(r.locals, o)
				r.ids.Release(o)
			}
			r.removed += len(r.h.Remove(id))
		case n < 80:
			r.spawn()
		case n < 90:
			r.h.SetEnabled(id, !r.h.IsEnabled(id))
		default:
			t := r.locals[id]
			t.Rotation += 0.1
			r.locals[id] = t
			r.h.MarkDirty(id)
		}
	}
	// Keep the population roughly stable.
	for r.h.Len() < r.cfg.Objects/2 {
		r.spawn()
	}

	r.h.SnapshotFrame()
	r.h.RefreshMatrices(func(id arbor.ObjectID, _ int) (arbor.Transform, bool) {
		t, ok := r.locals[id]
		return t, ok
	})
}
