package main

import (
	"context"
	"log"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shuldan/chassis/pkg/bootstrap"
	"github.com/shuldan/chassis/pkg/container"
	"github.com/shuldan/chassis/pkg/contracts"
)

type visitTracker struct {
	store contracts.Store
	db    contracts.Database
}

func (v *visitTracker) Visit(ctx context.Context, user string) (int, error) {
	key := "visits:" + user
	count := 1
	if current, err := v.store.Get(ctx, key); err == nil {
		if n, convErr := strconv.Atoi(current); convErr == nil {
			count = n + 1
		}
	}
	if err := v.store.Set(ctx, key, strconv.Itoa(count), time.Hour); err != nil {
		return 0, err
	}
	return count, nil
}

type demoModule struct{}

func (m *demoModule) Name() string {
	return "demo"
}

func (m *demoModule) Register(c contracts.Container) error {
	def := container.NewDefinition("demo.visits", "demo.VisitTracker",
		func(deps contracts.DependencyBag) (interface{}, error) {
			store, err := deps.Instance("store")
			if err != nil {
				return nil, err
			}
			tracker := &visitTracker{store: store.(contracts.Store)}
			if db, err := deps.Instance("db"); err == nil && db != nil {
				tracker.db = db.(contracts.Database)
			}
			return tracker, nil
		},
		container.WithRequirements(
			contracts.Requirement{Name: "store", Type: contracts.CacheTypeTag},
			contracts.Requirement{Name: "db", Type: contracts.DatabaseTypeTag, Optional: true},
		),
	)
	return c.Register(def)
}

func (m *demoModule) Start(ctx contracts.AppContext) error {
	v, err := ctx.Container().ResolveID(ctx.Ctx(), "demo.visits")
	if err != nil {
		return err
	}
	tracker := v.(*visitTracker)

	count, err := tracker.Visit(ctx.Ctx(), "alice")
	if err != nil {
		return err
	}
	ctx.Logger().Info("visit recorded", "user", "alice", "count", count)

	if tracker.db != nil {
		if err := tracker.db.Ping(ctx.Ctx()); err != nil {
			return err
		}
		ctx.Logger().Info("database reachable")
	}
	return nil
}

func (m *demoModule) Stop(contracts.AppContext) error {
	return nil
}

func main() {
	a, err := bootstrap.New("chassis-demo", "0.1.0", "CHASSIS_", "config/app.yaml").
		WithLogger().
		WithDatabase().
		WithCache().
		WithModule(&demoModule{}).
		WithGracefulTimeout(15 * time.Second).
		CreateApp()
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}
