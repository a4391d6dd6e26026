package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	migrations "github.com/jayant413/contrashutter-backend/internal/migrations/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/cache"
	"github.com/jayant413/contrashutter-backend/pkg/config"
)

const (
	JobName  = "mongo-migration"
	lockName = "mongo-migration"
)

func main() {
	cfg := config.Load(JobName)

	app := &cli.App{
		Name:  "migrate",
		Usage: "prepare the Mongo database for the API",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 2 * time.Minute,
				Usage: "abort the job after this long",
			},
			&cli.BoolFlag{
				Name:  "skip-lock",
				Usage: "run without taking the Redis migration lock",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "create collections, validators and indexes, then seed counters",
				Action: func(c *cli.Context) error {
					return withMigrator(c, cfg, (*migrations.Migrator).Run)
				},
			},
			{
				Name:  "collections",
				Usage: "create collections, validators and indexes only",
				Action: func(c *cli.Context) error {
					return withMigrator(c, cfg, (*migrations.Migrator).EnsureCollections)
				},
			},
			{
				Name:  "seed-counters",
				Usage: "raise the booking and invoice counters to the highest stored code",
				Action: func(c *cli.Context) error {
					return withMigrator(c, cfg, (*migrations.Migrator).SeedCounters)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}

func withMigrator(c *cli.Context, cfg *config.Config, step func(*migrations.Migrator, context.Context) error) error {
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	if cfg.Client.Redis != nil && !c.Bool("skip-lock") {
		locks := cache.NewRedisCache(cfg.Client.Redis, "migrate:", 0)
		ok, release, err := locks.AcquireLock(ctx, lockName, c.Duration("timeout"))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("another migration holds the %q lock", lockName)
		}
		defer release(context.Background())
	}

	cfg.Log.Info("Starting Mongo migration job", "command", c.Command.Name)
	m := migrations.NewMigrator(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
	if err := step(m, ctx); err != nil {
		return err
	}
	cfg.Log.Info("Migration completed successfully", "command", c.Command.Name)
	return nil
}
