// Command migrate applies or inspects the embedded schema migrations.
//
//	migrate [up|down|status|redo|reset|version] [args...]
package main

import (
	"context"
	"os"
	"time"

	"itams/pkg/config"
	"itams/pkg/db"
	"itams/pkg/logger"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "itams-migrate", Format: "console"})

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config.invalid")
	}
	cfg.DB.MigrateOnStart = false

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db.connect_failed")
	}
	defer pool.Close()

	if err := db.Run(ctx, pool, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migrate.failed")
	}
	log.Info().Str("command", command).Msg("migrate.done")
}
