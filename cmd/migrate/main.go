// Command migrate applies the embedded schema migrations.
//
//	migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/baechuer/contacts-service/internal/config"
	"github.com/baechuer/contacts-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/contacts-service/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	_ = godotenv.Load()
	logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	lg := logger.Logger

	command := "up"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	dsn := os.Getenv("DB_ADDR")
	if dsn == "" || dsn == config.MemoryDB {
		fmt.Fprintln(os.Stderr, "migrate: DB_ADDR must point at a Postgres database")
		return 2
	}

	db, err := config.NewDB(dsn, false)
	if err != nil {
		lg.Error().Err(err).Msg("connect failed")
		return 1
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := postgres.MigrateCommand(ctx, db, command, args...); err != nil {
		lg.Error().Err(err).Str("command", command).Msg("migration failed")
		return 1
	}
	lg.Info().Str("command", command).Msg("migration finished")
	return 0
}
