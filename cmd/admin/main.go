package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/noteshare/internal/admin"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/config"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/noteshare/internal/server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dsn := fs.String("d", os.Getenv(config.EnvDatabaseDSN), "database DSN")
	_ = fs.Parse(os.Args[1:])

	if *dsn == "" {
		return fmt.Errorf("database DSN is required (-d or %s)", config.EnvDatabaseDSN)
	}

	logger, err := logging.NewJSONLogger(os.Stderr, "warn")
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := sql.Open(repomanager.DriverName, *dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// pictures are not managed from the admin tool
	accounts := services.NewAccountService(db, m, auth.NewBcryptHasher(0), nil, logger)

	return admin.NewApp(accounts, os.Stdin, os.Stdout).Run(ctx, fs.Args())
}
