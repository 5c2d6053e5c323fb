package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/noteshare/internal/buildinfo"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server"
	"github.com/dmitrijs2005/noteshare/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
