package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ideahub-dev/ideahub/internal/config"
	"github.com/ideahub-dev/ideahub/internal/logger"
	"github.com/ideahub-dev/ideahub/internal/router"
	"github.com/ideahub-dev/ideahub/internal/setup"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	// secrets may come from a local .env in development
	_ = godotenv.Load()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = fmt.Sprintf("%d", cfg.Public.Port)
	}

	logger.Log.Info("server started", "port", httpPort)
	log.Fatal(http.ListenAndServe(":"+httpPort, r))
}
