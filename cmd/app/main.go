package main

import (
	"flag"
	"fmt"
	"os"

	"RiskKit/internal/di"
	"RiskKit/pkg/config"
	applogger "RiskKit/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "app initialization failed: %v\n", err)
		os.Exit(1)
	}

	runErr := app.Run()
	cleanup()
	if runErr != nil {
		l, _ := applogger.New(&applogger.Config{Level: "error", Format: cfg.Logging.Format, Output: "stderr"})
		if l != nil {
			l.Error("app error", applogger.Error(runErr))
		}
		os.Exit(1)
	}
}
