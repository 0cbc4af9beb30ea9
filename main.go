package main

import (
	"context"
	"fmt"
	"os"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/app"
)

func main() {
	configPath := config.CONFIG_PATH
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// create and initialize the app
	app, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start signup service: %v\n", err)
		os.Exit(1)
	}

	// serve until SIGINT/SIGTERM
	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("Signup service stopped with error", "error", err)
		os.Exit(1)
	}
}
