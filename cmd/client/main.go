package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/sumdays/internal/client/app"
	"github.com/dmitrijs2005/sumdays/internal/client/config"
)

// Set via -ldflags at build time.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	fmt.Printf("Build version: %s\nBuild date: %s\n", buildVersion, buildDate)

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a.Run(ctx)
}
