// Command web runs the sport dashboard API server.
package main

import (
	"fmt"
	"os"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
