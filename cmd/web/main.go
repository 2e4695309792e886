package main

import (
	"os"

	"github.com/yigit/gradedesk/internal/pkg/logger" // Still needed for initial error logging
	"github.com/yigit/gradedesk/internal/server"
)

// @title Gradedesk Console API
// @version 1.0
// @description Session workspace and backend probe endpoints of the student results console

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Use the default logger setup by the logger package's init
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
