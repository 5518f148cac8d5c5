package main

import (
	"os"

	"github.com/yigit/nnpgpt/internal/pkg/logger"
	"github.com/yigit/nnpgpt/internal/server"
)

// @title NNP-GPT Session API
// @version 1.0
// @description Session nodes for the NNP-GPT academic assistant

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token returned by the login endpoint

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup errors are already logged with details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
