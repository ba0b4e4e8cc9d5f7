package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/branchseek/branchseek/internal/adapters/driving/cli"
)

func main() {
	// A .env file is optional; GITHUB_TOKEN may come from the
	// environment or the config file instead.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
