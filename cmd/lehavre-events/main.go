package main

import (
	"github.com/joho/godotenv"

	"github.com/jmartel/lehavre-events/internal/cli"
)

func main() {
	// Load .env if present; flag defaults read from the environment.
	_ = godotenv.Load()

	cli.Execute()
}
