package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mymuse/adstudio/internal/cli"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
