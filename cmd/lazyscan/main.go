package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lazyscan-project/lazyscan/internal/cli"
)

func main() {
	// Pick up LAZYSCAN_* overrides from a local .env, if one exists.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
