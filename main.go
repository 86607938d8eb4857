package main

import (
	"fmt"
	"os"

	"bridge-swap/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// The .env file is optional; configuration can also come from the
	// environment or ~/.bridge-swap.yaml
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
