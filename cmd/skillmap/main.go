package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Values in .env are available to ${VARS} in the config file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
