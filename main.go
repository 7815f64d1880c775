package main

import (
	"log"
	"os"

	"inflationdash/internal/cli"

	"github.com/joho/godotenv"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := cli.Run(version); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
