package main

import (
	"log"

	"github.com/ReyMursuli/assets-api/internal/assets/app"

	"github.com/joho/godotenv"
)

func main() {
	// Local development reads config from a .env file; in production the
	// environment is set by the deployment, so a missing file is fine.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
