package main

import (
	"log"

	"wordforge/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ wordforge failed to start: %v", err)
	}
}
