package main

import (
	"budget_buddy/internal/config"
	"budget_buddy/internal/db"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig()
	db.Migrate(cfg.DSN())
}
