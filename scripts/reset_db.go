// Empties the invoicing tables. Run with: go run scripts/reset_db.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"invoice-backend/internal/config"
	"invoice-backend/internal/database"
	"invoice-backend/internal/db"
	"invoice-backend/pkg/logging"
)

var tables = []string{"invoice_items", "invoices", "items", "persons"}

func main() {
	logging.Setup()

	fmt.Println("========================================")
	fmt.Println("   Reset Invoice Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL INVOICING DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all invoices and their item links")
	fmt.Println("  - Delete all items")
	fmt.Println("  - Delete all persons")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		fatal("Unable to connect to database", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	err = database.WithSession(ctx, pool, func(s *database.Session) error {
		for _, table := range tables {
			if _, err := s.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("truncate %s: %w", table, err)
			}
			fmt.Printf("  - Cleared %s\n", table)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		fatal("Reset failed", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful!")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
