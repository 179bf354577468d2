// Package main provides the CLI for manual database migration management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/chybatronik/goUserRegistry/internal/config"
	"github.com/chybatronik/goUserRegistry/internal/database"
)

func main() {
	var (
		action        = flag.String("action", "up", "Migration action: up, status, rollback-last")
		migrationsDir = flag.String("dir", "./migrations", "Migrations directory path")
		help          = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(appConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to create database connection pool: %v", err)
	}
	defer pool.Close()

	if err := database.ValidateConnection(ctx, pool); err != nil {
		log.Fatalf("FATAL: Database connection validation failed: %v", err)
	}

	runner := database.NewMigrationRunner(pool, *migrationsDir)

	switch *action {
	case "up":
		log.Println("Running pending migrations...")
		if err := runner.RunMigrations(ctx); err != nil {
			log.Fatalf("FATAL: Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

	case "rollback-last":
		log.Println("Rolling back last migration...")
		if err := runner.RollbackLastMigration(ctx); err != nil {
			log.Fatalf("FATAL: Rollback failed: %v", err)
		}
		log.Println("Last migration rolled back successfully")

	case "status":
		showMigrationStatus(ctx, runner)

	default:
		log.Fatalf("ERROR: Unknown action: %s", *action)
	}
}

func showHelp() {
	fmt.Println("Migration CLI for goUserRegistry")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  go run cmd/migrate/main.go [flags]")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  -action string")
	fmt.Println("        Migration action: up, status, rollback-last (default \"up\")")
	fmt.Println("  -dir string")
	fmt.Println("        Migrations directory path (default \"./migrations\")")
	fmt.Println("  -help")
	fmt.Println("        Show help information")
}

func showMigrationStatus(ctx context.Context, runner *database.MigrationRunner) {
	executed, err := runner.GetExecutedMigrations(ctx)
	if err != nil {
		log.Fatalf("ERROR: Failed to get migration status: %v", err)
	}

	files, err := runner.LoadMigrationFiles()
	if err != nil {
		log.Fatalf("ERROR: Failed to load migration files: %v", err)
	}

	fmt.Println("\nMigration Status:")
	fmt.Println("================")

	if len(executed) == 0 {
		fmt.Println("No migrations have been executed yet.")
	} else {
		fmt.Printf("Executed migrations (%d):\n", len(executed))
		for version := range executed {
			fmt.Printf("  * %s\n", version)
		}
	}

	pendingCount := 0
	for _, migration := range files {
		if !executed[migration.Version] {
			pendingCount++
			if pendingCount == 1 {
				fmt.Println("\nPending migrations:")
			}
			fmt.Printf("  - %s (%s)\n", migration.Version, migration.Filename)
		}
	}

	if pendingCount == 0 {
		fmt.Println("\nAll migrations are up to date!")
	}
	fmt.Println("================")
}
