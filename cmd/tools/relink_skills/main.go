// Command relink_skills rebuilds the skill links of every stored parsed résumé.
//
// Run it after changing skill normalization or category detection so that
// existing records pick up the new canonical skill names.
//
// Usage:
//
//	go run cmd/tools/relink_skills/main.go
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/jonathan/resume-parser/internal/db"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create db instance: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Skill Relink Script ===")
	fmt.Println()

	rows, err := pool.Query(ctx, `SELECT id FROM parsed_resumes ORDER BY created_at`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to query parsed resumes: %v\n", err)
		os.Exit(1)
	}

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			fmt.Fprintf(os.Stderr, "ERROR: Failed to scan row: %v\n", err)
			os.Exit(1)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read rows: %v\n", err)
		os.Exit(1)
	}

	if len(ids) == 0 {
		fmt.Println("No parsed resumes found.")
		return
	}

	fmt.Printf("Relinking skills for %d parsed resumes:\n\n", len(ids))

	relinked := 0
	failed := 0

	for _, id := range ids {
		record, err := database.GetParsedResume(ctx, id)
		if err != nil || record == nil {
			fmt.Printf("  ✗ %s: %v\n", id, err)
			failed++
			continue
		}

		if _, err := database.UpdateParsedResume(ctx, id, record.Data); err != nil {
			fmt.Printf("  ✗ %s: %v\n", id, err)
			failed++
			continue
		}

		links, err := database.ListResumeSkills(ctx, id)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("  ✓ %s (%s): %d skills\n", id, record.Filename, len(links))
		relinked++
	}

	fmt.Println()
	fmt.Println("=== Relink Summary ===")
	fmt.Printf("  Relinked: %d\n", relinked)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Total: %d\n", len(ids))

	if failed > 0 {
		os.Exit(1)
	}
}
