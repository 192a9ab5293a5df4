package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(50) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			picture TEXT NOT NULL DEFAULT '',
			role VARCHAR(10) NOT NULL CHECK (role IN ('voter', 'admin')),
			last_visited TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			signup_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			party VARCHAR(255) NOT NULL,
			picture TEXT NOT NULL DEFAULT '',
			category VARCHAR(255) NOT NULL,
			vote_count INTEGER NOT NULL DEFAULT 0,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// One row per voter per candidate; the unique pair is the
		// per-candidate guard.
		`CREATE TABLE IF NOT EXISTS candidate_voters (
			id BIGSERIAL PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			voter_id UUID NOT NULL,
			voter_email VARCHAR(50) NOT NULL DEFAULT '',
			voter_picture TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (candidate_id, voter_id)
		)`,

		// Denormalized history snapshot; the unique (user_id, category)
		// pair enforces one vote per category at the database level.
		`CREATE TABLE IF NOT EXISTS user_votes (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			candidate_name VARCHAR(255) NOT NULL,
			candidate_party VARCHAR(255) NOT NULL,
			category VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, category)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category)`,
		`CREATE INDEX IF NOT EXISTS idx_candidate_voters_candidate ON candidate_voters(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_votes_user ON user_votes(user_id)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS user_votes CASCADE`,
		`DROP TABLE IF EXISTS candidate_voters CASCADE`,
		`DROP TABLE IF EXISTS candidates CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	now := time.Now()
	candidates := []struct {
		id, name, party, category string
	}{
		{"3f1c3f2e-0000-4000-8000-000000000001", "alice mensah", "progress party", "president"},
		{"3f1c3f2e-0000-4000-8000-000000000002", "ben okafor", "unity alliance", "president"},
		{"3f1c3f2e-0000-4000-8000-000000000003", "clara eze", "progress party", "secretary"},
	}

	for _, c := range candidates {
		_, err := conn.Exec(ctx, `
			INSERT INTO candidates (id, name, party, category, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, c.id, c.name, c.party, c.category, now.Add(-time.Hour), now.Add(72*time.Hour))
		if err != nil {
			return fmt.Errorf("failed to seed candidate %s: %w", c.name, err)
		}
	}
	return nil
}
