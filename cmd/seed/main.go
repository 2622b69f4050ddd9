package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/careview/careview/config"
	"github.com/careview/careview/pkg/helpers"
)

// seed inserts a demo account and a handful of reviews for local development.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@careview.local"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	reviews := []struct {
		name        string
		description string
		rating      int
	}{
		{"Demo User", "Friendly staff, short waiting time.", 5},
		{"Demo User", "Clean facilities but parking was difficult.", 4},
		{"Demo User", "Average experience overall.", 3},
	}
	for _, r := range reviews {
		if _, err := db.Exec(`
			INSERT INTO reviews (user_id, name, description, rating)
			VALUES ($1, $2, $3, $4)
		`, id, r.name, r.description, r.rating); err != nil {
			log.Fatalf("failed to seed review: %v", err)
		}
	}
	fmt.Printf("seeded %d reviews\n", len(reviews))
}
