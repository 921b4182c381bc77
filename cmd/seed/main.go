package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/eventnest/identity-service/config"
	"github.com/eventnest/identity-service/pkg/helpers"
)

// Seeds one verified demo identity so login works on a fresh database
// without going through the OTP flow.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@eventnest.dev"
	mobile := "9876543210"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, mobile, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, is_verified = TRUE
		RETURNING id
	`, name, email, mobile, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	res, err := db.Exec(`
		INSERT INTO event_registrations (user_id, event_id)
		SELECT $1, gen_random_uuid()
		WHERE NOT EXISTS (SELECT 1 FROM event_registrations WHERE user_id = $1)
	`, id)
	if err != nil {
		log.Fatalf("failed to seed registration: %v", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		fmt.Println("seeded one demo event registration")
	} else {
		fmt.Println("demo registration already present")
	}
}
