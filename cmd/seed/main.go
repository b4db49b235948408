// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"talent-screen/backend/internal/config"
	"talent-screen/backend/internal/db"
	"talent-screen/backend/internal/security"
	userdomain "talent-screen/backend/internal/user/domain"
	userrepo "talent-screen/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", devUserEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hashing password: %v", err)
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		ID:            uuid.New().String(),
		Email:         devUserEmail,
		Name:          "Dev User",
		Company:       "Talent Screen",
		PasswordHash:  hash,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("seed: creating user: %v", err)
	}
	log.Printf("seed: created %s (password %q)", devUserEmail, devPassword)
}
