// Command seed-admin provisions the admin account. It bcrypt-hashes the
// password and inserts the row; run it once against a fresh database.
//
//	DATABASE_URL=postgres://... go run ./cmd/seed-admin -username admin -email admin@ecommercemm.com
//
// The password is read from SEED_ADMIN_PASSWORD (or a pre-computed
// bcrypt hash from SEED_ADMIN_PASSWORD_HASH) to keep it out of shell
// history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecommercemm/auth-server-go/internal/database"
	"github.com/ecommercemm/auth-server-go/internal/model"
	"github.com/ecommercemm/auth-server-go/internal/repository"
	"github.com/ecommercemm/auth-server-go/internal/util"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = godotenv.Load()

	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@ecommercemm.com", "admin email")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	// Accept a pre-computed hash (SEED_ADMIN_PASSWORD_HASH) or a
	// plaintext to hash here (SEED_ADMIN_PASSWORD); never both paths
	// silently, and never store a value that is not a bcrypt hash.
	hash := os.Getenv("SEED_ADMIN_PASSWORD_HASH")
	if hash != "" {
		if !util.IsBcryptHash(hash) {
			log.Fatal().Msg("SEED_ADMIN_PASSWORD_HASH is not a bcrypt hash")
		}
	} else {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			log.Fatal().Msg("SEED_ADMIN_PASSWORD or SEED_ADMIN_PASSWORD_HASH is required")
		}
		var err error
		hash, err = util.HashPassword(password)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash password")
		}
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check-then-insert runs in one transaction so two concurrent seed
	// runs cannot both pass the existence check.
	adminRepo := repository.NewAdminRepository(db.DB)
	var admin *model.Admin
	err = db.WithTx(ctx, func(tx *sqlx.Tx) error {
		txRepo := adminRepo.WithTx(tx)

		existing, err := txRepo.FindActiveByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("admin %q already exists", *username)
		}

		count, err := txRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			log.Warn().Int("existing", count).Msg("other admin accounts already present")
		}

		admin, err = txRepo.Create(ctx, model.CreateAdminParams{
			ID:           uuid.NewString(),
			Username:     *username,
			Email:        *email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin")
	}

	log.Info().
		Str("id", admin.ID).
		Str("username", admin.Username).
		Str("email", admin.Email).
		Msg("admin account created")
}
