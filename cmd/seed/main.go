package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"evote/internal/auth"
	"evote/internal/config"
	apperrors "evote/internal/errors"
	"evote/internal/model"
	"evote/internal/service"
	"evote/internal/store"
)

// Creates an administrator, or promotes the voter already registered with
// the given email.
func main() {
	email := flag.String("email", "admin@evote.local", "admin email")
	name := flag.String("name", "Administrator", "admin display name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	log.Println("Connected to database")

	voter, created, err := seedAdmin(ctx, st, *email, *name, *password, cfg)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if created {
		log.Printf("Admin created: %s (%s)", voter.Email, voter.ID)
	} else {
		log.Printf("Existing voter promoted to admin: %s (%s)", voter.Email, voter.ID)
	}
}

func seedAdmin(ctx context.Context, st *store.Store, email, name, password string, cfg *config.Config) (*model.Voter, bool, error) {
	existing, err := st.Voters.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := st.Voters.Promote(ctx, existing.ID); err != nil {
			return nil, false, err
		}
		existing.Role = model.RoleAdmin
		return existing, false, nil
	case !errors.Is(err, apperrors.ErrVoterNotFound):
		return nil, false, err
	}

	if password == "" {
		return nil, false, errors.New("a password is required to create a new admin (-password or ADMIN_PASSWORD)")
	}

	authService := service.NewAuthService(st.Voters, auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry))
	voter, err := authService.Register(ctx, &model.Voter{Name: name, Email: email}, password)
	if err != nil {
		return nil, false, err
	}
	if err := st.Voters.Promote(ctx, voter.ID); err != nil {
		return nil, false, err
	}
	voter.Role = model.RoleAdmin
	return voter, true, nil
}
