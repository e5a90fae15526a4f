// Command provision creates an administrator account. Admin accounts are
// never created through the HTTP API; an operator with database access runs
// this instead of seeding a fixed credential.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"taskboard/internal/app/service"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/database"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
)

func main() {
	name := flag.String("name", "", "display name for the admin account")
	email := flag.String("email", "", "email for the admin account")
	password := flag.String("password", "", "password for the admin account")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("all of --name, --email and --password are required")
	}

	config.Load()
	database.Connect()
	defer database.Close()

	userRepo := repository.NewPgUserRepository(database.DB)

	hashed, err := security.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &model.User{
		ID:             uuid.NewString(),
		Name:           *name,
		Email:          service.NormalizeEmail(*email),
		HashedPassword: hashed,
		Role:           model.RoleAdmin,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			log.Fatalf("a user with email %s already exists", admin.Email)
		}
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin account %s (%s) created", admin.Name, admin.Email)
}
