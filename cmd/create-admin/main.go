package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/database"
	"github.com/paperprep/paperprep-backend/internal/logger"
	"github.com/paperprep/paperprep-backend/internal/repository"
	"github.com/paperprep/paperprep-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// Redis is not needed: EnsureAdmin only hashes and stores.
	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(repository.NewUserRepository(pool), authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin User ===")

	fmt.Print("Enter First Name: ")
	firstName, _ := reader.ReadString('\n')
	firstName = strings.TrimSpace(firstName)

	fmt.Print("Enter Last Name: ")
	lastName, _ := reader.ReadString('\n')
	lastName = strings.TrimSpace(lastName)

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		os.Exit(1)
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	u, created, err := userService.EnsureAdmin(ctx, email, password, firstName, lastName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	if created {
		fmt.Printf("\nSuccess! Admin %s created with ID: %d\n", u.Email, u.ID)
		return
	}
	fmt.Printf("\nExisting account %s promoted to admin and password reset.\n", u.Email)
}
