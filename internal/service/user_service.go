package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrEmailTaken is returned when signing up with an existing email.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound is returned when the user does not exist.
var ErrUserNotFound = errors.New("user not found")

const pgUniqueViolation = "23505"

// UserService handles signup, login and profile management.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a regular account and logs it in.
func (s *UserService) Signup(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int("user_id", u.ID).Msg("User signed up")
	return s.issue(ctx, u)
}

// Login checks credentials and issues a token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	return s.issue(ctx, u)
}

func (s *UserService) issue(ctx context.Context, u *model.User) (*model.LoginResponse, error) {
	token, expiresAt, err := s.auth.GenerateToken(ctx, u)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *u}, nil
}

// GetByID retrieves a user.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile sets the user's first and last name.
func (s *UserService) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (*model.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates an administrator, or promotes and resets the password
// of an existing account with the same email. Returns true when created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) (*model.User, bool, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.RoleAdmin,
	}
	err = s.userRepo.Create(ctx, u)
	if err == nil {
		return u, true, nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	if err := s.userRepo.UpdateRoleAndPassword(ctx, u); err != nil {
		return nil, false, fmt.Errorf("promote admin: %w", err)
	}
	return u, false, nil
}
