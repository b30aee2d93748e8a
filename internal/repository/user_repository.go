package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paperprep/paperprep-backend/internal/model"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// UpdateProfile sets the user's names.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		u.ID, u.FirstName, u.LastName,
	).Scan(&u.UpdatedAt)
}

// UpdateRoleAndPassword promotes or resets an existing account. Used by the
// create-admin CLI when the email already exists.
func (r *UserRepository) UpdateRoleAndPassword(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`UPDATE users SET role = $2, password_hash = $3, updated_at = NOW()
		 WHERE email = $1
		 RETURNING id, first_name, last_name, created_at, updated_at`,
		u.Email, u.Role, u.PasswordHash,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
}
