package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
)

// Repository handles user persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates an auth repository.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, college_id, created_at, updated_at`

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u models.User
	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CollegeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns a user by email. Emails are stored lowercase.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var u models.User
	err := r.db.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CollegeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The unique index on email surfaces duplicates
// as a unique-violation error.
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string, role models.Role, collegeID *string) (*models.User, error) {
	const q = `INSERT INTO users (name, email, password_hash, role, college_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	var u models.User
	err := r.db.QueryRow(ctx, q, strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), passwordHash, string(role), collegeID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CollegeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, q, passwordHash, id)
	return err
}
