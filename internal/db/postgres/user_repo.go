package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lostfound/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

const userColumns = `id, clerk_id, name, email, phone_number, profile_image_url, created_at`

// Create inserts a new user into the users table.
// ON CONFLICT DO NOTHING turns a concurrent insert of the same clerk_id into
// "no row returned", reported as ErrUserAlreadyExists.
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (clerk_id, name, email, phone_number, profile_image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (clerk_id) DO NOTHING
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ClerkID, user.Name, user.Email, user.PhoneNumber, user.ProfileImageURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserAlreadyExists
	}
	if err != nil {
		if pqErrorCode(err) == uniqueViolation {
			return nil, users.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByClerkID retrieves a user by their identity-provider ID
func (r *postgresUserRepo) GetByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, clerkID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by clerk ID: %w", err)
	}

	return user, nil
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	var name, email, phone, imageURL sql.NullString

	err := row.Scan(&user.ID, &user.ClerkID, &name, &email, &phone, &imageURL, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	if name.Valid {
		user.Name = &name.String
	}
	if email.Valid {
		user.Email = &email.String
	}
	if phone.Valid {
		user.PhoneNumber = &phone.String
	}
	if imageURL.Valid {
		user.ProfileImageURL = &imageURL.String
	}

	return user, nil
}
