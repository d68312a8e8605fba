package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"video-forge-backend/internal/models"
)

const userColumns = `id, email, subscription_status, metadata, created_at, last_login`

func (s *Store) CreateUser(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		RETURNING `+userColumns, uuid.New(), email)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET last_login = CURRENT_TIMESTAMP
		WHERE id = $1
	`, userID)
	return err
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.SubscriptionStatus, &u.Metadata, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
