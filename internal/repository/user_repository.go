package repository

import (
	"context"
	"fmt"

	"votely-be/internal/domain"
	"votely-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresUserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// GetByID gets a user with their vote history.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, picture, role, last_visited, signup_date
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Picture,
		&user.Role,
		&user.LastVisited,
		&user.SignupDate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadVoteHistory(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail gets a user by email with their vote history.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, picture, role, last_visited, signup_date
		FROM users
		WHERE email = $1
	`

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Picture,
		&user.Role,
		&user.LastVisited,
		&user.SignupDate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := r.loadVoteHistory(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Create inserts a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, picture, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING last_visited, signup_date
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Picture,
		user.Role,
	).Scan(&user.LastVisited, &user.SignupDate)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// TouchLastVisited stamps the login time.
func (r *PostgresUserRepository) TouchLastVisited(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE users SET last_visited = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last visited: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) loadVoteHistory(ctx context.Context, user *domain.User) error {
	query := `
		SELECT candidate_name, candidate_party, category
		FROM user_votes
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load vote history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.VoteEntry
		if err := rows.Scan(&entry.Candidate, &entry.CandidateParty, &entry.Category); err != nil {
			return fmt.Errorf("failed to scan vote history entry: %w", err)
		}
		user.Votes = append(user.Votes, entry)
	}
	return rows.Err()
}
