package repository

import (
	"context"
	"fmt"

	"votely-be/internal/domain"
	"votely-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresCandidateRepository struct {
	db *database.PostgresDB
}

func NewCandidateRepository(db *database.PostgresDB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, name, party, picture, category, vote_count, start_date, end_date, created_at, updated_at`

// GetByID gets a candidate with its voter list.
func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)

	var c domain.Candidate
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Party,
		&c.Picture,
		&c.Category,
		&c.VoteCount,
		&c.StartDate,
		&c.EndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if err := r.loadVoters(ctx, []*domain.Candidate{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCategory gets every candidate sharing a category, voter lists
// included. The admission check scans these for the cross-item
// already-voted rule.
func (r *PostgresCandidateRepository) GetByCategory(ctx context.Context, category string) ([]domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE category = $1 ORDER BY created_at ASC`, candidateColumns)

	rows, err := r.db.Pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates by category: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

// List gets the full catalog, voter lists included.
func (r *PostgresCandidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates ORDER BY category ASC, created_at ASC`, candidateColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

// ExistsByNameOrParty reports whether a candidate with the given
// (case-folded) name or name+party pair already exists.
func (r *PostgresCandidateRepository) ExistsByNameOrParty(ctx context.Context, name, party string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM candidates WHERE name = $1 OR (name = $1 AND party = $2))`
	if err := r.db.Pool.QueryRow(ctx, query, name, party).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check candidate existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new candidate record.
func (r *PostgresCandidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, name, party, picture, category, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING vote_count, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		c.ID,
		c.Name,
		c.Party,
		c.Picture,
		c.Category,
		c.StartDate,
		c.EndDate,
	).Scan(&c.VoteCount, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *PostgresCandidateRepository) collect(ctx context.Context, rows pgx.Rows) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Party,
			&c.Picture,
			&c.Category,
			&c.VoteCount,
			&c.StartDate,
			&c.EndDate,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Candidate, len(candidates))
	for i := range candidates {
		refs[i] = &candidates[i]
	}
	if err := r.loadVoters(ctx, refs); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *PostgresCandidateRepository) loadVoters(ctx context.Context, candidates []*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]string, len(candidates))
	byID := make(map[string]*domain.Candidate, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	query := `
		SELECT candidate_id, voter_id, voter_email, voter_picture
		FROM candidate_voters
		WHERE candidate_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load voters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID string
		var v domain.Voter
		if err := rows.Scan(&candidateID, &v.VoterID, &v.VoterEmail, &v.VoterPicture); err != nil {
			return fmt.Errorf("failed to scan voter: %w", err)
		}
		if c, ok := byID[candidateID]; ok {
			c.Voters = append(c.Voters, v)
		}
	}
	return rows.Err()
}
