package repository

import (
	"context"
	"errors"
	"fmt"

	"votely-be/internal/domain"
	"votely-be/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresVoteRecorder writes an admitted vote to both stores inside one
// transaction. The unique indexes on candidate_voters(candidate_id,
// voter_id) and user_votes(user_id, category) are the database-level
// backstop for the one-vote-per-category rule.
type PostgresVoteRecorder struct {
	db *database.PostgresDB
}

func NewVoteRecorder(db *database.PostgresDB) *PostgresVoteRecorder {
	return &PostgresVoteRecorder{db: db}
}

// RecordVote appends the voter, bumps the tally and appends the user's
// history entry atomically. Returns the new tally.
func (r *PostgresVoteRecorder) RecordVote(ctx context.Context, candidateID string, voter domain.Voter, entry domain.VoteEntry) (int, error) {
	var voteCount int

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE candidates
			SET vote_count = vote_count + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING vote_count
		`, candidateID).Scan(&voteCount)
		if err == pgx.ErrNoRows {
			return domain.ErrCandidateNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to increment tally: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO candidate_voters (candidate_id, voter_id, voter_email, voter_picture)
			VALUES ($1, $2, $3, $4)
		`, candidateID, voter.VoterID, voter.VoterEmail, voter.VoterPicture)
		if err != nil {
			return fmt.Errorf("failed to append voter: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_votes (user_id, candidate_name, candidate_party, category)
			VALUES ($1, $2, $3, $4)
		`, voter.VoterID, entry.Candidate, entry.CandidateParty, entry.Category)
		if err != nil {
			return fmt.Errorf("failed to append vote history: %w", err)
		}

		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrAlreadyVoted
		}
		return 0, err
	}

	return voteCount, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
