package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/devfolio/internal/domain"
)

const submissionColumns = `id, sender, kind, target, tx_bytes, topics, status, digest, error, explorer_url, created_at, executed_at`

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	query := `
		INSERT INTO tx_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	topics := s.Topics
	if topics == nil {
		topics = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		s.ID, domain.NormalizeAddress(s.Sender), s.Kind, s.Target, s.TxBytes, topics,
		s.Status, s.Digest, s.Error, s.ExplorerURL, s.CreatedAt, s.ExecutedAt,
	)
	return err
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM tx_submissions WHERE id = $1`

	var s domain.Submission
	err := scanSubmission(r.pool.QueryRow(ctx, query, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepo) Update(ctx context.Context, s *domain.Submission) error {
	query := `
		UPDATE tx_submissions
		SET status = $1, digest = $2, error = $3, explorer_url = $4, executed_at = $5
		WHERE id = $6`
	_, err := r.pool.Exec(ctx, query, s.Status, s.Digest, s.Error, s.ExplorerURL, s.ExecutedAt, s.ID)
	return err
}

func (r *SubmissionRepo) ListBySender(ctx context.Context, sender domain.Address, limit int) ([]domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM tx_submissions
		WHERE sender = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, domain.NormalizeAddress(sender), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := scanSubmission(rows, &s); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func scanSubmission(row pgx.Row, s *domain.Submission) error {
	return row.Scan(
		&s.ID, &s.Sender, &s.Kind, &s.Target, &s.TxBytes, &s.Topics,
		&s.Status, &s.Digest, &s.Error, &s.ExplorerURL, &s.CreatedAt, &s.ExecutedAt,
	)
}
