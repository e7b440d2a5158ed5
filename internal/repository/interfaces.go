package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/devfolio/internal/domain"
)

// DirectoryRepository reads the on-chain directory. Records that are absent
// or do not have the expected shape are left out rather than reported as
// errors; errors mean the chain could not be queried at all.
type DirectoryRepository interface {
	Dashboard(ctx context.Context) (domain.DashboardFields, error)
	Profiles(ctx context.Context, ids []domain.ObjectID) ([]domain.ProfileFields, error)
	Projects(ctx context.Context, ids []domain.ObjectID) ([]domain.ProjectFields, error)
	Project(ctx context.Context, id domain.ObjectID) (*domain.ProjectFields, error)
	Certificates(ctx context.Context, ids []domain.ObjectID) ([]domain.CertificateFields, error)
	VoterAddresses(ctx context.Context, tableID domain.ObjectID) ([]domain.Address, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	Update(ctx context.Context, sub *domain.Submission) error
	ListBySender(ctx context.Context, sender domain.Address, limit int) ([]domain.Submission, error)
}

type Challenge struct {
	ID        uuid.UUID
	Address   domain.Address
	Message   string
	ExpiresAt time.Time
}

type ChallengeRepository interface {
	Create(ctx context.Context, ch *Challenge) error
	// Get returns the live challenge with the given nonce, or nil.
	Get(ctx context.Context, id uuid.UUID, now time.Time) (*Challenge, error)
	// Delete removes the challenge and reports whether it was still pending.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
