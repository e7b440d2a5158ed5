package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/devfolio/internal/domain"
)

// SubmissionRepo keeps the transaction journal in process memory. Entries
// are lost on restart.
type SubmissionRepo struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]domain.Submission
}

func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{subs: make(map[uuid.UUID]domain.Submission)}
}

func (r *SubmissionRepo) Create(_ context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = clone(*sub)
	return nil
}

func (r *SubmissionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	c := clone(sub)
	return &c, nil
}

func (r *SubmissionRepo) Update(_ context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; ok {
		r.subs[sub.ID] = clone(*sub)
	}
	return nil
}

// ListBySender returns the sender's submissions, newest first.
func (r *SubmissionRepo) ListBySender(_ context.Context, sender domain.Address, limit int) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Submission
	for _, sub := range r.subs {
		if domain.SameAddress(sub.Sender, sender) {
			out = append(out, clone(sub))
		}
	}
	slices.SortFunc(out, func(a, b domain.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clone(s domain.Submission) domain.Submission {
	s.Topics = slices.Clone(s.Topics)
	return s
}
