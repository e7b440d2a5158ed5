package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/devfolio/internal/repository"
)

// ChallengeRepo holds pending login challenges keyed by nonce. An address may
// have several live challenges at once.
type ChallengeRepo struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]repository.Challenge
}

func NewChallengeRepo() *ChallengeRepo {
	return &ChallengeRepo{challenges: make(map[uuid.UUID]repository.Challenge)}
}

func (r *ChallengeRepo) Create(_ context.Context, ch *repository.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, c := range r.challenges {
		if !c.ExpiresAt.After(now) {
			delete(r.challenges, id)
		}
	}
	r.challenges[ch.ID] = *ch
	return nil
}

func (r *ChallengeRepo) Get(_ context.Context, id uuid.UUID, now time.Time) (*repository.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[id]
	if !ok || !ch.ExpiresAt.After(now) {
		return nil, nil
	}
	return &ch, nil
}

func (r *ChallengeRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.challenges[id]; !ok {
		return false, nil
	}
	delete(r.challenges, id)
	return true, nil
}
