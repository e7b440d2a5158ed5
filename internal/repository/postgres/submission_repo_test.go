package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/devfolio/internal/database"
	"github.com/vedran77/devfolio/internal/domain"
)

// Runs against a real database when DEVFOLIO_TEST_DSN is set, with the
// migrations already applied.
func TestSubmissionRepo(t *testing.T) {
	dsn := os.Getenv("DEVFOLIO_TEST_DSN")
	if dsn == "" {
		t.Skip("DEVFOLIO_TEST_DSN not set")
	}
	ctx := context.Background()

	pool, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewSubmissionRepo(pool)
	sender := "0x" + uuid.NewString()[:8]
	created := time.Now().UTC().Truncate(time.Millisecond)

	sub := &domain.Submission{
		ID:        uuid.New(),
		Sender:    sender,
		Kind:      domain.TxVote,
		Target:    "0x1",
		TxBytes:   "AAEC",
		Status:    domain.SubmissionPrepared,
		CreatedAt: created,
	}
	require.NoError(t, repo.Create(ctx, sub))
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM tx_submissions WHERE id = $1`, sub.ID) //nolint:errcheck
	})

	got, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.NormalizeAddress(sender), got.Sender)
	assert.Equal(t, []string{}, got.Topics)
	assert.Nil(t, got.Digest)

	digest := "D1"
	executed := created.Add(time.Second)
	sub.Status = domain.SubmissionExecuted
	sub.Digest = &digest
	sub.ExecutedAt = &executed
	require.NoError(t, repo.Update(ctx, sub))

	list, err := repo.ListBySender(ctx, sender, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SubmissionExecuted, list[0].Status)
	require.NotNil(t, list[0].Digest)
	assert.Equal(t, "D1", *list[0].Digest)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
