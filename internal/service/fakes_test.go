package service

import (
	"context"
	"io"
	"sync"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/sui"
	"github.com/vedran77/devfolio/internal/walrus"
)

// fakeDirectory is an in-memory DirectoryRepository that records calls.
type fakeDirectory struct {
	mu sync.Mutex

	dashboard    domain.DashboardFields
	profiles     map[string]domain.ProfileFields
	projects     map[string]domain.ProjectFields
	certificates map[string]domain.CertificateFields
	voters       map[string][]domain.Address
	err          error

	// When gate is set, Dashboard signals entered and waits for gate to
	// close or for its context to end.
	gate    chan struct{}
	entered chan struct{}

	dashboardCalls int
	batchCalls     int
	projectCalls   int
	voterCalls     int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles:     map[string]domain.ProfileFields{},
		projects:     map[string]domain.ProjectFields{},
		certificates: map[string]domain.CertificateFields{},
		voters:       map[string][]domain.Address{},
	}
}

func (f *fakeDirectory) Dashboard(ctx context.Context) (domain.DashboardFields, error) {
	f.mu.Lock()
	f.dashboardCalls++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.DashboardFields{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dashboard, f.err
}

func (f *fakeDirectory) Profiles(_ context.Context, ids []domain.ObjectID) ([]domain.ProfileFields, error) {
	return pick(f, ids, f.profiles)
}

func (f *fakeDirectory) Projects(_ context.Context, ids []domain.ObjectID) ([]domain.ProjectFields, error) {
	return pick(f, ids, f.projects)
}

func (f *fakeDirectory) Certificates(_ context.Context, ids []domain.ObjectID) ([]domain.CertificateFields, error) {
	return pick(f, ids, f.certificates)
}

func (f *fakeDirectory) Project(_ context.Context, id domain.ObjectID) (*domain.ProjectFields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectCalls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeDirectory) VoterAddresses(_ context.Context, tableID domain.ObjectID) ([]domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voterCalls++
	return f.voters[tableID], f.err
}

// pick mimics the chain repository: ids that are unknown (absent or of the
// wrong shape) are dropped, order is kept.
func pick[T any](f *fakeDirectory, ids []domain.ObjectID, from map[string]T) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := []T{}
	for _, id := range ids {
		if v, ok := from[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeChain struct {
	calls    []domain.MoveCall
	senders  []string
	executed [][]string

	buildErr error
	result   *sui.ExecutionResult
	execErr  error
}

func (f *fakeChain) MoveCall(_ context.Context, sender string, call domain.MoveCall, _ uint64) (*sui.TransactionBytes, error) {
	f.calls = append(f.calls, call)
	f.senders = append(f.senders, sender)
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return &sui.TransactionBytes{TxBytes: "dHgtYnl0ZXM="}, nil
}

func (f *fakeChain) ExecuteTransaction(_ context.Context, txBytes string, sigs []string) (*sui.ExecutionResult, error) {
	f.executed = append(f.executed, append([]string{txBytes}, sigs...))
	return f.result, f.execErr
}

type fakeNotifier struct {
	topics [][]string
}

func (n *fakeNotifier) NotifyChanged(topics []string) {
	n.topics = append(n.topics, topics)
}

type fakeBlobStore struct {
	stored []byte
	epochs int
}

func (s *fakeBlobStore) Store(_ context.Context, body io.Reader, epochs int) (*walrus.Blob, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.stored = data
	s.epochs = epochs
	return &walrus.Blob{BlobID: "blob-1", URL: "https://agg.example/v1/blobs/blob-1"}, nil
}
