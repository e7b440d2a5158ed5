package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// sharedReadTimeout bounds a coalesced read, which no longer follows the
// cancellation of the request that started it.
const sharedReadTimeout = 30 * time.Second

// DirectoryService resolves on-chain records into the shapes the web client
// renders.
type DirectoryService struct {
	repo       repository.DirectoryRepository
	aggregator string
	logger     *zap.Logger
	now        func() time.Time

	// group coalesces concurrent dashboard+profile resolutions.
	group         singleflight.Group
	sharedTimeout time.Duration
}

func NewDirectoryService(repo repository.DirectoryRepository, aggregatorURL string, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		repo:          repo,
		aggregator:    aggregatorURL,
		logger:        logger,
		now:           time.Now,
		sharedTimeout: sharedReadTimeout,
	}
}

func (s *DirectoryService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	fields, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching dashboard: %w", err)
	}
	d := fields.ToDashboard()
	return &d, nil
}

// Profiles returns every verified profile in dashboard order.
func (s *DirectoryService) Profiles(ctx context.Context) ([]domain.Profile, error) {
	raw, err := s.verifiedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(raw))
	for _, f := range raw {
		profiles = append(profiles, f.ToProfile(s.aggregator))
	}
	return profiles, nil
}

// ProfileByOwner scans the verified profiles from last to first and returns
// the first one owned by owner, so a later entry for the same owner wins.
func (s *DirectoryService) ProfileByOwner(ctx context.Context, owner domain.Address) (*domain.Profile, error) {
	return s.findProfile(ctx, func(f domain.ProfileFields) bool {
		return domain.SameAddress(f.Owner, owner)
	})
}

// ProfileByUsername matches usernames case-insensitively with the same
// traversal order as ProfileByOwner.
func (s *DirectoryService) ProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrProfileNotFound
	}
	return s.findProfile(ctx, func(f domain.ProfileFields) bool {
		return strings.EqualFold(f.Username, username)
	})
}

// Developer resolves a handle (an address or a username) into the profile
// and its projects and certificates.
func (s *DirectoryService) Developer(ctx context.Context, handle string) (*domain.Developer, error) {
	var (
		profile *domain.Profile
		err     error
	)
	if domain.IsAddress(handle) {
		profile, err = s.ProfileByOwner(ctx, handle)
	} else {
		profile, err = s.ProfileByUsername(ctx, handle)
	}
	if err != nil {
		return nil, err
	}

	dev := &domain.Developer{Profile: *profile}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.Projects(gctx, profile.ProjectIDs)
		dev.Projects = projects
		return err
	})
	g.Go(func() error {
		certs, err := s.Certificates(gctx, profile.CertificateIDs)
		dev.Certificates = certs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dev, nil
}

// Projects resolves ids into projects ordered by vote count, highest first.
// Projects with equal votes keep their fetch order.
func (s *DirectoryService) Projects(ctx context.Context, ids []domain.ObjectID) ([]domain.Project, error) {
	if len(ids) == 0 {
		return []domain.Project{}, nil
	}

	raw, err := s.repo.Projects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(raw))
	for _, f := range raw {
		projects = append(projects, f.ToProject(s.aggregator))
	}
	slices.SortStableFunc(projects, func(a, b domain.Project) int {
		return cmp.Compare(b.VoteCount, a.VoteCount)
	})
	return projects, nil
}

// AllProjects returns the projects of every verified profile.
func (s *DirectoryService) AllProjects(ctx context.Context) ([]domain.Project, error) {
	profiles, err := s.verifiedProfiles(ctx)
	if err != nil {
		return nil, err
	}

	var ids []domain.ObjectID
	for _, p := range profiles {
		ids = append(ids, p.ListProjects...)
	}
	return s.Projects(ctx, ids)
}

func (s *DirectoryService) Certificates(ctx context.Context, ids []domain.ObjectID) ([]domain.Certificate, error) {
	if len(ids) == 0 {
		return []domain.Certificate{}, nil
	}

	raw, err := s.repo.Certificates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching certificates: %w", err)
	}

	now := s.now()
	certs := make([]domain.Certificate, 0, len(raw))
	for _, f := range raw {
		certs = append(certs, f.ToCertificate(s.aggregator, now))
	}
	return certs, nil
}

// HasVoted reports whether voter appears in the project's voters table.
// A missing project, a project without a table or an empty voter all mean
// "has not voted".
func (s *DirectoryService) HasVoted(ctx context.Context, projectID domain.ObjectID, voter domain.Address) (bool, error) {
	if projectID == "" {
		return false, nil
	}

	project, err := s.repo.Project(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("fetching project: %w", err)
	}
	if project == nil || project.VotersTableID == "" || voter == "" {
		return false, nil
	}

	voters, err := s.repo.VoterAddresses(ctx, project.VotersTableID)
	if err != nil {
		return false, fmt.Errorf("listing voters: %w", err)
	}
	return slices.ContainsFunc(voters, func(v domain.Address) bool {
		return domain.SameAddress(v, voter)
	}), nil
}

func (s *DirectoryService) findProfile(ctx context.Context, match func(domain.ProfileFields) bool) (*domain.Profile, error) {
	profiles, err := s.verifiedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(profiles) - 1; i >= 0; i-- {
		if match(profiles[i]) {
			p := profiles[i].ToProfile(s.aggregator)
			return &p, nil
		}
	}
	return nil, ErrProfileNotFound
}

// verifiedProfiles reads the dashboard and then batch-fetches its profiles.
// The batch is skipped when the dashboard lists no profiles. Callers that
// arrive while a read is in flight share it; each one still returns as soon
// as its own context is done without failing the others.
func (s *DirectoryService) verifiedProfiles(ctx context.Context) ([]domain.ProfileFields, error) {
	ch := s.group.DoChan("verified-profiles", func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sharedTimeout)
		defer cancel()

		dash, err := s.repo.Dashboard(shared)
		if err != nil {
			return nil, fmt.Errorf("fetching dashboard: %w", err)
		}
		if len(dash.VerifiedProfiles) == 0 {
			return []domain.ProfileFields{}, nil
		}

		profiles, err := s.repo.Profiles(shared, dash.VerifiedProfiles)
		if err != nil {
			return nil, fmt.Errorf("fetching profiles: %w", err)
		}
		s.logger.Debug("resolved verified profiles",
			zap.Int("listed", len(dash.VerifiedProfiles)),
			zap.Int("valid", len(profiles)),
		)
		return profiles, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.ProfileFields), nil
	}
}
