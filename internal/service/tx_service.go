package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/repository"
	"github.com/vedran77/devfolio/internal/sui"
)

// DashboardTopic is notified whenever the verified-profile list may have
// changed.
const DashboardTopic = "dashboard"

const moduleProfiles = "profiles"

var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotSubmissionOwner = errors.New("submission belongs to another wallet")
	ErrAlreadyExecuted    = errors.New("submission already executed")
	ErrMissingSignature   = errors.New("signature is required")
)

// Notifier pushes refresh hints to connected clients.
type Notifier interface {
	NotifyChanged(topics []string)
}

// TxBuilder builds and executes Move transactions on the node.
type TxBuilder interface {
	MoveCall(ctx context.Context, sender string, call domain.MoveCall, gasBudget uint64) (*sui.TransactionBytes, error)
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*sui.ExecutionResult, error)
}

type TxConfig struct {
	PackageID   string
	DashboardID string
	ExplorerURL string
	GasBudget   uint64
}

// TxService prepares wallet transactions for signing and submits the signed
// bytes. Each transaction is journaled as a Submission.
type TxService struct {
	chain       TxBuilder
	submissions repository.SubmissionRepository
	cfg         TxConfig
	logger      *zap.Logger
	notifier    Notifier
	now         func() time.Time
}

func NewTxService(chain TxBuilder, submissions repository.SubmissionRepository, cfg TxConfig, logger *zap.Logger) *TxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxService{
		chain:       chain,
		submissions: submissions,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *TxService) SetNotifier(n Notifier) {
	s.notifier = n
}

type ProfileInput struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Github       string `json:"github"`
	Linkedin     string `json:"linkedin"`
	Bio          string `json:"bio"`
	SlushWallet  string `json:"slushWallet"`
	AvatarBlobID string `json:"avatarBlobId"`
}

type ProjectInput struct {
	ProfileID    string   `json:"profileId"`
	Title        string   `json:"title"`
	Technologies []string `json:"technologies"`
	Description  string   `json:"description"`
	GithubLink   string   `json:"githubLink"`
	YoutubeLink  string   `json:"youtubeLink"`
	ImageBlobID  string   `json:"imageBlobId"`
}

type CertificateInput struct {
	ProfileID    string `json:"profileId"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate"`
	VerifyLink   string `json:"verifyLink"`
	ImageBlobID  string `json:"imageBlobId"`
}

type RemoveProfileInput struct {
	ProfileID string `json:"profileId"`
}

type ExecuteInput struct {
	Signature string `json:"signature"`
}

// PrepareVerifyProfile builds profiles::verify_profile, which creates a
// profile owned by sender and lists it on the dashboard.
func (s *TxService) PrepareVerifyProfile(ctx context.Context, sender domain.Address, input ProfileInput) (*domain.Submission, error) {
	call := s.moveCall("verify_profile",
		s.cfg.DashboardID,
		input.Name,
		input.Username,
		input.Github,
		input.Linkedin,
		input.Bio,
		input.SlushWallet,
		input.AvatarBlobID,
	)
	return s.prepare(ctx, sender, domain.TxVerifyProfile, s.cfg.DashboardID, call, []string{DashboardTopic})
}

// PrepareRemoveProfile builds profiles::remove_profile for the sender's
// profile.
func (s *TxService) PrepareRemoveProfile(ctx context.Context, sender domain.Address, input RemoveProfileInput) (*domain.Submission, error) {
	call := s.moveCall("remove_profile",
		s.cfg.DashboardID,
		domain.NormalizeAddress(sender),
		input.ProfileID,
	)
	return s.prepare(ctx, sender, domain.TxRemoveProfile, input.ProfileID, call, []string{DashboardTopic, input.ProfileID})
}

func (s *TxService) PrepareCreateProject(ctx context.Context, sender domain.Address, input ProjectInput) (*domain.Submission, error) {
	call := s.moveCall("create_project_showcase",
		input.ProfileID,
		input.Title,
		CleanTechnologies(input.Technologies),
		input.Description,
		input.GithubLink,
		input.YoutubeLink,
		input.ImageBlobID,
	)
	return s.prepare(ctx, sender, domain.TxCreateProject, input.ProfileID, call, []string{input.ProfileID})
}

func (s *TxService) PrepareCreateCertificate(ctx context.Context, sender domain.Address, input CertificateInput) (*domain.Submission, error) {
	call := s.moveCall("create_certificate",
		input.ProfileID,
		input.Organization,
		input.Title,
		input.IssueDate,
		input.ExpiryDate,
		input.VerifyLink,
		input.ImageBlobID,
	)
	return s.prepare(ctx, sender, domain.TxCreateCertificate, input.ProfileID, call, []string{input.ProfileID})
}

// PrepareVote builds an upvote. The contract rejects a second vote from the
// same address when the transaction executes.
func (s *TxService) PrepareVote(ctx context.Context, sender domain.Address, projectID domain.ObjectID) (*domain.Submission, error) {
	call := s.moveCall("vote", projectID, true)
	return s.prepare(ctx, sender, domain.TxVote, projectID, call, []string{projectID})
}

// Execute submits the signed bytes of a prepared submission. The node is
// called once; a failed submission may be executed again with a fresh
// signature.
func (s *TxService) Execute(ctx context.Context, sender domain.Address, id uuid.UUID, input ExecuteInput) (*domain.Submission, error) {
	if sender == "" {
		return nil, ErrWalletNotConnected
	}
	if strings.TrimSpace(input.Signature) == "" {
		return nil, ErrMissingSignature
	}

	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if !domain.SameAddress(sub.Sender, sender) {
		return nil, ErrNotSubmissionOwner
	}
	if sub.Status == domain.SubmissionExecuted {
		return nil, ErrAlreadyExecuted
	}

	res, execErr := s.chain.ExecuteTransaction(ctx, sub.TxBytes, []string{input.Signature})
	if res != nil && res.Digest != "" {
		digest := res.Digest
		sub.Digest = &digest
		sub.ExplorerURL = s.explorerURL(digest)
	}

	if execErr != nil {
		msg := execErr.Error()
		sub.Status = domain.SubmissionFailed
		sub.Error = &msg
		if err := s.submissions.Update(ctx, sub); err != nil {
			s.logger.Error("journal update failed", zap.Stringer("submission", sub.ID), zap.Error(err))
		}
		s.logger.Warn("transaction failed",
			zap.Stringer("submission", sub.ID),
			zap.String("kind", sub.Kind),
			zap.Error(execErr),
		)
		return sub, fmt.Errorf("executing %s: %w", sub.Kind, execErr)
	}

	executedAt := s.now()
	sub.Status = domain.SubmissionExecuted
	sub.Error = nil
	sub.ExecutedAt = &executedAt
	if err := s.submissions.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("updating submission: %w", err)
	}

	s.logger.Info("transaction executed",
		zap.Stringer("submission", sub.ID),
		zap.String("kind", sub.Kind),
		zap.String("digest", res.Digest),
	)

	if s.notifier != nil {
		s.notifier.NotifyChanged(mergeTopics(sub.Topics, res.ChangedObjects))
	}
	return sub, nil
}

// Submissions lists the sender's journal, newest first.
func (s *TxService) Submissions(ctx context.Context, sender domain.Address, limit int) ([]domain.Submission, error) {
	if sender == "" {
		return nil, ErrWalletNotConnected
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.submissions.ListBySender(ctx, sender, limit)
}

func (s *TxService) prepare(ctx context.Context, sender domain.Address, kind string, target domain.ObjectID, call domain.MoveCall, topics []string) (*domain.Submission, error) {
	if sender == "" {
		return nil, ErrWalletNotConnected
	}

	tx, err := s.chain.MoveCall(ctx, sender, call, s.cfg.GasBudget)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", kind, err)
	}

	sub := &domain.Submission{
		ID:        uuid.New(),
		Sender:    domain.NormalizeAddress(sender),
		Kind:      kind,
		Target:    target,
		TxBytes:   tx.TxBytes,
		Topics:    topics,
		Status:    domain.SubmissionPrepared,
		CreatedAt: s.now(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("journaling submission: %w", err)
	}
	return sub, nil
}

func (s *TxService) moveCall(function string, args ...any) domain.MoveCall {
	return domain.MoveCall{
		Package:   s.cfg.PackageID,
		Module:    moduleProfiles,
		Function:  function,
		Arguments: args,
	}
}

func (s *TxService) explorerURL(digest string) string {
	if s.cfg.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(s.cfg.ExplorerURL, "/") + "/tx/" + digest
}

// CleanTechnologies trims each entry and drops empty ones.
func CleanTechnologies(techs []string) []string {
	out := make([]string, 0, len(techs))
	for _, t := range techs {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mergeTopics(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		for _, t := range g {
			if t != "" && !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}
