package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/repository"
	"github.com/vedran77/devfolio/internal/sui"
)

var (
	ErrInvalidAddress   = errors.New("invalid Sui address")
	ErrNoChallenge      = errors.New("no pending sign-in challenge")
	ErrInvalidWalletSig = errors.New("signature does not match the wallet")
)

// AuthService signs wallets in: it issues a challenge message, verifies the
// wallet's personal-message signature over it and returns a session token.
type AuthService struct {
	challenges   repository.ChallengeRepository
	jwtSecret    []byte
	sessionTTL   time.Duration
	challengeTTL time.Duration
	now          func() time.Time
}

func NewAuthService(challenges repository.ChallengeRepository, jwtSecret string, sessionTTL, challengeTTL time.Duration) *AuthService {
	return &AuthService{
		challenges:   challenges,
		jwtSecret:    []byte(jwtSecret),
		sessionTTL:   sessionTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

type ChallengeInput struct {
	Address string `json:"address"`
}

type ChallengeResponse struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyInput struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type AuthResponse struct {
	Address     domain.Address `json:"address"`
	AccessToken string         `json:"accessToken"`
	ExpiresAt   time.Time      `json:"expiresAt"`
}

func (s *AuthService) Challenge(ctx context.Context, input ChallengeInput) (*ChallengeResponse, error) {
	if !domain.IsAddress(input.Address) {
		return nil, ErrInvalidAddress
	}

	addr := domain.NormalizeAddress(input.Address)
	now := s.now()
	ch := &repository.Challenge{
		ID:        uuid.New(),
		Address:   addr,
		ExpiresAt: now.Add(s.challengeTTL),
	}
	ch.Message = fmt.Sprintf(
		"devfolio wants you to sign in with your Sui account:\n%s\n\nNonce: %s\nIssued At: %s",
		addr, ch.ID, now.UTC().Format(time.RFC3339),
	)

	if err := s.challenges.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("storing challenge: %w", err)
	}
	return &ChallengeResponse{Nonce: ch.ID.String(), Message: ch.Message, ExpiresAt: ch.ExpiresAt}, nil
}

// Verify checks the signature over the challenge named by the nonce and only
// then consumes it, so a bad attempt never burns a pending challenge.
func (s *AuthService) Verify(ctx context.Context, input VerifyInput) (*AuthResponse, error) {
	if !domain.IsAddress(input.Address) {
		return nil, ErrInvalidAddress
	}
	addr := domain.NormalizeAddress(input.Address)

	nonce, err := uuid.Parse(input.Nonce)
	if err != nil {
		return nil, ErrNoChallenge
	}
	ch, err := s.challenges.Get(ctx, nonce, s.now())
	if err != nil {
		return nil, fmt.Errorf("loading challenge: %w", err)
	}
	if ch == nil || !domain.SameAddress(ch.Address, addr) {
		return nil, ErrNoChallenge
	}

	signer, err := sui.VerifyPersonalMessage([]byte(ch.Message), input.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWalletSig, err)
	}
	if !domain.SameAddress(signer, addr) {
		return nil, ErrInvalidWalletSig
	}

	// A concurrent verify of the same nonce may have won the race.
	deleted, err := s.challenges.Delete(ctx, nonce)
	if err != nil {
		return nil, fmt.Errorf("consuming challenge: %w", err)
	}
	if !deleted {
		return nil, ErrNoChallenge
	}

	expiresAt := s.now().Add(s.sessionTTL)
	token, err := s.generateToken(addr, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{Address: addr, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) generateToken(address domain.Address, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": address,
		"exp": expiresAt.Unix(),
		"iat": s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
