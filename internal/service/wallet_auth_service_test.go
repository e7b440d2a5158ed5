package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/devfolio/internal/repository/memory"
	"github.com/vedran77/devfolio/internal/sui"
)

const testSecret = "test-secret"

type wallet struct {
	priv    ed25519.PrivateKey
	address string
}

func newWallet(t *testing.T) wallet {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return wallet{priv: priv, address: sui.AddressFromPublicKey(0x00, pub)}
}

func (w wallet) sign(msg string) string {
	digest := sui.PersonalMessageDigest([]byte(msg))
	raw := append([]byte{0x00}, ed25519.Sign(w.priv, digest[:])...)
	raw = append(raw, w.priv.Public().(ed25519.PublicKey)...)
	return base64.StdEncoding.EncodeToString(raw)
}

func newAuth() *AuthService {
	return NewAuthService(memory.NewChallengeRepo(), testSecret, time.Hour, time.Minute)
}

func TestAuth_SignIn(t *testing.T) {
	s := newAuth()
	w := newWallet(t)
	ctx := context.Background()

	ch, err := s.Challenge(ctx, ChallengeInput{Address: w.address})
	require.NoError(t, err)
	assert.Contains(t, ch.Message, w.address)
	assert.Contains(t, ch.Message, "Nonce: "+ch.Nonce)

	resp, err := s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: w.sign(ch.Message)})
	require.NoError(t, err)
	assert.Equal(t, w.address, resp.Address)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, w.address, sub)

	// The challenge is single use.
	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: w.sign(ch.Message)})
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestAuth_Rejects(t *testing.T) {
	s := newAuth()
	w := newWallet(t)
	other := newWallet(t)
	ctx := context.Background()

	_, err := s.Challenge(ctx, ChallengeInput{Address: "alice"})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: "not-a-nonce", Signature: "x"})
	assert.ErrorIs(t, err, ErrNoChallenge)

	ch, err := s.Challenge(ctx, ChallengeInput{Address: w.address})
	require.NoError(t, err)
	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: other.sign(ch.Message)})
	assert.ErrorIs(t, err, ErrInvalidWalletSig)
	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: w.sign(ch.Message + "tampered")})
	assert.ErrorIs(t, err, ErrInvalidWalletSig)

	// A nonce issued to one address cannot sign in another.
	_, err = s.Verify(ctx, VerifyInput{Address: other.address, Nonce: ch.Nonce, Signature: other.sign(ch.Message)})
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestAuth_FailedAttemptsKeepChallenge(t *testing.T) {
	s := newAuth()
	w := newWallet(t)
	ctx := context.Background()

	ch, err := s.Challenge(ctx, ChallengeInput{Address: w.address})
	require.NoError(t, err)

	// Anyone knowing the address can send junk or request a new challenge.
	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: "AAAA"})
	assert.ErrorIs(t, err, ErrInvalidWalletSig)
	other, err := s.Challenge(ctx, ChallengeInput{Address: w.address})
	require.NoError(t, err)
	assert.NotEqual(t, ch.Nonce, other.Nonce)

	resp, err := s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: w.sign(ch.Message)})
	require.NoError(t, err)
	assert.Equal(t, w.address, resp.Address)

	resp, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: other.Nonce, Signature: w.sign(other.Message)})
	require.NoError(t, err)
	assert.Equal(t, w.address, resp.Address)
}

func TestAuth_ExpiredChallenge(t *testing.T) {
	s := newAuth()
	w := newWallet(t)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	ch, err := s.Challenge(ctx, ChallengeInput{Address: w.address})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = s.Verify(ctx, VerifyInput{Address: w.address, Nonce: ch.Nonce, Signature: w.sign(ch.Message)})
	assert.ErrorIs(t, err, ErrNoChallenge)
}
