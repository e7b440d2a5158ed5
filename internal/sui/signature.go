package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	flagEd25519     byte = 0x00
	ed25519SigLen        = 1 + ed25519.SignatureSize + ed25519.PublicKeySize
	intentPersonal  byte = 3
	intentVersionV0 byte = 0
	intentAppSui    byte = 0
)

// VerifyPersonalMessage checks a serialized wallet signature
// (flag || signature || public key, base64) over message signed with the
// personal-message intent and returns the signer's address.
func VerifyPersonalMessage(message []byte, signature string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) == 0 {
		return "", ErrInvalidSignature
	}
	if raw[0] != flagEd25519 {
		return "", fmt.Errorf("%w: flag 0x%02x", ErrUnsupportedSignature, raw[0])
	}
	if len(raw) != ed25519SigLen {
		return "", fmt.Errorf("%w: length %d", ErrInvalidSignature, len(raw))
	}

	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])

	digest := PersonalMessageDigest(message)
	if !ed25519.Verify(pub, digest[:], sig) {
		return "", ErrInvalidSignature
	}
	return AddressFromPublicKey(flagEd25519, pub), nil
}

// PersonalMessageDigest is blake2b-256 over the intent prefix followed by the
// message encoded as a BCS byte vector.
func PersonalMessageDigest(message []byte) [32]byte {
	buf := make([]byte, 0, 3+binary.MaxVarintLen64+len(message))
	buf = append(buf, intentPersonal, intentVersionV0, intentAppSui)
	buf = binary.AppendUvarint(buf, uint64(len(message)))
	buf = append(buf, message...)
	return blake2b.Sum256(buf)
}

// AddressFromPublicKey derives an account address: blake2b-256(flag || pk).
func AddressFromPublicKey(flag byte, pub []byte) string {
	sum := blake2b.Sum256(append([]byte{flag}, pub...))
	return "0x" + hex.EncodeToString(sum[:])
}
