package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Address is a Sui account address.
type Address = string

// ObjectID is a Sui object identifier. Object ids and addresses share the
// same 32-byte hex encoding.
type ObjectID = string

const addressHexLen = 64

// NormalizeAddress returns the canonical 0x-prefixed, 64-digit lowercase form
// of a hex address. Input that is not hex is returned trimmed and lowercased.
func NormalizeAddress(addr string) string {
	s := strings.ToLower(strings.TrimSpace(addr))
	body := strings.TrimPrefix(s, "0x")
	if body == "" || len(body) > addressHexLen || !isHex(body) {
		return s
	}
	return "0x" + strings.Repeat("0", addressHexLen-len(body)) + body
}

// SameAddress reports whether a and b refer to the same account.
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// IsAddress reports whether s is a well-formed hex address.
func IsAddress(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToLower(s), "0x") {
		return false
	}
	body := s[2:]
	return body != "" && len(body) <= addressHexLen && isHex(body)
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// U64 decodes a Move u64, which the JSON-RPC API encodes as a decimal string.
// Plain JSON numbers are accepted too.
type U64 uint64

func (u *U64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*u = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = str
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %q: %w", s, err)
	}
	*u = U64(v)
	return nil
}

// UID is the `id: { id: "0x…" }` wrapper every Move object carries.
type UID struct {
	ID ObjectID `json:"id"`
}
