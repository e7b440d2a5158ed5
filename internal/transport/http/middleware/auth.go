package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vedran77/devfolio/internal/domain"
)

type contextKey string

const AddressKey contextKey = "wallet_address"

// Auth requires a wallet session token issued by the sign-in flow and puts
// the wallet address in the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Please connect your wallet first")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				unauthorized(w, "Wallet session is invalid or expired")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || !domain.IsAddress(sub) {
				unauthorized(w, "Invalid wallet address in token")
				return
			}

			ctx := context.WithValue(r.Context(), AddressKey, domain.NormalizeAddress(sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAddress returns the connected wallet address, or "" outside Auth.
func GetAddress(ctx context.Context) domain.Address {
	addr, _ := ctx.Value(AddressKey).(domain.Address)
	return addr
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "WALLET_NOT_CONNECTED",
			"message": message,
		},
	})
}
