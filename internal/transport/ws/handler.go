package ws

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/vedran77/devfolio/internal/domain"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket. Viewers may
// connect anonymously; a wallet session can be passed as ?token=xxx
// (WebSocket can't send headers). originPatterns of ["*"] accepts any origin.
func ServeWS(ctx context.Context, hub *Hub, jwtSecret string, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wallet string
		if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
			addr, err := validateToken(tokenStr, jwtSecret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			wallet = addr
		}

		opts := &websocket.AcceptOptions{OriginPatterns: originPatterns}
		if len(originPatterns) == 1 && originPatterns[0] == "*" {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
		}
		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			hub.logger.Warn("ws accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, wallet)
		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		// The request context ends when this handler returns, so the pumps
		// run on the server's lifetime context.
		go client.WritePump(ctx)
		go client.ReadPump(ctx)
	}
}

func validateToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if !domain.IsAddress(sub) {
		return "", jwt.ErrTokenInvalidSubject
	}
	return domain.NormalizeAddress(sub), nil
}
