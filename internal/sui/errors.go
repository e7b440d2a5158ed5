package sui

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx response from the full node.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ExecutionError means the transaction was included but the program aborted.
type ExecutionError struct {
	Digest  string
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Digest, e.Message)
}

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrUnsupportedSignature = errors.New("unsupported signature scheme")
)

// IsStatus reports whether err wraps an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}
