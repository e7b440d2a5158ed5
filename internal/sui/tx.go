package sui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vedran77/devfolio/internal/domain"
)

// TransactionBytes is an unsigned transaction built by the node.
type TransactionBytes struct {
	TxBytes string `json:"txBytes"`
}

// ExecutionResult summarises an executed transaction.
type ExecutionResult struct {
	Digest         string
	Status         string
	Error          string
	ChangedObjects []string
}

type executeResponse struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"status"`
	} `json:"effects,omitempty"`
	ObjectChanges []struct {
		Type     string `json:"type"`
		ObjectID string `json:"objectId,omitempty"`
	} `json:"objectChanges,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// MoveCall asks the node to build the bytes of a transaction invoking one
// entry point on behalf of sender. Gas coins are selected by the node.
func (c *Client) MoveCall(ctx context.Context, sender string, call domain.MoveCall, gasBudget uint64) (*TransactionBytes, error) {
	typeArgs := call.TypeArgs
	if typeArgs == nil {
		typeArgs = []string{}
	}
	params := []any{
		sender,
		call.Package,
		call.Module,
		call.Function,
		typeArgs,
		call.Arguments,
		nil,
		strconv.FormatUint(gasBudget, 10),
	}

	var tx TransactionBytes
	if err := c.call(ctx, "unsafe_moveCall", params, &tx, true); err != nil {
		return nil, fmt.Errorf("client.MoveCall: %w", err)
	}
	return &tx, nil
}

// ExecuteTransaction submits signed transaction bytes exactly once and waits
// for local execution. A transaction the program aborts is returned together
// with an *ExecutionError.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*ExecutionResult, error) {
	options := map[string]bool{
		"showEffects":       true,
		"showObjectChanges": true,
	}
	params := []any{txBytes, signatures, options, "WaitForLocalExecution"}

	var resp executeResponse
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &resp, false); err != nil {
		return nil, fmt.Errorf("client.ExecuteTransaction: %w", err)
	}

	res := &ExecutionResult{Digest: resp.Digest}
	if resp.Effects != nil {
		res.Status = resp.Effects.Status.Status
		res.Error = resp.Effects.Status.Error
	}
	for _, ch := range resp.ObjectChanges {
		if ch.ObjectID != "" {
			res.ChangedObjects = append(res.ChangedObjects, ch.ObjectID)
		}
	}

	if res.Status == "failure" || len(resp.Errors) > 0 {
		msg := res.Error
		if msg == "" && len(resp.Errors) > 0 {
			msg = resp.Errors[0]
		}
		return res, &ExecutionError{Digest: res.Digest, Message: msg}
	}
	return res, nil
}
