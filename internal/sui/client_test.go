package sui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/devfolio/internal/domain"
)

type rpcHandler func(method string, params []json.RawMessage) (any, *RPCError)

func newRPCServer(t *testing.T, h rpcHandler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		result, rpcErr := h(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(url string, batch int) *Client {
	return New(Options{
		URL:       url,
		BatchSize: batch,
		Retry: RetryPolicy{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
		},
	}, nil)
}

func moveObject(id string, fields map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"objectId": id,
			"version":  "1",
			"digest":   "d",
			"content": map[string]any{
				"dataType": "moveObject",
				"type":     "0x1::profiles::Profile",
				"fields":   fields,
			},
		},
	}
}

func TestGetObject_Absent(t *testing.T) {
	srv := newRPCServer(t, func(method string, _ []json.RawMessage) (any, *RPCError) {
		require.Equal(t, "sui_getObject", method)
		return map[string]any{"error": map[string]any{"code": "notExists", "object_id": "0x9"}}, nil
	})

	resp, err := testClient(srv.URL, 0).GetObject(context.Background(), "0x9")
	require.NoError(t, err)
	assert.Equal(t, ContentAbsent, resp.Content().Kind)
}

func TestGetObject_MoveObject(t *testing.T) {
	srv := newRPCServer(t, func(string, []json.RawMessage) (any, *RPCError) {
		return moveObject("0x1", map[string]any{"owner": "0xa"}), nil
	})

	resp, err := testClient(srv.URL, 0).GetObject(context.Background(), "0x1")
	require.NoError(t, err)

	c := resp.Content()
	assert.Equal(t, ContentMoveObject, c.Kind)
	assert.Equal(t, "0x1", c.ObjectID)
	assert.JSONEq(t, `{"owner":"0xa"}`, string(c.Fields))
}

func TestMultiGetObjects_ChunksAndKeepsOrder(t *testing.T) {
	var calls atomic.Int32
	srv := newRPCServer(t, func(method string, params []json.RawMessage) (any, *RPCError) {
		calls.Add(1)
		var ids []string
		require.NoError(t, json.Unmarshal(params[0], &ids))
		assert.LessOrEqual(t, len(ids), 2)

		out := make([]any, 0, len(ids))
		for _, id := range ids {
			out = append(out, moveObject(id, map[string]any{"owner": id}))
		}
		return out, nil
	})

	ids := []string{"0x1", "0x2", "0x3", "0x4", "0x5"}
	resps, err := testClient(srv.URL, 2).MultiGetObjects(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, resps, 5)
	assert.Equal(t, int32(3), calls.Load())
	for i, r := range resps {
		assert.Equal(t, ids[i], r.Content().ObjectID)
	}
}

func TestMultiGetObjects_EmptyIssuesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := newRPCServer(t, func(string, []json.RawMessage) (any, *RPCError) {
		calls.Add(1)
		return []any{}, nil
	})

	resps, err := testClient(srv.URL, 0).MultiGetObjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resps)
	assert.Zero(t, calls.Load())
}

func TestCall_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"jsonrpc": "2.0", "id": 1,
			"result": map[string]any{"error": map[string]any{"code": "notExists"}},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).GetObject(context.Background(), "0x1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCall_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).GetObject(context.Background(), "0x1")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, int32(3), calls.Load())
}

func TestCall_RPCErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newRPCServer(t, func(string, []json.RawMessage) (any, *RPCError) {
		calls.Add(1)
		return nil, &RPCError{Code: -32602, Message: "invalid params"}
	})

	_, err := testClient(srv.URL, 0).GetObject(context.Background(), "nope")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetDynamicFields_FollowsCursor(t *testing.T) {
	srv := newRPCServer(t, func(method string, params []json.RawMessage) (any, *RPCError) {
		require.Equal(t, "suix_getDynamicFields", method)
		var cursor *string
		require.NoError(t, json.Unmarshal(params[1], &cursor))

		page := 0
		if cursor != nil {
			page, _ = strconv.Atoi(*cursor)
		}
		next := strconv.Itoa(page + 1)
		return map[string]any{
			"data": []any{
				map[string]any{"name": map[string]any{"type": "address", "value": "0x" + next}, "objectId": "0xf" + next},
			},
			"nextCursor":  next,
			"hasNextPage": page < 2,
		}, nil
	})

	fields, err := testClient(srv.URL, 0).GetDynamicFields(context.Background(), "0xtable")
	require.NoError(t, err)
	require.Len(t, fields, 3)

	addr, ok := fields[2].Name.Address()
	assert.True(t, ok)
	assert.Equal(t, "0x3", addr)
}

func TestMoveCall(t *testing.T) {
	srv := newRPCServer(t, func(method string, params []json.RawMessage) (any, *RPCError) {
		require.Equal(t, "unsafe_moveCall", method)
		require.Len(t, params, 8)

		var fn string
		require.NoError(t, json.Unmarshal(params[3], &fn))
		assert.Equal(t, "vote", fn)

		var args []any
		require.NoError(t, json.Unmarshal(params[5], &args))
		assert.Equal(t, []any{"0xproject", true}, args)

		var budget string
		require.NoError(t, json.Unmarshal(params[7], &budget))
		assert.Equal(t, "1000", budget)

		return map[string]any{"txBytes": "AAEC"}, nil
	})

	call := domain.MoveCall{Package: "0xpkg", Module: "profiles", Function: "vote", Arguments: []any{"0xproject", true}}
	tx, err := testClient(srv.URL, 0).MoveCall(context.Background(), "0xa", call, 1000)
	require.NoError(t, err)
	assert.Equal(t, "AAEC", tx.TxBytes)
}

func TestExecuteTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newRPCServer(t, func(method string, _ []json.RawMessage) (any, *RPCError) {
			require.Equal(t, "sui_executeTransactionBlock", method)
			return map[string]any{
				"digest":  "Dig1",
				"effects": map[string]any{"status": map[string]any{"status": "success"}},
				"objectChanges": []any{
					map[string]any{"type": "mutated", "objectId": "0xproject"},
					map[string]any{"type": "published", "packageId": "0xpkg"},
				},
			}, nil
		})

		res, err := testClient(srv.URL, 0).ExecuteTransaction(context.Background(), "AAEC", []string{"sig"})
		require.NoError(t, err)
		assert.Equal(t, "Dig1", res.Digest)
		assert.Equal(t, []string{"0xproject"}, res.ChangedObjects)
	})

	t.Run("abort", func(t *testing.T) {
		srv := newRPCServer(t, func(string, []json.RawMessage) (any, *RPCError) {
			return map[string]any{
				"digest":  "Dig2",
				"effects": map[string]any{"status": map[string]any{"status": "failure", "error": "MoveAbort(1)"}},
			}, nil
		})

		res, err := testClient(srv.URL, 0).ExecuteTransaction(context.Background(), "AAEC", []string{"sig"})
		var execErr *ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "MoveAbort(1)", execErr.Message)
		assert.Equal(t, "Dig2", res.Digest)
	})

	t.Run("not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL, 0).ExecuteTransaction(context.Background(), "AAEC", []string{"sig"})
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestObjectResponse_Content(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ContentKind
	}{
		{"error", `{"error":{"code":"deleted"}}`, ContentAbsent},
		{"no content", `{"data":{"objectId":"0x1"}}`, ContentAbsent},
		{"package", `{"data":{"objectId":"0x1","content":{"dataType":"package"}}}`, ContentPackage},
		{"unknown data type", `{"data":{"objectId":"0x1","content":{"dataType":"other"}}}`, ContentUnrecognized},
		{"fields not an object", `{"data":{"objectId":"0x1","content":{"dataType":"moveObject","fields":[1]}}}`, ContentUnrecognized},
		{"move object", `{"data":{"objectId":"0x1","content":{"dataType":"moveObject","fields":{"a":1}}}}`, ContentMoveObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ObjectResponse
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			assert.Equal(t, tt.want, r.Content().Kind)
		})
	}
}
