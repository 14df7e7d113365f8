package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipesearch/server/internal/jsonrpc"
)

type fakeProcessor struct {
	mu         sync.Mutex
	requestIDs []string
}

func (p *fakeProcessor) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	p.mu.Lock()
	p.requestIDs = append(p.requestIDs, GetRequestID(ctx))
	p.mu.Unlock()

	switch req.Method {
	case "echo":
		return req.Params, nil
	case "empty":
		return nil, nil
	case "slow":
		time.Sleep(50 * time.Millisecond)
		return "slow", nil
	case "boom":
		panic("kaboom")
	default:
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	}
}

type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonrpc.Error  `json:"error"`
}

func serve(t *testing.T, p RequestProcessor, input string) []rawResponse {
	t.Helper()
	var out bytes.Buffer
	err := Stdio(p).Serve(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	var responses []rawResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var r rawResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r), scanner.Text())
		responses = append(responses, r)
	}
	return responses
}

func TestStdioRequestResponse(t *testing.T) {
	p := &fakeProcessor{}
	resps := serve(t, p, `{"jsonrpc":"2.0","id":7,"method":"echo","params":{"a":1}}`+"\n")

	require.Len(t, resps, 1)
	assert.Equal(t, "2.0", resps[0].JSONRPC)
	assert.JSONEq(t, `7`, string(resps[0].ID))
	assert.JSONEq(t, `{"a":1}`, string(resps[0].Result))
	assert.Nil(t, resps[0].Error)

	require.Len(t, p.requestIDs, 1)
	assert.Len(t, p.requestIDs[0], 32)
}

func TestStdioEmptyResultIsObject(t *testing.T) {
	resps := serve(t, &fakeProcessor{}, `{"jsonrpc":"2.0","id":"x","method":"empty"}`+"\n")
	require.Len(t, resps, 1)
	assert.JSONEq(t, `{}`, string(resps[0].Result))
}

func TestStdioNotificationHasNoResponse(t *testing.T) {
	resps := serve(t, &fakeProcessor{}, `{"jsonrpc":"2.0","method":"echo"}`+"\n\n")
	assert.Empty(t, resps)
}

func TestStdioErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode int
		wantID   string
	}{
		{"parse error", `{not json`, jsonrpc.ParseError, `null`},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"echo"}`, jsonrpc.InvalidRequest, `1`},
		{"missing method", `{"jsonrpc":"2.0","id":2}`, jsonrpc.InvalidRequest, `2`},
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"nope"}`, jsonrpc.MethodNotFound, `3`},
		{"panic recovered", `{"jsonrpc":"2.0","id":4,"method":"boom"}`, jsonrpc.InternalError, `4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resps := serve(t, &fakeProcessor{}, tt.input+"\n")
			require.Len(t, resps, 1)
			require.NotNil(t, resps[0].Error)
			assert.Equal(t, tt.wantCode, resps[0].Error.Code)
			assert.JSONEq(t, tt.wantID, string(resps[0].ID))
		})
	}
}

func TestStdioConcurrentRequests(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"slow"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"echo","params":"fast"}` + "\n"

	resps := serve(t, &fakeProcessor{}, input)
	require.Len(t, resps, 2)

	// The fast request is not held behind the slow one.
	assert.JSONEq(t, `2`, string(resps[0].ID))
	assert.JSONEq(t, `1`, string(resps[1].ID))
}

func TestStdioStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Stdio(&fakeProcessor{}).Serve(ctx, pr, io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.NotEqual(t, generateRequestID(), generateRequestID())
}
