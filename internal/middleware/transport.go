package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"recipesearch/server/internal/jsonrpc"
	"recipesearch/server/internal/observability"
)

// maxMessageSize bounds a single newline-delimited JSON-RPC message.
const maxMessageSize = 4 * 1024 * 1024

// RequestProcessor processes JSON-RPC requests.
// Implemented by the MCP handler.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)
}

// StdioTransport serves newline-delimited JSON-RPC over a reader/writer pair.
// Each request is processed on its own goroutine; responses are written as
// they complete, one per line.
type StdioTransport struct {
	process ProcessFunc

	mu  sync.Mutex // guards out
	out io.Writer
}

// Stdio creates a transport that delegates request processing to processor.
func Stdio(processor RequestProcessor) *StdioTransport {
	return &StdioTransport{
		process: Recovery(processor.ProcessRequest),
	}
}

// Serve reads messages from in and writes responses to out until in reaches
// EOF or ctx is cancelled. In-flight requests are allowed to finish before
// Serve returns.
func (t *StdioTransport) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	t.out = out

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
		for scanner.Scan() {
			line := bytes.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				wg.Wait()
				select {
				case err := <-readErr:
					if err != nil {
						return errors.Wrap(err, "read input")
					}
				default:
				}
				return nil
			}
			t.handleLine(ctx, line, &wg)
		}
	}
}

func (t *StdioTransport) handleLine(ctx context.Context, line []byte, wg *sync.WaitGroup) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(line, &req); err != nil {
		observability.Logger().Debug("unparseable message", zap.Error(err))
		t.write(jsonrpc.NewError(nil, &jsonrpc.Error{Code: jsonrpc.ParseError, Message: "Parse error"}))
		return
	}

	if req.JSONRPC != jsonrpc.Version || req.Method == "" {
		if !req.IsNotification() {
			t.write(jsonrpc.NewError(req.ID, &jsonrpc.Error{Code: jsonrpc.InvalidRequest, Message: "Invalid Request"}))
		}
		return
	}

	requestID := generateRequestID()
	reqCtx := WithRequestID(ctx, requestID)

	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()

		result, rpcErr := t.process(reqCtx, &req)

		errCode := 0
		if rpcErr != nil {
			errCode = rpcErr.Code
		}
		observability.LogRequest(requestID, req.Method, time.Since(start).Milliseconds(), errCode)

		if req.IsNotification() {
			return
		}
		if rpcErr != nil {
			t.write(jsonrpc.NewError(req.ID, rpcErr))
			return
		}
		if result == nil {
			result = struct{}{}
		}
		t.write(jsonrpc.NewResult(req.ID, result))
	}()
}

func (t *StdioTransport) write(resp jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		observability.LogError("marshal response", err)
		data, _ = json.Marshal(jsonrpc.NewError(resp.ID, &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "Internal error"}))
	}
	data = append(data, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.out.Write(data); err != nil {
		observability.LogError("write response", err)
	}
}
