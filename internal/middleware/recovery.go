package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"recipesearch/server/internal/jsonrpc"
	"recipesearch/server/internal/observability"
)

// ProcessFunc handles one JSON-RPC request.
type ProcessFunc func(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)

// Recovery wraps next so that a panic becomes an InternalError response.
// It logs the stack trace and emits a security event.
func Recovery(next ProcessFunc) ProcessFunc {
	return func(ctx context.Context, req *jsonrpc.Request) (result interface{}, rpcErr *jsonrpc.Error) {
		defer func() {
			if err := recover(); err != nil {
				observability.Logger().Error("panic recovered",
					zap.String("request_id", GetRequestID(ctx)),
					zap.String("method", req.Method),
					zap.Any("panic", err),
					zap.ByteString("stack", debug.Stack()),
				)
				observability.LogSecurityEvent(GetRequestID(ctx), "panic_recovered", map[string]any{
					"method": req.Method,
					"error":  fmt.Sprintf("%v", err),
				})

				result = nil
				rpcErr = &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "An unexpected error occurred"}
			}
		}()
		return next(ctx, req)
	}
}
