package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"recipesearch/server/internal/jsonrpc"
	"recipesearch/server/internal/modules"
	"recipesearch/server/internal/observability"
)

// ServerName is reported to clients during initialize.
const ServerName = "recipe-search-mcp"

type Handler struct {
	version string
}

func NewHandler(version string) *Handler {
	if version == "" {
		version = "0.1.0"
	}
	return &Handler{version: version}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport middleware.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized", "notifications/cancelled":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return h.handleToolsList(), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	var params InitializeParams
	if err := decodeParams(req.Params, &params); err == nil && params.ClientInfo.Name != "" {
		observability.Logger().Info("client connected",
			zap.String("client", params.ClientInfo.Name),
			zap.String("client_version", params.ClientInfo.Version),
			zap.String("protocol_version", params.ProtocolVersion),
		)
	}

	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: h.version,
		},
	}
}

func (h *Handler) handleToolsList() *ToolsListResult {
	return &ToolsListResult{Tools: modules.ListTools()}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	var params ToolCallParams
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "name is required"}
	}
	if _, _, ok := modules.FindTool(params.Name); !ok {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: fmt.Sprintf("Unknown tool: %s", params.Name)}
	}

	if params.Arguments == nil {
		params.Arguments = make(map[string]interface{})
	}

	result, err := modules.Run(ctx, params.Name, params.Arguments)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: err.Error()}
	}
	return result, nil
}

// decodeParams re-decodes the generic params value into dst.
func decodeParams(raw interface{}, dst interface{}) error {
	if raw == nil {
		return fmt.Errorf("params missing")
	}
	paramsBytes, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(paramsBytes, dst)
}
