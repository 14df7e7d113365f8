package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recipesearch/server/internal/middleware"
	"recipesearch/server/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

var (
	registryMu sync.RWMutex
	// registry holds all registered modules
	registry = make(map[string]Module)
)

// RegisterModule adds a module to the registry
func RegisterModule(m Module) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[m.Name()] = m
}

// UnregisterModule removes a module from the registry.
func UnregisterModule(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// GetModule returns a module by name
func GetModule(name string) (Module, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[name]
	return m, ok
}

// ListModules returns all registered module names, sorted.
func ListModules() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Tool Listing
// =============================================================================

// ListTools returns every registered tool with its English description
// selected, ordered by module name then declaration order.
func ListTools() []Tool {
	var tools []Tool
	for _, name := range ListModules() {
		m, ok := GetModule(name)
		if !ok {
			continue
		}
		for _, t := range m.Tools() {
			tools = append(tools, localize(t, DefaultLanguage))
		}
	}
	if tools == nil {
		tools = []Tool{}
	}
	return tools
}

// localize picks one language for the runtime description and hides the rest.
func localize(t Tool, lang string) Tool {
	if desc, ok := t.Descriptions[lang]; ok && desc != "" {
		t.Description = desc
	}
	t.Descriptions = nil
	return t
}

// FindTool locates the module serving a tool name.
func FindTool(toolName string) (Module, Tool, bool) {
	for _, name := range ListModules() {
		m, ok := GetModule(name)
		if !ok {
			continue
		}
		if t, found := findTool(m.Tools(), toolName); found {
			return m, t, true
		}
	}
	return nil, Tool{}, false
}

// =============================================================================
// Tool Execution
// =============================================================================

// Run executes a tool by name. Unknown tools, schema violations and handler
// errors are reported as error results rather than Go errors.
func Run(ctx context.Context, toolName string, params map[string]any) (*ToolCallResult, error) {
	start := time.Now()

	m, tool, ok := FindTool(toolName)
	if !ok {
		return TextResult(fmt.Sprintf("Unknown tool: %s", toolName), true), nil
	}

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return TextResult(err.Error(), true), nil
	}

	result, err := m.ExecuteTool(ctx, toolName, validated)
	durationMs := time.Since(start).Milliseconds()
	requestID := middleware.GetRequestID(ctx)

	if err != nil {
		errMsg := err.Error()
		observability.LogToolCall(requestID, m.Name(), toolName, durationMs, "error", errMsg)
		return TextResult(errMsg, true), nil
	}

	observability.LogToolCall(requestID, m.Name(), toolName, durationMs, "success", "")
	return TextResult(result, false), nil
}
