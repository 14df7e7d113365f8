package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipesearch/server/internal/config"
)

type LokiClient struct {
	url            string
	username       string
	apiKey         string
	httpClient     *http.Client
	enabled        bool
	appName        string
	instanceID     string
	instanceRegion string
	inflight       sync.WaitGroup
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var defaultClient *LokiClient

// InitLoki configures the shared Loki client. Shipping stays disabled unless
// URL, user and API key are all set.
func InitLoki(cfg config.LokiConfig) {
	c := &LokiClient{
		appName:        cfg.AppName,
		instanceID:     cfg.InstanceID,
		instanceRegion: cfg.InstanceRegion,
	}
	if !cfg.Enabled() {
		Logger().Info("loki not configured, log shipping disabled")
		defaultClient = c
		return
	}

	c.url = cfg.URL + "/loki/api/v1/push"
	c.username = cfg.User
	c.apiKey = cfg.APIKey
	c.httpClient = &http.Client{Timeout: 5 * time.Second}
	c.enabled = true
	defaultClient = c
	Logger().Info("loki client initialized", zap.String("url", cfg.URL))
}

// FlushLoki waits for pending pushes to finish.
func FlushLoki() {
	if defaultClient != nil {
		defaultClient.inflight.Wait()
	}
}

func Push(labels map[string]string, data map[string]any) {
	c := defaultClient
	if c == nil || !c.enabled {
		return
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.push(labels, data)
	}()
}

func (c *LokiClient) push(labels map[string]string, data map[string]any) {
	if labels == nil {
		labels = make(map[string]string)
	}
	labels["app"] = c.appName
	labels["instance"] = c.instanceID
	labels["region"] = c.instanceRegion

	dataJSON, err := json.Marshal(data)
	if err != nil {
		Logger().Warn("loki: marshal data", zap.Error(err))
		return
	}

	req := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: labels,
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), string(dataJSON)},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		Logger().Warn("loki: marshal request", zap.Error(err))
		return
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		Logger().Warn("loki: create request", zap.Error(err))
		return
	}
	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		Logger().Warn("loki: send", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		Logger().Warn("loki: unexpected status", zap.Int("status", resp.StatusCode))
	}
}

// LogToolCall records one tool execution.
func LogToolCall(requestID, module, tool string, durationMs int64, status string, errMsg string) {
	level := "info"
	if status == "error" {
		level = "error"
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("module", module),
		zap.String("tool", tool),
		zap.Int64("duration_ms", durationMs),
		zap.String("status", status),
	}
	if errMsg != "" {
		Logger().Warn("tool call failed", append(fields, zap.String("error", errMsg))...)
	} else {
		Logger().Info("tool call", fields...)
	}

	data := map[string]any{
		"request_id":  requestID,
		"module":      module,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	Push(map[string]string{
		"module": module,
		"status": status,
		"level":  level,
	}, data)
}

// LogRequest records one JSON-RPC request.
func LogRequest(requestID, method string, durationMs int64, errCode int) {
	Logger().Debug("rpc request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.Int64("duration_ms", durationMs),
		zap.Int("error_code", errCode),
	)
	Push(map[string]string{
		"type":   "request",
		"method": method,
		"level":  "info",
	}, map[string]any{
		"request_id":  requestID,
		"method":      method,
		"duration_ms": durationMs,
		"error_code":  errCode,
	})
}

// LogError records an unexpected error.
func LogError(context string, err error) {
	Logger().Error(context, zap.Error(err))
	Push(map[string]string{
		"type":  "error",
		"level": "error",
	}, map[string]any{
		"context": context,
		"error":   fmt.Sprintf("%v", err),
	})
}

// LogSecurityEvent records an event worth alerting on, such as a recovered panic.
func LogSecurityEvent(requestID, event string, details map[string]any) {
	fields := []zap.Field{zap.String("request_id", requestID), zap.String("event", event)}
	for k, v := range details {
		fields = append(fields, zap.Any(k, v))
	}
	Logger().Warn("security event", fields...)

	data := map[string]any{
		"request_id": requestID,
		"event":      event,
	}
	for k, v := range details {
		data[k] = v
	}
	Push(map[string]string{
		"type":  "security",
		"level": "warn",
	}, data)
}
