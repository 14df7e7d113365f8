package observability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"recipesearch/server/internal/config"
)

func TestLogToolCallPushesToLoki(t *testing.T) {
	var (
		mu       sync.Mutex
		received []lokiPushRequest
		user     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req lokiPushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		u, _, _ := r.BasicAuth()
		mu.Lock()
		received = append(received, req)
		user = u
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	InitLoki(config.LokiConfig{
		URL:            srv.URL,
		User:           "tenant",
		APIKey:         "key",
		AppName:        "test-app",
		InstanceID:     "i-1",
		InstanceRegion: "r-1",
	})
	defer func() { defaultClient = nil }()

	LogToolCall("req-1", "spoonacular", "search_recipes", 12, "success", "")
	FlushLoki()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("received %d pushes, want 1", len(received))
	}
	if user != "tenant" {
		t.Errorf("basic auth user = %q, want tenant", user)
	}
	stream := received[0].Streams[0]
	wantLabels := map[string]string{
		"module":   "spoonacular",
		"status":   "success",
		"level":    "info",
		"app":      "test-app",
		"instance": "i-1",
		"region":   "r-1",
	}
	for k, v := range wantLabels {
		if stream.Stream[k] != v {
			t.Errorf("label %s = %q, want %q", k, stream.Stream[k], v)
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(stream.Values[0][1]), &data); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if data["tool"] != "search_recipes" {
		t.Errorf("tool = %v", data["tool"])
	}
	if _, ok := data["error"]; ok {
		t.Error("error field should be absent on success")
	}
}

func TestPushDisabled(t *testing.T) {
	InitLoki(config.LokiConfig{})
	defer func() { defaultClient = nil }()

	if defaultClient.enabled {
		t.Fatal("client should be disabled without credentials")
	}
	// Must not panic or block.
	LogError("test", http.ErrHandlerTimeout)
	FlushLoki()
}
