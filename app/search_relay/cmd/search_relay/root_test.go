package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeyCommand(t *testing.T) {
	out, err := run(t, "key", "Rust", "Lang", "--safe", "moderate", "--cc", "us", "--lang", "en", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, "cs_rust-lang_ma_us_en_1\n", out)

	out, err = run(t, "key", "go", "--mode", "brave")
	require.NoError(t, err)
	assert.Equal(t, "brave_go_np_all____\n", out)

	_, err = run(t, "key")
	assert.Error(t, err)
}

func writeConfig(t *testing.T, braveURL string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	patterns := filepath.Join(dir, "patterns.json")
	require.NoError(t, os.WriteFile(patterns, []byte(`[{"pattern":"evil\\.com","name":"evil"}]`), 0o600))

	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(strings.Join([]string{
		"cache:",
		"  driver: sqlite",
		"  sql:",
		"    path: " + filepath.Join(dir, "cache.db"),
		"providers:",
		"  brave:",
		"    api_key: test-token",
		"    base_url: " + braveURL,
		"exclusions:",
		"  path: " + patterns,
		"log:",
		"  level: error",
	}, "\n")), 0o600))
	return cfg, dir
}

func TestQueryCommand(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-token", r.Header.Get("X-Subscription-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"search","web":{"results":[
			{"url":"https://good.org","title":"Good","description":"g"},
			{"url":"https://EVIL.com/x","title":"Evil","description":"e"}
		]}}`))
	}))
	defer ts.Close()

	cfg, _ := writeConfig(t, ts.URL)

	out, err := run(t, "--config", cfg, "query", "golang", "--mode", "brave")
	require.NoError(t, err)

	var rs model.ResultSet
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	assert.True(t, rs.Valid)
	assert.Equal(t, []string{"https://good.org"}, rs.URIs())
	assert.Equal(t, 1, rs.RemovedCount)
	assert.False(t, rs.Cached)

	// 第二次命中 sqlite 缓存
	out, err = run(t, "--config", cfg, "query", "golang", "--mode", "brave")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	assert.True(t, rs.Cached)
	assert.Equal(t, int32(1), calls.Load())

	out, err = run(t, "--config", cfg, "exclusions")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "evil"`)
}

func TestQueryCommandUpstreamDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	cfg, _ := writeConfig(t, ts.URL)
	_, err := run(t, "--config", cfg, "query", "golang", "--mode", "brave")
	assert.ErrorContains(t, err, "upstream unavailable")
}
