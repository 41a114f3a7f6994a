package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_relay/app/gateway/internal/service"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/engine"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/metrics"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

type stubEngine struct {
	err error
}

func (s *stubEngine) Search(_ context.Context, opts model.QueryOptions) (*model.ResultSet, error) {
	if opts.Query == "" {
		return nil, engine.ErrEmptyQuery
	}
	if s.err != nil {
		return nil, s.err
	}
	return &model.ResultSet{
		Valid:   true,
		Count:   1,
		Results: []model.SearchResult{{URI: "https://a.example", Title: opts.Query, Provider: model.ProviderBrave, Weight: 7}},
		Page:    opts.Page(),
	}, nil
}

func (s *stubEngine) Suggest(_ context.Context, opts model.QueryOptions) (*model.AutoSuggestResultSet, error) {
	return &model.AutoSuggestResultSet{Valid: true, Count: 1, Results: []model.Suggestion{{Query: opts.Query + "!"}}}, nil
}

func (s *stubEngine) Exclusions(context.Context) []model.ExclusionPattern {
	return []model.ExclusionPattern{{Pattern: `evil\.com`, Name: "evil"}}
}

func newTestServer(t *testing.T, e service.Engine) nethttp.Handler {
	t.Helper()
	svc := service.NewRelayService(e, log.DefaultLogger)
	return NewHTTPServer(&config.ServerConfig{Addr: ":0", Timeout: "5s"}, svc, metrics.NewMetrics(), log.DefaultLogger)
}

func get(t *testing.T, h nethttp.Handler, target string) (int, []byte) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, body
}

func TestSearchRoute(t *testing.T) {
	h := newTestServer(t, &stubEngine{})

	code, body := get(t, h, "/search?q=rust&page=3&cc=us")
	require.Equal(t, nethttp.StatusOK, code)

	var rs model.ResultSet
	require.NoError(t, json.Unmarshal(body, &rs))
	assert.True(t, rs.Valid)
	assert.Equal(t, 3, rs.Page)
	assert.Equal(t, "rust", rs.Results[0].Title)

	code, body = get(t, h, "/search")
	require.Equal(t, nethttp.StatusOK, code)
	assert.Contains(t, string(body), `"valid":false`)
}

func TestSearchRouteUpstreamFailure(t *testing.T) {
	h := newTestServer(t, &stubEngine{err: fmt.Errorf("%w: down", engine.ErrUpstreamUnavailable)})

	code, body := get(t, h, "/search?q=rust")
	assert.Equal(t, nethttp.StatusServiceUnavailable, code)
	assert.Contains(t, string(body), "UPSTREAM_UNAVAILABLE")
}

func TestOtherRoutes(t *testing.T) {
	h := newTestServer(t, &stubEngine{})

	code, body := get(t, h, "/suggest?q=gol")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Contains(t, string(body), `"gol!"`)

	code, body = get(t, h, "/exclusions")
	assert.Equal(t, nethttp.StatusOK, code)
	var rows []model.ExclusionPattern
	require.NoError(t, json.Unmarshal(body, &rows))
	assert.Equal(t, "evil", rows[0].Name)

	code, body = get(t, h, "/metrics")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Contains(t, string(body), "go_goroutines")

	code, body = get(t, h, "/elsewhere")
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, "nothing to see here", string(body))
}
