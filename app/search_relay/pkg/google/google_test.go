package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

const samplePayload = `{
  "kind": "customsearch#search",
  "items": [
    {"title": "First", "link": "https://a.example/", "snippet": "one",
     "pagemap": {"metatags": [{"article:published_time": "2024-01-02T00:00:00Z"}]}},
    {"title": "Second", "link": "https://b.example/", "snippet": "two"}
  ]
}`

var now = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	rs, err := Normalize([]byte(samplePayload), model.QueryOptions{Query: "x"}, 10, now)
	require.NoError(t, err)
	assert.True(t, rs.Valid)
	assert.Equal(t, 2, rs.Count)
	assert.Equal(t, "https://a.example/", rs.Results[0].URI)
	assert.Equal(t, "2024-01-02T00:00:00Z", rs.Results[0].PublishedDate)
	assert.Equal(t, "2024-03-04", rs.Results[1].PublishedDate)
	assert.Equal(t, uint32(8), rs.Results[0].Weight)
	assert.Equal(t, uint32(16), rs.Results[1].Weight)
	assert.Equal(t, model.ProviderGoogle, rs.Results[1].Provider)

	t.Run("no items is valid and empty", func(t *testing.T) {
		rs, err := Normalize([]byte(`{"kind":"customsearch#search"}`), model.QueryOptions{}, 10, now)
		require.NoError(t, err)
		assert.True(t, rs.Valid)
		assert.Equal(t, 0, rs.Count)
	})

	t.Run("error body is invalid", func(t *testing.T) {
		rs, err := Normalize([]byte(`{"error":{"code":403}}`), model.QueryOptions{}, 10, now)
		require.NoError(t, err)
		assert.False(t, rs.Valid)
	})

	t.Run("garbage is a parse error", func(t *testing.T) {
		_, err := Normalize([]byte(`not json`), model.QueryOptions{}, 10, now)
		assert.True(t, errors.Is(err, search.ErrParse))
	})
}

func TestClientSearch(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(Options{APIKey: "k", SearchEngineID: "cx1", BaseURL: server.URL})
	opts := model.NewQueryOptions("golang", "moderate", "us", "en", 3, "")
	rs, err := client.Search(context.Background(), opts, search.VariantStandard)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Count)
	assert.Equal(t, uint32(21*8), rs.Results[0].Weight)

	assert.Equal(t, []string{"k"}, query["key"])
	assert.Equal(t, []string{"cx1"}, query["cx"])
	assert.Equal(t, []string{"active"}, query["safe"])
	assert.Equal(t, []string{"us"}, query["gl"])
	assert.Equal(t, []string{"lang_en"}, query["lr"])
	assert.Equal(t, []string{"21"}, query["start"])
}

func TestClientUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	_, err := client.Search(context.Background(), model.QueryOptions{Query: "x"}, search.VariantStandard)
	assert.True(t, errors.Is(err, search.ErrTransport))
}
