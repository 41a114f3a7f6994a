package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}}
}

func (s *mapStore) GetArtifact(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *mapStore) SetArtifact(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = data
	return nil
}

func (s *mapStore) Close() error { return nil }

func sampleSet(retrievedAt time.Time) *model.ResultSet {
	opts := model.QueryOptions{Query: "rust", Country: "US", Language: "en"}
	return model.NewResultSet(true, []model.SearchResult{
		{URI: "https://a.example", Title: "A", Provider: model.ProviderBrave, Weight: 7},
		{URI: "https://b.example", Title: "B", Provider: model.ProviderGoogle, Weight: 8},
	}, opts, retrievedAt)
}

func TestResultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	written := time.Unix(1700000000, 0)
	rs := sampleSet(written)
	rs.Cached = true

	require.NoError(t, SetResults(ctx, store, "k", rs))
	assert.True(t, rs.Cached, "caller's value is not modified")
	assert.Contains(t, string(store.data["k"]), `"cached":false`)

	got, outcome, err := GetResults(ctx, store, "k", time.Hour, written.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, outcome)
	require.NotNil(t, got)
	assert.True(t, got.Cached)
	assert.Equal(t, rs.Results, got.Results)
	assert.Equal(t, written.Unix(), got.RetrievedAt)
	assert.Equal(t, 2, got.Count)
}

func TestResultsRoundTripWholeStruct(t *testing.T) {
	ctx := context.Background()
	written := time.Unix(1700000000, 0)

	full := sampleSet(written)
	full.Page = 3
	full.RemovedCount = 2
	full.Results[0].Summary = "summary"
	full.Results[0].PublishedDate = "2024-05-01"

	invalid := model.NewResultSet(false, nil, model.QueryOptions{Query: "x", Country: "DE"}, written)

	empty := model.EmptyResultSet()
	empty.RetrievedAt = written.Unix()

	cases := map[string]*model.ResultSet{"full": full, "invalid": invalid, "empty": empty}
	for name, rs := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMapStore()
			rs.Cached = true
			require.NoError(t, SetResults(ctx, store, "k", rs))

			got, outcome, err := GetResults(ctx, store, "k", time.Hour, written)
			require.NoError(t, err)
			require.Equal(t, OutcomeHit, outcome)
			assert.True(t, got.Cached)

			want := *rs
			want.Cached = false
			got.Cached = false
			assert.Equal(t, &want, got)
		})
	}
}

func TestResultsFreshnessBoundary(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	written := time.Unix(1700000000, 0)
	require.NoError(t, SetResults(ctx, store, "k", sampleSet(written)))

	got, outcome, err := GetResults(ctx, store, "k", time.Hour, written.Add(time.Hour-time.Second))
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, outcome)
	assert.NotNil(t, got)

	got, outcome, err = GetResults(ctx, store, "k", time.Hour, written.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)
	assert.Nil(t, got)
}

func TestResultsMissAndCorrupt(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	now := time.Unix(1700000000, 0)

	got, outcome, err := GetResults(ctx, store, "absent", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMiss, outcome)
	assert.Nil(t, got)

	store.data["bad"] = []byte("{not json")
	got, outcome, err = GetResults(ctx, store, "bad", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrupt, outcome)
	assert.Nil(t, got)
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	store.err = errors.New("connection refused")

	_, outcome, err := GetResults(ctx, store, "k", time.Hour, time.Now())
	assert.Equal(t, OutcomeError, outcome)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = SetResults(ctx, store, "k", sampleSet(time.Now()))
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = GetExclusions(ctx, store)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSuggestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	written := time.Unix(1700000000, 0)
	rs := model.NewAutoSuggestResultSet(true, []model.Suggestion{{Query: "golang"}}, model.QueryOptions{Query: "gol"}, written)

	require.NoError(t, SetSuggestions(ctx, store, "s", rs))

	got, outcome, err := GetSuggestions(ctx, store, "s", DefaultSuggestMaxAge, written.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, outcome)
	assert.True(t, got.Cached)
	assert.Equal(t, "golang", got.Results[0].Query)

	_, outcome, err = GetSuggestions(ctx, store, "s", DefaultSuggestMaxAge, written.Add(DefaultSuggestMaxAge))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)
}

func TestExclusionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()

	rows, err := GetExclusions(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, rows)

	want := []model.ExclusionPattern{{Pattern: `evil\.com`, Name: "evil"}}
	require.NoError(t, SetExclusions(ctx, store, want))
	_, ok := store.data[ExclusionsKey]
	assert.True(t, ok)

	rows, err = GetExclusions(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, want, rows)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, time.Hour, MaxAge(KindSearch, 0))
	assert.Equal(t, 10*time.Minute, MaxAge(KindSearch, 10*time.Minute))
	assert.Equal(t, SearchCeiling, MaxAge(KindSearch, 30*24*time.Hour))
	assert.Equal(t, DefaultSuggestMaxAge, MaxAge(KindSuggest, -1))
	assert.Equal(t, SuggestCeiling, MaxAge(KindSuggest, 365*24*time.Hour))
}

func TestFresh(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.True(t, Fresh(1000, now, time.Second))
	assert.False(t, Fresh(999, now, time.Second))
	assert.True(t, Fresh(500, now, 501*time.Second))
}
