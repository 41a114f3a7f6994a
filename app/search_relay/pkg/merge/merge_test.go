package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

func set(valid bool, retrievedAt int64, pairs ...any) *model.ResultSet {
	rs := &model.ResultSet{Valid: valid, RetrievedAt: retrievedAt}
	for i := 0; i < len(pairs); i += 2 {
		rs.Results = append(rs.Results, model.SearchResult{URI: pairs[i].(string), Weight: uint32(pairs[i+1].(int))})
	}
	rs.Recount()
	return rs
}

func weights(rs *model.ResultSet) []uint32 {
	out := make([]uint32, 0, len(rs.Results))
	for _, r := range rs.Results {
		out = append(out, r.Weight)
	}
	return out
}

var now = time.Unix(1700000500, 0)

func TestMergeScenario(t *testing.T) {
	primary := set(true, 100, "a", 7, "b", 14, "c", 21)
	secondary := set(true, 200, "b", 4, "d", 8)

	out := Merge(primary, secondary, now)

	assert.Equal(t, []string{"a", "d", "b", "c"}, out.URIs())
	assert.Equal(t, []uint32{7, 8, 10, 21}, weights(out))
	assert.Equal(t, 4, out.Count)
	assert.Equal(t, now.Unix(), out.RetrievedAt)
	assert.True(t, out.Valid)

	// inputs are untouched
	assert.Equal(t, []uint32{7, 14, 21}, weights(primary))
}

func TestMergeWithItself(t *testing.T) {
	rs := set(true, 1, "a", 7, "b", 14, "c", 21)
	out := Merge(rs, rs, now)

	assert.Equal(t, rs.Count, out.Count)
	for _, w := range weights(out) {
		assert.Equal(t, uint32(0), w)
	}
	// all ties keep input order
	assert.Equal(t, []string{"a", "b", "c"}, out.URIs())
}

func TestMergeWeightNeverIncreases(t *testing.T) {
	primary := set(true, 1, "x", 5, "y", 30)
	secondary := set(true, 1, "y", 12, "x", 50)
	out := Merge(primary, secondary, now)

	got := map[string]uint32{}
	for _, r := range out.Results {
		got[r.URI] = r.Weight
	}
	assert.Equal(t, uint32(0), got["x"])
	assert.Equal(t, uint32(18), got["y"])
}

func TestMergeStableTies(t *testing.T) {
	primary := set(true, 1, "p1", 8, "p2", 16)
	secondary := set(true, 1, "s1", 8, "s2", 16)
	out := Merge(primary, secondary, now)
	assert.Equal(t, []string{"p1", "s1", "p2", "s2"}, out.URIs())
}

func TestMergeURIIdentityIsExact(t *testing.T) {
	primary := set(true, 1, "https://a.example/", 7)
	secondary := set(true, 1, "https://A.example/", 8, "https://a.example", 16)
	out := Merge(primary, secondary, now)
	assert.Equal(t, 3, out.Count)
}

func TestMergeKeepsPrimaryValidity(t *testing.T) {
	out := Merge(set(false, 1), set(true, 1, "a", 8), now)
	assert.False(t, out.Valid)
	assert.Equal(t, 1, out.Count)
}

func TestMergeAll(t *testing.T) {
	out := MergeAll(now, set(true, 1, "a", 7), set(true, 1, "b", 8), set(true, 1, "a", 3))
	require.Equal(t, 2, out.Count)
	assert.Equal(t, []string{"a", "b"}, out.URIs())
	assert.Equal(t, []uint32{4, 8}, weights(out))

	assert.Equal(t, 0, MergeAll(now).Count)
}
