// Package merge combines result sets from several providers into one ranking.
package merge

import (
	"sort"
	"time"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

// Merge 合并 primary 与 secondary。
// URI 相同（区分大小写，不做规范化）时保留已有条目并减去 secondary 的权重，
// 新 URI 追加到末尾；最后按权重稳定升序排序。
func Merge(primary, secondary *model.ResultSet, now time.Time) *model.ResultSet {
	if primary == nil {
		primary = model.EmptyResultSet()
	}
	out := *primary
	out.Results = make([]model.SearchResult, len(primary.Results), len(primary.Results)+lenOf(secondary))
	copy(out.Results, primary.Results)

	index := make(map[string]int, cap(out.Results))
	for i, r := range out.Results {
		if _, ok := index[r.URI]; !ok {
			index[r.URI] = i
		}
	}

	if secondary != nil {
		for _, r := range secondary.Results {
			if i, ok := index[r.URI]; ok {
				out.Results[i].SubtractWeight(r.Weight)
				continue
			}
			index[r.URI] = len(out.Results)
			out.Results = append(out.Results, r)
		}
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Weight < out.Results[j].Weight
	})
	out.Recount()
	out.RetrievedAt = now.Unix()
	out.Cached = false
	return &out
}

// MergeAll 依次合并多个结果集合
func MergeAll(now time.Time, sets ...*model.ResultSet) *model.ResultSet {
	if len(sets) == 0 {
		return model.EmptyResultSet()
	}
	out := sets[0]
	for _, s := range sets[1:] {
		out = Merge(out, s, now)
	}
	if len(sets) == 1 {
		out = Merge(out, nil, now)
	}
	return out
}

func lenOf(rs *model.ResultSet) int {
	if rs == nil {
		return 0
	}
	return len(rs.Results)
}
