// Package cache stores serialized artifacts by key. Freshness is decided by the
// caller from the retrieved_at timestamp embedded in every artifact; stores
// never expire entries on their own.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

// ErrUnavailable 存储不可达
var ErrUnavailable = errors.New("cache store unavailable")

// ExclusionsKey 排除规则列表的缓存键
const ExclusionsKey = "url_pattern_exclusion_list"

// Store 按键读写序列化后的数据
type Store interface {
	// GetArtifact 键不存在时返回 found=false
	GetArtifact(ctx context.Context, key string) (data []byte, found bool, err error)
	// SetArtifact 一次性写入完整数据
	SetArtifact(ctx context.Context, key string, data []byte) error
	Close() error
}

// Outcome 一次缓存查询的结果
type Outcome string

const (
	OutcomeHit     Outcome = "hit"
	OutcomeMiss    Outcome = "miss"
	OutcomeStale   Outcome = "stale"
	OutcomeCorrupt Outcome = "corrupt"
	OutcomeError   Outcome = "error"
)

// GetResults 读取搜索结果，只有未过期时才返回并标记 Cached
func GetResults(ctx context.Context, store Store, key string, ceiling time.Duration, now time.Time) (*model.ResultSet, Outcome, error) {
	rs, outcome, err := lookup[model.ResultSet](ctx, store, key)
	if rs == nil {
		return nil, outcome, err
	}
	if !Fresh(rs.RetrievedAt, now, ceiling) {
		return nil, OutcomeStale, nil
	}
	rs.Cached = true
	return rs, OutcomeHit, nil
}

// SetResults 写入搜索结果，Cached 总是写为 false
func SetResults(ctx context.Context, store Store, key string, rs *model.ResultSet) error {
	out := *rs
	out.Cached = false
	return put(ctx, store, key, &out)
}

// GetSuggestions 读取补全结果
func GetSuggestions(ctx context.Context, store Store, key string, ceiling time.Duration, now time.Time) (*model.AutoSuggestResultSet, Outcome, error) {
	rs, outcome, err := lookup[model.AutoSuggestResultSet](ctx, store, key)
	if rs == nil {
		return nil, outcome, err
	}
	if !Fresh(rs.RetrievedAt, now, ceiling) {
		return nil, OutcomeStale, nil
	}
	rs.Cached = true
	return rs, OutcomeHit, nil
}

// SetSuggestions 写入补全结果
func SetSuggestions(ctx context.Context, store Store, key string, rs *model.AutoSuggestResultSet) error {
	out := *rs
	out.Cached = false
	return put(ctx, store, key, &out)
}

// GetExclusions 读取缓存的排除规则，不存在或无法解析时返回空列表
func GetExclusions(ctx context.Context, store Store) ([]model.ExclusionPattern, error) {
	rows, _, err := lookup[[]model.ExclusionPattern](ctx, store, ExclusionsKey)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return []model.ExclusionPattern{}, nil
	}
	return *rows, nil
}

// SetExclusions 写入排除规则
func SetExclusions(ctx context.Context, store Store, rows []model.ExclusionPattern) error {
	return put(ctx, store, ExclusionsKey, rows)
}

func lookup[T any](ctx context.Context, store Store, key string) (*T, Outcome, error) {
	data, found, err := store.GetArtifact(ctx, key)
	if err != nil {
		return nil, OutcomeError, fmt.Errorf("%w: get %s: %w", ErrUnavailable, key, err)
	}
	if !found || len(data) == 0 {
		return nil, OutcomeMiss, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, OutcomeCorrupt, nil
	}
	return &v, OutcomeHit, nil
}

func put(ctx context.Context, store Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.SetArtifact(ctx, key, data); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrUnavailable, key, err)
	}
	return nil
}
