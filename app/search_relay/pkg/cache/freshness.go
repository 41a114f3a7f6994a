package cache

import "time"

// Kind 缓存数据类型
type Kind uint8

const (
	KindSearch Kind = iota
	KindSuggest
)

const (
	DefaultSearchMaxAge  = time.Hour
	DefaultSuggestMaxAge = 7 * 24 * time.Hour

	// 无论配置如何都不能超过的上限
	SearchCeiling  = 7 * 24 * time.Hour
	SuggestCeiling = 13 * 7 * 24 * time.Hour
)

// MaxAge 计算最大缓存时长：未配置时取默认值，超过上限时取上限
func MaxAge(kind Kind, configured time.Duration) time.Duration {
	def, limit := DefaultSearchMaxAge, SearchCeiling
	if kind == KindSuggest {
		def, limit = DefaultSuggestMaxAge, SuggestCeiling
	}
	if configured <= 0 {
		return def
	}
	if configured > limit {
		return limit
	}
	return configured
}

// Fresh age < ceiling 时为 true
func Fresh(retrievedAt int64, now time.Time, ceiling time.Duration) bool {
	age := now.Unix() - retrievedAt
	return age < int64(ceiling/time.Second)
}
