package model

import "time"

// Suggestion 自动补全建议
type Suggestion struct {
	Query       string `json:"query"`
	IsEntity    bool   `json:"is_entity"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// AutoSuggestResultSet 自动补全结果集合
type AutoSuggestResultSet struct {
	Valid       bool         `json:"valid"`
	Count       int          `json:"count"`
	Results     []Suggestion `json:"results"`
	RetrievedAt int64        `json:"retrieved_at"`
	Country     string       `json:"country"`
	Language    string       `json:"language"`
	Cached      bool         `json:"cached"`
}

// NewAutoSuggestResultSet 创建补全结果集合
func NewAutoSuggestResultSet(valid bool, results []Suggestion, opts QueryOptions, now time.Time) *AutoSuggestResultSet {
	if results == nil {
		results = []Suggestion{}
	}
	return &AutoSuggestResultSet{
		Valid:       valid,
		Count:       len(results),
		Results:     results,
		RetrievedAt: now.Unix(),
		Country:     opts.Country,
		Language:    opts.Language,
	}
}

// Age 返回距离获取时间的秒数
func (rs *AutoSuggestResultSet) Age(now time.Time) int64 {
	return now.Unix() - rs.RetrievedAt
}
