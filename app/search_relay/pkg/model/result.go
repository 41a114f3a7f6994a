package model

import "time"

// SearchResult 单条归一化后的搜索结果
type SearchResult struct {
	URI           string     `json:"uri"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	PublishedDate string     `json:"published_date"`
	Provider      ProviderID `json:"provider"`
	// Weight 越小排名越靠前
	Weight uint32 `json:"weight"`
}

// SubtractWeight 降低权重，最低为 0
func (r *SearchResult) SubtractWeight(w uint32) {
	if w >= r.Weight {
		r.Weight = 0
		return
	}
	r.Weight -= w
}

// ResultSet 一次查询的结果集合，也是写入缓存的对象
type ResultSet struct {
	Valid        bool           `json:"valid"`
	Count        int            `json:"count"`
	Results      []SearchResult `json:"results"`
	RetrievedAt  int64          `json:"retrieved_at"`
	Country      string         `json:"country"`
	Language     string         `json:"language"`
	Page         int            `json:"page"`
	RemovedCount int            `json:"removed_count"`
	Cached       bool           `json:"cached"`
}

// NewResultSet 创建结果集合，RetrievedAt 取 now
func NewResultSet(valid bool, results []SearchResult, opts QueryOptions, now time.Time) *ResultSet {
	if results == nil {
		results = []SearchResult{}
	}
	rs := &ResultSet{
		Valid:       valid,
		Results:     results,
		RetrievedAt: now.Unix(),
		Country:     opts.Country,
		Language:    opts.Language,
		Page:        opts.Page(),
	}
	rs.Recount()
	return rs
}

// EmptyResultSet 返回无效的空结果
func EmptyResultSet() *ResultSet {
	return &ResultSet{Results: []SearchResult{}}
}

// Recount 在每次修改 Results 后同步 Count
func (rs *ResultSet) Recount() {
	rs.Count = len(rs.Results)
}

// Age 返回距离获取时间的秒数
func (rs *ResultSet) Age(now time.Time) int64 {
	return now.Unix() - rs.RetrievedAt
}

// URIs 按顺序返回所有结果的 URI
func (rs *ResultSet) URIs() []string {
	uris := make([]string, 0, len(rs.Results))
	for _, r := range rs.Results {
		uris = append(uris, r.URI)
	}
	return uris
}
