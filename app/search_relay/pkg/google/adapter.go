package google

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

const searchKind = "customsearch#search"

// SearchResponse Custom Search 响应中用到的部分
type SearchResponse struct {
	Kind  string `json:"kind"`
	Items []Item `json:"items"`
}

// Item 单条结果
type Item struct {
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Snippet string   `json:"snippet"`
	PageMap *PageMap `json:"pagemap,omitempty"`
}

// PageMap 结构化页面数据
type PageMap struct {
	MetaTags []map[string]string `json:"metatags,omitempty"`
}

// Normalize 将 Custom Search 响应转换为 ResultSet
func Normalize(raw []byte, opts model.QueryOptions, pageSize int, now time.Time) (*model.ResultSet, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: google payload is not json", search.ErrParse)
	}

	var resp SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.NewResultSet(false, nil, opts, now), nil
	}

	start := opts.OffsetValue() * pageSize
	results := make([]model.SearchResult, 0, len(resp.Items))
	for i, item := range resp.Items {
		results = append(results, model.SearchResult{
			URI:           strings.TrimSpace(item.Link),
			Title:         strings.TrimSpace(item.Title),
			Summary:       strings.TrimSpace(item.Snippet),
			PublishedDate: publishedDate(item, now),
			Provider:      model.ProviderGoogle,
			Weight:        search.Weight(model.ProviderGoogle, start, i),
		})
	}
	return model.NewResultSet(resp.Kind == searchKind, results, opts, now), nil
}

// publishedDate Custom Search 没有统一的日期字段，缺失时用获取日期代替
func publishedDate(item Item, now time.Time) string {
	if item.PageMap != nil {
		for _, tags := range item.PageMap.MetaTags {
			for _, key := range []string{"article:published_time", "og:updated_time", "date"} {
				if v := strings.TrimSpace(tags[key]); v != "" {
					return v
				}
			}
		}
	}
	return now.UTC().Format(time.DateOnly)
}
