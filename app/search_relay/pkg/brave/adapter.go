package brave

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

// WebSearchResponse Brave web search 响应中用到的部分
type WebSearchResponse struct {
	Type  string          `json:"type"`
	Mixed json.RawMessage `json:"mixed,omitempty"`
	News  *ResultList     `json:"news,omitempty"`
	Web   *ResultList     `json:"web,omitempty"`
}

// ResultList news / web 分类下的结果列表
type ResultList struct {
	Results []Hit `json:"results"`
}

// Hit 单条结果
type Hit struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PageAge       string   `json:"page_age,omitempty"`
	Age           string   `json:"age,omitempty"`
	ExtraSnippets []string `json:"extra_snippets,omitempty"`
}

// SuggestResponse Brave suggest 响应
type SuggestResponse struct {
	Type    string       `json:"type"`
	Results []SuggestHit `json:"results"`
}

// SuggestHit 单条补全
type SuggestHit struct {
	Query       string `json:"query"`
	IsEntity    bool   `json:"is_entity"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Img         string `json:"img,omitempty"`
}

// Normalize 将 Brave 响应转换为 ResultSet，news 在前 web 在后
func Normalize(raw []byte, opts model.QueryOptions, variant search.Variant, pageSize int, now time.Time) (*model.ResultSet, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: brave payload is not json", search.ErrParse)
	}

	var resp WebSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		// 结构不符合预期：不是错误，只是无效
		return model.NewResultSet(false, nil, opts, now), nil
	}
	valid := resp.Type == "search" || len(resp.Mixed) > 0

	var hits []Hit
	if variant != search.VariantCore && resp.News != nil {
		hits = append(hits, resp.News.Results...)
	}
	if resp.Web != nil {
		hits = append(hits, resp.Web.Results...)
	}

	start := opts.OffsetValue() * pageSize
	results := make([]model.SearchResult, 0, len(hits))
	for i, h := range hits {
		summary := strings.TrimSpace(h.Description)
		if variant == search.VariantFullText && len(h.ExtraSnippets) > 0 {
			summary = strings.TrimSpace(summary + " " + strings.Join(h.ExtraSnippets, " "))
		}
		date := h.PageAge
		if date == "" {
			date = h.Age
		}
		results = append(results, model.SearchResult{
			URI:           strings.TrimSpace(h.URL),
			Title:         strings.TrimSpace(h.Title),
			Summary:       summary,
			PublishedDate: date,
			Provider:      model.ProviderBrave,
			Weight:        search.Weight(model.ProviderBrave, start, i),
		})
	}
	return model.NewResultSet(valid, results, opts, now), nil
}

// NormalizeSuggest 将 Brave suggest 响应转换为 AutoSuggestResultSet
func NormalizeSuggest(raw []byte, opts model.QueryOptions, now time.Time) (*model.AutoSuggestResultSet, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: brave suggest payload is not json", search.ErrParse)
	}

	var resp SuggestResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.NewAutoSuggestResultSet(false, nil, opts, now), nil
	}

	results := make([]model.Suggestion, 0, len(resp.Results))
	for _, h := range resp.Results {
		results = append(results, model.Suggestion{
			Query:       h.Query,
			IsEntity:    h.IsEntity,
			Title:       h.Title,
			Description: h.Description,
			Image:       h.Img,
		})
	}
	return model.NewAutoSuggestResultSet(resp.Type == "suggest", results, opts, now), nil
}
