package brave

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

const (
	defaultBaseURL = "https://api.search.brave.com"
	webSearchPath  = "/res/v1/web/search"
	suggestPath    = "/res/v1/suggest/search"
	defaultCount   = 20
)

// Options Brave 客户端配置
type Options struct {
	APIKey  string
	BaseURL string
	// Timeout 单位秒
	Timeout    int
	RPS        float64
	Burst      int
	Count      int
	HTTPClient *http.Client
}

// Client Brave Search API 客户端
type Client struct {
	apiKey  string
	baseURL string
	count   int
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient 创建一个新的 Brave 客户端
func NewClient(o Options) *Client {
	baseURL := strings.TrimSuffix(o.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	count := o.Count
	if count <= 0 {
		count = defaultCount
	}
	client := o.HTTPClient
	if client == nil {
		t := time.Duration(o.Timeout) * time.Second
		if t <= 0 {
			t = 10 * time.Second
		}
		client = &http.Client{Timeout: t}
	}
	limit := rate.Inf
	if o.RPS > 0 {
		limit = rate.Limit(o.RPS)
	}
	burst := o.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		apiKey:  o.APIKey,
		baseURL: baseURL,
		count:   count,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Ensure Client implements search.Provider and search.Suggester
var (
	_ search.Provider  = (*Client)(nil)
	_ search.Suggester = (*Client)(nil)
)

// ID implements search.Provider
func (c *Client) ID() model.ProviderID {
	return model.ProviderBrave
}

// Search implements search.Provider
func (c *Client) Search(ctx context.Context, opts model.QueryOptions, variant search.Variant) (*model.ResultSet, error) {
	raw, err := c.get(ctx, webSearchPath, SearchParams(opts, variant, c.count))
	if err != nil {
		return nil, err
	}
	return Normalize(raw, opts, variant, c.count, c.now())
}

// Suggest implements search.Suggester
func (c *Client) Suggest(ctx context.Context, opts model.QueryOptions) (*model.AutoSuggestResultSet, error) {
	raw, err := c.get(ctx, suggestPath, SuggestParams(opts))
	if err != nil {
		return nil, err
	}
	return NormalizeSuggest(raw, opts, c.now())
}

// SearchParams 构造 web search 请求参数
func SearchParams(opts model.QueryOptions, variant search.Variant, count int) url.Values {
	q := url.Values{}
	q.Set("q", opts.Query)
	q.Set("safesearch", opts.Safe.String())
	q.Set("count", fmt.Sprint(count))
	if opts.Country != "" {
		q.Set("country", opts.Country)
	}
	if opts.Language != "" {
		q.Set("search_lang", opts.Language)
	}
	if opts.Offset != nil {
		q.Set("offset", fmt.Sprint(*opts.Offset))
	}
	switch variant {
	case search.VariantCore:
		q.Set("result_filter", "web")
	case search.VariantFullText:
		q.Set("result_filter", "news,web")
		q.Set("extra_snippets", "true")
	case search.VariantStandard:
		q.Set("result_filter", "news,web")
	}
	return q
}

// SuggestParams 构造 suggest 请求参数
func SuggestParams(opts model.QueryOptions) url.Values {
	q := url.Values{}
	q.Set("q", opts.Query)
	q.Set("rich", "true")
	if opts.Country != "" {
		q.Set("country", opts.Country)
	}
	if opts.Language != "" {
		q.Set("lang", opts.Language)
	}
	return q
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: brave rate limit wait: %w", search.ErrTransport, err)
	}

	u := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request failed: %w", search.ErrTransport, err)
	}
	req.Header.Set("X-Subscription-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: brave request failed: %w", search.ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body failed: %w", search.ErrTransport, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brave api error (status %d): %s", search.ErrTransport, res.StatusCode, string(body))
	}
	return body, nil
}
