package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	// Custom Search 单页最多 10 条
	maxNum = 10
)

// Options Google Custom Search 客户端配置
type Options struct {
	APIKey         string
	SearchEngineID string
	BaseURL        string
	// Timeout 单位秒
	Timeout    int
	RPS        float64
	Burst      int
	Num        int
	HTTPClient *http.Client
}

// Client Google Custom Search API 客户端
type Client struct {
	apiKey         string
	searchEngineID string
	baseURL        string
	num            int
	client         *http.Client
	limiter        *rate.Limiter
	now            func() time.Time
}

// NewClient 创建一个新的 Google 客户端
func NewClient(o Options) *Client {
	baseURL := strings.TrimSpace(o.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	num := o.Num
	if num <= 0 || num > maxNum {
		num = maxNum
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
		apiKey:         o.APIKey,
		searchEngineID: o.SearchEngineID,
		baseURL:        baseURL,
		num:            num,
		client:         client,
		limiter:        rate.NewLimiter(limit, burst),
		now:            time.Now,
	}
}

// Ensure Client implements search.Provider
var _ search.Provider = (*Client)(nil)

// ID implements search.Provider
func (c *Client) ID() model.ProviderID {
	return model.ProviderGoogle
}

// Search implements search.Provider，Custom Search 没有 variant 区分
func (c *Client) Search(ctx context.Context, opts model.QueryOptions, _ search.Variant) (*model.ResultSet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: google rate limit wait: %w", search.ErrTransport, err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %w", search.ErrTransport, err)
	}
	u.RawQuery = c.Params(opts).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request failed: %w", search.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google request failed: %w", search.ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body failed: %w", search.ErrTransport, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: google api error (status %d): %s", search.ErrTransport, res.StatusCode, string(body))
	}

	return Normalize(body, opts, c.num, c.now())
}

// Params 构造请求参数
func (c *Client) Params(opts model.QueryOptions) url.Values {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.searchEngineID)
	q.Set("q", opts.Query)
	q.Set("num", strconv.Itoa(c.num))
	switch opts.Safe {
	case model.SafeModerate, model.SafeStrict:
		q.Set("safe", "active")
	case model.SafeOff:
		q.Set("safe", "off")
	}
	if opts.Country != "" {
		q.Set("gl", strings.ToLower(opts.Country))
	}
	if opts.Language != "" {
		q.Set("lr", "lang_"+opts.Language)
	}
	if opts.Offset != nil {
		q.Set("start", strconv.Itoa(int(*opts.Offset)*c.num+1))
	}
	return q
}
