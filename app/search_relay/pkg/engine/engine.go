package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/exclusion"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/merge"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/metrics"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search/factory"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/storage"
)

var (
	// ErrUpstreamUnavailable 主 provider 无法返回结果
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrEmptyQuery 查询为空
	ErrEmptyQuery = errors.New("empty query")
)

// Options 引擎依赖，未设置的字段使用默认实现
type Options struct {
	Store      cache.Store
	Providers  map[model.ProviderID]search.Provider
	Suggester  search.Suggester
	Exclusions *exclusion.Source
	// SearchMaxAge/SuggestMaxAge 为配置值，实际使用时会被限制在上限内
	SearchMaxAge  time.Duration
	SuggestMaxAge time.Duration
	Logger        logrus.FieldLogger
	Metrics       metrics.Metrics
	Now           func() time.Time
}

// Engine 聚合引擎：缓存、上游、合并与排除
type Engine struct {
	store         cache.Store
	providers     map[model.ProviderID]search.Provider
	suggester     search.Suggester
	exclusions    *exclusion.Source
	searchMaxAge  time.Duration
	suggestMaxAge time.Duration
	log           logrus.FieldLogger
	metrics       metrics.Metrics
	now           func() time.Time
}

// New 创建引擎实例
func New(o Options) *Engine {
	e := &Engine{
		store:         o.Store,
		providers:     o.Providers,
		suggester:     o.Suggester,
		exclusions:    o.Exclusions,
		searchMaxAge:  cache.MaxAge(cache.KindSearch, o.SearchMaxAge),
		suggestMaxAge: cache.MaxAge(cache.KindSuggest, o.SuggestMaxAge),
		log:           o.Logger,
		metrics:       o.Metrics,
		now:           o.Now,
	}
	if e.store == nil {
		e.store = storage.NewMemory()
	}
	if e.providers == nil {
		e.providers = map[model.ProviderID]search.Provider{}
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.metrics == nil {
		e.metrics = metrics.Noop{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.exclusions == nil {
		e.exclusions = exclusion.NewSource(e.store, exclusion.DefaultPath, e.log)
	}
	return e
}

// NewEngine 根据配置创建引擎
func NewEngine(cfg *config.Config, store cache.Store, log logrus.FieldLogger, m metrics.Metrics) (*Engine, error) {
	providers, err := factory.NewProviders(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	return New(Options{
		Store:         store,
		Providers:     providers.Search,
		Suggester:     providers.Suggester,
		Exclusions:    exclusion.NewSource(store, cfg.Exclusions.Path, log),
		SearchMaxAge:  cfg.SearchMaxAge(),
		SuggestMaxAge: cfg.SuggestMaxAge(),
		Logger:        log,
		Metrics:       m,
	}), nil
}

// Search 返回合并、过滤后的搜索结果
func (e *Engine) Search(ctx context.Context, opts model.QueryOptions) (*model.ResultSet, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, ErrEmptyQuery
	}
	start := time.Now()
	defer func() { e.metrics.ObserveRequestDuration("search", time.Since(start).Seconds()) }()

	key := opts.CacheKey()
	log := e.log.WithFields(logrus.Fields{"request_id": uuid.NewString(), "key": key})

	cached, outcome, err := cache.GetResults(ctx, e.store, key, e.searchMaxAge, e.now())
	e.metrics.ObserveCacheLookup("search", string(outcome))
	if err != nil {
		log.Warnf("读取缓存失败，按未命中处理: %v", err)
	}
	if cached != nil {
		log.Debugf("命中缓存，共 %d 条结果", cached.Count)
		return cached, nil
	}
	if outcome == cache.OutcomeCorrupt {
		log.Warn("缓存内容无法解析，重新获取")
	}

	plan := search.PlanFor(opts.Mode)
	var primary, secondary *model.ResultSet
	var secondaryErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := e.fetch(gctx, plan.Primary, opts, plan.Variant)
		if err != nil {
			return err
		}
		primary = rs
		return nil
	})
	if plan.HasSecondary() {
		g.Go(func() error {
			// 第二个 provider 的错误不影响本次请求
			secondary, secondaryErr = e.fetch(gctx, plan.Secondary, opts, search.VariantStandard)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("主 provider [%s] 请求失败: %v", plan.Primary, err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if !primary.Valid {
		log.Warnf("主 provider [%s] 返回的内容无效", plan.Primary)
	}

	result := primary
	if plan.HasSecondary() {
		if secondaryErr != nil {
			log.Warnf("第二个 provider [%s] 请求失败，只使用主 provider 的结果: %v", plan.Secondary, secondaryErr)
		} else {
			result = merge.Merge(primary, secondary, e.now())
		}
	}

	set := e.exclusions.Set(ctx)
	result = set.Apply(result)
	e.metrics.AddExcludedResults(result.RemovedCount)

	if result.Valid {
		if err := cache.SetResults(ctx, e.store, key, result); err != nil {
			log.Warnf("写入缓存失败: %v", err)
		}
	}

	log.Infof("查询完成，共 %d 条结果，排除 %d 条", result.Count, result.RemovedCount)
	return result, nil
}

// Suggest 返回自动补全结果
func (e *Engine) Suggest(ctx context.Context, opts model.QueryOptions) (*model.AutoSuggestResultSet, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, ErrEmptyQuery
	}
	start := time.Now()
	defer func() { e.metrics.ObserveRequestDuration("suggest", time.Since(start).Seconds()) }()

	key := opts.SuggestKey()
	log := e.log.WithFields(logrus.Fields{"request_id": uuid.NewString(), "key": key})

	cached, outcome, err := cache.GetSuggestions(ctx, e.store, key, e.suggestMaxAge, e.now())
	e.metrics.ObserveCacheLookup("suggest", string(outcome))
	if err != nil {
		log.Warnf("读取缓存失败，按未命中处理: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	if e.suggester == nil {
		return nil, fmt.Errorf("%w: suggest provider not configured", ErrUpstreamUnavailable)
	}
	rs, err := e.suggester.Suggest(ctx, opts)
	if err != nil {
		e.metrics.ObserveProviderRequest(model.ProviderBrave.String(), "error")
		log.Errorf("自动补全请求失败: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	e.metrics.ObserveProviderRequest(model.ProviderBrave.String(), validOutcome(rs.Valid))

	if rs.Valid {
		if err := cache.SetSuggestions(ctx, e.store, key, rs); err != nil {
			log.Warnf("写入缓存失败: %v", err)
		}
	}
	return rs, nil
}

// Exclusions 返回当前生效的排除规则
func (e *Engine) Exclusions(ctx context.Context) []model.ExclusionPattern {
	return e.exclusions.Patterns(ctx)
}

func (e *Engine) fetch(ctx context.Context, id model.ProviderID, opts model.QueryOptions, variant search.Variant) (*model.ResultSet, error) {
	p, ok := e.providers[id]
	if !ok {
		e.metrics.ObserveProviderRequest(id.String(), "error")
		return nil, fmt.Errorf("%w: provider %s not configured", search.ErrTransport, id)
	}
	rs, err := p.Search(ctx, opts, variant)
	if err != nil {
		e.metrics.ObserveProviderRequest(id.String(), "error")
		return nil, err
	}
	e.metrics.ObserveProviderRequest(id.String(), validOutcome(rs.Valid))
	return rs, nil
}

func validOutcome(valid bool) string {
	if valid {
		return "ok"
	}
	return "invalid"
}
