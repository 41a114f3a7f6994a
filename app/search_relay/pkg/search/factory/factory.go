package factory

import (
	"fmt"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/brave"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/google"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/search"
)

// Providers 已配置的上游
type Providers struct {
	Search    map[model.ProviderID]search.Provider
	Suggester search.Suggester
}

// NewProviders 根据配置创建上游实例，未配置 key 的上游不会创建
func NewProviders(cfg *config.Config) (*Providers, error) {
	p := &Providers{Search: make(map[model.ProviderID]search.Provider)}

	if b := cfg.Providers.Brave; b.APIKey != "" {
		client := brave.NewClient(brave.Options{
			APIKey:  b.APIKey,
			BaseURL: b.BaseURL,
			Timeout: b.Timeout,
			RPS:     b.RPS,
			Burst:   b.Burst,
			Count:   b.Count,
		})
		p.Search[model.ProviderBrave] = client
		p.Suggester = client
	}

	if g := cfg.Providers.Google; g.APIKey != "" {
		if g.CX == "" {
			return nil, fmt.Errorf("google search engine id (cx) is missing")
		}
		p.Search[model.ProviderGoogle] = google.NewClient(google.Options{
			APIKey:         g.APIKey,
			SearchEngineID: g.CX,
			BaseURL:        g.BaseURL,
			Timeout:        g.Timeout,
			RPS:            g.RPS,
			Burst:          g.Burst,
			Num:            g.Num,
		})
	}

	if len(p.Search) == 0 {
		return nil, fmt.Errorf("search provider not configured")
	}
	return p, nil
}
