package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/search_relay/app/gateway/internal/service"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/metrics"
)

func NewHTTPServer(c *config.ServerConfig, s *service.RelayService, m metrics.Metrics, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	log.NewHelper(logger).Infof("routes: /search /suggest /exclusions /metrics on %s", c.Addr)

	r := srv.Route("/")
	r.GET("/search", searchHandler(s))
	r.GET("/suggest", suggestHandler(s))
	r.GET("/exclusions", exclusionsHandler(s))
	srv.Handle("/metrics", promhttp.HandlerFor(m.GetRegistry(), promhttp.HandlerOpts{}))

	// 其余路径一律 404
	srv.HandlePrefix("/", nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte("nothing to see here"))
	}))

	return srv
}

func searchHandler(s *service.RelayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.SearchRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.Search(ctx, req.(*service.SearchRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func suggestHandler(s *service.RelayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in service.SuggestRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.Suggest(ctx, req.(*service.SuggestRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func exclusionsHandler(s *service.RelayService) http.HandlerFunc {
	return func(ctx http.Context) error {
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Exclusions(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}
