package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"

	"github.com/iWorld-y/search_relay/app/gateway/internal/server"
	"github.com/iWorld-y/search_relay/app/gateway/internal/service"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/engine"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/logger"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/metrics"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/storage"
)

func newApp(logger log.Logger, hs transport.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

// initApp 组装存储、引擎与 HTTP 服务
func initApp(cfg *config.Config, kl log.Logger) (*kratos.App, func(), error) {
	lg, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewStorage(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.NewHelper(kl).Errorf("close cache store: %v", err)
		}
	}

	m := metrics.NewMetrics()
	eng, err := engine.NewEngine(cfg, store, lg, m)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := service.NewRelayService(eng, kl)
	hs := server.NewHTTPServer(&cfg.Server, svc, m, kl)
	return newApp(kl, hs), cleanup, nil
}
