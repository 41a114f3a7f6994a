package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/engine"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/logger"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/metrics"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/storage"
)

// version 通过 -ldflags "-X main.version=x.y.z" 设置
var version = ""

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "search_relay",
		Short:         "Aggregate, cache and filter web search results",
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "configs/config.yaml", "config path")

	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewSuggestCmd())
	cmd.AddCommand(NewExclusionsCmd())
	cmd.AddCommand(NewKeyCmd())

	return cmd
}

// Execute 执行根命令
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	store  cache.Store
	engine *engine.Engine
}

func (a *app) Close() error {
	return a.store.Close()
}

// loadConfig 配置文件不存在时只使用环境变量和默认值
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	cfg = &config.Config{}
	cfg.ApplyEnvOverrides()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}

	store, err := storage.NewStorage(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("无法连接缓存: %w", err)
	}
	eng, err := engine.NewEngine(cfg, store, logger.Log, metrics.Noop{})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &app{cfg: cfg, store: store, engine: eng}, nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("safe", "", "safe search: off, moderate, strict")
	cmd.Flags().String("cc", "", "two letter country code")
	cmd.Flags().String("lang", "", "language code")
	cmd.Flags().Int("page", 0, "1-based result page")
	cmd.Flags().String("mode", "all", "providers: all, full, core, brave, google")
}

func queryOptions(cmd *cobra.Command, args []string) model.QueryOptions {
	safe, _ := cmd.Flags().GetString("safe")
	cc, _ := cmd.Flags().GetString("cc")
	lang, _ := cmd.Flags().GetString("lang")
	page, _ := cmd.Flags().GetInt("page")
	mode, _ := cmd.Flags().GetString("mode")
	return model.NewQueryOptions(strings.Join(args, " "), safe, cc, lang, page, mode)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
