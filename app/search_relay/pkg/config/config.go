package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Cache      CacheConfig      `yaml:"cache" json:"cache"`
	Providers  ProvidersConfig  `yaml:"providers" json:"providers"`
	Exclusions ExclusionsConfig `yaml:"exclusions" json:"exclusions"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// CacheConfig 缓存相关配置
type CacheConfig struct {
	// Driver memory / redis / postgres / sqlite
	Driver string      `yaml:"driver" json:"driver"`
	Redis  RedisConfig `yaml:"redis" json:"redis"`
	SQL    SQLConfig   `yaml:"sql" json:"sql"`
	// MaxSearchSecs 搜索结果最大缓存秒数，超过 7 天按 7 天计
	MaxSearchSecs int64 `yaml:"max_search_secs" json:"max_search_secs"`
	// MaxSuggestSecs 补全结果最大缓存秒数，超过 13 周按 13 周计
	MaxSuggestSecs int64 `yaml:"max_suggest_secs" json:"max_suggest_secs"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
}

// SQLConfig postgres 使用 DSN，sqlite 使用 Path
type SQLConfig struct {
	DSN  string `yaml:"dsn" json:"dsn"`
	Path string `yaml:"path" json:"path"`
}

// ProvidersConfig 上游配置
type ProvidersConfig struct {
	Brave  BraveConfig  `yaml:"brave" json:"brave"`
	Google GoogleConfig `yaml:"google" json:"google"`
}

// BraveConfig Brave 配置
type BraveConfig struct {
	APIKey  string  `yaml:"api_key" json:"api_key"`
	BaseURL string  `yaml:"base_url" json:"base_url"`
	Timeout int     `yaml:"timeout" json:"timeout"`
	RPS     float64 `yaml:"rps" json:"rps"`
	Burst   int     `yaml:"burst" json:"burst"`
	Count   int     `yaml:"count" json:"count"`
}

// GoogleConfig Google Custom Search 配置
type GoogleConfig struct {
	APIKey  string  `yaml:"api_key" json:"api_key"`
	CX      string  `yaml:"cx" json:"cx"`
	BaseURL string  `yaml:"base_url" json:"base_url"`
	Timeout int     `yaml:"timeout" json:"timeout"`
	RPS     float64 `yaml:"rps" json:"rps"`
	Burst   int     `yaml:"burst" json:"burst"`
	Num     int     `yaml:"num" json:"num"`
}

// ExclusionsConfig 排除规则配置
type ExclusionsConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// LoadConfig 从指定路径加载配置，支持 ${ENV:default} 占位符
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandEnv 替换 ${NAME} 与 ${NAME:default}
func ExpandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, def, _ := strings.Cut(key, ":")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return def
	})
}

// ApplyEnvOverrides 环境变量优先于配置文件，无法解析的数值会被忽略
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("MAX_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Server.Timeout = strconv.Itoa(secs) + "s"
		}
	}
	if v := os.Getenv("BRAVE_SEARCH"); v != "" {
		c.Providers.Brave.APIKey = v
	}
	if v := os.Getenv("MAX_SEARCH_SECS"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Cache.MaxSearchSecs = secs
		}
	}
	if v := os.Getenv("MAX_SUGGEST_SECS"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Cache.MaxSuggestSecs = secs
		}
	}
	if v := os.Getenv("PATH_TO_EXCLUDE_PATTERNS"); v != "" {
		c.Exclusions.Path = v
	}
}

// ApplyDefaults 填充未配置的字段
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.Timeout == "" {
		c.Server.Timeout = "300s"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Cache.SQL.Path == "" {
		c.Cache.SQL.Path = "search_relay.db"
	}
	if c.Providers.Brave.Count <= 0 {
		c.Providers.Brave.Count = 20
	}
	if c.Providers.Google.Num <= 0 || c.Providers.Google.Num > 10 {
		c.Providers.Google.Num = 10
	}
	if c.Exclusions.Path == "" {
		c.Exclusions.Path = "exclusion_patterns.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "memory", "redis", "sqlite":
	case "postgres":
		if c.Cache.SQL.DSN == "" {
			return fmt.Errorf("cache.sql.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown cache driver: %s", c.Cache.Driver)
	}
	if c.Providers.Google.APIKey != "" && c.Providers.Google.CX == "" {
		return fmt.Errorf("providers.google.cx is required when api_key is set")
	}
	if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
		return fmt.Errorf("invalid server.timeout %q: %w", c.Server.Timeout, err)
	}
	return nil
}

// SearchMaxAge 配置的搜索结果缓存时长，未配置时为 0
func (c *Config) SearchMaxAge() time.Duration {
	return time.Duration(c.Cache.MaxSearchSecs) * time.Second
}

// SuggestMaxAge 配置的补全结果缓存时长，未配置时为 0
func (c *Config) SuggestMaxAge() time.Duration {
	return time.Duration(c.Cache.MaxSuggestSecs) * time.Second
}

// ServerTimeout 请求超时
func (c *Config) ServerTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 300 * time.Second
	}
	return d
}
