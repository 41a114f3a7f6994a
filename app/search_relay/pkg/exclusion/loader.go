package exclusion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

// DefaultPath 未配置时的规则文件
const DefaultPath = "exclusion_patterns.json"

// LoadFile 读取 JSON 或 YAML 规则文件，文件不存在时返回空列表
func LoadFile(path string) ([]model.ExclusionPattern, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ExclusionPattern{}, nil
		}
		return nil, fmt.Errorf("read exclusion file: %w", err)
	}

	var rows []model.ExclusionPattern
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rows)
	default:
		err = json.Unmarshal(data, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("decode exclusion file %s: %w", path, err)
	}
	if rows == nil {
		rows = []model.ExclusionPattern{}
	}
	return rows, nil
}

// Source 优先读取缓存中的规则列表，缓存为空时读文件并回写
type Source struct {
	store cache.Store
	path  string
	log   logrus.FieldLogger

	mu       sync.Mutex
	compiled *Set
	// patterns compiled 对应的规则列表
	patterns []model.ExclusionPattern
}

// NewSource 创建规则来源
func NewSource(store cache.Store, path string, log logrus.FieldLogger) *Source {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Source{store: store, path: path, log: log}
}

// Patterns 返回当前规则列表，读取失败时返回空列表
func (s *Source) Patterns(ctx context.Context) []model.ExclusionPattern {
	if s.store != nil {
		rows, err := cache.GetExclusions(ctx, s.store)
		if err != nil {
			s.log.Warnf("读取缓存排除规则失败: %v", err)
		} else if len(rows) > 0 {
			return rows
		}
	}

	rows, err := LoadFile(s.path)
	if err != nil {
		s.log.Errorf("加载排除规则文件失败: %v", err)
		return []model.ExclusionPattern{}
	}
	if len(rows) > 0 && s.store != nil {
		if err := cache.SetExclusions(ctx, s.store, rows); err != nil {
			s.log.Warnf("写入缓存排除规则失败: %v", err)
		}
	}
	return rows
}

// Set 返回编译后的规则，规则列表不变时复用上一次的编译结果
func (s *Source) Set(ctx context.Context) *Set {
	rows := s.Patterns(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.compiled != nil && slices.Equal(s.patterns, rows) {
		return s.compiled
	}
	s.compiled = Compile(rows, s.log)
	s.patterns = slices.Clone(rows)
	return s.compiled
}
