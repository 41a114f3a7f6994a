// Package exclusion removes results whose URI matches operator supplied patterns.
package exclusion

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

// Set 编译后的排除规则
type Set struct {
	patterns []*regexp.Regexp
}

// Compile 编译规则，无法编译的规则会被跳过（视为永不匹配）
func Compile(patterns []model.ExclusionPattern, log logrus.FieldLogger) *Set {
	s := &Set{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			if log != nil {
				log.WithField("name", p.Name).Warnf("排除规则无法编译，已跳过 [%s]: %v", p.Pattern, err)
			}
			continue
		}
		s.patterns = append(s.patterns, re)
	}
	return s
}

// Len 有效规则数量
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Match URI 是否命中任一规则
func (s *Set) Match(uri string) bool {
	if s == nil {
		return false
	}
	for _, re := range s.patterns {
		if re.MatchString(uri) {
			return true
		}
	}
	return false
}

// Apply 过滤结果，保持原有顺序，并记录删除数量
func (s *Set) Apply(rs *model.ResultSet) *model.ResultSet {
	if rs == nil {
		return nil
	}
	before := len(rs.Results)
	kept := make([]model.SearchResult, 0, before)
	for _, r := range rs.Results {
		if !s.Match(r.URI) {
			kept = append(kept, r)
		}
	}
	rs.Results = kept
	rs.Recount()
	rs.RemovedCount = before - rs.Count
	return rs
}
