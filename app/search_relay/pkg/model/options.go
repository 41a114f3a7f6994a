package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gosimple/slug"
	"golang.org/x/text/language"
)

// SafeMode 安全搜索级别
type SafeMode uint8

const (
	SafeOff SafeMode = iota
	SafeModerate
	SafeStrict
)

// ParseSafeMode 解析安全搜索参数，无法识别时为 SafeOff
func ParseSafeMode(key string) SafeMode {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "on", "2", "strict":
		return SafeStrict
	case "m", "mild", "partial", "1", "moderate":
		return SafeModerate
	}
	return SafeOff
}

// Short 缓存键中使用的短代码
func (s SafeMode) Short() string {
	switch s {
	case SafeStrict:
		return "y"
	case SafeModerate:
		return "m"
	}
	return "n"
}

// String 上游参数值
func (s SafeMode) String() string {
	switch s {
	case SafeStrict:
		return "strict"
	case SafeModerate:
		return "moderate"
	}
	return "off"
}

// ProviderMode 决定调用哪些上游
type ProviderMode uint8

const (
	ModeAll ProviderMode = iota
	ModeFullText
	ModeCore
	ModeProviderA
	ModeProviderB
)

// ParseProviderMode 解析 mode 参数，无法识别时为 ModeAll
func ParseProviderMode(key string) ProviderMode {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "full", "fulltext", "full_text":
		return ModeFullText
	case "core":
		return ModeCore
	case "brave", "a":
		return ModeProviderA
	case "google", "b":
		return ModeProviderB
	}
	return ModeAll
}

// Short 缓存键中使用的短代码
func (m ProviderMode) Short() string {
	switch m {
	case ModeAll:
		return "a"
	case ModeFullText:
		return "f"
	case ModeCore:
		return "c"
	case ModeProviderA:
		return "p"
	case ModeProviderB:
		return "s"
	}
	return "a"
}

// String 模式名称
func (m ProviderMode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeFullText:
		return "fulltext"
	case ModeCore:
		return "core"
	case ModeProviderA:
		return "brave"
	case ModeProviderB:
		return "google"
	}
	return "all"
}

func (m ProviderMode) namespace() string {
	switch m {
	case ModeCore, ModeProviderA:
		return "brave"
	case ModeAll, ModeFullText, ModeProviderB:
		return "cs"
	}
	return "cs"
}

// QueryOptions 归一化后的搜索请求
type QueryOptions struct {
	Query    string
	Safe     SafeMode
	Country  string
	Language string
	// Offset 从 0 开始的页码，nil 表示未指定
	Offset *uint16
	Mode   ProviderMode
}

// NewQueryOptions 由请求参数构造 QueryOptions，page 从 1 开始
func NewQueryOptions(q, safe, cc, lang string, page int, mode string) QueryOptions {
	return QueryOptions{
		Query:    strings.TrimSpace(q),
		Safe:     ParseSafeMode(safe),
		Country:  MatchCountryCode(cc),
		Language: NormalizeLanguage(lang),
		Offset:   OffsetFromPage(page),
		Mode:     ParseProviderMode(mode),
	}
}

// OffsetFromPage page <= 0 时返回 nil
func OffsetFromPage(page int) *uint16 {
	if page <= 0 {
		return nil
	}
	offset := page - 1
	if offset > math.MaxUint16 {
		offset = math.MaxUint16
	}
	o := uint16(offset)
	return &o
}

// NormalizeLanguage 返回小写的 1-3 位语言代码，无效时返回空串
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	if tag, err := language.Parse(lang); err == nil {
		base, _ := tag.Base()
		code := base.String()
		if code != "und" && isShortCode(code) {
			return code
		}
		return ""
	}
	code := strings.ToLower(lang)
	if isShortCode(code) {
		return code
	}
	return ""
}

func isShortCode(code string) bool {
	if len(code) < 1 || len(code) > 3 {
		return false
	}
	for _, c := range code {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// Page 返回从 1 开始的页码，未指定时为 0
func (o QueryOptions) Page() int {
	if o.Offset == nil {
		return 0
	}
	return int(*o.Offset) + 1
}

// OffsetValue 未指定时为 0
func (o QueryOptions) OffsetValue() int {
	if o.Offset == nil {
		return 0
	}
	return int(*o.Offset)
}

// CacheKey 生成搜索结果的缓存键
func (o QueryOptions) CacheKey() string {
	offset := "_"
	if o.Offset != nil {
		offset = strconv.Itoa(int(*o.Offset))
	}
	return strings.Join([]string{
		o.Mode.namespace(),
		querySlug(o.Query),
		o.Safe.Short() + o.Mode.Short(),
		o.countryKey(),
		o.languageKey(),
		offset,
	}, "_")
}

// SuggestKey 生成自动补全结果的缓存键
func (o QueryOptions) SuggestKey() string {
	return strings.Join([]string{
		"br_sugg",
		querySlug(o.Query),
		o.countryKey(),
		o.languageKey(),
	}, "_")
}

// querySlug 查询的可读片段，只折叠大小写和空白；
// slug 丢弃了其他字符时追加哈希，避免 "c++" 与 "c" 共用一个键
func querySlug(q string) string {
	folded := strings.Join(strings.Fields(strings.ToLower(q)), " ")
	s := slug.Make(q)
	if isPlainQuery(folded) && s == strings.ReplaceAll(folded, " ", "-") {
		return s
	}
	return fmt.Sprintf("%s.%08x", s, uint32(xxhash.Sum64String(folded)))
}

func isPlainQuery(q string) bool {
	for _, r := range q {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != ' ' {
			return false
		}
	}
	return true
}

func (o QueryOptions) countryKey() string {
	if o.Country == "" {
		return "all"
	}
	return strings.ToLower(o.Country)
}

func (o QueryOptions) languageKey() string {
	if o.Language == "" {
		return "_"
	}
	return o.Language
}
