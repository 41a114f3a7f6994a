package search

import (
	"context"
	"errors"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/model"
)

var (
	// ErrTransport 上游不可达或返回非 200
	ErrTransport = errors.New("provider transport error")
	// ErrParse 上游返回的内容不是合法 JSON
	ErrParse = errors.New("provider parse error")
)

// IsFetchError 判断是否为导致该 provider 无结果的错误
func IsFetchError(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrParse)
}

// Variant 同一 provider 的不同取数方式
type Variant uint8

const (
	VariantStandard Variant = iota
	// VariantFullText 摘要中拼接额外片段
	VariantFullText
	// VariantCore 只取网页结果
	VariantCore
)

// Provider 定义通用的搜索接口
type Provider interface {
	ID() model.ProviderID
	Search(ctx context.Context, opts model.QueryOptions, variant Variant) (*model.ResultSet, error)
}

// Suggester 自动补全接口
type Suggester interface {
	Suggest(ctx context.Context, opts model.QueryOptions) (*model.AutoSuggestResultSet, error)
}

// Plan 一次查询需要调用的 provider
type Plan struct {
	Primary model.ProviderID
	// Secondary 为 0 表示不调用
	Secondary model.ProviderID
	Variant   Variant
}

// HasSecondary 是否需要调用第二个 provider
func (p Plan) HasSecondary() bool {
	return p.Secondary != 0
}

// PlanFor 根据模式生成调用计划
func PlanFor(mode model.ProviderMode) Plan {
	switch mode {
	case model.ModeAll:
		return Plan{Primary: model.ProviderBrave, Secondary: model.ProviderGoogle, Variant: VariantStandard}
	case model.ModeFullText:
		return Plan{Primary: model.ProviderBrave, Secondary: model.ProviderGoogle, Variant: VariantFullText}
	case model.ModeCore:
		return Plan{Primary: model.ProviderBrave, Variant: VariantCore}
	case model.ModeProviderA:
		return Plan{Primary: model.ProviderBrave, Variant: VariantStandard}
	case model.ModeProviderB:
		return Plan{Primary: model.ProviderGoogle, Variant: VariantStandard}
	}
	return Plan{Primary: model.ProviderBrave, Secondary: model.ProviderGoogle}
}

// Weight 计算第 i 条结果的权重，start 为分页起始位置
func Weight(id model.ProviderID, start, i int) uint32 {
	return uint32(start+i+1) * id.Factor()
}
