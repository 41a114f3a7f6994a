package model

import "fmt"

// ProviderID 上游搜索服务标识
type ProviderID uint8

const (
	ProviderBrave ProviderID = iota + 1
	ProviderGoogle
)

// String 返回 provider 的标签
func (p ProviderID) String() string {
	switch p {
	case ProviderBrave:
		return "brave"
	case ProviderGoogle:
		return "google"
	}
	return "unknown"
}

// Factor 返回 provider 的权重系数，系数越小同位置排名越靠前
func (p ProviderID) Factor() uint32 {
	switch p {
	case ProviderBrave:
		return 7
	case ProviderGoogle:
		return 8
	}
	return 10
}

// MarshalText implements encoding.TextMarshaler.
func (p ProviderID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProviderID) UnmarshalText(text []byte) error {
	switch string(text) {
	case "brave":
		*p = ProviderBrave
	case "google":
		*p = ProviderGoogle
	case "unknown", "":
		*p = 0
	default:
		return fmt.Errorf("unknown provider %q", string(text))
	}
	return nil
}
