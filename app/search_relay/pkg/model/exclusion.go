package model

// ExclusionPattern 针对结果 URI 的排除规则，Name 仅用于展示
type ExclusionPattern struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Name    string `json:"name" yaml:"name"`
}
