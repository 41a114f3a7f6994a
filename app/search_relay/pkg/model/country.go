package model

import "strings"

// countryCodes 上游支持的国家/地区代码
var countryCodes = []string{
	"AR", "AU", "AT", "BE", "BR",
	"CA", "CL", "DK", "FI", "FR",
	"DE", "HK", "IN", "ID", "IT",
	"JP", "KR", "MY", "MX", "NL",
	"NZ", "NO", "CN", "PL", "PT",
	"PH", "RU", "SA", "ZA", "ES",
	"SE", "CH", "TW", "TR", "GB",
	"US",
}

// MatchCountryCode 将用户输入映射为受支持的国家代码，不支持时返回空串
func MatchCountryCode(key string) string {
	cc := strings.ToUpper(strings.TrimSpace(key))
	if cc == "UK" {
		cc = "GB"
	}
	for _, code := range countryCodes {
		if code == cc {
			return code
		}
	}
	return ""
}
