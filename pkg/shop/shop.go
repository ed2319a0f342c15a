// Package shop 识别助手回复中推荐的商品，并生成各购物平台的搜索链接。
package shop

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Platforms 是偏好表单中可选的平台，顺序与表单一致。
var Platforms = []string{"Myntra", "Ajio", "Amazon", "Flipkart", "Tata CLiQ"}

// Brands 是偏好表单中可选的品牌。
var Brands = []string{"Louis Philippe", "Van Heusen", "Zara", "H&M", "Peter England", "Levis"}

// DefaultPlatform 在用户没有选择平台时使用。
const DefaultPlatform = "Google"

var whitespace = regexp.MustCompile(`\s+`)

// ProductURL 返回 item 在 platform 上的搜索地址，未知平台回退到 Google Shopping。
func ProductURL(item, platform string) string {
	raw := strings.TrimSpace(item)
	encoded := url.QueryEscape(raw)
	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, "myntra"):
		return "https://www.myntra.com/" + strings.ToLower(whitespace.ReplaceAllString(raw, "-"))
	case strings.Contains(p, "ajio"):
		return "https://www.ajio.com/search/?text=" + encoded
	case strings.Contains(p, "amazon"):
		return "https://www.amazon.in/s?k=" + encoded
	case strings.Contains(p, "flipkart"):
		return "https://www.flipkart.com/search?q=" + encoded
	case strings.Contains(p, "tata"):
		return "https://www.tatacliq.com/search/?text=" + encoded
	default:
		return "https://www.google.com/search?tbm=shop&q=" + encoded
	}
}

// PreferredPlatform 取用户保存的第一个平台。
func PreferredPlatform(selected []string) string {
	if len(selected) > 0 && strings.TrimSpace(selected[0]) != "" {
		return selected[0]
	}
	return DefaultPlatform
}

var (
	bold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	listMarker = regexp.MustCompile(`^(?:[-*+]\s+|#{1,6}\s+)`)
	numbered   = regexp.MustCompile(`^\d+\.\s*`)
)

// 这些粗体词通常是属性标签而不是商品名
var filterWords = map[string]struct{}{
	"fabric": {}, "style": {}, "fit": {}, "material": {}, "detail": {}, "type": {}, "occasion": {},
	"season": {}, "price": {}, "brand": {}, "color": {}, "look": {}, "note": {}, "option": {},
}

// DetectProducts 找出 markdown 文本中的商品名。
// 一行里位于行首（或 "1." 编号之后）的粗体文字视为商品；同一行有多个候选时取最后一个。
func DetectProducts(markdown string) []string {
	var products []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		stripped := numbered.ReplaceAllString(line, "")
		numberedLine := stripped != line

		found := ""
		for _, m := range bold.FindAllStringSubmatchIndex(line, -1) {
			name := strings.TrimSpace(line[m[2]:m[3]])
			atStart := m[0] == 0 || (numberedLine && m[0] == len(line)-len(stripped))
			if !atStart || !isProductName(name) {
				continue
			}
			found = name
		}
		if found != "" && !seen[found] {
			seen[found] = true
			products = append(products, found)
		}
	}
	return products
}

func isProductName(name string) bool {
	if utf8.RuneCountInString(name) <= 3 || strings.Contains(name, ":") {
		return false
	}
	_, filtered := filterWords[strings.ToLower(name)]
	return !filtered
}
