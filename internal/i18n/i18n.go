// Package i18n 把语言字典应用到带翻译键的界面节点上。
package i18n

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackLanguage 是缺失翻译时回退的语言。
const FallbackLanguage = "en"

//go:embed translations.yaml
var builtin []byte

// ErrUnsupportedLanguage 表示字典中没有该语言。
var ErrUnsupportedLanguage = errors.New("unsupported language")

// LanguageStore 持久化界面语言偏好，*clientstate.State 实现了该接口。
type LanguageStore interface {
	SetLanguage(ctx context.Context, lang string) error
}

// Dictionary 为 语言 -> 键 -> 文本。
type Dictionary map[string]map[string]string

// Node 是界面节点的快照：Key 对应正文，PlaceholderKey 对应占位文本。
type Node struct {
	ID             string
	Key            string
	PlaceholderKey string
	Text           string
	Placeholder    string
}

// Translator 持有一份只读字典。
type Translator struct {
	dict Dictionary
}

// Parse 解析 YAML 格式的字典。
func Parse(raw []byte) (Dictionary, error) {
	var dict Dictionary
	if err := yaml.Unmarshal(raw, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	if _, ok := dict[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("translations must include %q", FallbackLanguage)
	}
	return dict, nil
}

// New 使用内置字典创建 Translator。
func New() *Translator {
	dict, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return &Translator{dict: dict}
}

// NewWithDictionary 使用调用方提供的字典。
func NewWithDictionary(dict Dictionary) *Translator {
	return &Translator{dict: dict}
}

// Supported 报告是否存在该语言的字典。
func (t *Translator) Supported(lang string) bool {
	_, ok := t.dict[lang]
	return ok
}

// Languages 返回所有可用语言，按字母序。
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.dict))
	for l := range t.dict {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// T 查找 key 的翻译：先找 lang，再找英文，最后返回 key 本身。
func (t *Translator) T(lang, key string) string {
	if v, ok := t.dict[lang][key]; ok && v != "" {
		return v
	}
	if v, ok := t.dict[FallbackLanguage][key]; ok && v != "" {
		return v
	}
	return key
}

// Apply 返回翻译后的节点快照，不修改入参。
// 只有当前语言中存在的键才会覆盖节点内容；未知语言原样返回。
func (t *Translator) Apply(lang string, nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	table, ok := t.dict[lang]
	if !ok {
		return out
	}
	for i := range out {
		if out[i].Key != "" {
			if v, ok := table[out[i].Key]; ok && v != "" {
				out[i].Text = v
			}
		}
		if out[i].PlaceholderKey != "" {
			if v, ok := table[out[i].PlaceholderKey]; ok && v != "" {
				out[i].Placeholder = v
			}
		}
	}
	return out
}

// SwitchedMessage 返回切换语言后的提示文本，例如 "Language switched to HI"。
func (t *Translator) SwitchedMessage(lang string) string {
	return t.T(lang, "lang_switched") + strings.ToUpper(lang)
}

// ChangeLanguage 保存语言偏好并返回切换提示文本。
func (t *Translator) ChangeLanguage(ctx context.Context, store LanguageStore, lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !t.Supported(lang) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if err := store.SetLanguage(ctx, lang); err != nil {
		return "", fmt.Errorf("failed to save language preference: %w", err)
	}
	return t.SwitchedMessage(lang), nil
}
