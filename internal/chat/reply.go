package chat

import "strings"

// 回复中的控制标记，后端用它们要求客户端弹出对应的组件。
const (
	MarkerProfileSelection = "[NEED_PROFILE_SELECTION]"
	MarkerShoppingDetails  = "[NEED_SHOPPING_DETAILS]"
)

// WidgetKind 标识回复要求弹出的组件。
type WidgetKind string

const (
	WidgetProfileSelector WidgetKind = "profile_selector"
	WidgetShoppingForm    WidgetKind = "shopping_form"
)

// ReplyKind 是回复的分类。
type ReplyKind string

const (
	ReplyPlain                ReplyKind = "plain"
	ReplyNeedsProfile         ReplyKind = "needs_profile"
	ReplyNeedsShoppingDetails ReplyKind = "needs_shopping_details"
)

// Reply 是解析过标记的助手回复。Text 已去掉标记并去掉首尾空白。
type Reply struct {
	Text    string
	Widgets []WidgetKind
}

// ParseReply 识别并移除 raw 中的所有控制标记。
// 组件按固定顺序返回：先档案选择，后购物偏好。
func ParseReply(raw string) Reply {
	var r Reply
	text := raw
	if strings.Contains(text, MarkerProfileSelection) {
		text = strings.ReplaceAll(text, MarkerProfileSelection, "")
		r.Widgets = append(r.Widgets, WidgetProfileSelector)
	}
	if strings.Contains(text, MarkerShoppingDetails) {
		text = strings.ReplaceAll(text, MarkerShoppingDetails, "")
		r.Widgets = append(r.Widgets, WidgetShoppingForm)
	}
	r.Text = strings.TrimSpace(text)
	return r
}

// Kind 返回回复的主要分类；同时带两个标记时以档案选择为准。
func (r Reply) Kind() ReplyKind {
	if len(r.Widgets) == 0 {
		return ReplyPlain
	}
	if r.Widgets[0] == WidgetProfileSelector {
		return ReplyNeedsProfile
	}
	return ReplyNeedsShoppingDetails
}
