// Package widget 实现回复标记触发的交互组件：档案选择、购物偏好表单与虚拟试穿。
//
// 组件确认后合成一条新的用户消息，通过 Sender 交回对话控制器。
package widget

import (
	"context"

	"opuluxe-go/internal/chat"
	"opuluxe-go/pkg/log"
)

// Sender 发送一条用户消息，*chat.Controller 实现了该接口。
type Sender interface {
	SendMessage(ctx context.Context, text, attachment string) error
}

// Notifier 显示一条短暂提示。
type Notifier interface {
	Show(msg, icon string)
}

// Set 把回复标记分派给对应组件，实现 chat.WidgetInjector。
type Set struct {
	Profiles *ProfileSelector
	Shopping *ShoppingForm
}

var _ chat.WidgetInjector = (*Set)(nil)

func (s *Set) Inject(ctx context.Context, kind chat.WidgetKind) {
	switch kind {
	case chat.WidgetProfileSelector:
		if s.Profiles != nil {
			s.Profiles.Show(ctx)
		}
	case chat.WidgetShoppingForm:
		if s.Shopping != nil {
			s.Shopping.Show(ctx)
		}
	default:
		log.Warnw("unknown widget requested", "kind", string(kind))
	}
}
