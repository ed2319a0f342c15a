package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/ui"
	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/shop"
)

// ErrIncompletePreferences 表示预算为空或没有选择平台。
var ErrIncompletePreferences = errors.New("budget and at least one platform are required")

// ShoppingForm 收集预算、平台与品牌偏好。
type ShoppingForm struct {
	state    *clientstate.State
	renderer ui.Renderer
	notifier Notifier
	sender   Sender
}

func NewShoppingForm(state *clientstate.State, renderer ui.Renderer, notifier Notifier, sender Sender) *ShoppingForm {
	return &ShoppingForm{state: state, renderer: renderer, notifier: notifier, sender: sender}
}

func (f *ShoppingForm) Show(context.Context) {
	f.renderer.Render(ui.ShoppingForm{Platforms: shop.Platforms, Brands: shop.Brands})
}

// Confirm 校验表单，保存所选平台，然后发送偏好消息。
func (f *ShoppingForm) Confirm(ctx context.Context, budget string, platforms, brands []string) error {
	budget = strings.TrimSpace(budget)
	platforms = compact(platforms)
	brands = compact(brands)
	if budget == "" || len(platforms) == 0 {
		f.notifier.Show("Enter budget and select platform", "ri-error-warning-line")
		return ErrIncompletePreferences
	}

	if err := f.state.SetSelectedPlatforms(ctx, platforms); err != nil {
		log.Error("failed to persist selected platforms", err)
	}
	return f.sender.SendMessage(ctx, PreferencesMessage(budget, platforms, brands), "")
}

// PreferencesMessage 返回确认偏好后发送的消息文本。
func PreferencesMessage(budget string, platforms, brands []string) string {
	brandText := "any"
	if len(brands) > 0 {
		brandText = strings.Join(brands, ", ")
	}
	return fmt.Sprintf("Budget: ₹%s INR. Platforms: %s. Brands: %s. Suggestions for my fashion request?",
		budget, strings.Join(platforms, ", "), brandText)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
