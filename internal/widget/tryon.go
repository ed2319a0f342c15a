package widget

import (
	"context"
	"errors"
	"fmt"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/ui"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/log"
)

// ErrNoPhoto 表示没有可用于试穿的档案照片。
var ErrNoPhoto = errors.New("no profile photo available for try-on")

// FallbackImage 在生成失败时作为参考图显示。
const FallbackImage = "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?auto=format&fit=crop&q=80&w=800"

// EditingProfile 返回正在编辑的档案 id，没有时返回空串。
type EditingProfile interface {
	EditingID() model.ProfileID
}

// TryOn 把商品渲染到用户档案照片上。
type TryOn struct {
	client   api.Client
	state    *clientstate.State
	editing  EditingProfile
	renderer ui.Renderer
	notifier Notifier
}

func NewTryOn(client api.Client, state *clientstate.State, editing EditingProfile,
	renderer ui.Renderer, notifier Notifier) *TryOn {
	return &TryOn{client: client, state: state, editing: editing, renderer: renderer, notifier: notifier}
}

// pickProfile 优先使用正在编辑的档案，否则使用第一个缓存档案。
func (t *TryOn) pickProfile(ctx context.Context) (model.Profile, bool) {
	profiles := t.state.Profiles(ctx)
	if t.editing != nil {
		if id := t.editing.EditingID(); id != "" {
			for _, p := range profiles {
				if p.ID == id {
					return p, true
				}
			}
		}
	}
	if len(profiles) == 0 {
		return model.Profile{}, false
	}
	return profiles[0], true
}

// Start 发起一次试穿。生成失败时显示参考图；网络失败时关闭试穿窗口并返回错误。
func (t *TryOn) Start(ctx context.Context, item string) error {
	profile, ok := t.pickProfile(ctx)
	if !ok || profile.Photo == "" {
		t.notifier.Show("Please add a profile photo first for Magic Try-On", "ri-image-line")
		return ErrNoPhoto
	}

	gender := string(profile.Category)
	if gender == "" {
		gender = string(model.CategoryMen)
	}
	t.renderer.Render(ui.TryOnStarted{Item: item, ProfileName: profile.Name})

	image, err := t.client.TryOn(ctx, model.TryOnRequest{Item: item, Gender: gender, UserPhoto: profile.Photo})
	switch {
	case err == nil:
		t.renderer.Render(ui.TryOnResult{Item: item, Original: profile.Photo, Generated: image})
		t.notifier.Show("AI Render Complete!", "ri-magic-line")
		return nil
	case api.IsTransport(err):
		log.Warnw("try-on request failed", "item", item, "error", err)
		t.notifier.Show("Network error during generation", "ri-wifi-off-line")
		t.renderer.Render(ui.TryOnClosed{})
		return fmt.Errorf("try-on %q: %w", item, err)
	default:
		log.Warnw("try-on generation rejected", "item", item, "error", err)
		t.notifier.Show("Try-on generation failed. Using reference.", "ri-error-warning-line")
		t.renderer.Render(ui.TryOnResult{Item: item, Original: profile.Photo, Generated: FallbackImage, Fallback: true})
		return nil
	}
}
