package widget

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/ui"
)

// ErrUnknownProfile 表示所选档案不在本地缓存中。
var ErrUnknownProfile = errors.New("profile not found in local cache")

const noProfilesNotice = "I noticed you don't have any measurement profiles saved. " +
	"You can add one by clicking 'Adding Persons' in the sidebar to get better recommendations!"

// ProfileSelector 让用户选择一个已保存的尺寸档案作为对话上下文。
type ProfileSelector struct {
	state    *clientstate.State
	renderer ui.Renderer
	sender   Sender
}

func NewProfileSelector(state *clientstate.State, renderer ui.Renderer, sender Sender) *ProfileSelector {
	return &ProfileSelector{state: state, renderer: renderer, sender: sender}
}

// Show 展示缓存中的档案；没有档案时只显示一条提示，不写入会话历史。
func (p *ProfileSelector) Show(ctx context.Context) {
	profiles := p.state.Profiles(ctx)
	if len(profiles) == 0 {
		p.renderer.Render(ui.Notice{Text: noProfilesNotice})
		return
	}
	p.renderer.Render(ui.ProfileChoices{Profiles: profiles})
}

// UseProfile 把档案 id 的尺寸与版型偏好组织成一条消息发送出去。
func (p *ProfileSelector) UseProfile(ctx context.Context, id model.ProfileID) error {
	profile, ok := p.state.FindProfile(ctx, id)
	if !ok {
		return fmt.Errorf("use profile %s: %w", id, ErrUnknownProfile)
	}
	return p.sender.SendMessage(ctx, ProfileMessage(profile), "")
}

// ProfileMessage 返回选择档案后发送的消息文本。空的尺寸项会被跳过。
func ProfileMessage(p model.Profile) string {
	var parts []string
	for _, key := range measurementOrder(p) {
		if v := strings.TrimSpace(p.Measurements[key]); v != "" {
			parts = append(parts, key+": "+v)
		}
	}
	return fmt.Sprintf("Please use my saved profile \"%s\". My measurements are: %s. Fit preferences: %s, comfort: %s. "+
		"Now, could you help me with my fashion request?",
		p.Name, strings.Join(parts, ", "), p.Fit.Type, p.Fit.Comfort)
}

// measurementOrder 先按品类表单的字段顺序，其余键按字母序排在后面。
func measurementOrder(p model.Profile) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, f := range p.Category.MeasurementFields() {
		if _, ok := p.Measurements[f]; ok {
			keys = append(keys, f)
			seen[f] = true
		}
	}
	var extra []string
	for k := range p.Measurements {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
