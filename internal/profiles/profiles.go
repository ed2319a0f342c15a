// Package profiles 管理用户的尺寸档案，并保持本地缓存与后端一致。
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/log"
)

var (
	ErrNameRequired    = errors.New("profile name is required")
	ErrProfileNotFound = errors.New("profile not found")
)

// Notifier 显示一条短暂提示。
type Notifier interface {
	Show(msg, icon string)
}

// Draft 是表单中填写的档案内容。Fit 为 nil 时使用默认版型。
type Draft struct {
	Name         string
	Category     model.Category
	Photo        string
	Measurements map[string]string
	Fit          *model.Fit
}

type Manager struct {
	client   api.Client
	state    *clientstate.State
	notifier Notifier
	now      func() time.Time

	mu      sync.Mutex
	editing model.ProfileID
}

func NewManager(client api.Client, state *clientstate.State, notifier Notifier) *Manager {
	return &Manager{client: client, state: state, notifier: notifier, now: time.Now}
}

func (m *Manager) toast(msg, icon string) {
	if m.notifier != nil {
		m.notifier.Show(msg, icon)
	}
}

// StartEditing 设置正在编辑的档案；下一次保存会覆盖该档案。
func (m *Manager) StartEditing(id model.ProfileID) {
	m.mu.Lock()
	m.editing = id
	m.mu.Unlock()
}

// EditingID 返回正在编辑的档案 id。
func (m *Manager) EditingID() model.ProfileID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

func (m *Manager) StopEditing() { m.StartEditing("") }

// Build 由表单草稿生成完整档案：补全 id、品类与版型默认值，并丢弃不属于该品类的尺寸项。
func (m *Manager) Build(d Draft) (model.Profile, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return model.Profile{}, ErrNameRequired
	}
	id := m.EditingID()
	if id == "" {
		id = model.NewProfileID(m.now())
	}
	category := d.Category
	if category == "" {
		category = model.CategoryMen
	}

	fit := model.DefaultFit()
	if d.Fit != nil {
		fit = mergeFit(*d.Fit, fit)
	}

	measurements := make(map[string]string)
	for _, field := range category.MeasurementFields() {
		if v, ok := d.Measurements[field]; ok {
			measurements[field] = strings.TrimSpace(v)
		}
	}

	return model.Profile{
		ID:           id,
		Name:         name,
		Category:     category,
		Photo:        d.Photo,
		Measurements: measurements,
		Fit:          fit,
		Timestamp:    m.now().UTC().Format(time.RFC3339),
	}, nil
}

func mergeFit(f, def model.Fit) model.Fit {
	if f.Type == "" {
		f.Type = def.Type
	}
	if f.Comfort == "" {
		f.Comfort = def.Comfort
	}
	if f.Waist == "" {
		f.Waist = def.Waist
	}
	if f.Length == "" {
		f.Length = def.Length
	}
	return f
}

// SaveMeasurements 保存档案并刷新本地缓存。
func (m *Manager) SaveMeasurements(ctx context.Context, d Draft) (*model.Profile, error) {
	profile, err := m.Build(d)
	if err != nil {
		m.toast("Please enter a profile name", "ri-error-warning-line")
		return nil, err
	}
	updating := m.EditingID() != ""

	if err := m.client.SaveProfile(ctx, &profile); err != nil {
		log.Warnw("failed to save profile", "profile_id", string(profile.ID), "error", err)
		m.toast("Error saving profile", "ri-error-warning-line")
		return nil, fmt.Errorf("save profile: %w", err)
	}

	if updating {
		m.toast("Measurements Updated!", "ri-shield-user-line")
	} else {
		m.toast("Profile Saved!", "ri-shield-user-line")
	}
	m.StopEditing()

	if _, err := m.ListProfiles(ctx); err != nil {
		log.Warnw("failed to refresh profiles after save", "error", err)
	}
	return &profile, nil
}

// ListProfiles 拉取档案列表并整体覆盖本地缓存。
func (m *Manager) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	profiles, err := m.client.GetProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if err := m.state.SetProfiles(ctx, profiles); err != nil {
		log.Error("failed to cache profiles", err)
	}
	return profiles, nil
}

// GetProfile 从后端读取单个档案。
func (m *Manager) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	p, err := m.client.GetProfile(ctx, id)
	if err != nil {
		if api.IsTransport(err) {
			m.toast("Error loading profile", "ri-error-warning-line")
			return nil, fmt.Errorf("get profile %s: %w", id, err)
		}
		m.toast("Profile not found", "ri-error-warning-line")
		return nil, fmt.Errorf("get profile %s: %w: %w", id, ErrProfileNotFound, err)
	}
	return p, nil
}

// Edit 读取档案并把它设为正在编辑。
func (m *Manager) Edit(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	p, err := m.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	m.StartEditing(p.ID)
	return p, nil
}

// DeleteProfile 删除档案并刷新本地缓存。
func (m *Manager) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	if err := m.client.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if m.EditingID() == id {
		m.StopEditing()
	}
	if _, err := m.ListProfiles(ctx); err != nil {
		log.Warnw("failed to refresh profiles after delete", "error", err)
	}
	m.toast("Profile deleted", "ri-delete-bin-line")
	return nil
}
