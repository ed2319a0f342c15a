// Package clientstate 在本地持久化存储之上提供带类型的客户端状态读写。
//
// 读取失败按"值不存在"处理并记录日志；写入失败返回错误。
package clientstate

import (
	"context"
	"encoding/json"
	"fmt"

	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/kv"
	"opuluxe-go/pkg/log"
)

// 持久化键名与浏览器端保持一致，便于迁移已有状态。
const (
	KeyLoggedIn          = "isLoggedIn"
	KeyLastSessionID     = "lastChatSessionId"
	KeyIntroShown        = "introShown"
	KeySelectedPlatforms = "selectedPlatforms"
	KeyProfiles          = "user_profiles"
	KeyLanguage          = "preferredLang"
)

// State 封装客户端的全部本地状态。
type State struct {
	store kv.Store
	// session 只在本进程内有效，对应浏览器的 sessionStorage
	session kv.Store
}

func New(store kv.Store) *State {
	return &State{store: store, session: kv.NewMemoryStore()}
}

func (s *State) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Warnw("failed to read client state", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *State) getJSON(ctx context.Context, key string, out interface{}) bool {
	raw, ok := s.get(ctx, key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warnw("discarding malformed client state", "key", key, "error", err)
		return false
	}
	return true
}

func (s *State) setJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, string(raw))
}

// LoggedIn 返回本地的登录标记。它只是提示，后端会话才是准绳。
func (s *State) LoggedIn(ctx context.Context) bool {
	v, _ := s.get(ctx, KeyLoggedIn)
	return v == "true"
}

func (s *State) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	if !loggedIn {
		return s.store.Delete(ctx, KeyLoggedIn)
	}
	return s.store.Set(ctx, KeyLoggedIn, "true")
}

// LastSessionID 返回上次打开的会话 id，不存在时为空串。
func (s *State) LastSessionID(ctx context.Context) string {
	v, _ := s.get(ctx, KeyLastSessionID)
	return v
}

func (s *State) SetLastSessionID(ctx context.Context, id string) error {
	return s.store.Set(ctx, KeyLastSessionID, id)
}

func (s *State) ClearLastSessionID(ctx context.Context) error {
	return s.store.Delete(ctx, KeyLastSessionID)
}

// IntroShown 报告本次运行是否已显示过开场介绍。该标记不写入持久存储。
func (s *State) IntroShown(ctx context.Context) bool {
	v, ok, _ := s.session.Get(ctx, KeyIntroShown)
	return ok && v == "true"
}

func (s *State) MarkIntroShown(ctx context.Context) error {
	return s.session.Set(ctx, KeyIntroShown, "true")
}

// SelectedPlatforms 返回最近一次确认的购物平台，顺序即用户选择顺序。
func (s *State) SelectedPlatforms(ctx context.Context) []string {
	var platforms []string
	if !s.getJSON(ctx, KeySelectedPlatforms, &platforms) {
		return []string{}
	}
	return platforms
}

func (s *State) SetSelectedPlatforms(ctx context.Context, platforms []string) error {
	if platforms == nil {
		platforms = []string{}
	}
	return s.setJSON(ctx, KeySelectedPlatforms, platforms)
}

// Profiles 返回本地缓存的档案列表。缓存不是权威数据，写操作一律先走后端。
func (s *State) Profiles(ctx context.Context) []model.Profile {
	var profiles []model.Profile
	if !s.getJSON(ctx, KeyProfiles, &profiles) {
		return []model.Profile{}
	}
	return profiles
}

// SetProfiles 整体替换缓存。
func (s *State) SetProfiles(ctx context.Context, profiles []model.Profile) error {
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return s.setJSON(ctx, KeyProfiles, profiles)
}

// FindProfile 在缓存中按 id 查找档案。
func (s *State) FindProfile(ctx context.Context, id model.ProfileID) (model.Profile, bool) {
	for _, p := range s.Profiles(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}

// Language 返回界面语言偏好，未设置时返回 def。
func (s *State) Language(ctx context.Context, def string) string {
	if v, ok := s.get(ctx, KeyLanguage); ok && v != "" {
		return v
	}
	return def
}

func (s *State) SetLanguage(ctx context.Context, lang string) error {
	return s.store.Set(ctx, KeyLanguage, lang)
}
