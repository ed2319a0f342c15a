package profiles

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/api/apitest"
	"opuluxe-go/pkg/kv"
)

// memoryBackend 用 map 模拟 save/get/delete 档案接口。
type memoryBackend struct {
	mu       sync.Mutex
	profiles map[model.ProfileID]model.Profile
}

func (b *memoryBackend) fake() *apitest.Fake {
	b.profiles = make(map[model.ProfileID]model.Profile)
	return &apitest.Fake{
		SaveProfileFunc: func(_ context.Context, p *model.Profile) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.profiles[p.ID] = *p
			return nil
		},
		GetProfilesFunc: func(context.Context) ([]model.Profile, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			out := make([]model.Profile, 0, len(b.profiles))
			for _, p := range b.profiles {
				out = append(out, p)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
			return out, nil
		},
		GetProfileFunc: func(_ context.Context, id model.ProfileID) (*model.Profile, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			p, ok := b.profiles[id]
			if !ok {
				return nil, &api.AppError{Message: "Profile not found"}
			}
			return &p, nil
		},
		DeleteProfileFunc: func(_ context.Context, id model.ProfileID) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.profiles, id)
			return nil
		},
	}
}

type toastLog struct{ msgs []string }

func (l *toastLog) Show(msg, _ string) { l.msgs = append(l.msgs, msg) }

func newManager(t *testing.T, client api.Client) (*Manager, *clientstate.State, *toastLog) {
	t.Helper()
	st := clientstate.New(kv.NewMemoryStore())
	toasts := &toastLog{}
	m := NewManager(client, st, toasts)
	m.now = func() time.Time { return time.UnixMilli(1717000000000) }
	return m, st, toasts
}

func TestSaveMeasurementsRoundTrip(t *testing.T) {
	backend := &memoryBackend{}
	m, st, toasts := newManager(t, backend.fake())
	ctx := context.Background()

	saved, err := m.SaveMeasurements(ctx, Draft{
		Name:     "  Meera ",
		Category: model.CategoryWomen,
		Measurements: map[string]string{
			"bust": "34", "waist": "28", "hips": "36",
			"chest": "40", // 不属于女装字段
		},
		Fit: &model.Fit{Type: "Relaxed", Notes: "no crop tops"},
	})
	if err != nil {
		t.Fatalf("SaveMeasurements: %v", err)
	}
	if saved.ID != "1717000000000" {
		t.Fatalf("ID = %q", saved.ID)
	}

	listed := st.Profiles(ctx)
	if len(listed) != 1 {
		t.Fatalf("cache not refreshed: %+v", listed)
	}
	got, err := m.GetProfile(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	want := model.Profile{
		ID:           "1717000000000",
		Name:         "Meera",
		Category:     model.CategoryWomen,
		Measurements: map[string]string{"bust": "34", "waist": "28", "hips": "36"},
		Fit:          model.Fit{Type: "Relaxed", Comfort: "Regular", Waist: "Mid rise", Length: "Regular", Notes: "no crop tops"},
		Timestamp:    saved.Timestamp,
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, listed[0]); diff != "" {
		t.Fatalf("cached profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Profile Saved!"}, toasts.msgs); diff != "" {
		t.Fatalf("toasts (-want +got):\n%s", diff)
	}
}

func TestSaveDefaultsAndEditing(t *testing.T) {
	backend := &memoryBackend{}
	m, st, toasts := newManager(t, backend.fake())
	ctx := context.Background()

	first, err := m.SaveMeasurements(ctx, Draft{Name: "Arjun"})
	if err != nil {
		t.Fatalf("SaveMeasurements: %v", err)
	}
	if first.Category != model.CategoryMen || first.Fit != model.DefaultFit() {
		t.Fatalf("defaults not applied: %+v", first)
	}

	if _, err := m.Edit(ctx, first.ID); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if m.EditingID() != first.ID {
		t.Fatalf("editing pointer not set")
	}
	m.now = func() time.Time { return time.UnixMilli(1717000099999) }
	second, err := m.SaveMeasurements(ctx, Draft{Name: "Arjun K", Measurements: map[string]string{"chest": "41"}})
	if err != nil {
		t.Fatalf("SaveMeasurements: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("editing save created a new profile: %q", second.ID)
	}
	if m.EditingID() != "" {
		t.Fatalf("editing pointer not cleared")
	}
	if profiles := st.Profiles(ctx); len(profiles) != 1 || profiles[0].Name != "Arjun K" {
		t.Fatalf("unexpected cache: %+v", profiles)
	}
	if toasts.msgs[len(toasts.msgs)-1] != "Measurements Updated!" {
		t.Fatalf("unexpected toasts: %v", toasts.msgs)
	}
}

func TestSaveRequiresName(t *testing.T) {
	fake := &apitest.Fake{}
	m, _, toasts := newManager(t, fake)

	if _, err := m.SaveMeasurements(context.Background(), Draft{Name: "   "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if fake.Count("SaveProfile") != 0 {
		t.Fatalf("request sent without a name")
	}
	if toasts.msgs[0] != "Please enter a profile name" {
		t.Fatalf("unexpected toast %q", toasts.msgs[0])
	}
}

func TestSaveFailureKeepsCache(t *testing.T) {
	fake := &apitest.Fake{SaveProfileFunc: func(context.Context, *model.Profile) error {
		return &api.AppError{Message: api.NotLoggedInMessage}
	}}
	m, st, toasts := newManager(t, fake)
	ctx := context.Background()
	_ = st.SetProfiles(ctx, []model.Profile{{ID: "1", Name: "old"}})

	if _, err := m.SaveMeasurements(ctx, Draft{Name: "new"}); !api.IsNotLoggedIn(err) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if fake.Count("GetProfiles") != 0 || st.Profiles(ctx)[0].Name != "old" {
		t.Fatalf("cache touched after failed save")
	}
	if toasts.msgs[0] != "Error saving profile" {
		t.Fatalf("unexpected toast %q", toasts.msgs[0])
	}
}

func TestGetProfileNotFound(t *testing.T) {
	backend := &memoryBackend{}
	m, _, toasts := newManager(t, backend.fake())

	if _, err := m.GetProfile(context.Background(), "42"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if toasts.msgs[0] != "Profile not found" {
		t.Fatalf("unexpected toast %q", toasts.msgs[0])
	}
}

func TestDeleteProfileRefreshesCache(t *testing.T) {
	backend := &memoryBackend{}
	m, st, toasts := newManager(t, backend.fake())
	ctx := context.Background()

	p, _ := m.SaveMeasurements(ctx, Draft{Name: "Temp"})
	m.StartEditing(p.ID)
	if err := m.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if len(st.Profiles(ctx)) != 0 {
		t.Fatalf("cache not refreshed after delete")
	}
	if m.EditingID() != "" {
		t.Fatalf("editing pointer should be cleared when the profile is deleted")
	}
	if toasts.msgs[len(toasts.msgs)-1] != "Profile deleted" {
		t.Fatalf("unexpected toasts: %v", toasts.msgs)
	}
}
