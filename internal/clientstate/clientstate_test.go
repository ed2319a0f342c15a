package clientstate_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/kv"
)

func TestFlagsAndPointers(t *testing.T) {
	ctx := context.Background()
	st := clientstate.New(kv.NewMemoryStore())

	if st.LoggedIn(ctx) {
		t.Fatalf("fresh state should not be logged in")
	}
	if err := st.SetLoggedIn(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !st.LoggedIn(ctx) {
		t.Fatalf("expected logged in")
	}
	if err := st.SetLoggedIn(ctx, false); err != nil {
		t.Fatal(err)
	}
	if st.LoggedIn(ctx) {
		t.Fatalf("expected logged out")
	}

	if got := st.LastSessionID(ctx); got != "" {
		t.Fatalf("LastSessionID = %q, want empty", got)
	}
	_ = st.SetLastSessionID(ctx, "s1")
	if got := st.LastSessionID(ctx); got != "s1" {
		t.Fatalf("LastSessionID = %q, want s1", got)
	}
	_ = st.ClearLastSessionID(ctx)
	if got := st.LastSessionID(ctx); got != "" {
		t.Fatalf("LastSessionID after clear = %q", got)
	}

	if got := st.Language(ctx, "en"); got != "en" {
		t.Fatalf("Language default = %q", got)
	}
	_ = st.SetLanguage(ctx, "hi")
	if got := st.Language(ctx, "en"); got != "hi" {
		t.Fatalf("Language = %q, want hi", got)
	}

	if st.IntroShown(ctx) {
		t.Fatalf("intro should not be shown yet")
	}
	_ = st.MarkIntroShown(ctx)
	if !st.IntroShown(ctx) {
		t.Fatalf("intro should be marked shown")
	}
}

func TestIntroShownIsPerProcess(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	first := clientstate.New(store)
	_ = first.MarkIntroShown(ctx)
	_ = first.SetLoggedIn(ctx, true)
	if !first.IntroShown(ctx) {
		t.Fatalf("intro should be marked shown")
	}
	if _, ok, _ := store.Get(ctx, clientstate.KeyIntroShown); ok {
		t.Fatalf("intro flag written to persistent store")
	}

	// 下一次运行共享持久存储，但开场介绍重新显示
	next := clientstate.New(store)
	if next.IntroShown(ctx) {
		t.Fatalf("intro flag survived into a new run")
	}
	if !next.LoggedIn(ctx) {
		t.Fatalf("persistent keys should survive")
	}
}

func TestProfilesCacheReplacedWholesale(t *testing.T) {
	ctx := context.Background()
	st := clientstate.New(kv.NewMemoryStore())

	first := []model.Profile{
		{ID: "1", Name: "Arjun", Category: model.CategoryMen, Measurements: map[string]string{"chest": "40"}, Fit: model.DefaultFit()},
		{ID: "2", Name: "Meera", Category: model.CategoryWomen, Measurements: map[string]string{"bust": "34"}, Fit: model.DefaultFit()},
	}
	if err := st.SetProfiles(ctx, first); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, st.Profiles(ctx)); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}

	second := first[1:]
	_ = st.SetProfiles(ctx, second)
	if diff := cmp.Diff(second, st.Profiles(ctx)); diff != "" {
		t.Fatalf("cache should be replaced, not merged (-want +got):\n%s", diff)
	}
	if _, ok := st.FindProfile(ctx, "1"); ok {
		t.Fatalf("profile 1 should be gone")
	}
	if p, ok := st.FindProfile(ctx, "2"); !ok || p.Name != "Meera" {
		t.Fatalf("FindProfile(2) = %+v, %v", p, ok)
	}
}

func TestMalformedValuesReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, clientstate.KeyProfiles, "{not json")
	_ = store.Set(ctx, clientstate.KeySelectedPlatforms, "[1,2")

	st := clientstate.New(store)
	if got := st.Profiles(ctx); len(got) != 0 {
		t.Fatalf("expected empty profiles, got %v", got)
	}
	if got := st.SelectedPlatforms(ctx); len(got) != 0 {
		t.Fatalf("expected empty platforms, got %v", got)
	}
}

func TestNumericProfileIDsFromBrowserCache(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, clientstate.KeyProfiles, `[{"id":1718000000000,"name":"Old","category":"men","measurements":{},"fit":{}}]`)

	st := clientstate.New(store)
	p, ok := st.FindProfile(ctx, "1718000000000")
	if !ok || p.Name != "Old" {
		t.Fatalf("numeric id not matched: %+v %v", p, ok)
	}
}
