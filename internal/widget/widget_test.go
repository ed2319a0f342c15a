package widget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"opuluxe-go/internal/chat"
	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/ui"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/api/apitest"
	"opuluxe-go/pkg/kv"
)

type sentLog struct {
	mu   sync.Mutex
	msgs []string
}

func (s *sentLog) SendMessage(_ context.Context, text, _ string) error {
	s.mu.Lock()
	s.msgs = append(s.msgs, text)
	s.mu.Unlock()
	return nil
}

type toastLog struct{ msgs []string }

func (l *toastLog) Show(msg, _ string) { l.msgs = append(l.msgs, msg) }

type editing model.ProfileID

func (e editing) EditingID() model.ProfileID { return model.ProfileID(e) }

func sampleProfile() model.Profile {
	return model.Profile{
		ID:       "1717000000000",
		Name:     "Arjun",
		Category: model.CategoryMen,
		Photo:    "data:image/png;base64,ARJUN",
		Measurements: map[string]string{
			"height": "178",
			"chest":  "40",
			"waist":  "",
			"neck":   "15",
		},
		Fit: model.Fit{Type: "Slim fit", Comfort: "Regular"},
	}
}

func newState(t *testing.T, profiles ...model.Profile) *clientstate.State {
	t.Helper()
	st := clientstate.New(kv.NewMemoryStore())
	if len(profiles) > 0 {
		if err := st.SetProfiles(context.Background(), profiles); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func TestProfileSelectorWithoutProfiles(t *testing.T) {
	rec := &ui.Recorder{}
	sel := NewProfileSelector(newState(t), rec, &sentLog{})
	set := &Set{Profiles: sel}

	set.Inject(context.Background(), chat.WidgetProfileSelector)

	notices := ui.Of[ui.Notice](rec)
	if len(notices) != 1 || notices[0].Text != noProfilesNotice {
		t.Fatalf("unexpected notices: %+v", notices)
	}
	if len(ui.Of[ui.ProfileChoices](rec)) != 0 {
		t.Fatalf("no choices expected")
	}
}

func TestUseProfileSendsMeasurements(t *testing.T) {
	rec := &ui.Recorder{}
	sent := &sentLog{}
	sel := NewProfileSelector(newState(t, sampleProfile()), rec, sent)

	sel.Show(context.Background())
	if choices := ui.Of[ui.ProfileChoices](rec); len(choices) != 1 || choices[0].Profiles[0].Name != "Arjun" {
		t.Fatalf("unexpected choices: %+v", choices)
	}

	if err := sel.UseProfile(context.Background(), "1717000000000"); err != nil {
		t.Fatalf("UseProfile: %v", err)
	}
	want := `Please use my saved profile "Arjun". My measurements are: chest: 40, neck: 15, height: 178. ` +
		`Fit preferences: Slim fit, comfort: Regular. Now, could you help me with my fashion request?`
	if diff := cmp.Diff([]string{want}, sent.msgs); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}

	if err := sel.UseProfile(context.Background(), "404"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestShoppingFormConfirm(t *testing.T) {
	ctx := context.Background()
	rec := &ui.Recorder{}
	toasts := &toastLog{}
	sent := &sentLog{}
	st := newState(t)
	form := NewShoppingForm(st, rec, toasts, sent)

	(&Set{Shopping: form}).Inject(ctx, chat.WidgetShoppingForm)
	if forms := ui.Of[ui.ShoppingForm](rec); len(forms) != 1 || len(forms[0].Platforms) != 5 {
		t.Fatalf("unexpected form events: %+v", forms)
	}

	if err := form.Confirm(ctx, " ", []string{"Myntra"}, nil); !errors.Is(err, ErrIncompletePreferences) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := form.Confirm(ctx, "5000", nil, nil); !errors.Is(err, ErrIncompletePreferences) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sent.msgs) != 0 || len(toasts.msgs) != 2 || toasts.msgs[0] != "Enter budget and select platform" {
		t.Fatalf("validation must toast and not send: sent=%v toasts=%v", sent.msgs, toasts.msgs)
	}

	if err := form.Confirm(ctx, "5000", []string{"Myntra", "Ajio"}, nil); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	want := "Budget: ₹5000 INR. Platforms: Myntra, Ajio. Brands: any. Suggestions for my fashion request?"
	if sent.msgs[0] != want {
		t.Fatalf("message = %q, want %q", sent.msgs[0], want)
	}
	if diff := cmp.Diff([]string{"Myntra", "Ajio"}, st.SelectedPlatforms(ctx)); diff != "" {
		t.Fatalf("platforms not persisted (-want +got):\n%s", diff)
	}

	if got := PreferencesMessage("800", []string{"Amazon"}, []string{"Zara", "H&M"}); got !=
		"Budget: ₹800 INR. Platforms: Amazon. Brands: Zara, H&M. Suggestions for my fashion request?" {
		t.Fatalf("PreferencesMessage = %q", got)
	}
}

func TestTryOnWithoutPhoto(t *testing.T) {
	p := sampleProfile()
	p.Photo = ""
	fake := &apitest.Fake{}
	toasts := &toastLog{}
	tryOn := NewTryOn(fake, newState(t, p), nil, &ui.Recorder{}, toasts)

	if err := tryOn.Start(context.Background(), "Linen Shirt"); !errors.Is(err, ErrNoPhoto) {
		t.Fatalf("expected ErrNoPhoto, got %v", err)
	}
	if fake.Count("TryOn") != 0 {
		t.Fatalf("request must not be sent without a photo")
	}
	if toasts.msgs[0] != "Please add a profile photo first for Magic Try-On" {
		t.Fatalf("unexpected toast %q", toasts.msgs[0])
	}

	if err := NewTryOn(fake, newState(t), nil, &ui.Recorder{}, toasts).Start(context.Background(), "x"); !errors.Is(err, ErrNoPhoto) {
		t.Fatalf("expected ErrNoPhoto without profiles, got %v", err)
	}
}

func TestTryOnPrefersEditingProfile(t *testing.T) {
	first := sampleProfile()
	second := sampleProfile()
	second.ID, second.Name, second.Category, second.Photo = "2", "Meera", model.CategoryWomen, "data:image/png;base64,MEERA"

	var got model.TryOnRequest
	fake := &apitest.Fake{TryOnFunc: func(_ context.Context, req model.TryOnRequest) (string, error) {
		got = req
		return "data:image/png;base64,RESULT", nil
	}}
	rec := &ui.Recorder{}
	tryOn := NewTryOn(fake, newState(t, first, second), editing("2"), rec, &toastLog{})

	if err := tryOn.Start(context.Background(), "Silk Saree"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	want := model.TryOnRequest{Item: "Silk Saree", Gender: "women", UserPhoto: "data:image/png;base64,MEERA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	results := ui.Of[ui.TryOnResult](rec)
	if len(results) != 1 || results[0].Generated != "data:image/png;base64,RESULT" || results[0].Fallback {
		t.Fatalf("unexpected results: %+v", results)
	}
	if started := ui.Of[ui.TryOnStarted](rec); started[0].ProfileName != "Meera" {
		t.Fatalf("unexpected start event: %+v", started)
	}
}

func TestTryOnFailures(t *testing.T) {
	ctx := context.Background()

	rec := &ui.Recorder{}
	toasts := &toastLog{}
	rejected := &apitest.Fake{TryOnFunc: func(context.Context, model.TryOnRequest) (string, error) {
		return "", &api.AppError{Endpoint: "/api/tryon/", Message: "Generation failed"}
	}}
	if err := NewTryOn(rejected, newState(t, sampleProfile()), nil, rec, toasts).Start(ctx, "Blazer"); err != nil {
		t.Fatalf("application failure should fall back, got %v", err)
	}
	results := ui.Of[ui.TryOnResult](rec)
	if len(results) != 1 || !results[0].Fallback || results[0].Generated != FallbackImage {
		t.Fatalf("expected fallback result, got %+v", results)
	}

	rec = &ui.Recorder{}
	toasts = &toastLog{}
	offline := &apitest.Fake{TryOnFunc: func(context.Context, model.TryOnRequest) (string, error) {
		return "", &api.TransportError{Endpoint: "/api/tryon/", Err: errors.New("dial tcp: refused")}
	}}
	err := NewTryOn(offline, newState(t, sampleProfile()), nil, rec, toasts).Start(ctx, "Blazer")
	if !api.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(ui.Of[ui.TryOnClosed](rec)) != 1 || len(ui.Of[ui.TryOnResult](rec)) != 0 {
		t.Fatalf("overlay should close without a result")
	}
	if toasts.msgs[0] != "Network error during generation" {
		t.Fatalf("unexpected toast %q", toasts.msgs[0])
	}
}
