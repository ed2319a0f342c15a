package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"opuluxe-go/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL+"/", srv.Client())
}

func TestChatRequestSendsNulls(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, `{"success":true,"reply":"hi"}`)
	})

	resp, err := c.Chat(context.Background(), model.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Reply != "hi" || resp.SessionID != "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	want := map[string]interface{}{
		"message":    "hello",
		"history":    []interface{}{},
		"session_id": nil,
		"image":      nil,
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		transport bool
		notLogged bool
		message   string
	}{
		{"app error", `{"success":false,"error":"Empty message"}`, false, false, "Empty message"},
		{"not logged in", `{"success":false,"error":"Not logged in"}`, false, true, "Not logged in"},
		{"html page", `<html>oops</html>`, true, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.Chat(context.Background(), model.ChatRequest{Message: "x"})
			if err == nil {
				t.Fatal("expected an error")
			}
			if IsTransport(err) != tc.transport {
				t.Fatalf("IsTransport = %v, want %v (%v)", IsTransport(err), tc.transport, err)
			}
			if IsNotLoggedIn(err) != tc.notLogged {
				t.Fatalf("IsNotLoggedIn = %v, want %v", IsNotLoggedIn(err), tc.notLogged)
			}
			if msg, _ := AppMessage(err); msg != tc.message {
				t.Fatalf("AppMessage = %q, want %q", msg, tc.message)
			}
		})
	}
}

func TestProfilesAcceptNumericIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get-profiles/":
			_, _ = io.WriteString(w, `{"success":true,"profiles":[{"id":1717000000000,"name":"Asha","category":"women","measurements":{},"fit":{}}]}`)
		case "/api/get-profile/1717000000000/":
			_, _ = io.WriteString(w, `{"success":true,"profile":{"id":"1717000000000","name":"Asha"}}`)
		default:
			_, _ = io.WriteString(w, `{"success":false,"error":"Profile not found"}`)
		}
	})
	ctx := context.Background()

	list, err := c.GetProfiles(ctx)
	if err != nil {
		t.Fatalf("GetProfiles: %v", err)
	}
	if len(list) != 1 || list[0].ID != "1717000000000" {
		t.Fatalf("unexpected profiles %+v", list)
	}
	p, err := c.GetProfile(ctx, list[0].ID)
	if err != nil || p.Name != "Asha" {
		t.Fatalf("GetProfile: %+v, %v", p, err)
	}
	if _, err := c.GetProfile(ctx, "2"); err == nil {
		t.Fatal("expected profile not found")
	} else if msg, _ := AppMessage(err); msg != "Profile not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGetProfilesWithoutSuccessField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"history":[]}`)
	})
	list, err := c.GetProfiles(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected an empty list, got %v, %v", list, err)
	}
}

func TestBaseURLTrimsSlash(t *testing.T) {
	c := NewClientWithHTTP("http://localhost:8000/", &http.Client{})
	if c.BaseURL() != "http://localhost:8000" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}
