package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"opuluxe-go/internal/auth"
	"opuluxe-go/internal/clientstate"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/api/apitest"
	"opuluxe-go/pkg/kv"
)

func newTestApp(fake *apitest.Fake) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	term := newTerminal(&out)
	state := clientstate.New(kv.NewMemoryStore())
	return &app{
		term:  term,
		state: state,
		auth:  auth.NewController(fake, state, term),
	}, &out
}

func TestFailedLoginPrintedOnce(t *testing.T) {
	fake := &apitest.Fake{
		LoginFunc: func(context.Context, string, string) error {
			return &api.AppError{Endpoint: "/api/login/", Message: "Invalid credentials"}
		},
		SignupFunc: func(context.Context, string, string) error {
			return &api.AppError{Endpoint: "/api/signup/", Message: "User already exists"}
		},
	}
	a, out := newTestApp(fake)
	ctx := context.Background()

	a.command(ctx, "/login asha@example.com wrong")
	a.command(ctx, "/signup asha@example.com pw pw")
	a.command(ctx, "/signup asha@example.com pw other")

	for _, msg := range []string{
		"Login Failed: Invalid credentials",
		"Signup Error: User already exists",
		"Passwords do not match. Please verify.",
	} {
		if n := strings.Count(out.String(), msg); n != 1 {
			t.Errorf("%q printed %d times:\n%s", msg, n, out.String())
		}
	}
}

func TestCommandErrorsStillPrinted(t *testing.T) {
	a, out := newTestApp(&apitest.Fake{})
	a.command(context.Background(), "/nope")
	if !strings.Contains(out.String(), "unknown command /nope") {
		t.Fatalf("missing error output:\n%s", out.String())
	}
}

func TestInputScannerAcceptsLongLines(t *testing.T) {
	long := strings.Repeat("a", 200*1024)
	in := newInputScanner(strings.NewReader(long + "\n/quit\n"))
	if !in.Scan() || in.Text() != long {
		t.Fatalf("long line not scanned: %v", in.Err())
	}
	if !in.Scan() || in.Text() != "/quit" {
		t.Fatalf("second line = %q", in.Text())
	}
}

func TestLoopReportsInputError(t *testing.T) {
	a, out := newTestApp(&apitest.Fake{})
	tooLong := strings.Repeat("x", maxInputLine+1)

	done := make(chan struct{})
	go func() {
		a.loop(context.Background(), newInputScanner(strings.NewReader(tooLong)))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("loop did not return")
	}
	if !strings.Contains(out.String(), "input stopped") {
		t.Fatalf("input error not reported:\n%s", out.String())
	}
}
