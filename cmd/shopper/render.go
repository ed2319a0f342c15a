package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/ui"
)

// terminal 把渲染指令打印到终端。流式帧只输出新增的部分。
type terminal struct {
	mu       sync.Mutex
	out      io.Writer
	printed  int
	sessions []model.SessionSummary
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) Render(e ui.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := e.(type) {
	case ui.MessageAppended:
		if ev.Message.Role == model.RoleUser {
			line := ev.Message.Text
			if ev.Message.Attachment != "" {
				line += " [image]"
			}
			fmt.Fprintf(t.out, "you> %s\n", line)
		} else {
			fmt.Fprintf(t.out, "ai > %s\n", ev.Message.Text)
		}
	case ui.SendFailed:
		fmt.Fprintf(t.out, "     (not delivered)\n")
	case ui.LoaderShown:
		fmt.Fprint(t.out, "ai > ...")
	case ui.LoaderHidden:
		fmt.Fprint(t.out, "\r")
	case ui.StreamStarted:
		t.printed = 0
		fmt.Fprint(t.out, "ai > ")
	case ui.StreamFrame:
		// Visible 是完整前缀
		if len(ev.Visible) > t.printed {
			fmt.Fprint(t.out, ev.Visible[t.printed:])
			t.printed = len(ev.Visible)
		}
	case ui.StreamFinished:
		if len(ev.Text) > t.printed {
			fmt.Fprint(t.out, ev.Text[t.printed:])
		}
		fmt.Fprintln(t.out)
		t.printed = 0
	case ui.Suggestions:
		fmt.Fprintf(t.out, "     suggestions: %s\n", strings.Join(ev.Labels, " | "))
	case ui.ProductActions:
		for _, p := range ev.Products {
			fmt.Fprintf(t.out, "     shop: %s -> %s  (/tryon %s)\n", p.Name, p.ShopURL, p.Name)
		}
	case ui.Notice:
		fmt.Fprintf(t.out, "ai > %s\n", ev.Text)
	case ui.ProfileChoices:
		fmt.Fprintln(t.out, "     choose a profile with /use <id>:")
		for _, p := range ev.Profiles {
			fmt.Fprintf(t.out, "       %s  %s (%s)\n", p.ID, p.Name, p.Category)
		}
	case ui.ShoppingForm:
		fmt.Fprintln(t.out, "     shopping preferences: /shop <budget> <platform,...> [brand,...]")
		fmt.Fprintf(t.out, "       platforms: %s\n", strings.Join(ev.Platforms, ", "))
		fmt.Fprintf(t.out, "       brands:    %s\n", strings.Join(ev.Brands, ", "))
	case ui.InlineError:
		fmt.Fprintf(t.out, "!!   %s\n", ev.Text)
	case ui.Redirect:
		fmt.Fprintf(t.out, "-->  %s\n", ev.Target)
	case ui.Reset:
		fmt.Fprintln(t.out, "---------------- new conversation ----------------")
	case ui.SessionsListed:
		t.sessions = ev.Sessions
		if len(ev.Sessions) == 0 {
			fmt.Fprintln(t.out, "     (no saved chats)")
		}
		for _, s := range ev.Sessions {
			marker := " "
			if s.SessionID == ev.ActiveID {
				marker = "*"
			}
			fmt.Fprintf(t.out, "   %s %s  %s\n", marker, s.SessionID, s.Title)
		}
	case ui.ToastShown:
		fmt.Fprintf(t.out, "[%s]\n", ev.Message)
	case ui.ToastHidden:
	case ui.TryOnStarted:
		fmt.Fprintf(t.out, "     rendering %s on %s...\n", ev.Item, ev.ProfileName)
	case ui.TryOnResult:
		label := "generated"
		if ev.Fallback {
			label = "reference"
		}
		fmt.Fprintf(t.out, "     try-on %s (%s): %s\n", ev.Item, label, abbreviate(ev.Generated))
	case ui.TryOnClosed:
		fmt.Fprintln(t.out, "     try-on closed")
	}
}

// lastSessions 返回最近一次列出的会话。
func (t *terminal) lastSessions() []model.SessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.SessionSummary(nil), t.sessions...)
}

func (t *terminal) println(a ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, a...)
}

func abbreviate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
