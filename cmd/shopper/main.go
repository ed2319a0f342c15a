// Package main 是终端购物助手客户端的入口。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"opuluxe-go/internal/auth"
	"opuluxe-go/internal/chat"
	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/config"
	"opuluxe-go/internal/i18n"
	"opuluxe-go/internal/notify"
	"opuluxe-go/internal/profiles"
	"opuluxe-go/internal/widget"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/kv"
	"opuluxe-go/pkg/log"
)

// app 持有终端客户端的全部组件。
type app struct {
	term      *terminal
	state     *clientstate.State
	tr        *i18n.Translator
	defLang   string
	chat      *chat.Controller
	auth      *auth.Controller
	profiles  *profiles.Manager
	selector  *widget.ProfileSelector
	shopping  *widget.ShoppingForm
	tryOn     *widget.TryOn
	toaster   *notify.Toaster
	attachURL string
}

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	store, err := kv.Open(cfg.Store)
	if err != nil {
		log.Fatal("无法打开本地状态存储", err)
	}
	defer store.Close()

	term := newTerminal(os.Stdout)
	state := clientstate.New(store)
	client := api.NewClient(cfg.Backend)
	tr := i18n.New()
	toaster := notify.NewToaster(term, cfg.Toast.Duration)
	defer toaster.Close()

	ctrl := chat.NewController(client, state, term, toaster, tr, chat.Options{
		ChunkSize:       cfg.Chat.ChunkSize,
		Interval:        cfg.Chat.TickInterval,
		Suggestions:     cfg.Chat.Suggestions,
		DefaultLanguage: cfg.I18n.DefaultLanguage,
	})
	defer ctrl.Close()

	mgr := profiles.NewManager(client, state, toaster)
	a := &app{
		term:     term,
		state:    state,
		tr:       tr,
		defLang:  cfg.I18n.DefaultLanguage,
		chat:     ctrl,
		auth:     auth.NewController(client, state, term),
		profiles: mgr,
		selector: widget.NewProfileSelector(state, term, ctrl),
		shopping: widget.NewShoppingForm(state, term, toaster, ctrl),
		tryOn:    widget.NewTryOn(client, state, mgr, term, toaster),
		toaster:  toaster,
	}
	ctrl.AttachWidgets(&widget.Set{Profiles: a.selector, Shopping: a.shopping})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.banner(ctx)
	if state.LoggedIn(ctx) {
		if _, err := mgr.ListProfiles(ctx); err != nil {
			log.Warnw("failed to load profiles", "error", err)
		}
		if err := ctrl.Restore(ctx); err != nil {
			log.Warnw("failed to restore last chat", "error", err)
		}
	}

	a.loop(ctx, newInputScanner(os.Stdin))
}

// banner 打印当前语言下的标题与提示。
func (a *app) banner(ctx context.Context) {
	lang := a.state.Language(ctx, a.defLang)
	nodes := a.tr.Apply(lang, []i18n.Node{
		{ID: "title", Key: "app_name", Text: "OPULUXE AI"},
		{ID: "desc", Key: "welcome_desc"},
		{ID: "input", PlaceholderKey: "input_placeholder", Placeholder: "Ask about outfits, trends or fit..."},
	})
	a.term.println(nodes[0].Text)
	// 介绍文字每次运行只显示一次
	if nodes[1].Text != "" && !a.state.IntroShown(ctx) {
		a.term.println(nodes[1].Text)
		_ = a.state.MarkIntroShown(ctx)
	}
	a.term.println(nodes[2].Placeholder, "(/help for commands)")
}

// 粘贴的长文本可能超过 bufio 默认的 64 KiB
const maxInputLine = 1 << 20

func newInputScanner(r io.Reader) *bufio.Scanner {
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	return in
}

func (a *app) loop(ctx context.Context, in *bufio.Scanner) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for in.Scan() {
			select {
			case lines <- in.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := in.Err(); err != nil {
			log.Error("failed to read input", err)
			a.term.println(fmt.Sprintf("!!   input stopped: %v", err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") {
				if quit := a.command(ctx, line); quit {
					return
				}
				continue
			}
			a.send(ctx, line)
		}
	}
}

func (a *app) send(ctx context.Context, text string) {
	attachment := a.attachURL
	if err := a.chat.SendMessage(ctx, text, attachment); err != nil {
		a.term.println(fmt.Sprintf("!!   %v", err))
		return
	}
	a.attachURL = ""
	_ = a.chat.Wait(ctx)
}
