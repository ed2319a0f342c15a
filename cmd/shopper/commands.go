package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opuluxe-go/internal/auth"
	"opuluxe-go/internal/chat"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/profiles"
	"opuluxe-go/pkg/attachment"
)

const helpText = `commands:
  /login <email> <password>            /signup <email> <password> <confirm>
  /logout                              /new
  /sessions [filter]                   /open <id>      /delete <id>    /share <id>
  /profiles                            /profile-add <name> <men|women> key=value... [photo=<path>]
  /profile-edit <id>                   /profile-del <id>
  /use <profile-id>                    /shop <budget> <platform,...> [brand,...]
  /tryon <item>                        /attach <image-path>
  /lang <en|hi|ta>                     /quit`

// command 执行一条斜杠命令，返回 true 表示退出。
func (a *app) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, name))

	var err error
	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		a.term.println(helpText)
	case "/login":
		err = a.needArgs(args, 2, func() error { return a.auth.Login(ctx, args[0], args[1]) })
		if err == nil {
			a.afterLogin(ctx)
		}
	case "/signup":
		err = a.needArgs(args, 3, func() error { return a.auth.Signup(ctx, args[0], args[1], args[2]) })
		if err == nil {
			a.afterLogin(ctx)
		}
	case "/logout":
		a.chat.StartNewSession(ctx)
		err = a.auth.Logout(ctx)
	case "/new":
		a.chat.StartNewSession(ctx)
	case "/sessions":
		if rest == "" {
			err = a.chat.ListSessions(ctx)
			break
		}
		for _, s := range chat.FilterSessions(a.term.lastSessions(), rest) {
			a.term.println("    ", s.SessionID, "", s.Title)
		}
	case "/open":
		err = a.needArgs(args, 1, func() error { return a.chat.OpenSession(ctx, args[0]) })
	case "/delete":
		err = a.needArgs(args, 1, func() error { return a.chat.DeleteSession(ctx, args[0]) })
	case "/share":
		err = a.needArgs(args, 1, func() error {
			a.term.println(a.chat.ShareURL(args[0]))
			a.toaster.Show(a.tr.T(a.state.Language(ctx, a.defLang), "link_copied"), "ri-links-line")
			return nil
		})
	case "/profiles":
		var list []model.Profile
		if list, err = a.profiles.ListProfiles(ctx); err == nil {
			for _, p := range list {
				a.term.println("    ", p.ID, p.Name, "("+string(p.Category)+")")
			}
		}
	case "/profile-add":
		err = a.needArgs(args, 2, func() error { return a.saveProfile(ctx, args) })
	case "/profile-edit":
		err = a.needArgs(args, 1, func() error {
			p, err := a.profiles.Edit(ctx, model.ProfileID(args[0]))
			if err == nil {
				a.term.println("editing", p.Name, "- the next /profile-add updates this profile")
			}
			return err
		})
	case "/profile-del":
		err = a.needArgs(args, 1, func() error { return a.profiles.DeleteProfile(ctx, model.ProfileID(args[0])) })
	case "/use":
		err = a.needArgs(args, 1, func() error { return a.selector.UseProfile(ctx, model.ProfileID(args[0])) })
		_ = a.chat.Wait(ctx)
	case "/shop":
		err = a.needArgs(args, 2, func() error {
			var brands []string
			if len(args) > 2 {
				brands = strings.Split(args[2], ",")
			}
			return a.shopping.Confirm(ctx, args[0], strings.Split(args[1], ","), brands)
		})
		_ = a.chat.Wait(ctx)
	case "/tryon":
		if rest == "" {
			err = fmt.Errorf("usage: /tryon <item>")
			break
		}
		err = a.tryOn.Start(ctx, rest)
	case "/attach":
		if rest == "" {
			err = fmt.Errorf("usage: /attach <image-path>")
			break
		}
		a.attachURL, err = attachment.ReadFile(rest)
		if err == nil {
			a.term.println("     image attached to your next message")
		}
	case "/lang":
		err = a.needArgs(args, 1, func() error { return a.switchLanguage(ctx, args[0]) })
	default:
		err = fmt.Errorf("unknown command %s (try /help)", name)
	}
	if err != nil && !alreadyRendered(err) {
		a.term.println(fmt.Sprintf("!!   %v", err))
	}
	return false
}

// alreadyRendered 报告 err 是否已经以 InlineError 的形式显示过。
func alreadyRendered(err error) bool {
	var fe *auth.FailureError
	return errors.As(err, &fe)
}

func (a *app) needArgs(args []string, n int, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("expected %d argument(s), see /help", n)
	}
	return fn()
}

func (a *app) afterLogin(ctx context.Context) {
	_, _ = a.profiles.ListProfiles(ctx)
	_ = a.chat.Restore(ctx)
}

// saveProfile 解析 "/profile-add 名称 品类 key=value..."，photo= 指向本地图片。
func (a *app) saveProfile(ctx context.Context, args []string) error {
	d := profiles.Draft{
		Name:         args[0],
		Category:     model.Category(strings.ToLower(args[1])),
		Measurements: map[string]string{},
	}
	fit := model.Fit{}
	for _, kv := range args[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", kv)
		}
		switch k {
		case "photo":
			photo, err := attachment.ReadFile(v)
			if err != nil {
				return err
			}
			d.Photo = photo
		case "fit":
			fit.Type = v
		case "comfort":
			fit.Comfort = v
		case "rise":
			fit.Waist = v
		case "notes":
			fit.Notes = v
		default:
			d.Measurements[k] = v
		}
	}
	d.Fit = &fit
	_, err := a.profiles.SaveMeasurements(ctx, d)
	return err
}

func (a *app) switchLanguage(ctx context.Context, lang string) error {
	msg, err := a.tr.ChangeLanguage(ctx, a.state, lang)
	if err != nil {
		return fmt.Errorf("%v (available: %s)", err, strings.Join(a.tr.Languages(), ", "))
	}
	a.toaster.Show(msg, "ri-translate-2")
	a.banner(ctx)
	return nil
}
