// Package chat 实现对话会话控制器：发送消息、逐步渲染回复、管理会话列表。
//
// 控制器不直接绘制界面，所有可见的变化都以 ui.Event 的形式交给 ui.Renderer。
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"opuluxe-go/internal/clientstate"
	"opuluxe-go/internal/i18n"
	"opuluxe-go/internal/model"
	"opuluxe-go/internal/ui"
	"opuluxe-go/pkg/api"
	"opuluxe-go/pkg/log"
	"opuluxe-go/pkg/shop"
)

var (
	// ErrBusy 表示上一条消息仍在发送或渲染。
	ErrBusy = errors.New("a message is already being processed")
	// ErrEmptyMessage 表示文本与附件都为空。
	ErrEmptyMessage = errors.New("message is empty")
)

const (
	networkErrorText = "Network error occurred."
	loginPage        = "/"
)

// Notifier 显示一条短暂提示。
type Notifier interface {
	Show(msg, icon string)
}

// WidgetInjector 在回复渲染完成后弹出回复所要求的组件。
type WidgetInjector interface {
	Inject(ctx context.Context, kind WidgetKind)
}

// Options 控制逐步渲染的节奏与附加内容。
type Options struct {
	ChunkSize       int
	Interval        time.Duration
	Suggestions     []string
	DefaultLanguage string
}

// Controller 持有一个对话会话的全部状态。同一时间只允许一条消息在处理中。
type Controller struct {
	client   api.Client
	state    *clientstate.State
	renderer ui.Renderer
	notifier Notifier
	tr       *i18n.Translator
	writer   Typewriter
	opts     Options

	mu        sync.Mutex
	widgets   WidgetInjector
	messages  []model.Message
	sessionID string
	busy      bool
	// gen 在会话被重置时递增，旧的请求与渲染据此丢弃自己的输出
	gen          uint64
	cancelRender context.CancelFunc
	pending      int
	idle         chan struct{}
}

func NewController(client api.Client, state *clientstate.State, renderer ui.Renderer,
	notifier Notifier, tr *i18n.Translator, opts Options) *Controller {
	if opts.Suggestions == nil {
		opts.Suggestions = []string{"Tell me more"}
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	if tr == nil {
		tr = i18n.New()
	}
	if renderer == nil {
		renderer = ui.Discard
	}
	idle := make(chan struct{})
	close(idle)
	return &Controller{
		client:   client,
		state:    state,
		renderer: renderer,
		notifier: notifier,
		tr:       tr,
		writer:   Typewriter{ChunkSize: opts.ChunkSize, Interval: opts.Interval},
		opts:     opts,
		idle:     idle,
	}
}

// AttachWidgets 设置回复标记对应的组件。组件通常又依赖控制器来发送消息，所以在构造之后设置。
func (c *Controller) AttachWidgets(w WidgetInjector) {
	c.mu.Lock()
	c.widgets = w
	c.mu.Unlock()
}

// SessionID 返回当前会话 id，未保存的会话返回空串。
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Messages 返回时间线的副本。
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// acquire/release 统计进行中的请求与渲染，供 Wait 使用。调用方必须持有 c.mu。
func (c *Controller) acquire() {
	if c.pending == 0 {
		c.idle = make(chan struct{})
	}
	c.pending++
}

func (c *Controller) release() {
	c.pending--
	if c.pending == 0 {
		close(c.idle)
	}
}

// Wait 阻塞直到没有进行中的发送、渲染与组件回调。
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) language(ctx context.Context) string {
	if c.state == nil {
		return c.opts.DefaultLanguage
	}
	return c.state.Language(ctx, c.opts.DefaultLanguage)
}

func (c *Controller) toast(msg, icon string) {
	if c.notifier != nil {
		c.notifier.Show(msg, icon)
	}
}

// SendMessage 发送一条用户消息并等待后端回复。回复的逐步渲染在后台继续，可用 Wait 等待结束。
// 后端或网络失败不会作为错误返回，而是渲染为界面事件。
func (c *Controller) SendMessage(ctx context.Context, text, attachment string) error {
	text = strings.TrimSpace(text)
	if text == "" && attachment == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.acquire()
	gen := c.gen
	msg := model.Message{Role: model.RoleUser, Text: text, Attachment: attachment}
	c.messages = append(c.messages, msg)
	index := len(c.messages) - 1
	history := make([]model.Message, len(c.messages))
	copy(history, c.messages)
	var sessionID *string
	if c.sessionID != "" {
		id := c.sessionID
		sessionID = &id
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.release()
		c.mu.Unlock()
	}()

	c.renderer.Render(ui.MessageAppended{Index: index, Message: msg})
	c.renderer.Render(ui.LoaderShown{})

	req := model.ChatRequest{Message: text, History: history, SessionID: sessionID}
	if attachment != "" {
		req.Image = &attachment
	}
	resp, err := c.client.Chat(ctx, req)
	c.renderer.Render(ui.LoaderHidden{})

	c.mu.Lock()
	if c.gen != gen {
		// 等待回复期间会话已被切换
		c.mu.Unlock()
		log.Infow("dropping reply for a replaced session", "error", err)
		return nil
	}
	if err != nil {
		c.busy = false
		c.mu.Unlock()
		c.renderSendError(ctx, index, err)
		return nil
	}

	reply := ParseReply(resp.Reply)
	if strings.TrimSpace(resp.Reply) == "" {
		c.busy = false
		c.mu.Unlock()
		return nil
	}
	bound := false
	if c.sessionID == "" && resp.SessionID != "" {
		c.sessionID = resp.SessionID
		bound = true
	}
	c.messages = append(c.messages, model.Message{Role: model.RoleAssistant, Text: resp.Reply})
	renderCtx, cancel := context.WithCancel(context.Background())
	c.cancelRender = cancel
	c.acquire()
	c.mu.Unlock()

	if bound && c.state != nil {
		if err := c.state.SetLastSessionID(ctx, resp.SessionID); err != nil {
			log.Error("failed to persist active session", err)
		}
	}

	go c.renderIncremental(renderCtx, gen, reply)

	_ = c.ListSessions(ctx)
	return nil
}

func (c *Controller) renderSendError(ctx context.Context, index int, err error) {
	log.Warnw("chat request failed", "error", err)
	c.renderer.Render(ui.SendFailed{Index: index})

	if api.IsNotLoggedIn(err) {
		if c.state != nil {
			if err := c.state.SetLoggedIn(ctx, false); err != nil {
				log.Error("failed to clear login flag", err)
			}
		}
		c.renderer.Render(ui.Redirect{Target: loginPage})
		return
	}
	if msg, ok := api.AppMessage(err); ok {
		c.renderer.Render(ui.InlineError{Text: "Error: " + msg})
		return
	}
	c.renderer.Render(ui.InlineError{Text: networkErrorText})
}

// emit 仅在 gen 仍是当前代时渲染 e；持锁渲染保证重置之后不会再出现旧帧。
func (c *Controller) emit(gen uint64, e ui.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.renderer.Render(e)
	return true
}

// renderIncremental 逐块显示回复，结束后清除忙碌状态，再弹出回复要求的组件。
func (c *Controller) renderIncremental(ctx context.Context, gen uint64, reply Reply) {
	defer func() {
		c.mu.Lock()
		c.release()
		c.mu.Unlock()
	}()

	if reply.Text != "" {
		if !c.emit(gen, ui.StreamStarted{}) {
			return
		}
		err := c.writer.Run(ctx, reply.Text, func(visible string) bool {
			return c.emit(gen, ui.StreamFrame{Visible: visible})
		})
		if err != nil {
			log.Debugw("reply rendering stopped", "error", err)
			return
		}
		if !c.emit(gen, ui.StreamFinished{Text: reply.Text}) {
			return
		}
		if len(c.opts.Suggestions) > 0 {
			c.emit(gen, ui.Suggestions{Labels: c.opts.Suggestions})
		}
		c.emitProducts(gen, reply.Text)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.busy = false
	c.cancelRender = nil
	widgets := c.widgets
	c.mu.Unlock()

	if widgets == nil {
		return
	}
	for _, kind := range reply.Widgets {
		widgets.Inject(context.Background(), kind)
	}
}

func (c *Controller) emitProducts(gen uint64, text string) {
	names := shop.DetectProducts(text)
	if len(names) == 0 {
		return
	}
	var platforms []string
	if c.state != nil {
		platforms = c.state.SelectedPlatforms(context.Background())
	}
	platform := shop.PreferredPlatform(platforms)
	actions := make([]ui.ProductAction, 0, len(names))
	for _, name := range names {
		actions = append(actions, ui.ProductAction{Name: name, ShopURL: shop.ProductURL(name, platform)})
	}
	c.emit(gen, ui.ProductActions{Products: actions})
}

// reset 清空时间线并使进行中的请求与渲染失效。调用方必须持有 c.mu。
func (c *Controller) reset(messages []model.Message, sessionID string) {
	c.gen++
	if c.cancelRender != nil {
		c.cancelRender()
		c.cancelRender = nil
	}
	c.busy = false
	c.messages = messages
	c.sessionID = sessionID
}

// StartNewSession 开始一个尚未保存的新会话。
func (c *Controller) StartNewSession(ctx context.Context) {
	c.mu.Lock()
	c.reset(nil, "")
	c.renderer.Render(ui.Reset{})
	c.mu.Unlock()

	if c.state != nil {
		if err := c.state.ClearLastSessionID(ctx); err != nil {
			log.Error("failed to clear active session", err)
		}
	}
	c.toast(c.tr.T(c.language(ctx), "chat_started"), "ri-chat-new-line")
}

// OpenSession 加载已保存的会话并整体替换当前状态。加载失败时当前状态保持不变。
func (c *Controller) OpenSession(ctx context.Context, id string) error {
	stored, err := c.client.ChatSession(ctx, id)
	if err != nil {
		log.Warnw("failed to load chat session", "session_id", id, "error", err)
		if api.IsNotLoggedIn(err) {
			c.renderer.Render(ui.Redirect{Target: loginPage})
			return err
		}
		c.toast("Could not load chat", "ri-error-warning-line")
		return err
	}

	// 时间线保留原始文本（含标记），与发送时的历史一致；只有显示时去掉标记
	messages := make([]model.Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, m.ToMessage())
	}

	c.mu.Lock()
	c.reset(messages, id)
	gen := c.gen
	c.renderer.Render(ui.Reset{})
	var shown []string
	for i, msg := range messages {
		view := msg
		if msg.Role == model.RoleAssistant {
			view.Text = ParseReply(msg.Text).Text
			if view.Text == "" {
				continue
			}
			shown = append(shown, view.Text)
		}
		c.renderer.Render(ui.MessageAppended{Index: i, Message: view})
	}
	c.mu.Unlock()

	for _, text := range shown {
		c.emitProducts(gen, text)
	}

	if c.state != nil {
		if err := c.state.SetLastSessionID(ctx, id); err != nil {
			log.Error("failed to persist active session", err)
		}
	}
	_ = c.ListSessions(ctx)
	return nil
}

// ListSessions 拉取会话列表并渲染。未登录时跳转到登录页。
func (c *Controller) ListSessions(ctx context.Context) error {
	sessions, err := c.client.ChatHistory(ctx)
	if err != nil {
		log.Warnw("failed to load chat history", "error", err)
		if api.IsNotLoggedIn(err) {
			c.renderer.Render(ui.Redirect{Target: loginPage})
		}
		return err
	}
	c.renderer.Render(ui.SessionsListed{Sessions: sessions, ActiveID: c.SessionID()})
	return nil
}

// DeleteSession 删除会话；删除的是当前会话时等同于开始新会话。
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	if err := c.client.DeleteChat(ctx, id); err != nil {
		log.Warnw("failed to delete chat session", "session_id", id, "error", err)
		return err
	}
	if c.SessionID() == id {
		c.StartNewSession(ctx)
	}
	_ = c.ListSessions(ctx)
	c.toast(c.tr.T(c.language(ctx), "chat_deleted"), "ri-delete-bin-line")
	return nil
}

// Restore 在启动时刷新会话列表，并重新打开上次的活动会话。
func (c *Controller) Restore(ctx context.Context) error {
	if err := c.ListSessions(ctx); err != nil && api.IsNotLoggedIn(err) {
		return err
	}
	if c.state == nil {
		return nil
	}
	if id := c.state.LastSessionID(ctx); id != "" {
		return c.OpenSession(ctx, id)
	}
	return nil
}

// ShareURL 返回会话的分享链接。
func (c *Controller) ShareURL(id string) string {
	return c.client.BaseURL() + "/share/" + id
}

// FilterSessions 按标题做不区分大小写的子串过滤；query 为空时返回全部。
func FilterSessions(sessions []model.SessionSummary, query string) []model.SessionSummary {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return sessions
	}
	var out []model.SessionSummary
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.Title), query) {
			out = append(out, s)
		}
	}
	return out
}

// Close 取消进行中的渲染。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancelRender != nil {
		c.cancelRender()
		c.cancelRender = nil
	}
	c.busy = false
}
