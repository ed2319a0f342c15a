// Package ui 定义控制器输出的渲染指令，以及消费这些指令的 Renderer 接口。
//
// 控制器只产生事件，不关心事件最终被画到终端、网页还是测试记录器上。
package ui

import "opuluxe-go/internal/model"

// Event 是一条渲染指令。
type Event interface {
	event()
}

// Renderer 消费渲染指令。实现需要能被多个 goroutine 调用。
type Renderer interface {
	Render(Event)
}

// RenderFunc 把普通函数适配为 Renderer。
type RenderFunc func(Event)

func (f RenderFunc) Render(e Event) { f(e) }

// Discard 丢弃所有事件。
var Discard Renderer = RenderFunc(func(Event) {})

// MessageAppended 表示时间线末尾追加了一条消息。
type MessageAppended struct {
	Index   int
	Message model.Message
}

// SendFailed 标记 Index 处的用户消息没有拿到回复。消息本身保留在时间线中。
type SendFailed struct {
	Index int
}

type LoaderShown struct{}

type LoaderHidden struct{}

// StreamStarted 表示开始逐步显示一条助手回复。
type StreamStarted struct{}

// StreamFrame 携带当前已显示的完整前缀，而不是增量。
type StreamFrame struct {
	Visible string
}

type StreamFinished struct {
	Text string
}

type Suggestions struct {
	Labels []string
}

// ProductAction 对应回复中识别出的一件商品。
type ProductAction struct {
	Name    string
	ShopURL string
}

type ProductActions struct {
	Products []ProductAction
}

// Notice 是一条只显示、不计入会话历史的助手提示。
type Notice struct {
	Text string
}

// ProfileChoices 展示可选择的尺寸档案。
type ProfileChoices struct {
	Profiles []model.Profile
}

// ShoppingForm 展示预算、平台与品牌的偏好表单。
type ShoppingForm struct {
	Platforms []string
	Brands    []string
}

type InlineError struct {
	Text string
}

// Redirect 要求界面导航到 Target。
type Redirect struct {
	Target string
}

// Reset 清空时间线。
type Reset struct{}

type SessionsListed struct {
	Sessions []model.SessionSummary
	ActiveID string
}

type ToastShown struct {
	Message string
	Icon    string
}

type ToastHidden struct{}

type TryOnStarted struct {
	Item        string
	ProfileName string
}

// TryOnResult 携带原图与生成图；Fallback 为 true 时生成图是参考图。
type TryOnResult struct {
	Item      string
	Original  string
	Generated string
	Fallback  bool
}

type TryOnClosed struct{}

func (MessageAppended) event() {}
func (SendFailed) event()      {}
func (LoaderShown) event()     {}
func (LoaderHidden) event()    {}
func (StreamStarted) event()   {}
func (StreamFrame) event()     {}
func (StreamFinished) event()  {}
func (Suggestions) event()     {}
func (ProductActions) event()  {}
func (Notice) event()          {}
func (ProfileChoices) event()  {}
func (ShoppingForm) event()    {}
func (InlineError) event()     {}
func (Redirect) event()        {}
func (Reset) event()           {}
func (SessionsListed) event()  {}
func (ToastShown) event()      {}
func (ToastHidden) event()     {}
func (TryOnStarted) event()    {}
func (TryOnResult) event()     {}
func (TryOnClosed) event()     {}
