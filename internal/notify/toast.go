// Package notify 显示短暂的状态提示。
package notify

import (
	"sync"
	"time"

	"opuluxe-go/internal/ui"
)

const DefaultDuration = 3 * time.Second

// Toaster 同一时间只显示一条提示，新提示会取消上一条的隐藏计时器。
type Toaster struct {
	renderer ui.Renderer
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func NewToaster(renderer ui.Renderer, duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toaster{renderer: renderer, duration: duration}
}

// Show 立即显示提示，并在 duration 后发出 ToastHidden。
func (t *Toaster) Show(msg, icon string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.timer = time.AfterFunc(t.duration, func() { t.hide(seq) })
	t.mu.Unlock()

	t.renderer.Render(ui.ToastShown{Message: msg, Icon: icon})
}

// hide 只处理仍是当前提示的计时器，已被替换的计时器即使触发也不再渲染。
func (t *Toaster) hide(seq uint64) {
	t.mu.Lock()
	if seq != t.seq {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()
	t.renderer.Render(ui.ToastHidden{})
}

// Close 取消待执行的计时器。
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
}
