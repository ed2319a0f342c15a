package chat

import (
	"context"
	"time"
)

const (
	DefaultChunkSize = 2
	DefaultInterval  = 20 * time.Millisecond
)

// Typewriter 按固定节奏逐块显示文本。块大小以 rune 计，不会切开多字节字符。
type Typewriter struct {
	ChunkSize int
	Interval  time.Duration
}

// Frames 返回逐步增长的前缀序列，最后一项总是完整的 text。
func (tw Typewriter) Frames(text string) []string {
	size := tw.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	frames := make([]string, 0, len(runes)/size+1)
	for i := size; ; i += size {
		if i >= len(runes) {
			frames = append(frames, text)
			return frames
		}
		frames = append(frames, string(runes[:i]))
	}
}

// Run 每个 tick 调用一次 frame。ctx 取消时立即返回 ctx.Err()，之后不再调用 frame。
// frame 返回 false 也会终止输出。
func (tw Typewriter) Run(ctx context.Context, text string, frame func(visible string) bool) error {
	interval := tw.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, visible := range tw.Frames(text) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !frame(visible) {
			return context.Canceled
		}
	}
	return nil
}
