package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"opuluxe-go/internal/config"
	"opuluxe-go/pkg/attachment"
	"opuluxe-go/pkg/log"
)

// ErrNoImage 表示模型没有返回图片。
var ErrNoImage = errors.New("generation returned no image")

// ImageGenerator 生成试穿效果图，返回 data: URL。
type ImageGenerator interface {
	TryOn(ctx context.Context, item, gender, photo string) (string, error)
}

// TryOnPrompt 生成换装提示词。
func TryOnPrompt(item string) string {
	return fmt.Sprintf("FASHION TRY-ON: Edit this photo to dress the person in the following item: %s. "+
		"The original person and pose must be preserved exactly. Only the clothing should be changed. "+
		"Ensure ultra-realistic texture and high-end fashion catalog quality.", item)
}

// NewImageGenerator creates an image generator based on the try-on driver in the config.
func NewImageGenerator(ctx context.Context, cfg config.TryOnConfig) (ImageGenerator, error) {
	switch cfg.Driver {
	case "", "scripted":
		return ScriptedImageGenerator{}, nil
	case "gemini":
		return NewGeminiImageGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown tryon driver %q", cfg.Driver)
	}
}

// ScriptedImageGenerator 原样返回用户照片。
type ScriptedImageGenerator struct{}

func (ScriptedImageGenerator) TryOn(_ context.Context, _, _, photo string) (string, error) {
	if strings.TrimSpace(photo) == "" {
		return "", ErrNoImage
	}
	return photo, nil
}

type geminiImageGenerator struct {
	client *genai.Client
	models []string
}

// NewGeminiImageGenerator 按顺序尝试 cfg.Models，直到某个模型返回图片。
func NewGeminiImageGenerator(ctx context.Context, cfg config.TryOnConfig) (ImageGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tryon.api_key is required for the gemini driver")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	models := cfg.Models
	if len(models) == 0 {
		models = []string{"gemini-2.5-flash-image"}
	}
	return &geminiImageGenerator{client: client, models: models}, nil
}

func (g *geminiImageGenerator) TryOn(ctx context.Context, item, gender, photo string) (string, error) {
	mime, data, err := attachment.Decode(photo)
	if err != nil {
		// 兼容不带前缀的纯 base64
		raw, decErr := base64.StdEncoding.DecodeString(photo)
		if decErr != nil {
			return "", fmt.Errorf("invalid user photo: %w", err)
		}
		mime, data = "image/png", raw
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mime),
			genai.NewPartFromText(TryOnPrompt(item)),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE", "TEXT"}}

	var lastErr error = ErrNoImage
	for _, m := range g.models {
		res, err := g.client.Models.GenerateContent(ctx, m, contents, cfg)
		if err != nil {
			log.Warnw("try-on model failed", "model", m, "error", err)
			lastErr = err
			continue
		}
		if img := firstImage(res); img != nil {
			log.Infow("try-on generated", "model", m, "item", item, "gender", gender)
			return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
		}
		log.Warnw("try-on model returned no inline image", "model", m)
	}
	return "", lastErr
}

func firstImage(res *genai.GenerateContentResponse) *genai.Blob {
	if res == nil {
		return nil
	}
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				if p.InlineData.MIMEType == "" {
					p.InlineData.MIMEType = "image/png"
				}
				return p.InlineData
			}
		}
	}
	return nil
}
