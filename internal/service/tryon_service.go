package service

import (
	"context"
	"strings"

	"opuluxe-go/internal/model"
	"opuluxe-go/pkg/llm"
	"opuluxe-go/pkg/log"
)

// TryOnService 生成试穿效果图。
type TryOnService interface {
	Generate(ctx context.Context, req model.TryOnRequest) (string, error)
}

type tryOnService struct {
	generator llm.ImageGenerator
}

func NewTryOnService(generator llm.ImageGenerator) TryOnService {
	return &tryOnService{generator: generator}
}

// Generate 的任何失败都归并为 ErrGenerationFailed，具体原因只记日志。
func (s *tryOnService) Generate(ctx context.Context, req model.TryOnRequest) (string, error) {
	item := strings.TrimSpace(req.Item)
	if item == "" {
		item = "fashion item"
	}
	gender := req.Gender
	if gender == "" {
		gender = "person"
	}
	image, err := s.generator.TryOn(ctx, item, gender, req.UserPhoto)
	if err != nil || image == "" {
		log.Warnw("try-on generation failed", "item", item, "error", err)
		return "", ErrGenerationFailed
	}
	return image, nil
}
