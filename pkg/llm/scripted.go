package llm

import (
	"context"
	"strings"

	"opuluxe-go/internal/model"
)

// scriptedClient 按关键词返回固定回复，用于离线开发与测试，完整走一遍
// 选档案 -> 填偏好 -> 推荐商品 的流程。
type scriptedClient struct{}

func NewScriptedClient() Client { return scriptedClient{} }

var outfitKeywords = []string{"wear", "outfit", "suggest", "recommend", "fit", "dress", "look"}

const (
	askProfileReply = "I would love to style you. To get the fit right, please pick one of your saved measurement profiles. [NEED_PROFILE_SELECTION]"
	askDetailsReply = "Thank you, I have your measurements. Before I suggest pieces, tell me your budget, preferred platforms and brands. [NEED_SHOPPING_DETAILS]"
	productsReply   = "Here are my picks for you:\n\n" +
		"1. **Navy Linen Blazer** - breathable and sharp for evening events.\n" +
		"2. **White Oxford Shirt** - a crisp base layer that pairs with everything.\n" +
		"3. **Tan Chino Trousers** - a relaxed taper that suits your measurements.\n\n" +
		"Tap a piece to shop it or try it on."
	genericReply = "I am your Opuluxe fashion consultant. Ask me what to wear for any occasion and I will put together a look for you."
)

func (scriptedClient) Reply(_ context.Context, _ []model.Message, message string) (string, error) {
	switch {
	case strings.Contains(message, "Budget:"):
		return productsReply, nil
	case strings.Contains(message, "My measurements are"):
		return askDetailsReply, nil
	}
	lower := strings.ToLower(message)
	for _, kw := range outfitKeywords {
		if strings.Contains(lower, kw) {
			return askProfileReply, nil
		}
	}
	return genericReply, nil
}
