// Package attachment 把本地图片编码为 data: URL，用于聊天附件与档案照片。
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSize 限制单个附件的原始大小。
const MaxSize = 8 << 20

var (
	ErrNotImage = errors.New("attachment is not an image")
	ErrTooLarge = errors.New("attachment exceeds size limit")
)

// Encode 根据内容识别 MIME 类型并返回 data: URL，只接受图片。
func Encode(data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadFile 读取 path 并编码为 data: URL。
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}
	return Encode(data)
}

// Decode 解析 base64 编码的 data: URL，返回 MIME 类型与原始内容。
func Decode(dataURL string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URL encoding")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return strings.TrimSuffix(meta, ";base64"), data, nil
}
