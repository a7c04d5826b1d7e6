// Package ocr 定义了从图片中提取文字的引擎接口及其实现。
// 引擎被当作黑盒调用：原始图片字节进，纯文本出，不做任何预处理或后处理。
package ocr

import (
	"context"
	"fmt"
	"strings"

	"design-o-pedia-go/pkg/tika"
)

// Engine 是 OCR 引擎的能力接口。识别不出文字时返回空字符串而不是错误。
type Engine interface {
	Name() string
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// NewEngine 根据名称创建 OCR 引擎，支持 "tesseract" 与 "tika"。
func NewEngine(name string, languages []string, tikaClient *tika.Client) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "tesseract":
		return NewTesseractEngine(languages...), nil
	case "tika":
		if tikaClient == nil {
			return nil, fmt.Errorf("ocr engine %q requires a tika client", name)
		}
		return NewTikaEngine(tikaClient, languages...), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", name)
	}
}
