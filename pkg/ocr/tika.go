package ocr

import (
	"bytes"
	"context"
	"net/http"

	"design-o-pedia-go/pkg/tika"
)

// TikaEngine 把图片交给 Apache Tika 服务器，由其内置的 Tesseract 解析器完成识别。
type TikaEngine struct {
	client    *tika.Client
	languages []string
}

// NewTikaEngine 创建一个基于 Tika 的引擎。
func NewTikaEngine(client *tika.Client, languages ...string) *TikaEngine {
	return &TikaEngine{client: client, languages: append([]string(nil), languages...)}
}

func (e *TikaEngine) Name() string { return "tika" }

func (e *TikaEngine) ExtractText(ctx context.Context, image []byte) (string, error) {
	return e.client.ExtractText(ctx, bytes.NewReader(image), http.DetectContentType(image), e.languages...)
}
