// Package model 包含了应用的数据模型定义。
package model

// Mode 是页面上两个互斥的转换模式之一。
type Mode string

const (
	ModeTextToImage Mode = "text-to-image"
	ModeImageToText Mode = "image-to-text"
)

// ParseMode 解析模式选择器的值，未知值回退到默认的文字转图片模式。
func ParseMode(s string) Mode {
	if Mode(s) == ModeImageToText {
		return ModeImageToText
	}
	return ModeTextToImage
}

// Label 返回模式在页面单选框上的显示文字。
func (m Mode) Label() string {
	if m == ModeImageToText {
		return "Image to Text"
	}
	return "Text to Image"
}

// ConversionRequest 代表一次用户交互携带的全部输入，每次交互都会重新创建，从不持久化。
type ConversionRequest struct {
	Mode          Mode           `json:"mode"`
	Text          string         `json:"text,omitempty"`
	FontSize      int            `json:"fontSize,omitempty"`
	Color         string         `json:"color,omitempty"`
	UploadedImage *UploadedImage `json:"image,omitempty"`
}

// TextToImageRequest 是文字转图片的 API 请求体。
type TextToImageRequest struct {
	Text     string `json:"text" form:"text"`
	FontSize int    `json:"fontSize" form:"font_size"`
	Color    string `json:"color" form:"color"`
}

// GeneratedImage 是一次渲染的结果，仅保留到被下载或流程重新运行为止。
type GeneratedImage struct {
	Width       int
	Height      int
	Data        []byte
	FileName    string
	ContentType string
}

// UploadedImage 是用户上传、等待识别的原始图片。
type UploadedImage struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

// ExtractedText 是一次 OCR 调用的输出，不做缓存。
type ExtractedText struct {
	Text string `json:"text"`
}
