// Package web 包含页面模板和页面视图模型。
package web

import (
	"embed"
	"encoding/base64"
	"html/template"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageTitle     = "Text-to-Image & Image-to-Text Converter"
	WelcomeBanner = "Welcome to Design-o-Pedia"
)

// FlashKind 决定提示条的样式。
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash 是一次交互后显示在区块内的提示信息。
type Flash struct {
	Kind    FlashKind
	Message string
}

// TextToImageView 是文字转图片区块的视图数据。
type TextToImageView struct {
	Text        string
	FontSize    int
	Color       string
	MinFontSize int
	MaxFontSize int
	Preview     template.URL
	DownloadURL string
	Flash       *Flash
}

// ImageToTextView 是图片转文字区块的视图数据。
type ImageToTextView struct {
	FileName  string
	Preview   template.URL
	Extracted bool
	Text      string
	Flash     *Flash
}

// ReviewView 是一条已渲染的评论。
type ReviewView struct {
	Rank int
	HTML template.HTML
}

// ReviewsView 是评论区的视图数据。
type ReviewsView struct {
	Draft   string
	Entries []ReviewView
	Flash   *Flash
}

// Page 是整张页面的视图数据。
type Page struct {
	Title       string
	Banner      string
	LogoURL     string
	LogoWidth   int
	Mode        model.Mode
	Modes       []model.Mode
	Sections    []service.Section
	TextToImage TextToImageView
	ImageToText ImageToTextView
	Reviews     ReviewsView
}

// NewPage 创建指定模式下的页面，区块由 service.Dispatch 决定。
func NewPage(mode model.Mode) *Page {
	return &Page{
		Title:    PageTitle,
		Banner:   WelcomeBanner,
		Mode:     mode,
		Modes:    []model.Mode{model.ModeTextToImage, model.ModeImageToText},
		Sections: service.Dispatch(mode),
		TextToImage: TextToImageView{
			MinFontSize: service.MinFontSize,
			MaxFontSize: service.MaxFontSize,
		},
	}
}

// DataURI 把图片编码为可直接放进 <img src> 的 data URI。
func DataURI(contentType string, data []byte) template.URL {
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// Templates 解析内嵌的页面模板，供 gin 的 SetHTMLTemplate 使用。
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}
