// Package render 把文字绘制到固定尺寸的位图上。
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// lineSpacing 是多行文字之间额外的像素间距。
const lineSpacing = 4

// TextRenderer 是"在图片上画字"的能力接口，任何满足该约定的实现都可以替换。
type TextRenderer interface {
	RenderText(dst draw.Image, text string, pos image.Point, face font.Face, c color.Color)
}

// DrawerRenderer 使用 x/image 的 font.Drawer 绘制文字。pos 是文字框的左上角。
type DrawerRenderer struct{}

func (DrawerRenderer) RenderText(dst draw.Image, text string, pos image.Point, face font.Face, c color.Color) {
	m := face.Metrics()
	lineHeight := m.Ascent + m.Descent + fixed.I(lineSpacing)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	for i, line := range strings.Split(text, "\n") {
		d.Dot = fixed.Point26_6{
			X: fixed.I(pos.X),
			Y: fixed.I(pos.Y) + m.Ascent + lineHeight*fixed.Int26_6(i),
		}
		d.DrawString(line)
	}
}

// Options 描述画布。
type Options struct {
	Width      int
	Height     int
	Anchor     image.Point
	Background color.Color
}

// Generator 生成带文字的位图。
type Generator struct {
	opts     Options
	fonts    *FontLoader
	renderer TextRenderer
}

// NewGenerator 创建一个 Generator。renderer 为 nil 时使用 DrawerRenderer。
func NewGenerator(opts Options, fonts *FontLoader, renderer TextRenderer) *Generator {
	if opts.Background == nil {
		opts.Background = color.White
	}
	if renderer == nil {
		renderer = DrawerRenderer{}
	}
	return &Generator{opts: opts, fonts: fonts, renderer: renderer}
}

// CreateImage 在白底画布的锚点处绘制文字。相同输入和相同字体资源下输出确定。
func (g *Generator) CreateImage(text string, size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.opts.Width, g.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(g.opts.Background), image.Point{}, draw.Src)

	face, scalable := g.fonts.Face(size)
	if scalable {
		defer face.Close()
	}
	g.renderer.RenderText(img, text, g.opts.Anchor, face, c)
	return img
}

// EncodePNG 把图片编码为 PNG。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
