package render

import (
	"os"
	"path/filepath"
	"sync"

	"design-o-pedia-go/pkg/log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FontLoader 在搜索路径中查找首选字体文件，只在第一次使用时加载一次。
// 找不到或解析失败时静默回退到固定大小的默认字体。
type FontLoader struct {
	name string
	dirs []string

	once sync.Once
	font *opentype.Font
	path string
}

// NewFontLoader 创建一个按 dirs 顺序查找 name 的 FontLoader。
func NewFontLoader(name string, dirs []string) *FontLoader {
	return &FontLoader{name: name, dirs: append([]string(nil), dirs...)}
}

func (l *FontLoader) load() {
	for _, dir := range l.dirs {
		path := filepath.Join(dir, l.name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			log.Debugf("[FontLoader] 字体文件解析失败, path: %s, error: %v", path, err)
			continue
		}
		l.font, l.path = f, path
		log.Infof("[FontLoader] 已加载首选字体: %s", path)
		return
	}
	log.Debugf("[FontLoader] 未找到字体 %s，使用默认字体", l.name)
}

// Path 返回已加载的字体文件路径，未找到时为空。
func (l *FontLoader) Path() string {
	l.once.Do(l.load)
	return l.path
}

// Face 返回指定像素大小的字体。scalable 为 false 表示使用了默认字体，size 未生效。
// opentype 的 Face 不是并发安全的，每次渲染都应该新建一个。
func (l *FontLoader) Face(size int) (face font.Face, scalable bool) {
	l.once.Do(l.load)
	if l.font == nil {
		return basicfont.Face7x13, false
	}
	face, err := opentype.NewFace(l.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Debugf("[FontLoader] 创建字号 %d 的字体失败: %v", size, err)
		return basicfont.Face7x13, false
	}
	return face, true
}
