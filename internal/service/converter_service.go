// Package service 包含了应用的业务逻辑层。
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"path/filepath"
	"strings"
	"time"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/pkg/events"
	"design-o-pedia-go/pkg/kafka"
	"design-o-pedia-go/pkg/log"
	"design-o-pedia-go/pkg/ocr"
	"design-o-pedia-go/pkg/render"
)

const (
	// GeneratedFileName 是生成图片的下载文件名。
	GeneratedFileName = "generated_image.png"
	// MinFontSize 与 MaxFontSize 是字号滑块的范围。
	MinFontSize = 10
	MaxFontSize = 100
)

var (
	ErrEmptyText        = errors.New("text is empty")
	ErrInvalidFontSize  = fmt.Errorf("font size must be between %d and %d", MinFontSize, MaxFontSize)
	ErrInvalidColor     = render.ErrInvalidColor
	ErrUnsupportedImage = errors.New("unsupported image type, expected png or jpeg")
	ErrNoUpload         = errors.New("no uploaded image")
	ErrNoArtifact       = errors.New("no generated image")
)

var allowedUploadExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ConverterService 接口定义了文字转图片与图片转文字两个流程。
type ConverterService interface {
	TextToImage(ctx context.Context, sessionID string, req model.TextToImageRequest) (*model.GeneratedImage, error)
	Download(ctx context.Context, sessionID string) (*model.GeneratedImage, error)
	Upload(ctx context.Context, sessionID, fileName string, data []byte) (*model.UploadedImage, error)
	PendingUpload(ctx context.Context, sessionID string) (*model.UploadedImage, error)
	ImageToText(ctx context.Context, sessionID string, img model.UploadedImage) (model.ExtractedText, error)
	ExtractPending(ctx context.Context, sessionID string) (model.ExtractedText, error)
}

// ConverterOptions 是转换流程的可调参数。
type ConverterOptions struct {
	Delay           time.Duration
	DefaultFontSize int
	DefaultColor    string
}

type converterService struct {
	generator *render.Generator
	engine    ocr.Engine
	artifacts repository.ArtifactRepository
	publisher kafka.Publisher
	opts      ConverterOptions
	sleep     func(time.Duration)
}

// NewConverterService 创建一个新的 ConverterService。
func NewConverterService(
	generator *render.Generator,
	engine ocr.Engine,
	artifacts repository.ArtifactRepository,
	publisher kafka.Publisher,
	opts ConverterOptions,
) ConverterService {
	if opts.DefaultFontSize == 0 {
		opts.DefaultFontSize = 40
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = "#000000"
	}
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &converterService{
		generator: generator,
		engine:    engine,
		artifacts: artifacts,
		publisher: publisher,
		opts:      opts,
		sleep:     time.Sleep,
	}
}

// simulateWork 模拟固定的处理耗时，期间页面显示忙碌状态，不可取消。
func (s *converterService) simulateWork() {
	if s.opts.Delay > 0 {
		s.sleep(s.opts.Delay)
	}
}

func (s *converterService) publish(ctx context.Context, event events.UsageEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warnf("[ConverterService] 发送使用事件失败, type: %s, error: %v", event.Type, err)
	}
}

// TextToImage 渲染文字并把结果保存为会话最近一次的生成图片。
// 空文本直接返回 ErrEmptyText，不产生任何图片。
func (s *converterService) TextToImage(ctx context.Context, sessionID string, req model.TextToImageRequest) (*model.GeneratedImage, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}
	if req.FontSize == 0 {
		req.FontSize = s.opts.DefaultFontSize
	}
	if req.FontSize < MinFontSize || req.FontSize > MaxFontSize {
		return nil, ErrInvalidFontSize
	}
	if req.Color == "" {
		req.Color = s.opts.DefaultColor
	}
	c, err := render.ParseHexColor(req.Color)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.simulateWork()

	img := s.generator.CreateImage(req.Text, req.FontSize, c)
	data, err := render.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	generated := &model.GeneratedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Data:        data,
		FileName:    GeneratedFileName,
		ContentType: "image/png",
	}

	err = s.artifacts.Put(ctx, sessionID, model.ArtifactGenerated, model.Artifact{
		FileName:    generated.FileName,
		ContentType: generated.ContentType,
		Data:        generated.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("保存生成图片失败: %w", err)
	}

	log.Infof("[ConverterService] 图片生成成功, session: %s, fontSize: %d, bytes: %d", sessionID, req.FontSize, len(data))
	s.publish(ctx, events.UsageEvent{
		Type:       events.TypeImageGenerated,
		SessionID:  sessionID,
		FontSize:   req.FontSize,
		TextLength: len([]rune(req.Text)),
		Bytes:      len(data),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return generated, nil
}

// Download 取出会话最近一次的生成图片，取出后即释放。
func (s *converterService) Download(ctx context.Context, sessionID string) (*model.GeneratedImage, error) {
	a, err := s.artifacts.Take(ctx, sessionID, model.ArtifactGenerated)
	if errors.Is(err, repository.ErrArtifactNotFound) {
		return nil, ErrNoArtifact
	}
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return nil, fmt.Errorf("解析生成图片失败: %w", err)
	}
	return &model.GeneratedImage{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Data:        a.Data,
		FileName:    a.FileName,
		ContentType: a.ContentType,
	}, nil
}

// DecodeUpload 校验上传文件：扩展名必须是 png/jpg/jpeg，内容必须能按 PNG 或 JPEG 解析。
func DecodeUpload(fileName string, data []byte) (*model.UploadedImage, error) {
	if !allowedUploadExts[strings.ToLower(filepath.Ext(fileName))] {
		return nil, ErrUnsupportedImage
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "png" && format != "jpeg") {
		return nil, ErrUnsupportedImage
	}
	return &model.UploadedImage{
		FileName:    filepath.Base(fileName),
		ContentType: "image/" + format,
		Data:        data,
	}, nil
}

// Upload 校验并保存上传图片，等待用户触发识别。
func (s *converterService) Upload(ctx context.Context, sessionID, fileName string, data []byte) (*model.UploadedImage, error) {
	img, err := DecodeUpload(fileName, data)
	if err != nil {
		return nil, err
	}
	err = s.artifacts.Put(ctx, sessionID, model.ArtifactUpload, model.Artifact{
		FileName:    img.FileName,
		ContentType: img.ContentType,
		Data:        img.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("保存上传图片失败: %w", err)
	}
	return img, nil
}

// PendingUpload 返回会话中等待识别的上传图片。
func (s *converterService) PendingUpload(ctx context.Context, sessionID string) (*model.UploadedImage, error) {
	a, err := s.artifacts.Get(ctx, sessionID, model.ArtifactUpload)
	if errors.Is(err, repository.ErrArtifactNotFound) {
		return nil, ErrNoUpload
	}
	if err != nil {
		return nil, err
	}
	return &model.UploadedImage{FileName: a.FileName, ContentType: a.ContentType, Data: a.Data}, nil
}

// ImageToText 对整张图片做 OCR。识别结果为空时原样返回空字符串。
func (s *converterService) ImageToText(ctx context.Context, sessionID string, img model.UploadedImage) (model.ExtractedText, error) {
	start := time.Now()
	s.simulateWork()

	text, err := s.engine.ExtractText(ctx, img.Data)
	if err != nil {
		return model.ExtractedText{}, fmt.Errorf("%s 识别失败: %w", s.engine.Name(), err)
	}

	log.Infof("[ConverterService] 文字识别完成, session: %s, engine: %s, chars: %d", sessionID, s.engine.Name(), len([]rune(text)))
	s.publish(ctx, events.UsageEvent{
		Type:       events.TypeTextExtracted,
		SessionID:  sessionID,
		TextLength: len([]rune(text)),
		Bytes:      len(img.Data),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return model.ExtractedText{Text: text}, nil
}

// ExtractPending 对会话中已上传的图片做 OCR。
func (s *converterService) ExtractPending(ctx context.Context, sessionID string) (model.ExtractedText, error) {
	img, err := s.PendingUpload(ctx, sessionID)
	if err != nil {
		return model.ExtractedText{}, err
	}
	return s.ImageToText(ctx, sessionID, *img)
}
