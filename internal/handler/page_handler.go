package handler

import (
	"errors"
	"net/http"

	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/internal/web"
	"design-o-pedia-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DownloadPath 是最近一次生成图片的下载地址。
const DownloadPath = "/download/" + service.GeneratedFileName

// PageOptions 是页面渲染的静态配置。
type PageOptions struct {
	LogoURL         string // 为空时不显示 logo
	LogoWidth       int
	DefaultFontSize int
	DefaultColor    string
}

// PageHandler 渲染 HTML 页面并处理页面上的表单。
type PageHandler struct {
	converter service.ConverterService
	reviews   service.ReviewService
	renderer  *web.ReviewRenderer
	opts      PageOptions
}

// NewPageHandler 创建一个新的 PageHandler。
func NewPageHandler(converter service.ConverterService, reviews service.ReviewService, opts PageOptions) *PageHandler {
	return &PageHandler{
		converter: converter,
		reviews:   reviews,
		renderer:  web.NewReviewRenderer(),
		opts:      opts,
	}
}

// newPage 按模式创建页面，并填充表单默认值和待识别的上传图片。
func (h *PageHandler) newPage(c *gin.Context, mode model.Mode) *web.Page {
	page := web.NewPage(mode)
	page.LogoURL = h.opts.LogoURL
	page.LogoWidth = h.opts.LogoWidth
	page.TextToImage.FontSize = h.opts.DefaultFontSize
	page.TextToImage.Color = h.opts.DefaultColor

	if mode == model.ModeImageToText {
		session := middleware.CurrentSession(c)
		upload, err := h.converter.PendingUpload(c.Request.Context(), session.ID)
		switch {
		case err == nil:
			page.ImageToText.FileName = upload.FileName
			page.ImageToText.Preview = web.DataURI(upload.ContentType, upload.Data)
		case !errors.Is(err, service.ErrNoUpload):
			log.Warnf("[PageHandler] 读取待识别图片失败, session: %s, error: %v", session.ID, err)
		}
	}
	return page
}

// render 填充评论区后输出页面，评论在每次页面加载时都会显示。
func (h *PageHandler) render(c *gin.Context, status int, page *web.Page) {
	session := middleware.CurrentSession(c)
	reviews, err := h.reviews.List(c.Request.Context(), session.ID)
	if err != nil {
		log.Errorf("[PageHandler] 读取评论失败, session: %s, error: %v", session.ID, err)
		status = http.StatusInternalServerError
		page.Reviews.Flash = &web.Flash{Kind: web.FlashError, Message: MsgInternal}
	} else if page.Reviews.Entries, err = h.renderer.RenderAll(reviews); err != nil {
		log.Errorf("[PageHandler] 渲染评论失败, session: %s, error: %v", session.ID, err)
		status = http.StatusInternalServerError
		page.Reviews.Flash = &web.Flash{Kind: web.FlashError, Message: MsgInternal}
	}
	c.HTML(status, "index.html", page)
}

// pageStatus 返回页面的状态码，空输入只是提示，页面仍按 200 返回。
func pageStatus(err error) int {
	if errors.Is(err, service.ErrEmptyText) || errors.Is(err, service.ErrEmptyReview) {
		return http.StatusOK
	}
	return statusFor(err)
}

func errorFlash(err error) *web.Flash {
	kind := web.FlashError
	if errors.Is(err, service.ErrEmptyText) || errors.Is(err, service.ErrEmptyReview) {
		kind = web.FlashWarning
	}
	return &web.Flash{Kind: kind, Message: messageFor(err)}
}

// Index 渲染页面，?mode= 选择转换流程。
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, h.newPage(c, model.ParseMode(c.Query("mode"))))
}

// GenerateImage 处理文字转图片表单。
func (h *PageHandler) GenerateImage(c *gin.Context) {
	page := h.newPage(c, model.ModeTextToImage)

	var req model.TextToImageRequest
	if err := c.ShouldBind(&req); err != nil {
		page.TextToImage.Flash = &web.Flash{Kind: web.FlashError, Message: "无效的表单数据"}
		h.render(c, http.StatusBadRequest, page)
		return
	}
	page.TextToImage.Text = req.Text
	if req.FontSize != 0 {
		page.TextToImage.FontSize = req.FontSize
	}
	if req.Color != "" {
		page.TextToImage.Color = req.Color
	}

	session := middleware.CurrentSession(c)
	img, err := h.converter.TextToImage(c.Request.Context(), session.ID, req)
	if err != nil {
		page.TextToImage.Flash = errorFlash(err)
		h.render(c, pageStatus(err), page)
		return
	}
	page.TextToImage.Preview = web.DataURI(img.ContentType, img.Data)
	page.TextToImage.DownloadURL = DownloadPath
	h.render(c, http.StatusOK, page)
}

// UploadImage 处理图片上传表单，上传后立即显示预览。
func (h *PageHandler) UploadImage(c *gin.Context) {
	page := h.newPage(c, model.ModeImageToText)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.render(c, http.StatusOK, page)
		return
	}
	data, err := readFormFile(fileHeader)
	if err != nil {
		page.ImageToText.Flash = errorFlash(err)
		h.render(c, statusFor(err), page)
		return
	}

	session := middleware.CurrentSession(c)
	upload, err := h.converter.Upload(c.Request.Context(), session.ID, fileHeader.Filename, data)
	if err != nil {
		page.ImageToText.Flash = errorFlash(err)
		h.render(c, statusFor(err), page)
		return
	}
	page.ImageToText.FileName = upload.FileName
	page.ImageToText.Preview = web.DataURI(upload.ContentType, upload.Data)
	h.render(c, http.StatusOK, page)
}

// ExtractText 对会话中已上传的图片做 OCR。没有上传时流程保持空闲。
func (h *PageHandler) ExtractText(c *gin.Context) {
	page := h.newPage(c, model.ModeImageToText)

	session := middleware.CurrentSession(c)
	result, err := h.converter.ExtractPending(c.Request.Context(), session.ID)
	if errors.Is(err, service.ErrNoUpload) {
		h.render(c, http.StatusOK, page)
		return
	}
	if err != nil {
		page.ImageToText.Flash = errorFlash(err)
		h.render(c, statusFor(err), page)
		return
	}
	page.ImageToText.Extracted = true
	page.ImageToText.Text = result.Text
	page.ImageToText.Flash = &web.Flash{Kind: web.FlashSuccess, Message: MsgExtracted}
	h.render(c, http.StatusOK, page)
}

// SubmitReview 处理评论表单，当前模式保持不变。
func (h *PageHandler) SubmitReview(c *gin.Context) {
	page := h.newPage(c, model.ParseMode(c.PostForm("mode")))
	text := c.PostForm("review")

	session := middleware.CurrentSession(c)
	if err := h.reviews.Submit(c.Request.Context(), session.ID, text); err != nil {
		page.Reviews.Draft = text
		page.Reviews.Flash = errorFlash(err)
		h.render(c, pageStatus(err), page)
		return
	}
	page.Reviews.Flash = &web.Flash{Kind: web.FlashSuccess, Message: MsgReviewThanks}
	h.render(c, http.StatusOK, page)
}

// Download 以附件形式返回最近一次生成的图片，下载后即释放。
func (h *PageHandler) Download(c *gin.Context) {
	session := middleware.CurrentSession(c)
	img, err := h.converter.Download(c.Request.Context(), session.ID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Errorf("[PageHandler] 下载生成图片失败, session: %s, error: %v", session.ID, err)
		}
		c.String(status, messageFor(err))
		return
	}
	writeAttachment(c, img)
}
