package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConvertHandler 负责两个转换流程的 API。
type ConvertHandler struct {
	converter service.ConverterService
}

// NewConvertHandler 创建一个新的 ConvertHandler。
func NewConvertHandler(converter service.ConverterService) *ConvertHandler {
	return &ConvertHandler{converter: converter}
}

// TextToImage 渲染 JSON 请求中的文字，直接以 PNG 附件返回。
func (h *ConvertHandler) TextToImage(c *gin.Context) {
	var req model.TextToImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	session := middleware.CurrentSession(c)
	img, err := h.converter.TextToImage(c.Request.Context(), session.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	writeAttachment(c, img)
}

// ImageToText 对 multipart 表单中的 file 字段做 OCR。
func (h *ConvertHandler) ImageToText(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "未能获取上传的图片")
		return
	}
	data, err := readFormFile(fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	img, err := service.DecodeUpload(fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	session := middleware.CurrentSession(c)
	result, err := h.converter.ImageToText(c.Request.Context(), session.ID, *img)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, MsgExtracted, result)
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return data, nil
}

func writeAttachment(c *gin.Context, img *model.GeneratedImage) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, img.FileName))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
