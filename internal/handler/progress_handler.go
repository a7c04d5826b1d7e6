package handler

import (
	"context"
	"net/http"

	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// 进度帧的状态。
const (
	FrameProcessing = "processing"
	FrameDone       = "done"
	FrameError      = "error"
)

// 转换期间显示的忙碌文案。
const (
	SpinnerGenerating = "Generating Image..."
	SpinnerExtracting = "Extracting text..."
)

// ProgressFrame 是 WebSocket 上发送给客户端的一帧。
type ProgressFrame struct {
	Status  string      `json:"status"`
	Mode    model.Mode  `json:"mode"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// GeneratedImageResult 是文字转图片完成帧的数据。Data 在 JSON 中为 base64。
type GeneratedImageResult struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Data        []byte `json:"data"`
}

// ProgressHandler 通过 WebSocket 执行转换：每个请求帧先收到 processing 帧，
// 转换结束后收到 done 或 error 帧。
type ProgressHandler struct {
	converter service.ConverterService
}

// NewProgressHandler 创建一个新的 ProgressHandler。
func NewProgressHandler(converter service.ConverterService) *ProgressHandler {
	return &ProgressHandler{converter: converter}
}

// Handle 处理一个传入的 WebSocket 连接。
func (h *ProgressHandler) Handle(c *gin.Context) {
	session := middleware.CurrentSession(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，session: %s", session.ID)

	for {
		var req model.ConversionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			return
		}
		req.Mode = model.ParseMode(string(req.Mode))

		send := func(frame ProgressFrame) error { return conn.WriteJSON(frame) }
		if err := h.run(c.Request.Context(), session.ID, req, send); err != nil {
			log.Warnf("向 WebSocket 写入消息失败: %v", err)
			return
		}
	}
}

// run 执行一次转换。输入校验失败时只发送 error 帧；否则先发送 processing 帧，
// 转换结束后发送 done 或 error 帧。返回的错误只来自 send。
func (h *ProgressHandler) run(ctx context.Context, sessionID string, req model.ConversionRequest, send func(ProgressFrame) error) error {
	fail := func(err error) error {
		if statusFor(err) == http.StatusInternalServerError {
			log.Errorf("WebSocket 转换失败, mode: %s, error: %v", req.Mode, err)
		}
		return send(ProgressFrame{Status: FrameError, Mode: req.Mode, Message: messageFor(err)})
	}

	if req.Mode == model.ModeImageToText {
		if req.UploadedImage == nil {
			return fail(service.ErrNoUpload)
		}
		img, err := service.DecodeUpload(req.UploadedImage.FileName, req.UploadedImage.Data)
		if err != nil {
			return fail(err)
		}
		if err := send(ProgressFrame{Status: FrameProcessing, Mode: req.Mode, Message: SpinnerExtracting}); err != nil {
			return err
		}
		result, err := h.converter.ImageToText(ctx, sessionID, *img)
		if err != nil {
			return fail(err)
		}
		return send(ProgressFrame{Status: FrameDone, Mode: req.Mode, Message: MsgExtracted, Data: result})
	}

	if req.Text == "" {
		return fail(service.ErrEmptyText)
	}
	if err := send(ProgressFrame{Status: FrameProcessing, Mode: req.Mode, Message: SpinnerGenerating}); err != nil {
		return err
	}
	img, err := h.converter.TextToImage(ctx, sessionID, model.TextToImageRequest{
		Text:     req.Text,
		FontSize: req.FontSize,
		Color:    req.Color,
	})
	if err != nil {
		return fail(err)
	}
	return send(ProgressFrame{Status: FrameDone, Mode: req.Mode, Data: GeneratedImageResult{
		FileName:    img.FileName,
		ContentType: img.ContentType,
		Width:       img.Width,
		Height:      img.Height,
		Data:        img.Data,
	}})
}
