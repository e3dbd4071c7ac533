package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvStudio/internal/errcode"
	"cvStudio/internal/render"
	"cvStudio/internal/storage"
	"cvStudio/internal/tasks"
)

const (
	exportResultTTL  = 24 * time.Hour
	photoPresignTTL  = 15 * time.Minute
	exportResultKey  = "export_result:%s"
	sessionNotifyKey = "session_notify:%s"
)

// ExportTaskHandler 负责消费 PDF 导出任务。
// 任务负载自带完整文档快照，处理过程不依赖任何持久化状态。
type ExportTaskHandler struct {
	storage     *storage.Client
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(storage *storage.Client, redisClient *redis.Client, logger *slog.Logger) *ExportTaskHandler {
	return &ExportTaskHandler{
		storage:     storage,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("session_id", payload.SessionID),
		slog.String("template_id", payload.TemplateID),
	)
	log.Info("Starting WYSIWYG PDF export task...")

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		notify := ExportNotifyMessage{
			Status:        "error",
			SessionID:     payload.SessionID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishExportNotify(ctx, payload.SessionID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	photoMissing := false
	photoURL, err := h.resolvePhotoURL(ctx, payload.Snapshot.Document.PersonalInfo.Photo)
	if err != nil {
		log.Warn("resolve photo url failed, exporting without photo", slog.Any("error", err))
		photoURL = ""
		photoMissing = true
	}

	html, err := render.Page(render.Input{
		Snapshot:       payload.Snapshot,
		CoverLetter:    payload.CoverLetter,
		ActiveDocument: payload.ActiveDocument,
		TemplateID:     payload.TemplateID,
		PhotoURL:       photoURL,
		Now:            time.Now(),
	})
	if err != nil {
		log.Error("render export page failed", slog.Any("error", err))
		return err
	}

	pdfBytes, err := h.printPage(log, html)
	if err != nil {
		log.Error("print export page failed", slog.Any("error", err))
		return err
	}

	objectName := fmt.Sprintf("generated-resumes/%s/%s.pdf", payload.SessionID, uuid.NewString())
	pdfReader := bytes.NewReader(pdfBytes)
	if _, err := h.storage.UploadFile(ctx, objectName, pdfReader, int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	resultKey := fmt.Sprintf(exportResultKey, payload.SessionID)
	if err := h.redisClient.Set(ctx, resultKey, objectName, exportResultTTL).Err(); err != nil {
		log.Error("store export result failed", slog.Any("error", err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		SessionID:     payload.SessionID,
		CorrelationID: payload.CorrelationID,
		ObjectKey:     objectName,
		ErrorCode:     errcode.OK,
	}
	if photoMissing {
		notify.ErrorCode = errcode.ResourceMissing
		notify.ErrorMessage = "照片资源缺失/无效，已自动跳过并继续生成"
	}
	if err := h.publishExportNotify(ctx, payload.SessionID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("PDF export task completed successfully.")
	return nil
}

// printPage 加载 HTML、隐藏水印后打印 PDF。
// 水印在所有退出路径上都会被恢复，页面状态不受导出影响。
func (h *ExportTaskHandler) printPage(log *slog.Logger, html string) ([]byte, error) {
	page, cleanup, err := renderExportPage(log, html)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	restore, err := hideWatermark(page)
	if err != nil {
		return nil, err
	}
	defer restore()

	return exportPDF(page)
}

func (h *ExportTaskHandler) resolvePhotoURL(ctx context.Context, photo string) (string, error) {
	photo = strings.TrimSpace(photo)
	if photo == "" {
		return "", nil
	}
	// 已经是完整 URL 的照片直接使用，对象键则换成限时链接。
	if strings.HasPrefix(photo, "http://") || strings.HasPrefix(photo, "https://") || strings.HasPrefix(photo, "data:") {
		return photo, nil
	}
	return h.storage.GeneratePresignedURL(ctx, photo, photoPresignTTL)
}

func (h *ExportTaskHandler) publishExportNotify(ctx context.Context, sessionID string, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf(sessionNotifyKey, sessionID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
