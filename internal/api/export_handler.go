package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvStudio/internal/api/middleware"
	"cvStudio/internal/session"
	"cvStudio/internal/tasks"
)

const downloadLinkTTL = 15 * time.Minute

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// ExportHandler 负责 PDF 导出：投递异步任务并提供结果下载链接。
type ExportHandler struct {
	Manager     *session.Manager
	Enqueuer    taskEnqueuer
	Storage     presigner
	RedisClient *redis.Client
}

// NewExportHandler 返回 ExportHandler 实例。
func NewExportHandler(manager *session.Manager, enqueuer taskEnqueuer, storage presigner, redisClient *redis.Client) *ExportHandler {
	return &ExportHandler{
		Manager:     manager,
		Enqueuer:    enqueuer,
		Storage:     storage,
		RedisClient: redisClient,
	}
}

type exportRequest struct {
	Filename string `json:"filename"`
}

// StartExport 采集当前会话的完整快照并投递导出任务。
// 快照随任务负载走，投递之后的编辑不影响本次导出。
func (h *ExportHandler) StartExport(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req exportRequest
	_ = c.ShouldBindJSON(&req)
	if req.Filename == "" {
		req.Filename = "resume.pdf"
	}

	payload := tasks.PDFExportPayload{
		SessionID:      s.ID,
		TemplateID:     s.TemplateID(),
		ActiveDocument: s.ActiveDocument(),
		Filename:       req.Filename,
		CorrelationID:  middleware.GetCorrelationID(c),
		Snapshot:       s.Store.Snapshot(),
		CoverLetter:    s.CoverLetter(),
	}

	task, err := tasks.NewPDFExportTask(payload)
	if err != nil {
		Internal(c, "build export task failed")
		return
	}

	info, err := h.Enqueuer.EnqueueContext(c.Request.Context(), task, asynq.MaxRetry(5), asynq.Timeout(5*time.Minute))
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "enqueue export task failed")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"taskId":   info.ID,
		"queue":    info.Queue,
		"revision": payload.Snapshot.Revision,
	})
}

// GetDownloadLink 返回最近一次成功导出的限时下载链接。
func (h *ExportHandler) GetDownloadLink(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	resultKey := fmt.Sprintf("export_result:%s", s.ID)
	objectKey, err := h.RedisClient.Get(c.Request.Context(), resultKey).Result()
	if err == redis.Nil {
		NotFound(c, "no completed export for this session")
		return
	}
	if err != nil {
		middleware.LoggerFromContext(c).Error("load export result failed", slog.Any("error", err))
		Internal(c, "load export result failed")
		return
	}

	url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, downloadLinkTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate download link failed", slog.Any("error", err))
		Internal(c, "generate download link failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(downloadLinkTTL.Seconds())})
}
