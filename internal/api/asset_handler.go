package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"cvStudio/internal/session"
	"cvStudio/internal/storage"
)

const (
	uploadWindow   = 24 * time.Hour
	assetPresign   = 15 * time.Minute
	previewPresign = 10 * time.Minute
)

// 证件照只接受常见位图格式。
var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type objectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
	StatObject(ctx context.Context, objectKey string) (storage.ObjectMeta, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

type virusScanner interface {
	ScanStream(reader io.Reader, abort chan bool) (chan *clamd.ScanResult, error)
}

// AssetHandler 负责会话资产（证件照）的上传与访问。
type AssetHandler struct {
	Manager     *session.Manager
	Storage     objectStorage
	RedisClient *redis.Client
	Logger      *slog.Logger

	MaxUploadBytes   int64
	MaxUploadsPerDay int64

	// newScanner 可在测试中替换，默认连真实 clamd。
	newScanner func() virusScanner
}

// NewAssetHandler 返回 AssetHandler 实例。
func NewAssetHandler(
	manager *session.Manager,
	storageClient objectStorage,
	redisClient *redis.Client,
	logger *slog.Logger,
	clamdAddr string,
	maxUploadBytes int64,
	maxUploadsPerDay int64,
) *AssetHandler {
	return &AssetHandler{
		Manager:          manager,
		Storage:          storageClient,
		RedisClient:      redisClient,
		Logger:           logger,
		MaxUploadBytes:   maxUploadBytes,
		MaxUploadsPerDay: maxUploadsPerDay,
		newScanner: func() virusScanner {
			return clamd.NewClamd(clamdAddr)
		},
	}
}

// UploadPhoto 上传证件照：病毒扫描、类型与大小校验、每日限额，
// 成功后把对象键写入个人信息的 photo 字段。
func (h *AssetHandler) UploadPhoto(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := allowedPhotoTypes[contentType]; !ok {
		BadRequest(c, "unsupported image type")
		return
	}

	if h.MaxUploadsPerDay > 0 && h.RedisClient != nil {
		counterKey := fmt.Sprintf("upload_count:%s", s.ID)
		count, err := incrWithTTL(c.Request.Context(), h.RedisClient, counterKey, uploadWindow)
		if err != nil {
			h.Logger.Error("upload rate counter failed", slog.Any("error", err))
			Internal(c, "rate limit check failed")
			return
		}
		if count > h.MaxUploadsPerDay {
			TooMany(c, "daily upload limit reached")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}

	abortChan := make(chan bool)
	scanChan, err := h.newScanner().ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		h.Logger.Error("scan file", slog.String("error", err.Error()))
		Internal(c, "failed to scan file")
		return
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err = file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("session-assets/%s/%s", s.ID, uuid.NewString())
	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	snap := s.Store.SetPersonalInfoField("photo", objectKey)

	c.JSON(http.StatusCreated, gin.H{
		"objectKey": objectKey,
		"revision":  snap.Revision,
		"document":  snap.Document,
	})
}

// ListAssets 列出会话上传过的资产。
func (h *AssetHandler) ListAssets(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	prefix := fmt.Sprintf("session-assets/%s/", s.ID)
	objects, err := h.Storage.ListObjects(c.Request.Context(), prefix, 60)
	if err != nil {
		h.Logger.Error("list assets", slog.String("error", err.Error()))
		Internal(c, "failed to list assets")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, previewPresign)
		if err != nil {
			h.Logger.Error("generate asset url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"previewUrl":   url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAssetURL 返回资产的临时预签名 URL，仅限本会话前缀下的对象。
func (h *AssetHandler) GetAssetURL(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	expectedPrefix := fmt.Sprintf("session-assets/%s/", s.ID)
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		Forbidden(c, "access denied")
		return
	}

	if _, err := h.Storage.StatObject(c.Request.Context(), objectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			NotFound(c, "asset not found")
			return
		}
		h.Logger.Error("stat asset", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to check asset")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, assetPresign)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteAsset 删除本会话前缀下的对象。
// 被删对象若正被 photo 字段引用，字段一并清空。
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	expectedPrefix := fmt.Sprintf("session-assets/%s/", s.ID)
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		Forbidden(c, "access denied")
		return
	}

	if err := h.Storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		h.Logger.Error("delete asset", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to delete asset")
		return
	}

	snap := s.Store.Snapshot()
	if snap.Document.PersonalInfo.Photo == objectKey {
		s.Store.SetPersonalInfoField("photo", "")
	}

	c.Status(http.StatusNoContent)
}
