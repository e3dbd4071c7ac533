package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvStudio/internal/ai"
	"cvStudio/internal/config"
	"cvStudio/internal/session"
	"cvStudio/internal/storage"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	manager *session.Manager,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	storageClient *storage.Client,
	logger *slog.Logger,
) {
	aiClient := ai.NewClient(cfg.AI.BaseURL)

	sessionHandler := NewSessionHandler(manager)
	documentHandler := NewDocumentHandler(manager)
	aiHandler := NewAIHandler(manager, aiClient, ai.NewGuard())
	exportHandler := NewExportHandler(manager, asynqClient, storageClient, redisClient)
	assetHandler := NewAssetHandler(
		manager, storageClient, redisClient, logger,
		cfg.Assets.ClamdAddr, cfg.Assets.MaxUploadBytes, int64(cfg.Assets.MaxUploadsPerDay),
	)
	wsHandler := NewWsHandler(redisClient, manager, logger, cfg.API.AllowedOrigins)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)
		v1.GET("/templates", sessionHandler.ListTemplates)
		v1.GET("/purposes", sessionHandler.ListPurposes)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.PUT("/:id/template", sessionHandler.SelectTemplate)
			sessions.PUT("/:id/active-document", sessionHandler.SetActiveDocument)
			sessions.PUT("/:id/cover-letter", sessionHandler.UpdateCoverLetter)
			sessions.PUT("/:id/job-description", sessionHandler.SetJobDescription)

			doc := sessions.Group("/:id/document")
			{
				doc.PUT("", sessionHandler.ImportDocument)
				doc.PUT("/preset", sessionHandler.LoadPreset)
				doc.PUT("/personal-info", documentHandler.SetPersonalInfoField)
				doc.PUT("/summary", documentHandler.SetSummary)
				doc.POST("/sections", documentHandler.AddSection)
				doc.PUT("/sections/reorder", documentHandler.ReorderSections)
				doc.DELETE("/sections/:sectionId", documentHandler.RemoveSection)
				doc.PUT("/sections/:sectionId/title", documentHandler.SetSectionTitle)
				doc.PUT("/sections/:sectionId/type", documentHandler.SetSectionType)
				doc.PUT("/sections/:sectionId/column", documentHandler.SetSectionColumn)
				doc.POST("/sections/:sectionId/items", documentHandler.AddItem)
				doc.PUT("/sections/:sectionId/items/:index", documentHandler.SetItem)
				doc.DELETE("/sections/:sectionId/items/:index", documentHandler.RemoveItem)
			}

			aiGroup := sessions.Group("/:id/ai")
			{
				aiGroup.POST("/optimize", aiHandler.Optimize)
				aiGroup.POST("/generate-description", aiHandler.GenerateDescription)
				aiGroup.POST("/analyze-photo", aiHandler.AnalyzePhoto)
				aiGroup.POST("/ats-score", aiHandler.ATSScore)
			}

			sessions.POST("/:id/export", exportHandler.StartExport)
			sessions.GET("/:id/export/download-link", exportHandler.GetDownloadLink)

			assets := sessions.Group("/:id/assets")
			{
				assets.POST("/photo", assetHandler.UploadPhoto)
				assets.GET("", assetHandler.ListAssets)
				assets.GET("/view", assetHandler.GetAssetURL)
				assets.DELETE("", assetHandler.DeleteAsset)
			}
		}
	}
}
