package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvStudio/internal/ai"
	"cvStudio/internal/api/middleware"
	"cvStudio/internal/document"
	"cvStudio/internal/session"
)

// aiService 抽象 AI 边车的四个能力，便于测试注入假实现。
type aiService interface {
	Optimize(ctx context.Context, section, content, jobDescription string) (string, error)
	GenerateDescription(ctx context.Context, jobTitle, company string) (string, error)
	AnalyzePhoto(ctx context.Context, imageBase64 string) (ai.PhotoAnalysis, error)
	ATSScore(ctx context.Context, resumeText, jobDescription string) (ai.ATSReport, error)
}

// AIHandler 是 AI 边车的代理层。
// 每个目标元素同一时刻只允许一次在途调用；写回只在调用成功后发生，
// 失败时文档保持原样。
type AIHandler struct {
	Manager *session.Manager
	Service aiService
	Guard   *ai.Guard
}

// NewAIHandler 返回 AIHandler 实例。
func NewAIHandler(manager *session.Manager, service aiService, guard *ai.Guard) *AIHandler {
	return &AIHandler{Manager: manager, Service: service, Guard: guard}
}

func (h *AIHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return nil, false
	}
	return s, true
}

func (h *AIHandler) acquire(c *gin.Context, key string) (func(), bool) {
	release, ok := h.Guard.Acquire(key)
	if !ok {
		Conflict(c, "an AI request for this element is already in progress")
		return nil, false
	}
	return release, true
}

func aiError(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrServiceUnavailable) {
		BadGateway(c, "AI service is unavailable, please try again later")
		return
	}
	Internal(c, err.Error())
}

type optimizeRequest struct {
	SectionID string `json:"sectionId"`
	ItemIndex int    `json:"itemIndex"`
	Field     string `json:"field"`
	Content   string `json:"content" binding:"required"`
}

// Optimize 优化一段文本并写回来源元素。
// 不带 sectionId 时优化个人简介，否则优化指定条目的指定字段。
func (h *AIHandler) Optimize(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "content is required")
		return
	}

	key := fmt.Sprintf("%s:summary", s.ID)
	sectionLabel := "summary"
	if req.SectionID != "" {
		if req.Field == "" {
			BadRequest(c, "field is required when sectionId is set")
			return
		}
		key = fmt.Sprintf("%s:%s:%d:%s", s.ID, req.SectionID, req.ItemIndex, req.Field)
		sectionLabel = req.Field
	}

	release, ok := h.acquire(c, key)
	if !ok {
		return
	}
	defer release()

	optimized, err := h.Service.Optimize(c.Request.Context(), sectionLabel, req.Content, s.JobDescription())
	if err != nil {
		aiError(c, err)
		return
	}

	var snap document.Snapshot
	if req.SectionID == "" {
		snap = s.Store.SetSummary(optimized)
	} else {
		snap, err = s.Store.SetItemField(req.SectionID, req.ItemIndex, req.Field, optimized)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"optimizedContent": optimized,
		"revision":         snap.Revision,
		"document":         snap.Document,
	})
}

type generateDescriptionRequest struct {
	SectionID string `json:"sectionId" binding:"required"`
	ItemIndex int    `json:"itemIndex"`
	Position  string `json:"position"`
	Company   string `json:"company"`
}

// GenerateDescription 为一条经历生成描述并写回该条目。
// 未显式给出职位和公司时，从目标条目的字段中取。
func (h *AIHandler) GenerateDescription(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req generateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "sectionId is required")
		return
	}

	position, company := req.Position, req.Company
	if position == "" || company == "" {
		snap := s.Store.Snapshot()
		for _, sec := range snap.Document.Sections {
			if sec.ID != req.SectionID {
				continue
			}
			if req.ItemIndex < 0 || req.ItemIndex >= len(sec.Items) {
				BadRequest(c, document.ErrIndexOutOfRange.Error())
				return
			}
			item := sec.Items[req.ItemIndex]
			if position == "" {
				position = item.Field("position")
			}
			if company == "" {
				company = item.Field("company")
			}
		}
	}
	if position == "" {
		BadRequest(c, "position is required")
		return
	}

	key := fmt.Sprintf("%s:%s:%d:description", s.ID, req.SectionID, req.ItemIndex)
	release, ok := h.acquire(c, key)
	if !ok {
		return
	}
	defer release()

	generated, err := h.Service.GenerateDescription(c.Request.Context(), position, company)
	if err != nil {
		aiError(c, err)
		return
	}

	snap, err := s.Store.SetItemField(req.SectionID, req.ItemIndex, "description", generated)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generatedContent": generated,
		"revision":         snap.Revision,
		"document":         snap.Document,
	})
}

type analyzePhotoRequest struct {
	Photo string `json:"photo" binding:"required"`
}

// AnalyzePhoto 分析证件照并把反馈写入个人信息。
func (h *AIHandler) AnalyzePhoto(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req analyzePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "photo is required")
		return
	}

	release, ok := h.acquire(c, s.ID+":photo")
	if !ok {
		return
	}
	defer release()

	analysis, err := h.Service.AnalyzePhoto(c.Request.Context(), req.Photo)
	if err != nil {
		aiError(c, err)
		return
	}

	s.Store.SetPersonalInfoField("photoFeedback", analysis.Feedback)

	c.JSON(http.StatusOK, gin.H{
		"score":    analysis.Score,
		"status":   analysis.Status,
		"feedback": analysis.Feedback,
	})
}

type atsScoreRequest struct {
	JobDescription string `json:"jobDescription"`
}

// ATSScore 用当前简历全文和职位描述换取 ATS 评分报告，不写回文档。
func (h *AIHandler) ATSScore(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req atsScoreRequest
	_ = c.ShouldBindJSON(&req)

	jobDescription := req.JobDescription
	if jobDescription == "" {
		jobDescription = s.JobDescription()
	}
	if jobDescription == "" {
		BadRequest(c, "jobDescription is required")
		return
	}

	release, ok := h.acquire(c, s.ID+":ats")
	if !ok {
		return
	}
	defer release()

	snap := s.Store.Snapshot()
	report, err := h.Service.ATSScore(c.Request.Context(), resumePlainText(snap.Document), jobDescription)
	if err != nil {
		aiError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("ats score computed",
		slog.String("session_id", s.ID),
		slog.Int("score", report.Score),
	)
	c.JSON(http.StatusOK, gin.H{
		"score":           report.Score,
		"feedback":        report.Feedback,
		"missingKeywords": report.MissingKeywords,
	})
}

// resumePlainText 把文档压平成给 AI 打分用的纯文本。
func resumePlainText(doc document.Document) string {
	var b strings.Builder
	info := doc.PersonalInfo
	for _, v := range []string{info.FullName, info.Role, info.Location} {
		if v != "" {
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	if doc.Summary != "" {
		b.WriteString(doc.Summary)
		b.WriteString("\n")
	}
	for _, sec := range doc.Sections {
		b.WriteString(sec.Title)
		b.WriteString("\n")
		for _, item := range sec.Items {
			if item.IsPrimitive() {
				b.WriteString(item.Text())
				b.WriteString("\n")
				continue
			}
			for _, name := range []string{"position", "company", "institution", "degree", "name", "title", "startDate", "endDate", "year", "description"} {
				if v := item.Field(name); v != "" {
					b.WriteString(v)
					b.WriteString(" ")
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
