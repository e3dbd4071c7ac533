package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvStudio/internal/api/middleware"
	"cvStudio/internal/document"
	"cvStudio/internal/projection"
	"cvStudio/internal/schema"
	"cvStudio/internal/session"
)

// SessionHandler 负责会话生命周期与会话级状态。
type SessionHandler struct {
	Manager *session.Manager
}

// NewSessionHandler 返回 SessionHandler 实例。
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{Manager: manager}
}

type createSessionRequest struct {
	Purpose string `json:"purpose"`
}

func sessionState(s *session.Session) gin.H {
	snap := s.Store.Snapshot()
	return gin.H{
		"sessionId":      s.ID,
		"purpose":        s.Purpose(),
		"revision":       snap.Revision,
		"document":       snap.Document,
		"coverLetter":    s.CoverLetter(),
		"templateId":     s.TemplateID(),
		"activeDocument": s.ActiveDocument(),
		"jobDescription": s.JobDescription(),
	}
}

// CreateSession 新建编辑会话，文档按 purpose 预设播种。
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		BadRequest(c, "invalid request body")
		return
	}
	if req.Purpose == "" {
		req.Purpose = document.DefaultPurpose
	}

	s := h.Manager.Create(req.Purpose)
	middleware.LoggerFromContext(c).Info("session created",
		slog.String("session_id", s.ID),
		slog.String("purpose", s.Purpose()),
		slog.Int("active_sessions", h.Manager.Count()),
	)
	c.JSON(http.StatusCreated, sessionState(s))
}

// GetSession 返回会话的完整状态。
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}
	c.JSON(http.StatusOK, sessionState(s))
}

// DeleteSession 结束会话并丢弃全部状态。
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.Manager.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ImportDocument 整体替换会话中的简历文档。
// 请求体先过 JSON Schema 校验，任何结构问题都整体拒绝。
func (h *SessionHandler) ImportDocument(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "read request body failed")
		return
	}
	if err := schema.ValidateDocument(body); err != nil {
		BadRequest(c, err.Error())
		return
	}

	var doc document.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		BadRequest(c, "invalid document payload")
		return
	}

	snap, err := s.Store.LoadDocument(doc)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": snap.Revision, "document": snap.Document})
}

type selectTemplateRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

// SelectTemplate 切换会话使用的模板。
func (h *SessionHandler) SelectTemplate(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req selectTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "templateId is required")
		return
	}

	resolved := s.SetTemplate(req.TemplateID)
	c.JSON(http.StatusOK, gin.H{"templateId": resolved})
}

type activeDocumentRequest struct {
	ActiveDocument string `json:"activeDocument" binding:"required"`
}

// SetActiveDocument 在简历和求职信之间切换。
func (h *SessionHandler) SetActiveDocument(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req activeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "activeDocument is required")
		return
	}

	active := s.SetActiveDocument(req.ActiveDocument)
	c.JSON(http.StatusOK, gin.H{"activeDocument": active})
}

type coverLetterFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// UpdateCoverLetter 更新求职信的单个字段，未知字段静默忽略。
func (h *SessionHandler) UpdateCoverLetter(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req coverLetterFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "field is required")
		return
	}

	letter := s.UpdateCoverLetter(req.Field, req.Value)
	c.JSON(http.StatusOK, gin.H{"coverLetter": letter})
}

type jobDescriptionRequest struct {
	JobDescription string `json:"jobDescription"`
}

// SetJobDescription 保存 AI 调用共用的职位描述草稿。
func (h *SessionHandler) SetJobDescription(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req jobDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	s.SetJobDescription(req.JobDescription)
	c.JSON(http.StatusOK, gin.H{"jobDescription": s.JobDescription()})
}

type loadPresetRequest struct {
	Purpose string `json:"purpose" binding:"required"`
}

// LoadPreset 按预设重置 Section 列表，个人信息与摘要保留。
func (h *SessionHandler) LoadPreset(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return
	}

	var req loadPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "purpose is required")
		return
	}

	snap := s.Store.LoadPreset(req.Purpose)
	c.JSON(http.StatusOK, gin.H{"revision": snap.Revision, "document": snap.Document})
}

// ListTemplates 返回模板目录。
func (h *SessionHandler) ListTemplates(c *gin.Context) {
	templates := projection.List()
	items := make([]gin.H, 0, len(templates))
	for _, t := range templates {
		items = append(items, gin.H{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
			"category":    t.Category,
			"tags":        t.Tags,
			"omits":       t.Omits,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListPurposes 返回可用的文档预设。
func (h *SessionHandler) ListPurposes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": document.Purposes()})
}
