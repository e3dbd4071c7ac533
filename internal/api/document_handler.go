package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvStudio/internal/document"
	"cvStudio/internal/session"
)

// DocumentHandler 负责简历文档的全部编辑操作。
// 软未命中（不存在的 section id）返回 200 与未变的快照，
// 越界的条目下标和非法重排返回 400，与编辑语义保持一致。
type DocumentHandler struct {
	Manager *session.Manager
}

// NewDocumentHandler 返回 DocumentHandler 实例。
func NewDocumentHandler(manager *session.Manager) *DocumentHandler {
	return &DocumentHandler{Manager: manager}
}

func (h *DocumentHandler) store(c *gin.Context) (*document.Store, bool) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		NotFound(c, "session not found")
		return nil, false
	}
	return s.Store, true
}

func snapshotJSON(c *gin.Context, snap document.Snapshot) {
	c.JSON(http.StatusOK, gin.H{"revision": snap.Revision, "document": snap.Document})
}

func snapshotOrEditError(c *gin.Context, snap document.Snapshot, err error) {
	if err != nil {
		if errors.Is(err, document.ErrIndexOutOfRange) || errors.Is(err, document.ErrInvalidReorder) {
			BadRequest(c, err.Error())
			return
		}
		Internal(c, err.Error())
		return
	}
	snapshotJSON(c, snap)
}

func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "invalid item index")
		return 0, false
	}
	return index, true
}

type fieldValueRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SetPersonalInfoField 更新单个个人信息字段。
func (h *DocumentHandler) SetPersonalInfoField(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req fieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "field is required")
		return
	}
	snapshotJSON(c, store.SetPersonalInfoField(req.Field, req.Value))
}

type summaryRequest struct {
	Summary string `json:"summary"`
}

// SetSummary 更新个人简介。
func (h *DocumentHandler) SetSummary(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	snapshotJSON(c, store.SetSummary(req.Summary))
}

type addSectionRequest struct {
	Title string               `json:"title" binding:"required"`
	Type  document.SectionType `json:"type"`
}

// AddSection 追加自定义 Section，服务端分配 id。
func (h *DocumentHandler) AddSection(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req addSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	if req.Type == "" {
		req.Type = document.TypeList
	}
	snapshotJSON(c, store.AddSection(req.Title, req.Type))
}

// RemoveSection 删除 Section，目标不存在时静默跳过。
func (h *DocumentHandler) RemoveSection(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	snapshotJSON(c, store.RemoveSection(c.Param("sectionId")))
}

type sectionTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// SetSectionTitle 重命名 Section。
func (h *DocumentHandler) SetSectionTitle(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req sectionTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	snapshotJSON(c, store.SetSectionTitle(c.Param("sectionId"), req.Title))
}

type sectionTypeRequest struct {
	Type document.SectionType `json:"type" binding:"required"`
}

// SetSectionType 修改 Section 类型。已有条目保持原形状不做迁移。
func (h *DocumentHandler) SetSectionType(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req sectionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "type is required")
		return
	}
	snapshotJSON(c, store.SetSectionType(c.Param("sectionId"), req.Type))
}

type sectionColumnRequest struct {
	Column document.Column `json:"column"`
}

// SetSectionColumn 声明 Section 的栏位偏好。
func (h *DocumentHandler) SetSectionColumn(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req sectionColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	snapshotJSON(c, store.SetSectionColumn(c.Param("sectionId"), req.Column))
}

type reorderRequest struct {
	SectionIDs []string `json:"sectionIds" binding:"required"`
}

// ReorderSections 整体重排 Section。请求必须是现有 id 的一个置换。
func (h *DocumentHandler) ReorderSections(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "sectionIds is required")
		return
	}
	snap, err := store.ReorderSections(req.SectionIDs)
	snapshotOrEditError(c, snap, err)
}

type addItemRequest struct {
	Item document.Item `json:"item"`
}

// AddItem 在 Section 末尾追加条目，条目可以是字符串或字段对象。
func (h *DocumentHandler) AddItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid item payload")
		return
	}
	snapshotJSON(c, store.AddItem(c.Param("sectionId"), req.Item))
}

type setItemRequest struct {
	Field string         `json:"field"`
	Value string         `json:"value"`
	Item  *document.Item `json:"item"`
}

// SetItem 更新条目：给定 field 时合并单字段，给定 item 时整体替换。
func (h *DocumentHandler) SetItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	var req setItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid item payload")
		return
	}

	if req.Field != "" {
		snap, err := store.SetItemField(c.Param("sectionId"), index, req.Field, req.Value)
		snapshotOrEditError(c, snap, err)
		return
	}
	if req.Item == nil {
		BadRequest(c, "field or item is required")
		return
	}
	snap, err := store.ReplaceItem(c.Param("sectionId"), index, *req.Item)
	snapshotOrEditError(c, snap, err)
}

// RemoveItem 删除指定下标的条目。
func (h *DocumentHandler) RemoveItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	snap, err := store.RemoveItem(c.Param("sectionId"), index)
	snapshotOrEditError(c, snap, err)
}
