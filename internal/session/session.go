// Package session 管理内存中的编辑会话：会话在开始时创建、结束时丢弃，
// 不落盘也不跨进程共享。每个会话恰好持有一份简历文档与一份求职信。
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"cvStudio/internal/document"
	"cvStudio/internal/projection"
	"cvStudio/internal/render"
)

// ErrNotFound 表示会话不存在或已结束。
var ErrNotFound = errors.New("session not found")

// Session 是一次编辑会话的全部状态。
// 文档本身由 Store 串行化；其余标量字段由会话锁保护。
type Session struct {
	ID    string
	Store *document.Store

	mu             sync.Mutex
	coverLetter    document.CoverLetter
	activeDocument string
	templateID     string
	purpose        string
	jobDescription string
}

// CoverLetter 返回求职信的当前副本。
func (s *Session) CoverLetter() document.CoverLetter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coverLetter
}

// UpdateCoverLetter 按字段名更新求职信。
func (s *Session) UpdateCoverLetter(field, value string) document.CoverLetter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coverLetter.SetField(field, value)
	return s.coverLetter
}

// ActiveDocument 返回当前激活的文档标记（resume 或 coverLetter）。
func (s *Session) ActiveDocument() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDocument
}

// SetActiveDocument 切换激活文档，未知取值回落到 resume。
func (s *Session) SetActiveDocument(active string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active != render.ActiveCoverLetter {
		active = render.ActiveResume
	}
	s.activeDocument = active
	return s.activeDocument
}

// TemplateID 返回当前选中的模板标识。
func (s *Session) TemplateID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templateID
}

// SetTemplate 选择模板。未知标识按契约解析到默认模板而非报错。
func (s *Session) SetTemplate(id string) string {
	resolved := projection.Resolve(id).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templateID = resolved
	return resolved
}

// Purpose 返回会话创建时的预设名。
func (s *Session) Purpose() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purpose
}

// JobDescription 返回 AI 调用共用的职位描述草稿。
func (s *Session) JobDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription
}

// SetJobDescription 更新职位描述草稿。
func (s *Session) SetJobDescription(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = text
}

// Manager 持有全部活跃会话。
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager 构造空的会话表。
func NewManager() *Manager {
	return &Manager{sessions: map[string]*Session{}}
}

// Create 新建会话：文档按预设播种，求职信带默认称呼落款，模板为默认模板。
func (m *Manager) Create(purpose string) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		Store:          document.NewStore(purpose),
		coverLetter:    document.NewCoverLetter(),
		activeDocument: render.ActiveResume,
		templateID:     projection.DefaultTemplateID,
		purpose:        purpose,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get 返回指定会话。
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete 结束并丢弃会话。重复删除与删除未知会话都静默成功。
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count 返回活跃会话数，仅用于指标与日志。
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
