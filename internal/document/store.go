package document

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// 变更失败的两类模型完整性错误。
// 对不存在 Section ID 的变更不属于错误：拖拽/删除竞态下目标可能已经消失，
// 静默忽略是既有约定。Item 下标越界则始终是调用方缺陷，必须报错。
var (
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrInvalidReorder  = errors.New("reorder is not a permutation of current section ids")

	// ErrDuplicateSectionID 表示导入的文档中存在重复的 Section ID。
	// ID 在整个 Document 生命周期内唯一，schema 校验表达不了这条约束，
	// 必须在装载前单独检查。
	ErrDuplicateSectionID = errors.New("document contains duplicate section ids")
)

// Store 持有一个 Document，是其全部读写的唯一入口。
// 每次成功变更都会发布一个全新的 Snapshot，已发出的 Snapshot 不被后续写入影响。
type Store struct {
	mu  sync.Mutex
	doc Document
	rev uint64
}

// NewStore 按指定预设初始化 Store，未知预设回落到 "job"。
func NewStore(purpose string) *Store {
	return &Store{doc: Document{Sections: PresetSections(purpose)}}
}

// Snapshot 返回当前内容的深拷贝视图。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Revision: s.rev, Document: s.doc.clone()}
}

func (s *Store) commitLocked() Snapshot {
	s.rev++
	return s.snapshotLocked()
}

// SetPersonalInfoField 覆盖单个个人信息字段，空串是合法值，未知字段静默忽略。
func (s *Store) SetPersonalInfoField(field, value string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.doc.PersonalInfo
	switch field {
	case "fullName":
		p.FullName = value
	case "role":
		p.Role = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "location":
		p.Location = value
	case "linkedin":
		p.LinkedIn = value
	case "photo":
		p.Photo = value
	case "photoFeedback":
		p.PhotoFeedback = value
	default:
		return s.snapshotLocked()
	}
	return s.commitLocked()
}

// SetSummary 覆盖摘要。
func (s *Store) SetSummary(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Summary = text
	return s.commitLocked()
}

// AddSection 追加一个空 Section，ID 为新生成的 uuid，column 默认未设置。
func (s *Store) AddSection(title string, typ SectionType) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Sections = append(s.doc.Sections, Section{
		ID:    uuid.NewString(),
		Type:  typ,
		Title: title,
		Items: []Item{},
	})
	return s.commitLocked()
}

// RemoveSection 删除 Section 及其全部 Item。ID 不存在时不做任何事。
func (s *Store) RemoveSection(id string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sec := range s.doc.Sections {
		if sec.ID == id {
			s.doc.Sections = append(s.doc.Sections[:i], s.doc.Sections[i+1:]...)
			return s.commitLocked()
		}
	}
	return s.snapshotLocked()
}

// SetSectionTitle 更新标题，ID 不存在时不做任何事。
func (s *Store) SetSectionTitle(id, title string) Snapshot {
	return s.updateSection(id, func(sec *Section) { sec.Title = title })
}

// SetSectionType 更新声明类型。既有 Item 不会被重塑，
// 旧形态允许一直保留到被编辑为止，渲染端需容忍字段缺失。
func (s *Store) SetSectionType(id string, typ SectionType) Snapshot {
	return s.updateSection(id, func(sec *Section) { sec.Type = typ })
}

// SetSectionColumn 更新布局提示，ID 不存在时不做任何事。
func (s *Store) SetSectionColumn(id string, column Column) Snapshot {
	return s.updateSection(id, func(sec *Section) { sec.Column = column })
}

func (s *Store) updateSection(id string, apply func(*Section)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Sections {
		if s.doc.Sections[i].ID == id {
			apply(&s.doc.Sections[i])
			return s.commitLocked()
		}
	}
	return s.snapshotLocked()
}

// ReorderSections 按给定 ID 序列整体重排。
// 序列必须是现有 ID 的置换，否则返回 ErrInvalidReorder 且内容不变。
// 严格校验是相对观察到的行为的刻意加固：调用方唯一的用法就是拖拽产生的同集合置换。
func (s *Store) ReorderSections(ids []string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.doc.Sections) {
		return s.snapshotLocked(), ErrInvalidReorder
	}
	byID := make(map[string]int, len(s.doc.Sections))
	for i, sec := range s.doc.Sections {
		byID[sec.ID] = i
	}
	reordered := make([]Section, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idx, ok := byID[id]
		if !ok {
			return s.snapshotLocked(), ErrInvalidReorder
		}
		if _, dup := seen[id]; dup {
			return s.snapshotLocked(), ErrInvalidReorder
		}
		seen[id] = struct{}{}
		reordered = append(reordered, s.doc.Sections[idx])
	}
	s.doc.Sections = reordered
	return s.commitLocked(), nil
}

// AddItem 将 Item 追加到 Section 末尾，ID 不存在时不做任何事。
func (s *Store) AddItem(sectionID string, item Item) Snapshot {
	return s.updateSection(sectionID, func(sec *Section) {
		sec.Items = append(sec.Items, item.clone())
	})
}

// SetItemField 将 {field: value} 浅合并进指定 Item，其余字段不变。
// 字符串形态的 Item 会被提升为仅含该字段的对象形态。
// Section ID 不存在时不做任何事；下标越界返回 ErrIndexOutOfRange 且内容不变。
func (s *Store) SetItemField(sectionID string, index int, field, value string) (Snapshot, error) {
	return s.updateItem(sectionID, index, func(it Item) Item {
		return it.withField(field, value)
	})
}

// ReplaceItem 整体替换指定下标的 Item（用于字符串形态的技能项）。
// 失败语义与 SetItemField 相同。
func (s *Store) ReplaceItem(sectionID string, index int, item Item) (Snapshot, error) {
	return s.updateItem(sectionID, index, func(Item) Item { return item.clone() })
}

// RemoveItem 删除指定下标的 Item，后续 Item 前移补位。
// 失败语义与 SetItemField 相同。
func (s *Store) RemoveItem(sectionID string, index int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Sections {
		sec := &s.doc.Sections[i]
		if sec.ID != sectionID {
			continue
		}
		if index < 0 || index >= len(sec.Items) {
			return s.snapshotLocked(), ErrIndexOutOfRange
		}
		sec.Items = append(sec.Items[:index], sec.Items[index+1:]...)
		return s.commitLocked(), nil
	}
	return s.snapshotLocked(), nil
}

func (s *Store) updateItem(sectionID string, index int, apply func(Item) Item) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Sections {
		sec := &s.doc.Sections[i]
		if sec.ID != sectionID {
			continue
		}
		if index < 0 || index >= len(sec.Items) {
			return s.snapshotLocked(), ErrIndexOutOfRange
		}
		sec.Items[index] = apply(sec.Items[index])
		return s.commitLocked(), nil
	}
	return s.snapshotLocked(), nil
}

// LoadDocument 整体替换文档内容（导入场景，调用前需通过 schema 校验）。
// Section ID 重复的文档返回 ErrDuplicateSectionID 且内容不变：
// 重复 ID 会让按 ID 寻址的变更只命中第一个匹配，唯一性必须在入口挡住。
func (s *Store) LoadDocument(doc Document) (Snapshot, error) {
	seen := make(map[string]struct{}, len(doc.Sections))
	for _, sec := range doc.Sections {
		if _, dup := seen[sec.ID]; dup {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.snapshotLocked(), ErrDuplicateSectionID
		}
		seen[sec.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.clone()
	if s.doc.Sections == nil {
		s.doc.Sections = []Section{}
	}
	return s.commitLocked(), nil
}

// LoadPreset 将 Section 列表重置为指定预设，个人信息与摘要保留。
func (s *Store) LoadPreset(purpose string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Sections = PresetSections(purpose)
	return s.commitLocked()
}
