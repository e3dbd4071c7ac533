package document

// SectionType 声明一个 Section 中 Item 的解读方式。
// 除内置类型外，应用预设可引入自定义 type 字符串。
type SectionType string

const (
	TypeExperience SectionType = "experience"
	TypeEducation  SectionType = "education"
	TypeSkills     SectionType = "skills"
	TypeList       SectionType = "list"
	TypeParagraph  SectionType = "paragraph"
)

// Column 是模板可选择忽略的布局提示。
type Column string

const (
	ColumnUnset   Column = ""
	ColumnMain    Column = "main"
	ColumnSidebar Column = "sidebar"
)

// PersonalInfo 是简历头部的扁平个人信息。所有字段均可为空。
type PersonalInfo struct {
	FullName      string `json:"fullName"`
	Role          string `json:"role"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
	LinkedIn      string `json:"linkedin"`
	Photo         string `json:"photo,omitempty"`
	PhotoFeedback string `json:"photoFeedback,omitempty"`
}

// Section 是有序、带类型的 Item 容器。
// ID 在整个 Document 生命周期内唯一且不复用。
type Section struct {
	ID     string      `json:"id"`
	Type   SectionType `json:"type"`
	Title  string      `json:"title"`
	Column Column      `json:"column,omitempty"`
	Items  []Item      `json:"items"`
}

func (s Section) clone() Section {
	out := s
	out.Items = make([]Item, len(s.Items))
	for i, it := range s.Items {
		out.Items[i] = it.clone()
	}
	return out
}

// Document 是编辑会话的唯一内容源。
type Document struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`
	Sections     []Section    `json:"sections"`
}

func (d Document) clone() Document {
	out := d
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = s.clone()
	}
	return out
}

// Snapshot 是某次变更后 Document 的不可变视图。
// Revision 按变更次序严格递增；已发出的 Snapshot 不会被后续写入改动。
type Snapshot struct {
	Revision uint64   `json:"revision"`
	Document Document `json:"document"`
}

// CoverLetter 是与简历并存的独立求职信文档，结构扁平。
type CoverLetter struct {
	RecipientName  string `json:"recipientName"`
	RecipientTitle string `json:"recipientTitle"`
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	Greeting       string `json:"greeting"`
	Body           string `json:"body"`
	SignOff        string `json:"signOff"`
}

// NewCoverLetter 返回带默认称呼与落款的求职信。
func NewCoverLetter() CoverLetter {
	return CoverLetter{
		Greeting: "Dear Hiring Manager,",
		SignOff:  "Sincerely,",
	}
}

// SetField 按字段名更新求职信内容，未知字段静默忽略。
func (c *CoverLetter) SetField(field, value string) {
	switch field {
	case "recipientName":
		c.RecipientName = value
	case "recipientTitle":
		c.RecipientTitle = value
	case "companyName":
		c.CompanyName = value
	case "companyAddress":
		c.CompanyAddress = value
	case "greeting":
		c.Greeting = value
	case "body":
		c.Body = value
	case "signOff":
		c.SignOff = value
	}
}
