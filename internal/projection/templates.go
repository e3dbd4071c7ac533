package projection

import (
	"sort"

	"cvStudio/internal/document"
)

// DefaultTemplateID 是未知模板标识的回落目标。
const DefaultTemplateID = "modern"

// ProjectFunc 是纯函数：同一快照永远产出同一布局，不保留任何调用间状态。
type ProjectFunc func(snap document.Snapshot) Layout

// Template 是注册表中的一个模板：目录元数据加投影函数。
// Omits 列出模板有意整类省略的 Section 类型（文档化的例外，不算违约）；
// 目前注册的模板都不省略任何类型。
type Template struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Tags        []string               `json:"tags"`
	Omits       []document.SectionType `json:"-"`

	Project ProjectFunc `json:"-"`
}

var registry = map[string]Template{
	"modern": {
		ID:          "modern",
		Name:        "Modern Professional",
		Description: "A clean, balanced design suitable for most corporate roles.",
		Category:    "corporate",
		Tags:        []string{"professional", "ats-friendly"},
		Project: func(snap document.Snapshot) Layout {
			main, sidebar := SplitByEffectiveColumn(snap.Document.Sections)
			return Layout{TemplateID: "modern", Regions: []Region{
				{Name: "main", Sections: main},
				{Name: "sidebar", Sections: sidebar},
			}}
		},
	},
	"minimal": {
		ID:          "minimal",
		Name:        "Clean Minimalist",
		Description: "Simple and elegant, perfect for highlighting content without distraction.",
		Category:    "minimalist",
		Tags:        []string{"clean", "simple"},
		Project: func(snap document.Snapshot) Layout {
			// 单列布局：忽略 column，按原始阅读顺序铺开。
			return Layout{TemplateID: "minimal", Regions: []Region{
				{Name: "page", Sections: snap.Document.Sections},
			}}
		},
	},
	"creative": {
		ID:          "creative",
		Name:        "Artistic Portfolio",
		Description: "Bold headers and unique layout for creative professionals.",
		Category:    "creative",
		Tags:        []string{"designer", "portfolio"},
		Project: func(snap document.Snapshot) Layout {
			exp, rest := SplitByTypes(snap.Document.Sections, document.TypeExperience)
			return Layout{TemplateID: "creative", Regions: []Region{
				{Name: "main", Sections: exp},
				{Name: "sidebar", Sections: rest},
			}}
		},
	},
	"compact": {
		ID:          "compact",
		Name:        "Compact Executive",
		Description: "Dense layout designed to fit extensive experience on fewer pages.",
		Category:    "corporate",
		Tags:        []string{"executive", "dense"},
		Project: func(snap document.Snapshot) Layout {
			side, main := SplitByTypes(snap.Document.Sections,
				document.TypeSkills, document.TypeList, document.TypeEducation)
			return Layout{TemplateID: "compact", Regions: []Region{
				{Name: "main", Sections: main},
				{Name: "sidebar", Sections: side},
			}}
		},
	},
	"template1": {
		ID:          "template1",
		Name:        "Corporate Grid",
		Description: "Professional grid layout with dark header and clear skill separation.",
		Category:    "corporate",
		Tags:        []string{"modern", "grid"},
		Project: func(snap document.Snapshot) Layout {
			side, main := SplitByTypes(snap.Document.Sections,
				document.TypeSkills, document.TypeEducation)
			return Layout{TemplateID: "template1", Regions: []Region{
				{Name: "main", Sections: main},
				{Name: "sidebar", Sections: side},
			}}
		},
	},
	"template2": {
		ID:          "template2",
		Name:        "Modern Sidebar",
		Description: "Clean design with a distinct right sidebar and teal accents.",
		Category:    "creative",
		Tags:        []string{"sidebar", "modern", "teal"},
		Project: func(snap document.Snapshot) Layout {
			main, rest := SplitMainOrExperience(snap.Document.Sections)
			return Layout{TemplateID: "template2", Regions: []Region{
				{Name: "main", Sections: main},
				{Name: "sidebar", Sections: rest},
			}}
		},
	},
	"splitgrid": {
		ID:          "splitgrid",
		Name:        "Split Grid",
		Description: "Symmetric two-column grid that alternates sections left and right.",
		Category:    "minimalist",
		Tags:        []string{"grid", "balanced"},
		Project: func(snap document.Snapshot) Layout {
			left, right := SplitByParity(snap.Document.Sections)
			return Layout{TemplateID: "splitgrid", Regions: []Region{
				{Name: "left", Sections: left},
				{Name: "right", Sections: right},
			}}
		},
	},
}

// Resolve 返回指定模板，未知标识回落到 DefaultTemplateID 而不是报错。
func Resolve(id string) Template {
	if t, ok := registry[id]; ok {
		return t
	}
	return registry[DefaultTemplateID]
}

// List 返回按 ID 排序的模板目录。
func List() []Template {
	out := make([]Template, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
