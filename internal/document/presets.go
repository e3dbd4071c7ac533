package document

import "github.com/google/uuid"

// DefaultPurpose 是未知预设的回落目标。
const DefaultPurpose = "job"

type presetSection struct {
	typ    SectionType
	title  string
	column Column
}

// 预设决定新会话的初始 Section 组合，ID 在实例化时生成。
var presets = map[string][]presetSection{
	"job": {
		{TypeExperience, "Work Experience", ColumnMain},
		{TypeEducation, "Education", ColumnMain},
		{TypeSkills, "Skills", ColumnSidebar},
	},
	"scholarship": {
		{TypeEducation, "Education", ColumnMain},
		{TypeList, "Awards & Honors", ColumnMain},
		{TypeList, "Research Experience", ColumnMain},
	},
	"creative": {
		{TypeList, "Portfolio Projects", ColumnMain},
		{TypeSkills, "Technical Skills", ColumnSidebar},
		{TypeExperience, "Experience", ColumnMain},
	},
	"cv": {
		{TypeEducation, "Education", ColumnMain},
		{TypeList, "Research Experience", ColumnMain},
		{TypeList, "Publications", ColumnMain},
		{TypeList, "Grants & Awards", ColumnSidebar},
		{TypeExperience, "Teaching Experience", ColumnMain},
	},
}

// Purposes 返回全部预设名称。
func Purposes() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

// PresetSections 按预设实例化初始 Section 列表，未知预设回落到 DefaultPurpose。
// 每次调用生成全新 ID，同一进程内不同会话互不冲突。
func PresetSections(purpose string) []Section {
	seeds, ok := presets[purpose]
	if !ok {
		seeds = presets[DefaultPurpose]
	}
	sections := make([]Section, 0, len(seeds))
	for _, seed := range seeds {
		sections = append(sections, Section{
			ID:     uuid.NewString(),
			Type:   seed.typ,
			Title:  seed.title,
			Column: seed.column,
			Items:  []Item{},
		})
	}
	return sections
}
