// Package projection 定义所有模板消费 Document 快照时必须遵守的只读投影契约：
// 列回落规则、可用的分区谓词，以及"每个 Section 恰好出现一次"的完整性约束。
// 模板之间只允许在这些谓词上有差异，不允许各自发明分区逻辑。
package projection

import "cvStudio/internal/document"

// EffectiveColumn 是契约规定的列回落规则：
// column 未设置时，experience 归主列，其余归侧栏。
// 这是契约的一部分，不是模板各自的猜测。
func EffectiveColumn(s document.Section) document.Column {
	if s.Column != document.ColumnUnset {
		return s.Column
	}
	if s.Type == document.TypeExperience {
		return document.ColumnMain
	}
	return document.ColumnSidebar
}

// Region 是模板布局中的一个可视区域，保持 Section 在快照中的相对顺序。
type Region struct {
	Name     string
	Sections []document.Section
}

// Layout 是一次投影的结果：快照中的 Section 被划分到若干区域。
type Layout struct {
	TemplateID string
	Regions    []Region
}

// SplitByEffectiveColumn 按回落后的列划分（main, sidebar）。
func SplitByEffectiveColumn(sections []document.Section) (main, sidebar []document.Section) {
	for _, s := range sections {
		if EffectiveColumn(s) == document.ColumnMain {
			main = append(main, s)
		} else {
			sidebar = append(sidebar, s)
		}
	}
	return main, sidebar
}

// SplitByTypes 按类型集合划分（命中, 未命中）。
func SplitByTypes(sections []document.Section, types ...document.SectionType) (in, out []document.Section) {
	set := make(map[document.SectionType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	for _, s := range sections {
		if _, ok := set[s.Type]; ok {
			in = append(in, s)
		} else {
			out = append(out, s)
		}
	}
	return in, out
}

// SplitByParity 按下标奇偶划分（偶数位, 奇数位）。
// 想要和语义无关的对半开布局时使用。
func SplitByParity(sections []document.Section) (even, odd []document.Section) {
	for i, s := range sections {
		if i%2 == 0 {
			even = append(even, s)
		} else {
			odd = append(odd, s)
		}
	}
	return even, odd
}

// SplitMainOrExperience 对应观察到的 "type==experience || column==main" 划分。
// 注意这里用的是声明列而非回落列：column 未设置的非 experience Section 落入第二组。
func SplitMainOrExperience(sections []document.Section) (main, rest []document.Section) {
	for _, s := range sections {
		if s.Type == document.TypeExperience || s.Column == document.ColumnMain {
			main = append(main, s)
		} else {
			rest = append(rest, s)
		}
	}
	return main, rest
}
