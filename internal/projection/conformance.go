package projection

import (
	"fmt"

	"cvStudio/internal/document"
)

// CheckConformance 校验模板对快照的投影是否满足契约：
// 所有区域的并集恰好等于快照中的 Section 集合（减去模板文档化省略的类型），
// 且没有任何 Section 出现多次。注册新模板时必须通过该校验。
func CheckConformance(t Template, snap document.Snapshot) error {
	layout := t.Project(snap)

	omitted := make(map[document.SectionType]struct{}, len(t.Omits))
	for _, typ := range t.Omits {
		omitted[typ] = struct{}{}
	}

	placed := map[string]string{} // section id -> region name
	for _, region := range layout.Regions {
		for _, s := range region.Sections {
			if prev, dup := placed[s.ID]; dup {
				return fmt.Errorf("template %s: section %q placed in both %q and %q",
					t.ID, s.ID, prev, region.Name)
			}
			placed[s.ID] = region.Name
			if _, omit := omitted[s.Type]; omit {
				return fmt.Errorf("template %s: section %q has type %q which the template claims to omit",
					t.ID, s.ID, s.Type)
			}
		}
	}

	for _, s := range snap.Document.Sections {
		_, ok := placed[s.ID]
		_, omit := omitted[s.Type]
		switch {
		case omit && ok:
			return fmt.Errorf("template %s: omitted type %q still placed (section %q)", t.ID, s.Type, s.ID)
		case !omit && !ok:
			return fmt.Errorf("template %s: section %q (type %q) dropped from every region", t.ID, s.ID, s.Type)
		}
	}

	if len(placed) > len(snap.Document.Sections) {
		return fmt.Errorf("template %s: %d placed sections but snapshot has %d",
			t.ID, len(placed), len(snap.Document.Sections))
	}
	return nil
}

// CheckAll 对注册表中的每个模板运行 CheckConformance。
func CheckAll(snap document.Snapshot) error {
	for _, t := range List() {
		if err := CheckConformance(t, snap); err != nil {
			return err
		}
	}
	return nil
}
