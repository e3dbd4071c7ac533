package projection

import "cvStudio/internal/document"

// DisplayLabel 是渲染边界上的统一适配：技能/列表项允许是裸字符串
// 或 {name: ...} 对象，所有模板必须经由这里取显示文本，
// 而不是各自假设某一种形态。
func DisplayLabel(it document.Item) string {
	if it.IsPrimitive() {
		return it.Text()
	}
	if name := it.Field("name"); name != "" {
		return name
	}
	// 宽松兜底：Section 类型变更后残留的旧形态也要有可读标签。
	for _, field := range []string{"title", "position", "institution"} {
		if v := it.Field(field); v != "" {
			return v
		}
	}
	return ""
}
