package document

import (
	"encoding/json"
	"fmt"
)

// Item 表示 Section 中的一条记录。
// 原始数据允许两种形态：裸字符串（技能项常见）或扁平的字段对象。
// Item 自身不携带类型标签，如何解读字段由所属 Section 的 type 决定。
type Item struct {
	primitive bool
	text      string
	fields    map[string]string
}

// TextItem 构造字符串形态的 Item。
func TextItem(text string) Item {
	return Item{primitive: true, text: text}
}

// FieldItem 构造对象形态的 Item。传入的 map 会被复制。
func FieldItem(fields map[string]string) Item {
	return Item{fields: copyFields(fields)}
}

// ExperienceItem 构造一条经历记录。
func ExperienceItem(position, company, startDate, endDate, description string) Item {
	return FieldItem(map[string]string{
		"position":    position,
		"company":     company,
		"startDate":   startDate,
		"endDate":     endDate,
		"description": description,
	})
}

// EducationItem 构造一条教育记录。
func EducationItem(institution, degree, year string) Item {
	return FieldItem(map[string]string{
		"institution": institution,
		"degree":      degree,
		"year":        year,
	})
}

// SkillItem 构造对象形态的技能记录（{name: ...}）。
func SkillItem(name string) Item {
	return FieldItem(map[string]string{"name": name})
}

// IsPrimitive 报告 Item 是否为字符串形态。
func (it Item) IsPrimitive() bool { return it.primitive }

// Text 返回字符串形态的内容；对象形态返回空串。
func (it Item) Text() string { return it.text }

// Field 返回对象形态中指定字段的值，不存在时为空串。
func (it Item) Field(name string) string { return it.fields[name] }

// Fields 返回对象形态字段的副本。
func (it Item) Fields() map[string]string { return copyFields(it.fields) }

// withField 返回设置了指定字段的新 Item（浅合并，其余字段不变）。
// 对字符串形态的 Item 设置字段会将其提升为仅含该字段的对象形态。
func (it Item) withField(name, value string) Item {
	fields := copyFields(it.fields)
	if fields == nil {
		fields = map[string]string{}
	}
	fields[name] = value
	return Item{fields: fields}
}

func (it Item) clone() Item {
	if it.primitive {
		return it
	}
	return Item{fields: copyFields(it.fields)}
}

// MarshalJSON 保持原始形态：字符串原样输出，对象输出扁平 JSON 对象。
func (it Item) MarshalJSON() ([]byte, error) {
	if it.primitive {
		return json.Marshal(it.text)
	}
	if it.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(it.fields)
}

// UnmarshalJSON 接受字符串或扁平对象两种形态。
func (it *Item) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*it = TextItem(s)
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("item must be a string or a flat object: %w", err)
	}
	*it = Item{fields: m}
	return nil
}

func copyFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
