// Package schema 校验整份文档导入载荷，防止越过变更 API 塞入畸形结构。
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema 描述导入文档的线格式。
// 注意 items 的 oneOf：裸字符串与扁平字符串对象都是合法形态。
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["personalInfo", "summary", "sections"],
  "additionalProperties": false,
  "properties": {
    "personalInfo": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "fullName": {"type": "string"},
        "role": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "location": {"type": "string"},
        "linkedin": {"type": "string"},
        "photo": {"type": "string"},
        "photoFeedback": {"type": "string"}
      }
    },
    "summary": {"type": "string"},
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "title", "items"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "column": {"enum": ["main", "sidebar", ""]},
          "items": {
            "type": "array",
            "items": {
              "oneOf": [
                {"type": "string"},
                {
                  "type": "object",
                  "additionalProperties": {"type": "string"}
                }
              ]
            }
          }
        }
      }
    }
  }
}`

var documentLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidateDocument 对导入的文档 JSON 做结构校验，返回聚合后的错误信息。
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(documentLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate document payload: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("document payload invalid: %s", strings.Join(msgs, "; "))
}
