package schema

import "testing"

const validPayload = `{
  "personalInfo": {"fullName": "Alex Morgan", "role": "Designer"},
  "summary": "Experienced designer.",
  "sections": [
    {"id": "exp", "type": "experience", "title": "Experience", "column": "main",
     "items": [{"position": "Lead", "company": "Studio X"}]},
    {"id": "skills", "type": "skills", "title": "Skills",
     "items": ["Figma", {"name": "React"}]}
  ]
}`

func TestValidateDocumentAcceptsBothItemShapes(t *testing.T) {
	if err := ValidateDocument([]byte(validPayload)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateDocumentRejections(t *testing.T) {
	cases := map[string]string{
		"missing sections":  `{"personalInfo": {}, "summary": ""}`,
		"section sans id":   `{"personalInfo": {}, "summary": "", "sections": [{"type": "list", "title": "x", "items": []}]}`,
		"numeric item":      `{"personalInfo": {}, "summary": "", "sections": [{"id": "a", "type": "list", "title": "x", "items": [42]}]}`,
		"nested item field": `{"personalInfo": {}, "summary": "", "sections": [{"id": "a", "type": "list", "title": "x", "items": [{"deep": {"x": 1}}]}]}`,
		"bad column":        `{"personalInfo": {}, "summary": "", "sections": [{"id": "a", "type": "list", "title": "x", "column": "footer", "items": []}]}`,
		"not json":          `{`,
	}
	for name, payload := range cases {
		if err := ValidateDocument([]byte(payload)); err == nil {
			t.Errorf("%s: accepted, want error", name)
		}
	}
}
