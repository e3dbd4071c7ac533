package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"cvStudio/internal/session"
)

func TestCreateSession_SeedsPresetDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := session.NewManager()
	h := NewSessionHandler(manager)

	w := performHandler(t, h.CreateSession, http.MethodPost, "/sessions", nil,
		map[string]any{"purpose": "scholarship"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		SessionID  string         `json:"sessionId"`
		Purpose    string         `json:"purpose"`
		TemplateID string         `json:"templateId"`
		Document   map[string]any `json:"document"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatalf("sessionId missing")
	}
	if resp.Purpose != "scholarship" {
		t.Fatalf("purpose = %q", resp.Purpose)
	}
	if resp.TemplateID != "modern" {
		t.Fatalf("templateId = %q, want default", resp.TemplateID)
	}
	if len(resp.Document["sections"].([]any)) == 0 {
		t.Fatalf("preset document has no sections")
	}
	if _, err := manager.Get(resp.SessionID); err != nil {
		t.Fatalf("created session not retrievable: %v", err)
	}
}

func TestDeleteSession_IsIdempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewSessionHandler(manager)

	params := gin.Params{{Key: "id", Value: s.ID}}
	for i := 0; i < 2; i++ {
		w := performHandler(t, h.DeleteSession, http.MethodDelete, "/sessions/"+s.ID, params, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected 204 got %d", i, w.Code)
		}
	}
	if _, err := manager.Get(s.ID); err == nil {
		t.Fatalf("session still retrievable after delete")
	}
}

func TestImportDocument_ReplacesWholeDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewSessionHandler(manager)

	doc := map[string]any{
		"personalInfo": map[string]any{"fullName": "Ada Lovelace"},
		"summary":      "First programmer.",
		"sections": []map[string]any{
			{
				"id":    "s1",
				"type":  "skills",
				"title": "Skills",
				"items": []any{"Analytical Engine", map[string]string{"name": "Mathematics"}},
			},
		},
	}

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.ImportDocument, http.MethodPut, "/document", params, doc)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	snap := s.Store.Snapshot()
	if snap.Document.PersonalInfo.FullName != "Ada Lovelace" {
		t.Fatalf("personal info not replaced: %+v", snap.Document.PersonalInfo)
	}
	if len(snap.Document.Sections) != 1 || snap.Document.Sections[0].ID != "s1" {
		t.Fatalf("sections not replaced: %+v", snap.Document.Sections)
	}
}

func TestImportDocument_RejectsDuplicateSectionIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewSessionHandler(manager)

	before := s.Store.Snapshot()

	// 形状合法但两个 Section 共用一个 id，必须整体拒绝。
	doc := map[string]any{
		"sections": []map[string]any{
			{"id": "dup", "type": "skills", "title": "Skills", "items": []any{"Go"}},
			{"id": "dup", "type": "list", "title": "Awards", "items": []any{"Medal"}},
		},
	}

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.ImportDocument, http.MethodPut, "/document", params, doc)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	after := s.Store.Snapshot()
	if after.Revision != before.Revision {
		t.Fatalf("document mutated by rejected import")
	}
}

func TestImportDocument_RejectsMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewSessionHandler(manager)

	before := s.Store.Snapshot()

	// 条目里混入嵌套对象，整体拒绝且文档不变。
	doc := map[string]any{
		"sections": []map[string]any{
			{
				"id":    "s1",
				"type":  "skills",
				"title": "Skills",
				"items": []any{map[string]any{"name": map[string]string{"nested": "bad"}}},
			},
		},
	}

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.ImportDocument, http.MethodPut, "/document", params, doc)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	after := s.Store.Snapshot()
	if after.Revision != before.Revision {
		t.Fatalf("document mutated by rejected import")
	}
}

func TestSelectTemplate_UnknownIDFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewSessionHandler(manager)

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.SelectTemplate, http.MethodPut, "/template", params,
		map[string]any{"templateId": "does-not-exist"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := s.TemplateID(); got != "modern" {
		t.Fatalf("templateId = %q, want fallback to modern", got)
	}
}

func TestListTemplates_ReturnsCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSessionHandler(session.NewManager())

	w := performHandler(t, h.ListTemplates, http.MethodGet, "/templates", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var resp struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) < 7 {
		t.Fatalf("expected at least 7 templates, got %d", len(resp.Items))
	}
}
