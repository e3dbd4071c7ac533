package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cvStudio/internal/ai"
)

type fakeAIService struct {
	optimizeResult string
	generateResult string
	photoResult    ai.PhotoAnalysis
	atsResult      ai.ATSReport
	err            error

	lastJobDescription string
}

func (f *fakeAIService) Optimize(_ context.Context, _, _, jobDescription string) (string, error) {
	f.lastJobDescription = jobDescription
	return f.optimizeResult, f.err
}

func (f *fakeAIService) GenerateDescription(_ context.Context, _, _ string) (string, error) {
	return f.generateResult, f.err
}

func (f *fakeAIService) AnalyzePhoto(_ context.Context, _ string) (ai.PhotoAnalysis, error) {
	return f.photoResult, f.err
}

func (f *fakeAIService) ATSScore(_ context.Context, _, _ string) (ai.ATSReport, error) {
	return f.atsResult, f.err
}

func TestOptimize_WritesBackSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	service := &fakeAIService{optimizeResult: "A sharper summary."}
	h := NewAIHandler(manager, service, ai.NewGuard())

	s.SetJobDescription("Senior Gopher wanted")

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.Optimize, http.MethodPost, "/ai/optimize", params,
		map[string]any{"content": "An old summary."})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := s.Store.Snapshot().Document.Summary; got != "A sharper summary." {
		t.Fatalf("summary = %q, want write-back", got)
	}
	if service.lastJobDescription != "Senior Gopher wanted" {
		t.Fatalf("job description not forwarded: %q", service.lastJobDescription)
	}
}

func TestOptimize_ItemFieldWriteBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	service := &fakeAIService{optimizeResult: "Led a team of five."}
	h := NewAIHandler(manager, service, ai.NewGuard())

	expID := s.Store.Snapshot().Document.Sections[0].ID
	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.Optimize, http.MethodPost, "/ai/optimize", params,
		map[string]any{"sectionId": expID, "itemIndex": 0, "field": "description", "content": "did stuff"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	item := s.Store.Snapshot().Document.Sections[0].Items[0]
	if got := item.Field("description"); got != "Led a team of five." {
		t.Fatalf("description = %q, want write-back", got)
	}
}

func TestOptimize_ServiceFailureLeavesDocumentUntouched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	service := &fakeAIService{err: ai.ErrServiceUnavailable}
	h := NewAIHandler(manager, service, ai.NewGuard())

	before := s.Store.Snapshot()
	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.Optimize, http.MethodPost, "/ai/optimize", params,
		map[string]any{"content": "original"})

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d body=%s", w.Code, w.Body.String())
	}
	after := s.Store.Snapshot()
	if after.Revision != before.Revision {
		t.Fatalf("document mutated on failure: rev %d -> %d", before.Revision, after.Revision)
	}
}

func TestAI_BusyElementReturns409(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	guard := ai.NewGuard()
	h := NewAIHandler(manager, &fakeAIService{optimizeResult: "x"}, guard)

	// 预先占住 summary 元素，模拟另一个在途请求。
	release, ok := guard.Acquire(s.ID + ":summary")
	if !ok {
		t.Fatalf("initial acquire failed")
	}
	defer release()

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.Optimize, http.MethodPost, "/ai/optimize", params,
		map[string]any{"content": "y"})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAnalyzePhoto_WritesFeedback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	service := &fakeAIService{photoResult: ai.PhotoAnalysis{Score: 82, Status: "good", Feedback: "Nice lighting."}}
	h := NewAIHandler(manager, service, ai.NewGuard())

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.AnalyzePhoto, http.MethodPost, "/ai/analyze-photo", params,
		map[string]any{"photo": "base64data"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := s.Store.Snapshot().Document.PersonalInfo.PhotoFeedback; got != "Nice lighting." {
		t.Fatalf("photoFeedback = %q, want write-back", got)
	}
}

func TestATSScore_RequiresJobDescription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	h := NewAIHandler(manager, &fakeAIService{}, ai.NewGuard())

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.ATSScore, http.MethodPost, "/ai/ats-score", params, map[string]any{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestATSScore_UsesSessionJobDescription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, s := newTestSession(t)
	service := &fakeAIService{atsResult: ai.ATSReport{Score: 73, Feedback: "ok", MissingKeywords: []string{"Kubernetes"}}}
	h := NewAIHandler(manager, service, ai.NewGuard())

	s.SetJobDescription("Platform engineer")

	params := gin.Params{{Key: "id", Value: s.ID}}
	w := performHandler(t, h.ATSScore, http.MethodPost, "/ai/ats-score", params, map[string]any{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "Kubernetes") {
		t.Fatalf("missing keywords absent from response: %s", body)
	}
}
