package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeService(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestOptimize(t *testing.T) {
	srv := newFakeService(t, http.StatusOK, `{"optimizedContent": "Better text."}`)
	defer srv.Close()

	got, err := NewClient(srv.URL).Optimize(context.Background(), "summary", "ok text", "backend role")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if got != "Better text." {
		t.Fatalf("optimized = %q", got)
	}
}

func TestOptimizeSendsRequestFields(t *testing.T) {
	var seen map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		_, _ = w.Write([]byte(`{"optimizedContent": "x"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Optimize(context.Background(), "experience", "content", "jd"); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if seen["section"] != "experience" || seen["content"] != "content" || seen["jobDescription"] != "jd" {
		t.Fatalf("request body = %+v", seen)
	}
}

func TestAnalyzePhoto(t *testing.T) {
	srv := newFakeService(t, http.StatusOK, `{"score": 82, "status": "Green", "feedback": "Good lighting."}`)
	defer srv.Close()

	got, err := NewClient(srv.URL).AnalyzePhoto(context.Background(), "data:image/png;base64,xxxx")
	if err != nil {
		t.Fatalf("analyze photo: %v", err)
	}
	if got.Score != 82 || got.Status != "Green" || got.Feedback != "Good lighting." {
		t.Fatalf("analysis = %+v", got)
	}
}

func TestATSScore(t *testing.T) {
	srv := newFakeService(t, http.StatusOK, `{"score": 55, "feedback": "Missing keywords.", "missingKeywords": ["Go", "gRPC"]}`)
	defer srv.Close()

	got, err := NewClient(srv.URL).ATSScore(context.Background(), "resume text", "job description")
	if err != nil {
		t.Fatalf("ats score: %v", err)
	}
	if got.Score != 55 || len(got.MissingKeywords) != 2 {
		t.Fatalf("report = %+v", got)
	}
}

func TestServiceErrorsAreWrapped(t *testing.T) {
	srv := newFakeService(t, http.StatusInternalServerError, `{"error": "boom"}`)
	defer srv.Close()
	client := NewClient(srv.URL)

	if _, err := client.GenerateDescription(context.Background(), "Engineer", "Acme"); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}

	// 畸形响应同样归类为服务方失败。
	srv2 := newFakeService(t, http.StatusOK, `not json`)
	defer srv2.Close()
	if _, err := NewClient(srv2.URL).ATSScore(context.Background(), "a", "b"); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestGuardAllowsOneInFlightPerKey(t *testing.T) {
	g := NewGuard()

	release, ok := g.Acquire("session-1:summary")
	if !ok {
		t.Fatalf("first acquire refused")
	}
	if _, ok := g.Acquire("session-1:summary"); ok {
		t.Fatalf("second acquire for same key allowed")
	}
	if otherRelease, ok := g.Acquire("session-1:photo"); !ok {
		t.Fatalf("different key blocked")
	} else {
		otherRelease()
	}

	release()
	release() // 释放是幂等的
	if again, ok := g.Acquire("session-1:summary"); !ok {
		t.Fatalf("acquire after release refused")
	} else {
		again()
	}
}
