package render

import (
	"strings"
	"testing"
	"time"

	"cvStudio/internal/document"
)

func testInput(t *testing.T) Input {
	t.Helper()
	store := document.NewStore("job")
	snap := store.Snapshot()

	var expID, skillsID string
	for _, s := range snap.Document.Sections {
		switch s.Title {
		case "Work Experience":
			expID = s.ID
		case "Skills":
			skillsID = s.ID
		}
	}
	store.AddItem(expID, document.ExperienceItem("Lead UX Designer", "Creative Studio X", "2020", "Present", "Led a team of 5 designers."))
	store.AddItem(skillsID, document.TextItem("Figma"))
	store.AddItem(skillsID, document.SkillItem("React"))
	store.SetPersonalInfoField("fullName", "Alex Morgan")
	snap = store.SetSummary("Detail-oriented product designer.")

	return Input{
		Snapshot:       snap,
		CoverLetter:    document.NewCoverLetter(),
		ActiveDocument: ActiveResume,
		TemplateID:     "modern",
		Now:            time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestPageRendersMixedSkillShapes(t *testing.T) {
	html, err := Page(testInput(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Alex Morgan", "Lead UX Designer", "Creative Studio X", "Figma", "React", "2020 - Present"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, "<span></span>") {
		t.Errorf("blank skill label rendered")
	}
}

func TestPageContainsWatermarkOverlay(t *testing.T) {
	html, err := Page(testInput(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `id="watermark-overlay"`) {
		t.Fatalf("watermark overlay missing")
	}
}

func TestPageCoverLetterMode(t *testing.T) {
	in := testInput(t)
	in.ActiveDocument = ActiveCoverLetter
	in.CoverLetter.RecipientName = "Jordan Smith"
	in.CoverLetter.Body = "I am writing to express my interest."

	html, err := Page(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Jordan Smith", "Dear Hiring Manager,", "Sincerely,", "March 14, 2026"} {
		if !strings.Contains(html, want) {
			t.Errorf("cover letter missing %q", want)
		}
	}
	if strings.Contains(html, "Creative Studio X") {
		t.Errorf("resume sections leaked into cover letter")
	}
}

func TestPageUnknownTemplateFallsBack(t *testing.T) {
	in := testInput(t)
	in.TemplateID = "no-such-template"
	html, err := Page(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// 默认模板照常摆放所有 Section。
	for _, want := range []string{"Work Experience", "Education", "Skills"} {
		if !strings.Contains(html, want) {
			t.Errorf("fallback render missing section %q", want)
		}
	}
}

func TestPageEscapesUserContent(t *testing.T) {
	in := testInput(t)
	in.Snapshot.Document.Summary = `<script>alert(1)</script>`
	html, err := Page(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatalf("summary not escaped")
	}
}
