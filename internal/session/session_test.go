package session

import (
	"errors"
	"testing"

	"cvStudio/internal/projection"
	"cvStudio/internal/render"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	s := m.Create("scholarship")

	if s.ID == "" {
		t.Fatalf("empty session id")
	}
	if got := len(s.Store.Snapshot().Document.Sections); got != 3 {
		t.Fatalf("scholarship preset has %d sections, want 3", got)
	}
	if s.Purpose() != "scholarship" {
		t.Fatalf("purpose = %q", s.Purpose())
	}

	got, err := m.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}

	m.Delete(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
	m.Delete(s.ID) // 幂等
}

func TestSessionDefaults(t *testing.T) {
	s := NewManager().Create("job")

	if got := s.ActiveDocument(); got != render.ActiveResume {
		t.Fatalf("active document = %q", got)
	}
	if got := s.TemplateID(); got != projection.DefaultTemplateID {
		t.Fatalf("template = %q", got)
	}
	letter := s.CoverLetter()
	if letter.Greeting != "Dear Hiring Manager," || letter.SignOff != "Sincerely," {
		t.Fatalf("cover letter defaults = %+v", letter)
	}
}

func TestSetTemplateResolvesUnknownID(t *testing.T) {
	s := NewManager().Create("job")
	if got := s.SetTemplate("bogus"); got != projection.DefaultTemplateID {
		t.Fatalf("SetTemplate(bogus) = %q, want default", got)
	}
	if got := s.SetTemplate("splitgrid"); got != "splitgrid" {
		t.Fatalf("SetTemplate(splitgrid) = %q", got)
	}
}

func TestSetActiveDocumentNormalizes(t *testing.T) {
	s := NewManager().Create("job")
	if got := s.SetActiveDocument(render.ActiveCoverLetter); got != render.ActiveCoverLetter {
		t.Fatalf("active = %q", got)
	}
	if got := s.SetActiveDocument("garbage"); got != render.ActiveResume {
		t.Fatalf("active after garbage = %q, want resume", got)
	}
}

func TestUpdateCoverLetterUnknownFieldIgnored(t *testing.T) {
	s := NewManager().Create("job")
	before := s.CoverLetter()
	after := s.UpdateCoverLetter("noSuchField", "x")
	if before != after {
		t.Fatalf("unknown field changed the letter: %+v -> %+v", before, after)
	}
	after = s.UpdateCoverLetter("recipientName", "Jordan")
	if after.RecipientName != "Jordan" {
		t.Fatalf("recipientName = %q", after.RecipientName)
	}
}
