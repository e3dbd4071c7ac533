package document

import (
	"errors"
	"reflect"
	"testing"
)

func sectionIDs(snap Snapshot) []string {
	ids := make([]string, 0, len(snap.Document.Sections))
	for _, s := range snap.Document.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func findSection(t *testing.T, snap Snapshot, title string) Section {
	t.Helper()
	for _, s := range snap.Document.Sections {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("section %q not found", title)
	return Section{}
}

func TestAddRemoveSectionKeepsIDsUnique(t *testing.T) {
	store := NewStore("job")

	var added []string
	for i := 0; i < 10; i++ {
		snap := store.AddSection("Extra", TypeList)
		added = append(added, snap.Document.Sections[len(snap.Document.Sections)-1].ID)
	}
	store.RemoveSection(added[1])
	store.RemoveSection(added[4])
	store.RemoveSection(added[7])

	snap := store.Snapshot()
	wantLen := 3 + 10 - 3 // job preset + net adds
	if got := len(snap.Document.Sections); got != wantLen {
		t.Fatalf("section count = %d, want %d", got, wantLen)
	}
	seen := map[string]struct{}{}
	for _, id := range sectionIDs(snap) {
		if id == "" {
			t.Fatalf("empty section id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate section id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestReorderSectionsPermutation(t *testing.T) {
	store := NewStore("cv")
	before := store.Snapshot()
	ids := sectionIDs(before)

	perm := []string{ids[4], ids[0], ids[3], ids[1], ids[2]}
	snap, err := store.ReorderSections(perm)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := sectionIDs(snap); !reflect.DeepEqual(got, perm) {
		t.Fatalf("order = %v, want %v", got, perm)
	}

	// Same multiset of sections, only order changed.
	byID := map[string]Section{}
	for _, s := range before.Document.Sections {
		byID[s.ID] = s
	}
	for _, s := range snap.Document.Sections {
		want := byID[s.ID]
		if !reflect.DeepEqual(s, want) {
			t.Fatalf("section %q changed during reorder:\n got %+v\nwant %+v", s.ID, s, want)
		}
	}
}

func TestReorderSectionsRejectsNonPermutation(t *testing.T) {
	store := NewStore("job")
	before := store.Snapshot()
	ids := sectionIDs(before)

	cases := map[string][]string{
		"dropped id":    {ids[0], ids[1]},
		"foreign id":    {ids[0], ids[1], "nope"},
		"duplicated id": {ids[0], ids[1], ids[1]},
		"extra id":      {ids[0], ids[1], ids[2], "nope"},
	}
	for name, perm := range cases {
		if _, err := store.ReorderSections(perm); !errors.Is(err, ErrInvalidReorder) {
			t.Fatalf("%s: err = %v, want ErrInvalidReorder", name, err)
		}
		after := store.Snapshot()
		if !reflect.DeepEqual(before.Document, after.Document) {
			t.Fatalf("%s: document mutated by rejected reorder", name)
		}
	}
}

func TestLoadDocumentRejectsDuplicateSectionIDs(t *testing.T) {
	store := NewStore("job")
	before := store.Snapshot()

	doc := Document{
		Sections: []Section{
			{ID: "dup", Type: TypeSkills, Title: "Skills", Items: []Item{TextItem("Go")}},
			{ID: "dup", Type: TypeList, Title: "Awards", Items: []Item{TextItem("Medal")}},
		},
	}

	snap, err := store.LoadDocument(doc)
	if !errors.Is(err, ErrDuplicateSectionID) {
		t.Fatalf("expected ErrDuplicateSectionID, got %v", err)
	}
	if snap.Revision != before.Revision {
		t.Fatalf("revision advanced on rejected load: %d -> %d", before.Revision, snap.Revision)
	}
	if !reflect.DeepEqual(before.Document, store.Snapshot().Document) {
		t.Fatalf("document changed by rejected load")
	}
}

func TestLoadDocumentReplacesContents(t *testing.T) {
	store := NewStore("job")

	doc := Document{
		PersonalInfo: PersonalInfo{FullName: "Grace Hopper"},
		Sections: []Section{
			{ID: "s1", Type: TypeSkills, Title: "Skills", Items: []Item{TextItem("COBOL")}},
		},
	}

	snap, err := store.LoadDocument(doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Document.PersonalInfo.FullName != "Grace Hopper" {
		t.Fatalf("personal info not replaced: %+v", snap.Document.PersonalInfo)
	}
	if got := sectionIDs(snap); len(got) != 1 || got[0] != "s1" {
		t.Fatalf("sections not replaced: %v", got)
	}
}

func TestRemoveSectionMissingIDIsSilentNoop(t *testing.T) {
	store := NewStore("job")
	store.AddItem(sectionIDs(store.Snapshot())[0], ExperienceItem("Engineer", "Acme", "2020", "2023", "built things"))
	before := store.Snapshot()

	after := store.RemoveSection("does-not-exist")
	if !reflect.DeepEqual(before.Document, after.Document) {
		t.Fatalf("document changed by removing a missing section")
	}
}

func TestSetItemFieldTouchesOnlyThatField(t *testing.T) {
	store := NewStore("job")
	expID := findSection(t, store.Snapshot(), "Work Experience").ID
	store.AddItem(expID, ExperienceItem("Engineer", "Acme", "2020", "2023", "old text"))
	store.AddItem(expID, ExperienceItem("Manager", "Globex", "2018", "2020", "managed"))
	before := store.Snapshot()

	snap, err := store.SetItemField(expID, 0, "description", "new text")
	if err != nil {
		t.Fatalf("set item field: %v", err)
	}

	exp := findSection(t, snap, "Work Experience")
	if got := exp.Items[0].Field("description"); got != "new text" {
		t.Fatalf("description = %q, want %q", got, "new text")
	}
	for _, field := range []string{"position", "company", "startDate", "endDate"} {
		want := before.Document.Sections[0].Items[0].Field(field)
		if got := exp.Items[0].Field(field); got != want {
			t.Fatalf("field %q = %q, want untouched %q", field, got, want)
		}
	}
	if !reflect.DeepEqual(exp.Items[1], before.Document.Sections[0].Items[1]) {
		t.Fatalf("sibling item changed by field merge")
	}
}

func TestItemIndexOutOfRange(t *testing.T) {
	store := NewStore("job")
	skillsID := findSection(t, store.Snapshot(), "Skills").ID
	store.AddItem(skillsID, TextItem("Go"))
	before := store.Snapshot()

	for _, idx := range []int{-1, 1, 99} {
		if _, err := store.SetItemField(skillsID, idx, "name", "x"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("SetItemField idx=%d: err = %v, want ErrIndexOutOfRange", idx, err)
		}
		if _, err := store.ReplaceItem(skillsID, idx, TextItem("x")); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("ReplaceItem idx=%d: err = %v, want ErrIndexOutOfRange", idx, err)
		}
		if _, err := store.RemoveItem(skillsID, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("RemoveItem idx=%d: err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	after := store.Snapshot()
	if !reflect.DeepEqual(before.Document, after.Document) {
		t.Fatalf("document mutated by out-of-range item access")
	}
}

func TestItemOpsOnMissingSectionAreSilent(t *testing.T) {
	store := NewStore("job")
	before := store.Snapshot()

	store.AddItem("ghost", TextItem("x"))
	if _, err := store.SetItemField("ghost", 0, "name", "x"); err != nil {
		t.Fatalf("SetItemField on missing section: %v", err)
	}
	if _, err := store.RemoveItem("ghost", 0); err != nil {
		t.Fatalf("RemoveItem on missing section: %v", err)
	}

	after := store.Snapshot()
	if !reflect.DeepEqual(before.Document, after.Document) {
		t.Fatalf("document changed by item ops on a missing section")
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	store := NewStore("job")
	skillsID := findSection(t, store.Snapshot(), "Skills").ID
	first := store.AddItem(skillsID, TextItem("Go"))

	second, err := store.ReplaceItem(skillsID, 0, TextItem("Rust"))
	if err != nil {
		t.Fatalf("replace item: %v", err)
	}

	if got := findSection(t, first, "Skills").Items[0].Text(); got != "Go" {
		t.Fatalf("earlier snapshot mutated: item = %q, want %q", got, "Go")
	}
	if got := findSection(t, second, "Skills").Items[0].Text(); got != "Rust" {
		t.Fatalf("later snapshot item = %q, want %q", got, "Rust")
	}
	if second.Revision <= first.Revision {
		t.Fatalf("revisions not increasing: %d then %d", first.Revision, second.Revision)
	}
}

func TestJobPresetAddExperienceItem(t *testing.T) {
	store := NewStore("job")
	before := store.Snapshot()
	expID := findSection(t, before, "Work Experience").ID

	item := FieldItem(map[string]string{"title": "Engineer", "company": "Acme"})
	snap := store.AddItem(expID, item)

	if got, want := len(snap.Document.Sections), len(before.Document.Sections); got != want {
		t.Fatalf("section count changed: %d, want %d", got, want)
	}
	exp := findSection(t, snap, "Work Experience")
	if len(exp.Items) != 1 || !reflect.DeepEqual(exp.Items[0], item) {
		t.Fatalf("experience items = %+v, want exactly the added item", exp.Items)
	}
	for _, title := range []string{"Education", "Skills"} {
		if got := findSection(t, snap, title).Items; len(got) != 0 {
			t.Fatalf("%s gained items: %+v", title, got)
		}
	}
}

func TestListSectionRemoveMiddleItem(t *testing.T) {
	store := NewStore("job")
	snap := store.AddSection("Awards", TypeList)
	awardsID := snap.Document.Sections[len(snap.Document.Sections)-1].ID

	for _, v := range []string{"A", "B", "C"} {
		store.AddItem(awardsID, TextItem(v))
	}
	snap, err := store.RemoveItem(awardsID, 1)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}

	awards := findSection(t, snap, "Awards")
	got := make([]string, len(awards.Items))
	for i, it := range awards.Items {
		got[i] = it.Text()
	}
	if !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Fatalf("remaining items = %v, want [A C]", got)
	}
}

func TestSetSectionTypeDoesNotReshapeItems(t *testing.T) {
	store := NewStore("job")
	eduID := findSection(t, store.Snapshot(), "Education").ID
	store.AddItem(eduID, EducationItem("MIT", "BSc", "2019"))

	snap := store.SetSectionType(eduID, TypeList)

	edu := findSection(t, snap, "Education")
	if edu.Type != TypeList {
		t.Fatalf("type = %q, want %q", edu.Type, TypeList)
	}
	it := edu.Items[0]
	if it.Field("institution") != "MIT" || it.Field("degree") != "BSc" || it.Field("year") != "2019" {
		t.Fatalf("stale education fields were reshaped: %+v", it.Fields())
	}
}

func TestPresetFallback(t *testing.T) {
	store := NewStore("no-such-purpose")
	snap := store.Snapshot()
	if len(snap.Document.Sections) != 3 {
		t.Fatalf("fallback preset has %d sections, want 3 (job)", len(snap.Document.Sections))
	}
	if snap.Document.Sections[0].Type != TypeExperience {
		t.Fatalf("fallback preset starts with %q, want experience", snap.Document.Sections[0].Type)
	}
}
