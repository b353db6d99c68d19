package logdoc

import (
	"strings"
	"testing"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
)

const sampleLog = `# System Log

Chronological record of actions taken in this workspace.

## Log Rotation Status

- **Last Rotation:** 2026-02-11 09:00:00
- **Archived Dates:** 1
- **Archive Location:** [Logs/](Logs/)

### Archived Dates

- [2026-02-10](Logs/2026-02-10.md)

---

## Activity Log

### 2026-02-11

#### 09:15:00 - Created task for invoice.pdf

- Source: Inbox/invoice.pdf
- Size: 1.5 KB

#### 17:40:12 - Moved task to Done

### 2026-02-12

#### 08:02:33 - Morning triage

- Checked Inbox
- Nothing new

---

## Notes

Manual observations go here.
`

func TestParse_Sections(t *testing.T) {
	doc, err := Parse("System_Log.md", sampleLog)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !strings.Contains(doc.Preamble, "# System Log") {
		t.Errorf("Preamble = %q, should contain title", doc.Preamble)
	}
	if doc.Status.LastRotation == nil {
		t.Fatal("LastRotation should be set")
	}
	if got := doc.Status.LastRotation.Format(lastRotationLayout); got != "2026-02-11 09:00:00" {
		t.Errorf("LastRotation = %q, want 2026-02-11 09:00:00", got)
	}
	if doc.Status.ArchivedDates != 1 {
		t.Errorf("ArchivedDates = %d, want 1", doc.Status.ArchivedDates)
	}
	if doc.Status.ArchiveLocation != "Logs/" {
		t.Errorf("ArchiveLocation = %q, want Logs/", doc.Status.ArchiveLocation)
	}

	if len(doc.Index) != 1 || doc.Index[0].Date != "2026-02-10" || doc.Index[0].Path != "Logs/2026-02-10.md" {
		t.Errorf("Index = %+v, want single 2026-02-10 ref", doc.Index)
	}

	if len(doc.Groups) != 2 {
		t.Fatalf("Groups = %d, want 2", len(doc.Groups))
	}
	if doc.Groups[0].Date != "2026-02-11" || len(doc.Groups[0].Entries) != 2 {
		t.Errorf("group 0 = %+v, want 2026-02-11 with 2 entries", doc.Groups[0])
	}
	if doc.Groups[1].Date != "2026-02-12" || len(doc.Groups[1].Entries) != 1 {
		t.Errorf("group 1 = %+v, want 2026-02-12 with 1 entry", doc.Groups[1])
	}

	first := doc.Groups[0].Entries[0]
	if first.Time != "09:15:00" {
		t.Errorf("entry Time = %q, want 09:15:00", first.Time)
	}
	if first.Summary != "Created task for invoice.pdf" {
		t.Errorf("entry Summary = %q", first.Summary)
	}
	if len(first.Details) != 2 || first.Details[0] != "Source: Inbox/invoice.pdf" {
		t.Errorf("entry Details = %v", first.Details)
	}

	if !strings.Contains(doc.Footer, "## Notes") {
		t.Errorf("Footer = %q, should contain Notes section", doc.Footer)
	}
}

func TestParse_RenderRoundTrip(t *testing.T) {
	doc, err := Parse("System_Log.md", sampleLog)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rendered := doc.Render()
	doc2, err := Parse("System_Log.md", rendered)
	if err != nil {
		t.Fatalf("Parse of rendered output failed: %v", err)
	}

	// The canonical form is a fixed point of parse/render.
	if rendered != doc2.Render() {
		t.Error("render is not stable across a parse/render round trip")
	}
	if Fingerprint(doc.Groups[0].Entries) != Fingerprint(doc2.Groups[0].Entries) {
		t.Error("entries changed across round trip")
	}
}

func TestParse_MinuteTimeNormalized(t *testing.T) {
	text := header() + "### 2026-02-12\n\n#### 08:30 - Short time\n"
	doc, err := Parse("System_Log.md", text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Groups[0].Entries[0].Time; got != "08:30:00" {
		t.Errorf("Time = %q, want 08:30:00", got)
	}
}

func TestParse_LastRotationNever(t *testing.T) {
	doc, err := Parse("System_Log.md", New().Render())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Status.LastRotation != nil {
		t.Errorf("LastRotation = %v, want nil for Never", doc.Status.LastRotation)
	}
	if len(doc.Index) != 0 {
		t.Errorf("Index = %v, want empty", doc.Index)
	}
}

func TestParse_FencedHeadingsInPreamble(t *testing.T) {
	text := "# System Log\n\n```\n## Log Rotation Status\n## Activity Log\n```\n\n" +
		statusHeading + "\n\n- **Last Rotation:** Never\n\n" +
		activityHeading + "\n"
	doc, err := Parse("System_Log.md", text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(doc.Preamble, "```") {
		t.Error("fenced block should remain in preamble")
	}
	if len(doc.Groups) != 0 {
		t.Errorf("Groups = %v, want empty", doc.Groups)
	}
}

func TestParse_MissingStatusSection(t *testing.T) {
	_, err := Parse("System_Log.md", "# System Log\n\n## Activity Log\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR, got %v", err)
	}
}

func TestParse_MissingActivitySection(t *testing.T) {
	_, err := Parse("System_Log.md", "# System Log\n\n"+statusHeading+"\n\n- **Last Rotation:** Never\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR, got %v", err)
	}
}

func TestParse_InvalidDateHeading(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"### Today's Activity\n\n#### 09:00:00 - x\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR for non-date group heading, got %v", err)
	}
}

func TestParse_InvalidEntryTime(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"### 2026-02-12\n\n#### 25:99:00 - broken\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR for bad time, got %v", err)
	}
}

func TestParse_EntryOutsideGroup(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"#### 09:00:00 - orphan\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR for entry outside group, got %v", err)
	}
}

func TestParse_DetailOutsideEntry(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"### 2026-02-12\n\n- stray detail\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR for detail outside entry, got %v", err)
	}
}

func TestParse_StrayProse(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"### 2026-02-12\n\nsome prose line\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR for stray prose, got %v", err)
	}
}

func TestParse_ErrorIncludesLine(t *testing.T) {
	_, err := Parse("System_Log.md", header()+"### not-a-date\n")
	bErr, ok := err.(*errors.BronzeError)
	if !ok {
		t.Fatalf("want BronzeError, got %T", err)
	}
	if _, ok := bErr.Details["line"]; !ok {
		t.Error("parse error should record the offending line")
	}
}

// header returns a minimal valid document prefix up to the activity section.
func header() string {
	return "# System Log\n\n" + statusHeading + "\n\n- **Last Rotation:** Never\n- **Archived Dates:** 0\n- **Archive Location:** [Logs/](Logs/)\n\n" +
		indexHeading + "\n\n*(none)*\n\n---\n\n" + activityHeading + "\n\n"
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-02-12"); err != nil {
		t.Errorf("ParseDate valid: %v", err)
	}
	for _, bad := range []string{"2026-2-1", "12-02-2026", "2026-13-01", "garbage"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDate_Before(t *testing.T) {
	if !Date("2026-02-11").Before("2026-02-12") {
		t.Error("2026-02-11 should be before 2026-02-12")
	}
	if Date("2026-02-12").Before("2026-02-12") {
		t.Error("a date is not before itself")
	}
}

func TestNormalizeTime(t *testing.T) {
	got, err := NormalizeTime("08:30")
	if err != nil || got != "08:30:00" {
		t.Errorf("NormalizeTime(08:30) = %q, %v", got, err)
	}
	if _, err := NormalizeTime("8:30"); err == nil {
		t.Error("NormalizeTime(8:30) should fail")
	}
	if _, err := NormalizeTime("24:00:00"); err == nil {
		t.Error("NormalizeTime(24:00:00) should fail")
	}
}

func TestDocument_AppendEntry(t *testing.T) {
	doc := New()
	doc.AppendEntry(Entry{Date: "2026-02-12", Time: "10:00:00", Summary: "second day"})
	doc.AppendEntry(Entry{Date: "2026-02-11", Time: "09:00:00", Summary: "first day"})
	doc.AppendEntry(Entry{Date: "2026-02-12", Time: "11:00:00", Summary: "later"})

	if len(doc.Groups) != 2 {
		t.Fatalf("Groups = %d, want 2", len(doc.Groups))
	}
	if doc.Groups[0].Date != "2026-02-11" {
		t.Errorf("groups not in chronological order: %v", doc.Groups)
	}
	g := doc.Group("2026-02-12")
	if g == nil || len(g.Entries) != 2 || g.Entries[1].Summary != "later" {
		t.Errorf("entries within date should keep append order: %+v", g)
	}
}

func TestDocument_RemoveGroup(t *testing.T) {
	doc := New()
	doc.AppendEntry(Entry{Date: "2026-02-11", Time: "09:00:00", Summary: "a"})
	doc.AppendEntry(Entry{Date: "2026-02-12", Time: "09:00:00", Summary: "b"})

	doc.RemoveGroup("2026-02-11")
	if len(doc.Groups) != 1 || doc.Groups[0].Date != "2026-02-12" {
		t.Errorf("Groups after remove = %+v", doc.Groups)
	}
	if doc.EntryCount() != 1 {
		t.Errorf("EntryCount = %d, want 1", doc.EntryCount())
	}
}

func TestParseArchive_RoundTrip(t *testing.T) {
	arch := &ArchiveDocument{
		Date: "2026-02-11",
		Entries: []Entry{
			{Date: "2026-02-11", Time: "09:15:00", Summary: "Created task", Details: []string{"Source: Inbox/a.txt"}},
			{Date: "2026-02-11", Time: "17:40:12", Summary: "Moved task to Done"},
		},
	}

	text := RenderArchive(arch, "System_Log.md", "2026-02-12")
	parsed, err := ParseArchive("2026-02-11.md", text)
	if err != nil {
		t.Fatalf("ParseArchive failed: %v", err)
	}
	if parsed.Date != "2026-02-11" {
		t.Errorf("Date = %q, want 2026-02-11", parsed.Date)
	}
	if Fingerprint(parsed.Entries) != Fingerprint(arch.Entries) {
		t.Error("archive entries changed across render/parse round trip")
	}
}

func TestParseArchive_MissingTitle(t *testing.T) {
	_, err := ParseArchive("2026-02-11.md", "#### 09:00:00 - no title\n")
	if !errors.Is(err, errors.ErrParse) {
		t.Errorf("want PARSE_ERROR, got %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := []Entry{{Date: "2026-02-11", Time: "09:00:00", Summary: "x", Details: []string{"one", "two"}}}
	b := []Entry{{Date: "2026-02-11", Time: "09:00:00", Summary: "x", Details: []string{"one", "two"}}}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("identical entry sequences should fingerprint equal")
	}

	// Field boundaries must matter: "one","two" vs "onet","wo".
	c := []Entry{{Date: "2026-02-11", Time: "09:00:00", Summary: "x", Details: []string{"onet", "wo"}}}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("shifted field boundaries should change the fingerprint")
	}

	// Order within a date matters.
	d := []Entry{
		{Date: "2026-02-11", Time: "09:00:00", Summary: "x"},
		{Date: "2026-02-11", Time: "10:00:00", Summary: "y"},
	}
	e := []Entry{d[1], d[0]}
	if Fingerprint(d) == Fingerprint(e) {
		t.Error("entry order should change the fingerprint")
	}
}

func TestParse_MergesDuplicateDateHeadings(t *testing.T) {
	text := `# System Log

## Log Rotation Status

- **Last Rotation:** Never
- **Archived Dates:** 0
- **Archive Location:** [Logs/](Logs/)

---

## Activity Log

### 2026-02-11

#### 09:00:00 - First entry

### 2026-02-12

#### 10:00:00 - Other day

### 2026-02-11

#### 11:00:00 - Third entry

- detail line
`
	doc, err := Parse("System_Log.md", text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Groups) != 2 {
		t.Fatalf("Groups = %d, want 2 (duplicate headings merge)", len(doc.Groups))
	}
	group := doc.Group("2026-02-11")
	if group == nil {
		t.Fatal("missing 2026-02-11 group")
	}
	if len(group.Entries) != 2 {
		t.Fatalf("merged entries = %d, want 2", len(group.Entries))
	}
	if group.Entries[0].Summary != "First entry" || group.Entries[1].Summary != "Third entry" {
		t.Errorf("file order not preserved: %+v", group.Entries)
	}
	if len(group.Entries[1].Details) != 1 || group.Entries[1].Details[0] != "detail line" {
		t.Errorf("details lost on merged entry: %+v", group.Entries[1])
	}
	if other := doc.Group("2026-02-12"); other == nil || len(other.Entries) != 1 {
		t.Errorf("unrelated group affected: %+v", other)
	}
}
