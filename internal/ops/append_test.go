package ops

import (
	"os"
	"testing"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

func TestAppendCreatesLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	out, err := Append(cfg, dir, AppendInput{Summary: "First entry", On: "2026-02-12", At: "08:00"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if out.Time != "08:00:00" {
		t.Errorf("Time = %s, want 08:00:00", out.Time)
	}
	if out.EntryCount != 1 {
		t.Errorf("EntryCount = %d", out.EntryCount)
	}

	doc := readLog(t, cfg, dir)
	g := doc.Group("2026-02-12")
	if g == nil || len(g.Entries) != 1 || g.Entries[0].Summary != "First entry" {
		t.Fatalf("entry not recorded: %+v", doc.Groups)
	}
	if doc.Status.LastRotation != nil {
		t.Error("fresh log should report Never for last rotation")
	}
}

func TestAppendOrdering(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	for _, in := range []AppendInput{
		{Summary: "Later date", On: "2026-02-12", At: "09:00"},
		{Summary: "Earlier date", On: "2026-02-11", At: "10:00"},
		{Summary: "Same day second", On: "2026-02-12", At: "08:00"},
	} {
		if _, err := Append(cfg, dir, in); err != nil {
			t.Fatalf("Append(%q): %v", in.Summary, err)
		}
	}

	doc := readLog(t, cfg, dir)
	if len(doc.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(doc.Groups))
	}
	if doc.Groups[0].Date != "2026-02-11" || doc.Groups[1].Date != "2026-02-12" {
		t.Errorf("group order: %s, %s", doc.Groups[0].Date, doc.Groups[1].Date)
	}
	// Within a group, append order wins over clock order.
	g := doc.Groups[1]
	if g.Entries[0].Summary != "Later date" || g.Entries[1].Summary != "Same day second" {
		t.Errorf("entry order: %+v", g.Entries)
	}
}

func TestAppendDetails(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	_, err := Append(cfg, dir, AppendInput{
		Summary: "Processed inbox",
		Details: []string{"file: report.pdf", "", "  size: 12kb  "},
		On:      "2026-02-12",
		At:      "08:00:00",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	doc := readLog(t, cfg, dir)
	e := doc.Group("2026-02-12").Entries[0]
	if len(e.Details) != 2 || e.Details[0] != "file: report.pdf" || e.Details[1] != "size: 12kb" {
		t.Errorf("details = %+v", e.Details)
	}
}

func TestAppendValidation(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	cases := []AppendInput{
		{Summary: ""},
		{Summary: "   "},
		{Summary: "two\nlines"},
		{Summary: "ok", At: "25:00"},
		{Summary: "ok", At: "bogus"},
		{Summary: "ok", Details: []string{"a\nb"}},
	}
	for _, in := range cases {
		if _, err := Append(cfg, dir, in); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("Append(%+v) err = %v, want INVALID_REQUEST", in, err)
		}
	}
}

func TestAppendToArchivedDateConflicts(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	seedLog(t, cfg, dir,
		entry("2026-02-11", "09:00:00", "Past work"),
		entry("2026-02-12", "08:00:00", "Today"),
	)
	if _, err := Rotate(nil, cfg, dir, RotateInput{Today: "2026-02-12", NoBackup: true}); err != nil {
		t.Fatal(err)
	}

	_, err := Append(cfg, dir, AppendInput{Summary: "Late addition", On: "2026-02-11", At: "23:00"})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestEnsureLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	created, err := EnsureLog(cfg, dir)
	if err != nil {
		t.Fatalf("EnsureLog: %v", err)
	}
	if !created {
		t.Error("expected a new log to be created")
	}
	data, err := os.ReadFile(cfg.LogPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := logdoc.Parse(cfg.LogFile, string(data)); err != nil {
		t.Fatalf("skeleton does not parse: %v", err)
	}

	created, err = EnsureLog(cfg, dir)
	if err != nil {
		t.Fatalf("EnsureLog second call: %v", err)
	}
	if created {
		t.Error("existing log replaced")
	}
}
