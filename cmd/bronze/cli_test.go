package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/ops"
)

// runApp runs the CLI with the given arguments and captures stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := newCLIApp(t.TempDir())

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"bronze"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// seedWorkspace writes a live log with one past and one current date group.
func seedWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	doc := logdoc.New()
	doc.AppendEntry(logdoc.Entry{Date: "2026-02-11", Time: "09:15:00", Summary: "Checked inbox"})
	doc.AppendEntry(logdoc.Entry{Date: "2026-02-12", Time: "08:00:00", Summary: "Morning review"})
	if err := os.WriteFile(cfg.LogPath(dir), []byte(doc.Render()), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCLILog(t *testing.T) {
	dir := t.TempDir()

	out, err := runApp(t, "--dir", dir, "log", "--on", "2026-02-12", "--at", "08:00", "--detail", "first of the day", "Morning", "review")
	if err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	var output ops.AppendOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Summary != "Morning review" {
		t.Errorf("summary = %q", output.Summary)
	}
	if output.Time != "08:00:00" || output.EntryCount != 1 {
		t.Errorf("output = %+v", output)
	}
}

func TestCLILogMissingSummary(t *testing.T) {
	dir := t.TempDir()
	if _, err := runApp(t, "--dir", dir, "log"); err == nil {
		t.Fatal("expected error for empty summary")
	}
}

func TestCLIRotateStatusArchivesHistory(t *testing.T) {
	dir := seedWorkspace(t)

	out, err := runApp(t, "--dir", dir, "rotate", "--today", "2026-02-12", "--no-backup")
	if err != nil {
		t.Fatalf("rotate command failed: %v", err)
	}
	var rotated ops.RotateOutput
	if err := json.Unmarshal([]byte(out), &rotated); err != nil {
		t.Fatalf("failed to parse rotate output: %v\nOutput: %s", err, out)
	}
	if len(rotated.Archived) != 1 || rotated.Archived[0].Date != "2026-02-11" {
		t.Fatalf("rotate output = %+v", rotated)
	}
	if rotated.RunID == "" {
		t.Error("rotate did not journal a run id")
	}

	out, err = runApp(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	var status ops.StatusOutput
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("failed to parse status output: %v", err)
	}
	if status.ArchivedDates != 1 || status.LiveEntries != 1 {
		t.Errorf("status = %+v", status)
	}

	out, err = runApp(t, "--dir", dir, "archives")
	if err != nil {
		t.Fatalf("archives command failed: %v", err)
	}
	var archiveList struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &archiveList); err != nil {
		t.Fatalf("failed to parse archives output: %v", err)
	}
	if archiveList.Count != 1 {
		t.Errorf("archive count = %d", archiveList.Count)
	}

	out, err = runApp(t, "--dir", dir, "archives", "--text", "2026-02-11")
	if err != nil {
		t.Fatalf("archives fetch failed: %v", err)
	}
	var fetched struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &fetched); err != nil {
		t.Fatalf("failed to parse archive output: %v", err)
	}
	if fetched.Date != "2026-02-11" || fetched.Count != 1 || fetched.Text == "" {
		t.Errorf("fetched = %+v", fetched)
	}

	out, err = runApp(t, "--dir", dir, "history")
	if err != nil {
		t.Fatalf("history command failed: %v", err)
	}
	var hist struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &hist); err != nil {
		t.Fatalf("failed to parse history output: %v", err)
	}
	if hist.Count != 1 {
		t.Errorf("history count = %d", hist.Count)
	}
}

func TestCLIRotateInvalidDate(t *testing.T) {
	dir := seedWorkspace(t)
	if _, err := runApp(t, "--dir", dir, "rotate", "--today", "11-02-2026"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestCLIArchivesMissingDate(t *testing.T) {
	dir := seedWorkspace(t)
	if _, err := runApp(t, "--dir", dir, "archives", "2026-01-01"); err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestIsCLIMode(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"bronze"}, false},
		{[]string{"bronze", "rotate"}, true},
		{[]string{"bronze", "log", "hi"}, true},
		{[]string{"bronze", "--dir", "/tmp", "status"}, true},
		{[]string{"bronze", "--help"}, true},
		{[]string{"bronze", "-v"}, true},
		{[]string{"bronze", "bogus"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
