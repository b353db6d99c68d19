// Package watch monitors the inbox folder and files a task for every new
// arrival. Tasks are Markdown files with a YAML front matter block, written
// into the needs-action folder; each one is also recorded in the live log.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
)

const taskTimeLayout = "2006-01-02 15:04:05"

// TaskMeta is the YAML front matter of a task file.
type TaskMeta struct {
	Type      string   `yaml:"type"`
	Status    string   `yaml:"status"`
	Priority  string   `yaml:"priority"`
	Source    string   `yaml:"source"`
	Filename  string   `yaml:"filename"`
	FileSize  int64    `yaml:"file_size"`
	CreatedAt string   `yaml:"created_at"`
	Tags      []string `yaml:"tags"`
}

// TaskName returns the task file name for an inbox file name.
func TaskName(filename string) string {
	safe := strings.NewReplacer(" ", "_", ".", "_").Replace(filename)
	return "task_" + safe + ".md"
}

// CreateTask writes a pending review task for an inbox file. Returns the
// task file path. An existing task for the same file is a conflict; the
// watcher treats that as already handled.
func CreateTask(cfg *config.Config, dir, filename string, size int64, now time.Time) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", errors.NewInvalidRequest("filename is required")
	}
	if filepath.Base(filename) != filename {
		return "", errors.NewInvalidRequest("filename must not contain path separators")
	}

	taskPath := filepath.Join(cfg.NeedsActionPath(dir), TaskName(filename))
	if _, err := os.Stat(taskPath); err == nil {
		return taskPath, errors.NewConflict("task already exists for " + filename)
	} else if !os.IsNotExist(err) {
		return "", errors.NewInternal(err)
	}

	meta := TaskMeta{
		Type:      "file_review",
		Status:    "pending",
		Priority:  "normal",
		Source:    cfg.InboxDir,
		Filename:  filename,
		FileSize:  size,
		CreatedAt: now.Format(taskTimeLayout),
		Tags:      []string{},
	}
	front, err := yaml.Marshal(&meta)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# Task: Review File - %s\n\n", filename)
	b.WriteString("## File Information\n")
	fmt.Fprintf(&b, "- **Source**: %s\n", cfg.InboxDir)
	fmt.Fprintf(&b, "- **Size**: %s\n", HumanSize(size))
	fmt.Fprintf(&b, "- **Detected**: %s\n\n", meta.CreatedAt)
	b.WriteString("## Required Actions\n")
	b.WriteString("- [ ] Review the file content\n")
	b.WriteString("- [ ] Decide what action is needed\n")
	b.WriteString("- [ ] Tag appropriately (urgent/invoice/client/personal)\n")
	b.WriteString("- [ ] Move to Done when complete\n\n")
	b.WriteString("## Notes\n\n(Add your observations here)\n")

	if err := os.MkdirAll(cfg.NeedsActionPath(dir), 0755); err != nil {
		return "", errors.NewWriteFailure(taskPath, err)
	}
	if err := os.WriteFile(taskPath, []byte(b.String()), 0644); err != nil {
		return "", errors.NewWriteFailure(taskPath, err)
	}
	return taskPath, nil
}

// ReadTaskMeta parses the YAML front matter of a task file.
func ReadTaskMeta(path string) (*TaskMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return nil, errors.NewParseError(filepath.Base(path), 1, "missing front matter")
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, errors.NewParseError(filepath.Base(path), 0, "unterminated front matter")
	}

	var meta TaskMeta
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &meta); err != nil {
		return nil, errors.NewParseError(filepath.Base(path), 0, err.Error())
	}
	return &meta, nil
}

// HumanSize formats a byte count for display, e.g. "1.5 KB".
func HumanSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	for _, unit := range units {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}
