package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/ops"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/watch"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	dir string // workspace directory
}

// NewHandlers creates a new Handlers instance. db may be nil; rotation then
// skips the journal.
func NewHandlers(db *sql.DB, cfg *config.Config, dir string) *Handlers {
	return &Handlers{db: db, cfg: cfg, dir: dir}
}

// Request types for each tool

// RotateRequest represents the arguments for log_rotate.
type RotateRequest struct {
	Today    string `json:"today,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
	NoBackup bool   `json:"no_backup,omitempty"`
}

// AppendRequest represents the arguments for log_append.
type AppendRequest struct {
	Summary string   `json:"summary"`
	Details []string `json:"details,omitempty"`
	At      string   `json:"at,omitempty"`
	On      string   `json:"on,omitempty"`
}

// ArchiveFetchRequest represents the arguments for archive_fetch.
type ArchiveFetchRequest struct {
	Date        string `json:"date"`
	IncludeText bool   `json:"include_text,omitempty"`
}

// TaskCreateRequest represents the arguments for task_create.
type TaskCreateRequest struct {
	Filename string `json:"filename"`
}

// Handler implementations

// HandleRotate handles the log_rotate tool call.
func (h *Handlers) HandleRotate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RotateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var today logdoc.Date
	if input.Today != "" {
		today, err = logdoc.ParseDate(input.Today)
		if err != nil {
			return errorResult(errors.NewInvalidRequest(err.Error())), nil
		}
	}

	result, err := ops.Rotate(h.db, h.cfg, h.dir, ops.RotateInput{
		Today:    today,
		DryRun:   input.DryRun,
		NoBackup: input.NoBackup,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAppend handles the log_append tool call.
func (h *Handlers) HandleAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AppendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var on logdoc.Date
	if input.On != "" {
		on, err = logdoc.ParseDate(input.On)
		if err != nil {
			return errorResult(errors.NewInvalidRequest(err.Error())), nil
		}
	}

	result, err := ops.Append(h.cfg, h.dir, ops.AppendInput{
		Summary: input.Summary,
		Details: input.Details,
		At:      input.At,
		On:      on,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the log_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Status(h.cfg, h.dir)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleArchiveList handles the archive_list tool call.
func (h *Handlers) HandleArchiveList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	archives, err := ops.ListArchives(h.cfg, h.dir)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"archives": archives,
		"count":    len(archives),
	})
}

// HandleArchiveFetch handles the archive_fetch tool call.
func (h *Handlers) HandleArchiveFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArchiveFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	date, err := logdoc.ParseDate(input.Date)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	archive, raw, err := ops.FetchArchive(h.cfg, h.dir, date)
	if err != nil {
		return errorResult(err), nil
	}

	payload := map[string]any{
		"date":    archive.Date,
		"entries": archive.Entries,
		"count":   len(archive.Entries),
	}
	if input.IncludeText {
		payload["text"] = raw
	}
	return successResult(payload)
}

// HandleTaskCreate handles the task_create tool call.
func (h *Handlers) HandleTaskCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var size int64
	if info, statErr := os.Stat(filepath.Join(h.cfg.InboxPath(h.dir), input.Filename)); statErr == nil {
		size = info.Size()
	}

	taskPath, err := watch.CreateTask(h.cfg, h.dir, input.Filename, size, time.Now())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"task":      filepath.Base(taskPath),
		"path":      taskPath,
		"filename":  input.Filename,
		"file_size": size,
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if bErr, ok := err.(*errors.BronzeError); ok {
		errorObj := map[string]any{
			"code":    bErr.Code,
			"message": bErr.Message,
			"status":  bErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if bErr.Code != errors.ErrInternal && bErr.Details != nil {
			errorObj["details"] = bErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
