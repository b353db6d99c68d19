package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DotDir is the per-workspace state directory name (config + journal).
const DotDir = ".bronze"

// Config holds application configuration.
type Config struct {
	// LogFile is the live log file name, relative to the workspace directory.
	LogFile string `json:"log_file"`

	// LogsDir is the archive folder, relative to the workspace directory.
	LogsDir string `json:"logs_dir"`

	// InboxDir is the folder the watcher monitors for new files.
	InboxDir string `json:"inbox_dir"`

	// NeedsActionDir is the folder the watcher writes task files into.
	NeedsActionDir string `json:"needs_action_dir"`

	// DisableBackup skips the pre-rotation backup copy of the live log.
	DisableBackup bool `json:"disable_backup,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely. All tools
	// belonging to disabled types are excluded from registration.
	// Known types: "log", "archive", "task".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogFile:        "System_Log.md",
		LogsDir:        "Logs",
		InboxDir:       "Inbox",
		NeedsActionDir: "Needs_Action",
	}
}

// Workspace path helpers. dir is the workspace root.

// LogPath returns the absolute path of the live log.
func (c *Config) LogPath(dir string) string {
	return filepath.Join(dir, c.LogFile)
}

// LogsPath returns the archive folder path.
func (c *Config) LogsPath(dir string) string {
	return filepath.Join(dir, c.LogsDir)
}

// BackupsPath returns the pre-rotation backup folder path.
func (c *Config) BackupsPath(dir string) string {
	return filepath.Join(c.LogsPath(dir), "backups")
}

// ArchivePath returns the archive file path for a date string.
func (c *Config) ArchivePath(dir, date string) string {
	return filepath.Join(c.LogsPath(dir), date+".md")
}

// InboxPath returns the watched inbox folder path.
func (c *Config) InboxPath(dir string) string {
	return filepath.Join(dir, c.InboxDir)
}

// NeedsActionPath returns the task folder path.
func (c *Config) NeedsActionPath(dir string) string {
	return filepath.Join(dir, c.NeedsActionDir)
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.bronze.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithWorkspace loads configuration from both the global directory
// (~/.bronze) and the workspace (<dir>/.bronze). Workspace config takes
// precedence for scalar values; arrays are merged (deduplicated). Either or
// both configs may be missing.
func LoadWithWorkspace(globalDir, workspaceDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	workspace, err := loadFileRaw(filepath.Join(workspaceDir, DotDir, "config.json"))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), workspace), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.LogFile = overlay.LogFile
	if result.LogFile == "" {
		result.LogFile = base.LogFile
	}
	result.LogsDir = overlay.LogsDir
	if result.LogsDir == "" {
		result.LogsDir = base.LogsDir
	}
	result.InboxDir = overlay.InboxDir
	if result.InboxDir == "" {
		result.InboxDir = base.InboxDir
	}
	result.NeedsActionDir = overlay.NeedsActionDir
	if result.NeedsActionDir == "" {
		result.NeedsActionDir = base.NeedsActionDir
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}
	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.DisableBackup = base.DisableBackup || overlay.DisableBackup

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
