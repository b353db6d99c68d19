// Package ops implements the operations behind the CLI and MCP surfaces:
// rotation, log appends, status, and the inbox task helpers they share.
// Operations take the workspace directory explicitly and return structured
// errors; callers decide how to present them.
package ops

import (
	"os"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

// readLiveLog reads and parses the workspace's live log.
func readLiveLog(cfg *config.Config, dir string) (*logdoc.Document, error) {
	path := cfg.LogPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}
	return logdoc.Parse(cfg.LogFile, string(data))
}

// writeLiveLog atomically rewrites the workspace's live log.
func writeLiveLog(cfg *config.Config, dir string, doc *logdoc.Document) error {
	return writeFileAtomic(cfg.LogPath(dir), []byte(doc.Render()))
}
