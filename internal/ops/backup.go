package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
)

const backupTimeLayout = "20060102_150405"

// backupLiveLog copies the live log into the backups directory before a
// rotation mutates it. Returns the backup path.
func backupLiveLog(cfg *config.Config, dir string, now time.Time) (string, error) {
	data, err := os.ReadFile(cfg.LogPath(dir))
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("System_Log_backup_%s.md", now.Format(backupTimeLayout))
	path := filepath.Join(cfg.BackupsPath(dir), name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}
