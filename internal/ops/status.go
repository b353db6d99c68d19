package ops

import (
	"time"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

// DateCount is one live date group and its entry count.
type DateCount struct {
	Date    logdoc.Date `json:"date"`
	Entries int         `json:"entries"`
}

// IndexEntry is one archived-dates index line.
type IndexEntry struct {
	Date logdoc.Date `json:"date"`
	Path string      `json:"path"`
}

// StatusOutput summarizes the live log and its rotation state.
type StatusOutput struct {
	LogFile       string       `json:"log_file"`
	LastRotation  *time.Time   `json:"last_rotation"`
	ArchivedDates int          `json:"archived_dates"`
	Index         []IndexEntry `json:"index"`
	LiveDates     []DateCount  `json:"live_dates"`
	LiveEntries   int          `json:"live_entries"`
}

// Status reads the live log and reports its rotation status, the
// archived-dates index, and the entry counts still in the live file.
func Status(cfg *config.Config, dir string) (*StatusOutput, error) {
	doc, err := readLiveLog(cfg, dir)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{
		LogFile:       cfg.LogFile,
		LastRotation:  doc.Status.LastRotation,
		ArchivedDates: doc.Status.ArchivedDates,
		LiveEntries:   doc.EntryCount(),
	}
	for _, ref := range doc.Index {
		out.Index = append(out.Index, IndexEntry{Date: ref.Date, Path: ref.Path})
	}
	for _, g := range doc.Groups {
		out.LiveDates = append(out.LiveDates, DateCount{Date: g.Date, Entries: len(g.Entries)})
	}
	return out, nil
}
