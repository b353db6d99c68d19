package ops

import (
	"database/sql"
	"os"
	"path"
	"sort"
	"time"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/history"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

// RotateInput holds the parameters for a rotation run.
type RotateInput struct {
	// Today overrides the current date. Every date group strictly before
	// Today is rotated out; Today's group stays in the live log.
	Today logdoc.Date

	// DryRun plans the rotation without touching any file.
	DryRun bool

	// NoBackup skips the pre-rotation backup copy.
	NoBackup bool
}

// DateResult reports one date group moved (or adopted) by a rotation run.
type DateResult struct {
	Date    logdoc.Date `json:"date"`
	Path    string      `json:"path"` // relative to the workspace directory
	Entries int         `json:"entries"`
	Adopted bool        `json:"adopted,omitempty"` // archive already on disk with identical content
}

// RotateOutput reports the outcome of a rotation run.
type RotateOutput struct {
	RunID      string       `json:"run_id,omitempty"`
	Today      logdoc.Date  `json:"today"`
	Archived   []DateResult `json:"archived"`
	BackupPath string       `json:"backup_path,omitempty"`
	DryRun     bool         `json:"dry_run,omitempty"`
}

// Rotate moves every date group dated before today out of the live log into
// per-date archive documents, updates the archived-dates index and rotation
// status, and journals the run. Each date commits independently: the archive
// is written first, then the live log is rewritten without that group, so an
// interruption never loses entries. Re-running after an interruption adopts
// archives whose content matches the pending group and conflicts on any that
// differ. db may be nil; the journal is then skipped.
func Rotate(db *sql.DB, cfg *config.Config, dir string, in RotateInput) (*RotateOutput, error) {
	now := time.Now()
	today := in.Today
	if today == "" {
		today = logdoc.DateOf(now)
	}

	doc, err := readLiveLog(cfg, dir)
	if err != nil {
		return nil, err
	}

	var plan []logdoc.Date
	for _, g := range doc.Groups {
		if g.Date.Before(today) && !doc.Indexed(g.Date) {
			plan = append(plan, g.Date)
		}
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].Before(plan[j]) })

	out := &RotateOutput{Today: today, DryRun: in.DryRun}

	if !in.DryRun && len(plan) > 0 && !in.NoBackup && !cfg.DisableBackup {
		backupPath, err := backupLiveLog(cfg, dir, now)
		if err != nil {
			return nil, err
		}
		out.BackupPath = backupPath
	}

	if db != nil && !in.DryRun {
		out.RunID, err = history.NewRunID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	doc.Status.LastRotation = &now

	totalEntries := 0
	for _, date := range plan {
		group := doc.Group(date)

		// A date heading with no entries is dropped outright; it gets
		// neither an archive file nor an index entry.
		if len(group.Entries) == 0 {
			if !in.DryRun {
				doc.RemoveGroup(date)
				if err := writeLiveLog(cfg, dir, doc); err != nil {
					return out, err
				}
			}
			continue
		}

		checksum := logdoc.Fingerprint(group.Entries)
		relPath := path.Join(cfg.LogsDir, string(date)+".md")
		absPath := cfg.ArchivePath(dir, string(date))

		// An archive already on disk is never overwritten. Identical
		// content means an earlier interrupted run wrote it; adopt it.
		// Anything else is a conflict.
		adopted := false
		if data, err := os.ReadFile(absPath); err == nil {
			existing, parseErr := logdoc.ParseArchive(string(date)+".md", string(data))
			if parseErr != nil || logdoc.Fingerprint(existing.Entries) != checksum {
				return out, errors.NewArchiveConflict(string(date), relPath)
			}
			adopted = true
		} else if !os.IsNotExist(err) {
			return out, errors.NewInternal(err)
		}

		result := DateResult{Date: date, Path: relPath, Entries: len(group.Entries), Adopted: adopted}
		if in.DryRun {
			out.Archived = append(out.Archived, result)
			totalEntries += result.Entries
			continue
		}

		if !adopted {
			archive := &logdoc.ArchiveDocument{Date: date, Entries: group.Entries}
			text := logdoc.RenderArchive(archive, cfg.LogFile, today)
			if err := writeFileAtomic(absPath, []byte(text)); err != nil {
				return out, err
			}
		}

		// Commit point for this date: the live log drops the group only
		// after its archive is safely on disk.
		doc.RemoveGroup(date)
		doc.Index = append(doc.Index, logdoc.ArchiveRef{Date: date, Path: relPath})
		doc.Status.ArchivedDates = len(doc.Index)
		if err := writeLiveLog(cfg, dir, doc); err != nil {
			return out, err
		}

		if db != nil {
			rec := history.ArchiveRecord{
				Date:       string(date),
				Path:       relPath,
				EntryCount: result.Entries,
				Checksum:   checksum,
				RunID:      out.RunID,
				CreatedAt:  now.Unix(),
			}
			if err := history.InsertArchive(db, rec); err != nil && !errors.Is(err, errors.ErrConflict) {
				return out, err
			}
		}

		out.Archived = append(out.Archived, result)
		totalEntries += result.Entries
	}

	// Refresh the rotation status even when nothing needed archiving.
	if !in.DryRun && len(out.Archived) == 0 {
		if err := writeLiveLog(cfg, dir, doc); err != nil {
			return out, err
		}
	}

	if db != nil && !in.DryRun {
		run := history.Run{
			ID:              out.RunID,
			RanAt:           now.Unix(),
			Today:           string(today),
			DatesArchived:   len(out.Archived),
			EntriesArchived: totalEntries,
		}
		if err := history.RecordRun(db, run); err != nil {
			return out, err
		}
	}

	return out, nil
}
