package ops

import (
	"os"
	"strings"
	"time"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

// AppendInput holds the parameters for recording one log entry.
type AppendInput struct {
	Summary string
	Details []string

	// At overrides the entry time, as HH:MM or HH:MM:SS. Empty means now.
	At string

	// On overrides the entry date. Empty means today.
	On logdoc.Date
}

// AppendOutput reports the recorded entry and the resulting live log size.
type AppendOutput struct {
	Date       logdoc.Date `json:"date"`
	Time       string      `json:"time"`
	Summary    string      `json:"summary"`
	EntryCount int         `json:"entry_count"`
}

// Append records a timestamped entry in the live log, creating the log with
// its standard skeleton if it does not exist yet.
func Append(cfg *config.Config, dir string, in AppendInput) (*AppendOutput, error) {
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		return nil, errors.NewInvalidRequest("summary is required")
	}
	if strings.ContainsAny(summary, "\r\n") {
		return nil, errors.NewInvalidRequest("summary must be a single line")
	}

	var details []string
	for _, d := range in.Details {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if strings.ContainsAny(d, "\r\n") {
			return nil, errors.NewInvalidRequest("details must be single lines")
		}
		details = append(details, d)
	}

	now := time.Now()
	date := in.On
	if date == "" {
		date = logdoc.DateOf(now)
	}
	tod := now.Format(logdoc.TimeLayout)
	if in.At != "" {
		normalized, err := logdoc.NormalizeTime(in.At)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		tod = normalized
	}

	doc, err := readLiveLog(cfg, dir)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			doc = logdoc.New()
		} else {
			return nil, err
		}
	}

	if doc.Indexed(date) {
		return nil, errors.NewConflict("date " + string(date) + " is already archived")
	}

	doc.AppendEntry(logdoc.Entry{Date: date, Time: tod, Summary: summary, Details: details})
	if err := writeLiveLog(cfg, dir, doc); err != nil {
		return nil, err
	}

	return &AppendOutput{
		Date:       date,
		Time:       tod,
		Summary:    summary,
		EntryCount: doc.EntryCount(),
	}, nil
}

// EnsureLog creates the live log skeleton if the workspace has none.
// Reports whether a new file was written.
func EnsureLog(cfg *config.Config, dir string) (bool, error) {
	if _, err := os.Stat(cfg.LogPath(dir)); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.NewInternal(err)
	}
	if err := writeLiveLog(cfg, dir, logdoc.New()); err != nil {
		return false, err
	}
	return true, nil
}
