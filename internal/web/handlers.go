package web

import (
	"database/sql"
	"net/http"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/history"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	dir      string // workspace directory
	renderer *Renderer
}

// HandleLog handles GET /log — the live log, rendered.
func (h *Handlers) HandleLog(w http.ResponseWriter, r *http.Request) {
	status, err := ops.Status(h.cfg, h.dir)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	_, raw, err := ops.ReadLiveLog(h.cfg, h.dir)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	lastRotation := "Never"
	if status.LastRotation != nil {
		lastRotation = status.LastRotation.Format("2006-01-02 15:04:05")
	}

	h.renderer.renderPage(w, "log", LogPageData{
		PageData: PageData{
			Title:   "System Log",
			Version: h.renderer.version,
			Nav:     "log",
		},
		Status:       status,
		LastRotation: lastRotation,
		RenderedHTML: renderMarkdown(raw),
	})
}

// HandleArchives handles GET /archives — the archived-dates index.
func (h *Handlers) HandleArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := ops.ListArchives(h.cfg, h.dir)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "archives", ArchivesPageData{
		PageData: PageData{
			Title:   "Archives",
			Version: h.renderer.version,
			Nav:     "archives",
		},
		Archives: archives,
	})
}

// HandleArchive handles GET /archives/{date} — one archive document, rendered.
func (h *Handlers) HandleArchive(w http.ResponseWriter, r *http.Request) {
	date, err := logdoc.ParseDate(r.PathValue("date"))
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest(err.Error()))
		return
	}

	archive, raw, err := ops.FetchArchive(h.cfg, h.dir, date)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "archive", ArchivePageData{
		PageData: PageData{
			Title:   "Archive " + string(archive.Date),
			Version: h.renderer.version,
			Nav:     "archives",
		},
		Date:         string(archive.Date),
		EntryCount:   len(archive.Entries),
		RenderedHTML: renderMarkdown(raw),
	})
}

// HandleHistory handles GET /history — rotation runs from the journal.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	var runs []history.Run
	if h.db != nil {
		var err error
		runs, err = history.ListRuns(h.db, 50)
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}

	h.renderer.renderPage(w, "history", HistoryPageData{
		PageData: PageData{
			Title:   "Rotation History",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Runs: runs,
	})
}
