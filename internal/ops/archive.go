package ops

import (
	"os"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
)

// FetchArchive reads and parses one archive document. Returns the parsed
// document and the raw Markdown text.
func FetchArchive(cfg *config.Config, dir string, date logdoc.Date) (*logdoc.ArchiveDocument, string, error) {
	path := cfg.ArchivePath(dir, string(date))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.NewNotFound(string(date))
		}
		return nil, "", errors.NewInternal(err)
	}
	archive, err := logdoc.ParseArchive(string(date)+".md", string(data))
	if err != nil {
		return nil, "", err
	}
	return archive, string(data), nil
}

// ListArchives returns the archived-dates index from the live log, in
// archive-creation order.
func ListArchives(cfg *config.Config, dir string) ([]IndexEntry, error) {
	doc, err := readLiveLog(cfg, dir)
	if err != nil {
		return nil, err
	}
	var entries []IndexEntry
	for _, ref := range doc.Index {
		entries = append(entries, IndexEntry{Date: ref.Date, Path: ref.Path})
	}
	return entries, nil
}

// ReadLiveLog returns the parsed live log and its raw Markdown text.
func ReadLiveLog(cfg *config.Config, dir string) (*logdoc.Document, string, error) {
	path := cfg.LogPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.NewNotFound(path)
		}
		return nil, "", errors.NewInternal(err)
	}
	doc, err := logdoc.Parse(cfg.LogFile, string(data))
	if err != nil {
		return nil, "", err
	}
	return doc, string(data), nil
}
