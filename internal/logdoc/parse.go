package logdoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
)

// Section heading markers in the live log.
const (
	statusHeading   = "## Log Rotation Status"
	indexHeading    = "### Archived Dates"
	activityHeading = "## Activity Log"
)

var (
	// dateHeadingPattern matches a date group heading: ### 2026-02-12
	dateHeadingPattern = regexp.MustCompile(`^###\s+(\S.*?)\s*$`)

	// entryHeadingPattern matches an entry heading: #### 09:15:00 - Summary
	entryHeadingPattern = regexp.MustCompile(`^####\s+(\d{2}:\d{2}(?::\d{2})?)\s+-\s+(\S.*?)\s*$`)

	// Status bullet lines maintained by the rotator.
	lastRotationPattern  = regexp.MustCompile(`^-\s+\*\*Last Rotation:\*\*\s+(.+?)\s*$`)
	archivedCountPattern = regexp.MustCompile(`^-\s+\*\*Archived Dates:\*\*\s+(\d+)\s*$`)
	locationPattern      = regexp.MustCompile(`^-\s+\*\*Archive Location:\*\*\s+\[[^\]]*\]\(([^)]*)\)\s*$`)

	// indexEntryPattern matches one archived-dates index line: - [2026-02-12](Logs/2026-02-12.md)
	indexEntryPattern = regexp.MustCompile(`^-\s+\[(\d{4}-\d{2}-\d{2})\]\(([^)]+)\)\s*$`)

	// archiveTitlePattern matches the first line of an archive document.
	archiveTitlePattern = regexp.MustCompile(`^#\s+System Log Archive\s+-\s+(\d{4}-\d{2}-\d{2})\s*$`)

	// fencePattern matches fenced code block delimiters (``` or ~~~) at the
	// start of a line, allowing 0-3 spaces of indentation per CommonMark.
	fencePattern = regexp.MustCompile("^[ ]{0,3}(`{3,}|~{3,})")
)

// lastRotationLayout is the timestamp format of the Last Rotation status line.
const lastRotationLayout = DateLayout + " " + TimeLayout

// fenceTracker suppresses structural interpretation of heading-like lines
// inside fenced code blocks. A closing fence must use the same character as
// the opening fence and be at least as long.
type fenceTracker struct {
	open     bool
	openChar byte
	openLen  int
}

// feed processes one line and reports whether it lies inside a fence
// (including the fence delimiter lines themselves).
func (f *fenceTracker) feed(line string) bool {
	m := fencePattern.FindStringSubmatch(line)
	if m == nil {
		return f.open
	}
	chars := m[1]
	if !f.open {
		f.open = true
		f.openChar = chars[0]
		f.openLen = len(chars)
		return true
	}
	if chars[0] == f.openChar && len(chars) >= f.openLen {
		f.open = false
	}
	return true
}

// parser section states.
type parseState int

const (
	statePreamble parseState = iota
	stateStatus
	stateIndex
	stateActivity
	stateFooter
)

// Parse reads the live log document from its Markdown text. name is used in
// error messages only (typically the file name). The document must contain a
// Log Rotation Status section and an Activity Log section; entry timestamps
// must be well-formed. Parse performs no mutation and fails on the first
// malformed construct.
func Parse(name, text string) (*Document, error) {
	doc := &Document{}
	lines := strings.Split(text, "\n")

	var preamble, footer strings.Builder
	state := statePreamble
	sawStatus := false
	var fences fenceTracker

	// Current entry under construction in the activity section.
	var curGroup *DateGroup
	var curEntry *Entry

	flushEntry := func() {
		if curGroup != nil && curEntry != nil {
			curGroup.Entries = append(curGroup.Entries, *curEntry)
		}
		curEntry = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		inFence := fences.feed(line)

		if inFence {
			switch state {
			case statePreamble:
				preamble.WriteString(line)
				preamble.WriteByte('\n')
			case stateFooter:
				footer.WriteString(line)
				footer.WriteByte('\n')
			default:
				return nil, errors.NewParseError(name, lineNo, "fenced code block not allowed in log body")
			}
			continue
		}

		trimmed := strings.TrimRight(line, " \t")

		switch state {
		case statePreamble:
			if trimmed == statusHeading {
				state = stateStatus
				sawStatus = true
				continue
			}
			if trimmed == activityHeading {
				return nil, errors.NewParseError(name, lineNo, "missing Log Rotation Status section before Activity Log")
			}
			preamble.WriteString(line)
			preamble.WriteByte('\n')

		case stateStatus, stateIndex:
			if trimmed == indexHeading {
				state = stateIndex
				continue
			}
			if trimmed == activityHeading {
				state = stateActivity
				continue
			}
			if m := lastRotationPattern.FindStringSubmatch(trimmed); m != nil {
				if m[1] != "Never" {
					ts, err := time.Parse(lastRotationLayout, m[1])
					if err != nil {
						return nil, errors.NewParseError(name, lineNo, "unparseable Last Rotation timestamp "+strconv.Quote(m[1]))
					}
					doc.Status.LastRotation = &ts
				}
				continue
			}
			if m := archivedCountPattern.FindStringSubmatch(trimmed); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, errors.NewParseError(name, lineNo, "unparseable archived-dates count")
				}
				doc.Status.ArchivedDates = n
				continue
			}
			if m := locationPattern.FindStringSubmatch(trimmed); m != nil {
				doc.Status.ArchiveLocation = m[1]
				continue
			}
			if state == stateIndex {
				if m := indexEntryPattern.FindStringSubmatch(trimmed); m != nil {
					date, err := ParseDate(m[1])
					if err != nil {
						return nil, errors.NewParseError(name, lineNo, err.Error())
					}
					doc.Index = append(doc.Index, ArchiveRef{Date: date, Path: m[2]})
					continue
				}
			}
			// Prose, separators, and placeholders within the status block
			// are tolerated and regenerated on render.

		case stateActivity:
			if strings.HasPrefix(trimmed, "## ") || trimmed == "##" {
				flushEntry()
				curGroup = nil
				state = stateFooter
				footer.WriteString(line)
				footer.WriteByte('\n')
				continue
			}
			if m := entryHeadingPattern.FindStringSubmatch(trimmed); m != nil {
				if curGroup == nil {
					return nil, errors.NewParseError(name, lineNo, "entry heading outside a date group")
				}
				flushEntry()
				tod, err := NormalizeTime(m[1])
				if err != nil {
					return nil, errors.NewParseError(name, lineNo, err.Error())
				}
				curEntry = &Entry{Date: curGroup.Date, Time: tod, Summary: m[2]}
				continue
			}
			if m := dateHeadingPattern.FindStringSubmatch(trimmed); m != nil {
				flushEntry()
				date, err := ParseDate(m[1])
				if err != nil {
					return nil, errors.NewParseError(name, lineNo, "invalid date heading: "+err.Error())
				}
				// A repeated date heading merges into the existing group,
				// keeping entries in file order.
				if existing := doc.Group(date); existing != nil {
					curGroup = existing
					continue
				}
				doc.Groups = append(doc.Groups, DateGroup{Date: date})
				curGroup = &doc.Groups[len(doc.Groups)-1]
				continue
			}
			if detail, ok := strings.CutPrefix(strings.TrimLeft(trimmed, " \t"), "- "); ok {
				if curEntry == nil {
					return nil, errors.NewParseError(name, lineNo, "detail bullet outside an entry")
				}
				curEntry.Details = append(curEntry.Details, detail)
				continue
			}
			if trimmed == "" || trimmed == "---" || strings.HasPrefix(trimmed, "*") {
				// Blank lines, separators, and placeholder prose such as
				// "*No activity logged today.*".
				continue
			}
			return nil, errors.NewParseError(name, lineNo, "unexpected content in Activity Log: "+strconv.Quote(trimmed))

		case stateFooter:
			footer.WriteString(line)
			footer.WriteByte('\n')
		}
	}
	flushEntry()

	if fences.open {
		return nil, errors.NewParseError(name, 0, "unterminated fenced code block")
	}
	if !sawStatus {
		return nil, errors.NewParseError(name, 0, "missing Log Rotation Status section")
	}
	if state == statePreamble || state == stateStatus || state == stateIndex {
		return nil, errors.NewParseError(name, 0, "missing Activity Log section")
	}

	if doc.Status.ArchiveLocation == "" {
		doc.Status.ArchiveLocation = DefaultArchiveLocation
	}
	doc.Preamble = preamble.String()
	doc.Footer = strings.TrimRight(footer.String(), "\n")
	if doc.Footer != "" {
		doc.Footer += "\n"
	}
	return doc, nil
}

// ParseArchive reads an archive document from its Markdown text. The archive
// date is taken from the title line; provenance blockquote lines are skipped.
func ParseArchive(name, text string) (*ArchiveDocument, error) {
	lines := strings.Split(text, "\n")

	arch := &ArchiveDocument{}
	var curEntry *Entry
	sawTitle := false

	flushEntry := func() {
		if curEntry != nil {
			arch.Entries = append(arch.Entries, *curEntry)
		}
		curEntry = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimRight(line, " \t")

		if !sawTitle {
			if trimmed == "" {
				continue
			}
			m := archiveTitlePattern.FindStringSubmatch(trimmed)
			if m == nil {
				return nil, errors.NewParseError(name, lineNo, "missing archive title line")
			}
			date, err := ParseDate(m[1])
			if err != nil {
				return nil, errors.NewParseError(name, lineNo, err.Error())
			}
			arch.Date = date
			sawTitle = true
			continue
		}

		if trimmed == "" || trimmed == "---" || strings.HasPrefix(trimmed, "> ") || trimmed == ">" {
			continue
		}
		if m := entryHeadingPattern.FindStringSubmatch(trimmed); m != nil {
			flushEntry()
			tod, err := NormalizeTime(m[1])
			if err != nil {
				return nil, errors.NewParseError(name, lineNo, err.Error())
			}
			curEntry = &Entry{Date: arch.Date, Time: tod, Summary: m[2]}
			continue
		}
		if detail, ok := strings.CutPrefix(strings.TrimLeft(trimmed, " \t"), "- "); ok {
			if curEntry == nil {
				return nil, errors.NewParseError(name, lineNo, "detail bullet outside an entry")
			}
			curEntry.Details = append(curEntry.Details, detail)
			continue
		}
		return nil, errors.NewParseError(name, lineNo, "unexpected content in archive: "+strconv.Quote(trimmed))
	}
	flushEntry()

	if !sawTitle {
		return nil, errors.NewParseError(name, 0, "missing archive title line")
	}
	return arch, nil
}

// NormalizeTime validates a HH:MM or HH:MM:SS time-of-day and returns the
// HH:MM:SS form.
func NormalizeTime(s string) (string, error) {
	if len(s) == len("15:04") {
		s += ":00"
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid entry time %q (want HH:MM or HH:MM:SS)", s)
	}
	return t.Format(TimeLayout), nil
}
