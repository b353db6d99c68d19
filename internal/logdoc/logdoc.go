// Package logdoc models the live system log and its per-date archives as
// Markdown documents. The live log accumulates timestamped entries grouped
// by calendar date; rotation moves whole date groups into immutable archive
// documents under the Logs/ folder.
package logdoc

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in group headings, archive
// file names, and the archived-dates index.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format used in entry headings.
const TimeLayout = "15:04:05"

// Date is a calendar date in YYYY-MM-DD form. The textual form orders the
// same way the calendar does, so comparisons are plain string comparisons.
type Date string

// ParseDate validates s as a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	// Reject dates that normalize differently, e.g. 2026-2-1.
	if t.Format(DateLayout) != s {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return Date(s), nil
}

// DateOf returns the calendar date of t.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Before reports whether d falls strictly earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return string(d)
}

// Entry is one recorded event: a timestamped heading with optional bullet
// detail lines. Entries are never mutated after creation.
type Entry struct {
	Date    Date
	Time    string // normalized HH:MM:SS
	Summary string
	Details []string
}

// Timestamp combines the entry's date and time components.
func (e Entry) Timestamp() (time.Time, error) {
	return time.Parse(DateLayout+" "+TimeLayout, string(e.Date)+" "+e.Time)
}

// DateGroup is the partition of live entries sharing one calendar date,
// in original append order.
type DateGroup struct {
	Date    Date
	Entries []Entry
}

// RotationStatus is the header metadata the rotator maintains in the live log.
type RotationStatus struct {
	LastRotation    *time.Time
	ArchivedDates   int
	ArchiveLocation string // relative folder holding archives, e.g. "Logs/"
}

// ArchiveRef is one line of the archived-dates index: a date and a link
// resolvable to its archive document. Index order is archive-creation order.
type ArchiveRef struct {
	Date Date
	Path string
}

// Document is the live, mutable log.
type Document struct {
	Preamble string // verbatim text before the Log Rotation Status section
	Status   RotationStatus
	Index    []ArchiveRef
	Groups   []DateGroup // chronological date groups of the activity log
	Footer   string      // verbatim sections after the activity log
}

// ArchiveDocument is one immutable-after-creation document per calendar date.
type ArchiveDocument struct {
	Date    Date
	Entries []Entry
}

// Indexed reports whether date is present in the archived-dates index.
func (d *Document) Indexed(date Date) bool {
	for _, ref := range d.Index {
		if ref.Date == date {
			return true
		}
	}
	return false
}

// Group returns the date group for date, or nil if the date has no entries
// in the live log.
func (d *Document) Group(date Date) *DateGroup {
	for i := range d.Groups {
		if d.Groups[i].Date == date {
			return &d.Groups[i]
		}
	}
	return nil
}

// RemoveGroup deletes the date group for date, preserving the order of the
// remaining groups.
func (d *Document) RemoveGroup(date Date) {
	for i := range d.Groups {
		if d.Groups[i].Date == date {
			d.Groups = append(d.Groups[:i], d.Groups[i+1:]...)
			return
		}
	}
}

// EntryCount returns the total number of entries in the live log.
func (d *Document) EntryCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Entries)
	}
	return n
}

// AppendEntry adds e to its date group, creating the group if needed.
// Groups are kept in chronological order; entries within a group keep
// append order.
func (d *Document) AppendEntry(e Entry) {
	if g := d.Group(e.Date); g != nil {
		g.Entries = append(g.Entries, e)
		return
	}

	// Insert a new group at its chronological position.
	pos := len(d.Groups)
	for i, g := range d.Groups {
		if e.Date.Before(g.Date) {
			pos = i
			break
		}
	}
	d.Groups = append(d.Groups, DateGroup{})
	copy(d.Groups[pos+1:], d.Groups[pos:])
	d.Groups[pos] = DateGroup{Date: e.Date, Entries: []Entry{e}}
}

// DefaultArchiveLocation is the archive folder recorded in a fresh document.
const DefaultArchiveLocation = "Logs/"

// New returns an empty live log document with the standard skeleton.
func New() *Document {
	return &Document{
		Preamble: "# System Log\n\nChronological record of actions taken in this workspace.\n",
		Status: RotationStatus{
			ArchiveLocation: DefaultArchiveLocation,
		},
	}
}
