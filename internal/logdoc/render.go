package logdoc

import (
	"fmt"
	"strings"
)

// Render produces the canonical Markdown text of the live log. Parsing the
// result yields an equivalent Document; the rotator always rewrites the
// whole file from this canonical form.
func (d *Document) Render() string {
	var b strings.Builder

	preamble := strings.TrimRight(d.Preamble, "\n")
	if preamble != "" {
		b.WriteString(preamble)
		b.WriteString("\n\n")
	}

	b.WriteString(statusHeading)
	b.WriteString("\n\n")
	if d.Status.LastRotation != nil {
		fmt.Fprintf(&b, "- **Last Rotation:** %s\n", d.Status.LastRotation.Format(lastRotationLayout))
	} else {
		b.WriteString("- **Last Rotation:** Never\n")
	}
	fmt.Fprintf(&b, "- **Archived Dates:** %d\n", d.Status.ArchivedDates)
	location := d.Status.ArchiveLocation
	if location == "" {
		location = DefaultArchiveLocation
	}
	fmt.Fprintf(&b, "- **Archive Location:** [%s](%s)\n", location, location)
	b.WriteString("\n")

	b.WriteString(indexHeading)
	b.WriteString("\n\n")
	if len(d.Index) == 0 {
		b.WriteString("*(none)*\n")
	} else {
		for _, ref := range d.Index {
			fmt.Fprintf(&b, "- [%s](%s)\n", ref.Date, ref.Path)
		}
	}
	b.WriteString("\n---\n\n")

	b.WriteString(activityHeading)
	b.WriteString("\n\n")
	if len(d.Groups) == 0 {
		b.WriteString("*No activity logged today.*\n\n")
	}
	for _, g := range d.Groups {
		fmt.Fprintf(&b, "### %s\n\n", g.Date)
		writeEntries(&b, g.Entries)
	}

	if d.Footer != "" {
		b.WriteString("---\n\n")
		b.WriteString(strings.TrimRight(d.Footer, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderArchive produces the Markdown text of an archive document. source is
// the live log file name the entries were rotated out of; archiveDate is the
// date the rotation ran.
func RenderArchive(a *ArchiveDocument, source string, archiveDate Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# System Log Archive - %s\n\n", a.Date)
	fmt.Fprintf(&b, "> **Archived from:** %s\n", source)
	fmt.Fprintf(&b, "> **Archive date:** %s\n\n", archiveDate)
	b.WriteString("---\n\n")
	writeEntries(&b, a.Entries)

	return b.String()
}

// writeEntries renders entries in order, one blank line between blocks.
func writeEntries(b *strings.Builder, entries []Entry) {
	for _, e := range entries {
		fmt.Fprintf(b, "#### %s - %s\n\n", e.Time, e.Summary)
		if len(e.Details) > 0 {
			for _, detail := range e.Details {
				fmt.Fprintf(b, "- %s\n", detail)
			}
			b.WriteString("\n")
		}
	}
}
