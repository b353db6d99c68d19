package logdoc

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Fingerprint returns a stable hex digest over an ordered entry sequence.
// Two entry sequences fingerprint equal exactly when they contain the same
// entries in the same order. Used to reconcile an on-disk archive against
// the partition a rotation run is about to write: equal fingerprints mean
// the archive was written by an interrupted earlier run and can be adopted;
// differing fingerprints are an archive conflict.
func Fingerprint(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		writeField(h, string(e.Date))
		writeField(h, e.Time)
		writeField(h, e.Summary)
		for _, detail := range e.Details {
			writeField(h, detail)
		}
		io.WriteString(h, "\x1e") // record separator between entries
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-prefix-free delimited field. The unit separator
// cannot occur in parsed Markdown lines, so fields cannot run together.
func writeField(w io.Writer, s string) {
	io.WriteString(w, s)
	io.WriteString(w, "\x1f")
}
