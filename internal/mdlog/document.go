package mdlog

import (
	"fmt"
	"strings"
	"time"
)

// Maintainer merges rendered entries into the persisted log document and
// enforces the retention cap.
type Maintainer struct {
	Title           string
	Description     string
	IntervalMinutes int
}

// document is the parsed shape of the log: a leading header block and the
// entry blocks in newest-first order. prefix carries any content found before
// the first entry in a file whose header heuristic failed (hand-edited logs);
// it is preserved verbatim to guarantee forward progress.
type document struct {
	header  string
	prefix  string
	entries []string
}

// Merge inserts the rendered entry as the newest entry. An empty or
// whitespace-only existing document gets a synthesized header first. When
// maxEntries > 0 and the merged document exceeds it, the oldest entries are
// replaced by a truncation footer. Entries are never deduplicated: every
// cycle is a new journal entry.
func (m *Maintainer) Merge(existing, entry string, maxEntries int) string {
	if strings.TrimSpace(existing) == "" {
		doc := document{header: m.header(), entries: []string{entry}}
		return doc.render(maxEntries)
	}

	doc := parseDocument(existing)
	doc.entries = append([]string{entry}, doc.entries...)
	return doc.render(maxEntries)
}

// parseDocument splits a log into header and entries. The header is
// everything before the first entry marker when the document opens with a
// level-1 heading; otherwise header detection has failed and the preamble is
// kept as an opaque prefix with the new entry going in above it.
func parseDocument(content string) document {
	var doc document

	idx := indexOfFirstEntry(content)
	preamble := content
	if idx >= 0 {
		preamble = content[:idx]
		doc.entries = splitEntries(content[idx:])
	}

	if strings.HasPrefix(content, "# ") {
		doc.header = preamble
	} else {
		doc.prefix = preamble
	}
	return doc
}

// indexOfFirstEntry returns the byte offset of the first entry-marker line,
// or -1.
func indexOfFirstEntry(content string) int {
	if strings.HasPrefix(content, EntryMarker) {
		return 0
	}
	i := strings.Index(content, "\n"+EntryMarker)
	if i < 0 {
		return -1
	}
	return i + 1
}

// splitEntries cuts the entry region at each marker line, keeping each
// entry's text intact.
func splitEntries(region string) []string {
	var entries []string
	for {
		next := indexOfFirstEntry(region[len(EntryMarker):])
		if next < 0 {
			entries = append(entries, region)
			return entries
		}
		cut := next + len(EntryMarker)
		entries = append(entries, region[:cut])
		region = region[cut:]
	}
}

// render reassembles the document: header, newest entry, any preserved
// preamble from a malformed header, then the older entries, capped.
func (d *document) render(maxEntries int) string {
	entries := d.entries
	truncated := false
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[:maxEntries]
		truncated = true
	}

	var b strings.Builder
	if d.header != "" {
		// Keep exactly one blank line between header and first entry, no
		// matter how many merges the document has been through.
		b.WriteString(strings.TrimRight(d.header, "\n") + "\n")
	}

	for i, e := range entries {
		b.WriteString(e)
		if i == 0 {
			b.WriteString(d.prefix)
		}
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
	}

	if truncated {
		fmt.Fprintf(&b, "---\n*Older entries truncated (showing last %d updates)*\n", maxEntries)
	}

	return b.String()
}

// header synthesizes the leading block written when the log file is first
// created.
func (m *Maintainer) header() string {
	return fmt.Sprintf("# %s\n\n%s\n\n**Started:** %s\n**Update Interval:** %d minutes\n",
		m.Title,
		m.Description,
		time.Now().UTC().Format(displayTimeLayout),
		m.IntervalMinutes,
	)
}

// CountEntries reports how many entries a document currently holds.
func CountEntries(content string) int {
	return strings.Count("\n"+content, "\n"+EntryMarker)
}
