// Package text provides the immutable buffer value, line index, change sets
// and selections that the decoration engines consume from a host.
package text

import "sort"

// Line describes one line of a Doc.
// From is the offset of the first byte, To is the offset of the line break
// (or the end of the document for the last line). Number is 1-based.
type Line struct {
	Number int
	From   int
	To     int

	// next is the offset of the first byte after the line break.
	next int
}

// Len returns the length of the line, excluding its line break.
func (l Line) Len() int {
	return l.To - l.From
}

// Doc is an immutable, versioned snapshot of buffer content.
// Every Apply produces a new Doc whose version is one greater.
type Doc struct {
	text    string
	lines   []Line
	version uint64
}

// NewDoc creates a Doc at version 0.
func NewDoc(content string) *Doc {
	return &Doc{
		text:  content,
		lines: buildLines(content),
	}
}

// Version returns the document version.
func (d *Doc) Version() uint64 {
	return d.version
}

// Len returns the document length in bytes.
func (d *Doc) Len() int {
	return len(d.text)
}

// String returns the full document text.
func (d *Doc) String() string {
	return d.text
}

// Bytes returns a copy of the document text.
func (d *Doc) Bytes() []byte {
	return []byte(d.text)
}

// Slice returns the text between from and to, clamped to the document.
func (d *Doc) Slice(from, to int) string {
	from = clamp(from, 0, len(d.text))
	to = clamp(to, from, len(d.text))
	return d.text[from:to]
}

// LineCount returns the number of lines. An empty document has one empty line.
func (d *Doc) LineCount() int {
	return len(d.lines)
}

// Line returns the 1-based line n.
func (d *Doc) Line(n int) (Line, bool) {
	if n < 1 || n > len(d.lines) {
		return Line{}, false
	}
	return d.lines[n-1], true
}

// LineAt returns the line containing pos. Positions outside the document
// are clamped to the first or last line.
func (d *Doc) LineAt(pos int) Line {
	if pos <= 0 {
		return d.lines[0]
	}
	idx := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i].next > pos
	})
	if idx >= len(d.lines) {
		idx = len(d.lines) - 1
	}
	return d.lines[idx]
}

// LineText returns the content of line, excluding its line break.
func (d *Doc) LineText(line Line) string {
	return d.Slice(line.From, line.To)
}

// Apply returns a new Doc with the changes applied.
func (d *Doc) Apply(changes ChangeSet) (*Doc, error) {
	if changes.Len() != len(d.text) {
		return nil, &LengthMismatchError{Want: changes.Len(), Got: len(d.text)}
	}
	if changes.Empty() {
		return d, nil
	}
	next := changes.Apply(d.text)
	return &Doc{
		text:    next,
		lines:   buildLines(next),
		version: d.version + 1,
	}, nil
}

// buildLines constructs the line index. It handles both LF and CRLF endings.
func buildLines(content string) []Line {
	lines := make([]Line, 0, 1+len(content)/40)
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] != '\n' {
			continue
		}
		breakStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			breakStart = idx - 1
		}
		lines = append(lines, Line{
			Number: len(lines) + 1,
			From:   lineStart,
			To:     breakStart,
			next:   idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may be empty or lack a trailing newline.
	lines = append(lines, Line{
		Number: len(lines) + 1,
		From:   lineStart,
		To:     len(content),
		next:   len(content) + 1,
	})

	return lines
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
