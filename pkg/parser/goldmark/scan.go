package goldmark

// scanner helpers over the raw document bytes. All positions are clamped to
// the content so that malformed input never panics.

func (m *mapper) at(pos int) byte {
	if pos < 0 || pos >= len(m.content) {
		return 0
	}
	return m.content[pos]
}

// skipBlank advances pos past whitespace, line breaks and, when quotes is
// set, blockquote markers.
func (m *mapper) skipBlank(pos int, quotes bool) int {
	for pos < len(m.content) {
		switch m.content[pos] {
		case ' ', '\t', '\r', '\n':
			pos++
		case '>':
			if !quotes {
				return pos
			}
			pos++
		default:
			return pos
		}
	}
	return len(m.content)
}

// skipIndent advances pos past spaces, tabs and blockquote markers on the
// current line.
func (m *mapper) skipIndent(pos int) int {
	for pos < len(m.content) {
		switch m.content[pos] {
		case ' ', '\t', '>':
			pos++
		default:
			return pos
		}
	}
	return len(m.content)
}

// lineStart returns the offset of the first byte of the line containing pos.
func (m *mapper) lineStart(pos int) int {
	pos = min(max(pos, 0), len(m.content))
	for pos > 0 && m.content[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset of the line break ending the line containing
// pos, excluding a carriage return.
func (m *mapper) lineEnd(pos int) int {
	pos = min(max(pos, 0), len(m.content))
	for pos < len(m.content) && m.content[pos] != '\n' {
		pos++
	}
	if pos > 0 && pos <= len(m.content) && m.at(pos-1) == '\r' {
		pos--
	}
	return pos
}

// nextLineStart returns the start of the line after the one containing pos,
// or the content length on the last line.
func (m *mapper) nextLineStart(pos int) int {
	pos = min(max(pos, 0), len(m.content))
	for pos < len(m.content) && m.content[pos] != '\n' {
		pos++
	}
	return min(pos+1, len(m.content))
}

// trimRight moves end back over trailing whitespace, never past floor.
func (m *mapper) trimRight(end, floor int) int {
	end = min(end, len(m.content))
	for end > floor {
		switch m.content[end-1] {
		case ' ', '\t', '\r', '\n':
			end--
		default:
			return end
		}
	}
	return max(end, floor)
}

// indexFrom returns the offset of the first occurrence of c at or after pos,
// or -1.
func (m *mapper) indexFrom(pos int, c byte) int {
	for i := max(pos, 0); i < len(m.content); i++ {
		if m.content[i] == c {
			return i
		}
	}
	return -1
}

// runLen counts consecutive c bytes starting at pos.
func (m *mapper) runLen(pos int, c byte) int {
	n := 0
	for pos+n < len(m.content) && m.content[pos+n] == c {
		n++
	}
	return n
}

// runLenBefore counts consecutive c bytes ending right before pos.
func (m *mapper) runLenBefore(pos int, c byte) int {
	n := 0
	for pos-n-1 >= 0 && pos-n-1 < len(m.content) && m.content[pos-n-1] == c {
		n++
	}
	return n
}

// listMarkerEnd returns the offset right after a bullet or ordered list
// marker starting at pos.
func (m *mapper) listMarkerEnd(pos int) int {
	switch m.at(pos) {
	case '-', '*', '+':
		return pos + 1
	}
	end := pos
	for end < len(m.content) && m.content[end] >= '0' && m.content[end] <= '9' {
		end++
	}
	if end > pos && (m.at(end) == '.' || m.at(end) == ')') {
		return end + 1
	}
	return pos
}

// matchingClose finds the offset of the close byte that balances the open
// byte at pos, honoring backslash escapes. Returns -1 when unbalanced.
func (m *mapper) matchingClose(pos int, open, closer byte) int {
	depth := 0
	for i := pos; i < len(m.content); i++ {
		switch m.content[i] {
		case '\\':
			i++
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			if i+1 < len(m.content) && m.content[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// linkEnd returns the end offset of a link or image whose text ends at or
// after pos: past the closing bracket and any inline destination or
// reference label that follows it.
func (m *mapper) linkEnd(pos int) int {
	closeBracket := m.indexFrom(pos, ']')
	if closeBracket < 0 {
		return pos
	}
	end := closeBracket + 1
	switch m.at(end) {
	case '(':
		if closer := m.matchingClose(end, '(', ')'); closer >= 0 {
			return closer + 1
		}
	case '[':
		if closer := m.matchingClose(end, '[', ']'); closer >= 0 {
			return closer + 1
		}
	}
	return end
}
