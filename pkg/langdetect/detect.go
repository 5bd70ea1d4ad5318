// Package langdetect names the language of fenced code blocks. It reads the
// fence info string when present and otherwise guesses from the content
// with go-enry, so the code badge rule can label every block.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// TagText is the tag used when no language can be determined.
const TagText = "text"

// Language describes the language of a code block.
type Language struct {
	// Tag is the lowercase fence tag, e.g. "go" or "bash".
	Tag string

	// Name is the display name, e.g. "Go".
	Name string

	// Color is the linguist color for the language, or "".
	Color string

	// Guessed is true when the language was detected from content.
	Guessed bool
}

// Resolve returns the language named by the first word of a fence info
// string, or the detected language of content when info is empty.
func Resolve(info string, content []byte) Language {
	if fields := strings.Fields(info); len(fields) > 0 {
		tag := strings.ToLower(fields[0])
		return describe(tag, false)
	}
	return describe(Detect(content), true)
}

func describe(tag string, guessed bool) Language {
	lang := Language{Tag: tag, Name: tag, Guessed: guessed}
	if tag == TagText {
		lang.Name = "Text"
		return lang
	}
	if name, ok := enry.GetLanguageByAlias(tag); ok {
		lang.Name = name
		lang.Color = enry.GetColor(name)
	}
	return lang
}

// classifierCandidates bounds the classifier to languages that commonly
// appear in notes.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns the fence tag for code content, or TagText when the
// language cannot be determined with confidence.
func Detect(content []byte) string {
	if len(content) == 0 {
		return TagText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	sample := newSample(content)
	if len(sample.trimmed) == 0 {
		return TagText
	}
	for _, h := range heuristics {
		if h.match(sample) {
			return h.tag
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}

	return TagText
}

// sample holds the views of the content the heuristics look at.
type sample struct {
	raw     []byte
	trimmed []byte
	lower   []byte
	str     string
}

func newSample(content []byte) sample {
	trimmed := bytes.TrimSpace(content)
	return sample{
		raw:     content,
		trimmed: trimmed,
		lower:   bytes.ToLower(trimmed),
		str:     string(content),
	}
}

// heuristics are checked in order; the first match wins.
var heuristics = []struct {
	tag   string
	match func(s sample) bool
}{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", looksLikePython},
	{"html", func(s sample) bool {
		return containsAny(s.lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(s sample) bool {
		return (s.trimmed[0] == '{' || s.trimmed[0] == '[') && bytes.IndexByte(s.trimmed, '"') >= 0
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(containsAll(s.raw, "\nFROM ", "\nRUN ")) ||
			(containsAll(s.raw, "WORKDIR ", "COPY "))
	}},
	{"sql", func(s sample) bool {
		upper := strings.ToUpper(strings.TrimSpace(s.str))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return containsAny(s.raw, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return containsAny(s.raw, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", looksLikeYAML},
}

func looksLikePython(s sample) bool {
	if strings.Contains(s.str, "def ") && strings.Contains(s.str, "):") {
		return true
	}
	// Go groups imports with "import (".
	if strings.Contains(s.str, "import ") && !strings.Contains(s.str, "import (") &&
		(strings.Contains(s.str, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))) {
		return true
	}
	return strings.Contains(s.str, "__name__") || strings.Contains(s.str, "__main__")
}

// looksLikeYAML counts "key: value" lines and root list items.
func looksLikeYAML(s sample) bool {
	pairs := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !containsAny(line, "(", "{") && line[0] != '"' {
			pairs++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			pairs++
		}
	}
	return pairs >= 2
}

func containsAny(b []byte, subs ...string) bool {
	for _, sub := range subs {
		if bytes.Contains(b, []byte(sub)) {
			return true
		}
	}
	return false
}

func containsAll(b []byte, subs ...string) bool {
	for _, sub := range subs {
		if !bytes.Contains(b, []byte(sub)) {
			return false
		}
	}
	return true
}

// fenceTag converts a go-enry language name to a fence tag.
func fenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
