package textrender

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const tabWidth = 8

// ReadText reads a text file, replacing invalid UTF-8 with U+FFFD instead of
// failing. A UTF-8 or UTF-16 byte order mark selects the decoding and is dropped.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()

	decoder := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}

// WrapText splits text into input lines and wraps each one to width runes.
// An empty text has no lines; a trailing newline does not add one.
func WrapText(text string, width int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, WrapLine(line, width)...)
	}
	return out
}

// WrapLine greedily wraps one line to at most width runes. Breaks happen at
// whitespace, which is dropped at the break; whitespace runs inside a line
// are kept. Words longer than width are broken hard. A blank line wraps to
// a single empty line.
func WrapLine(line string, width int) []string {
	if width < 1 {
		width = 1
	}
	line = expandTabs(line)

	var (
		lines []string
		cur   []rune
	)
	flush := func() {
		s := strings.TrimRightFunc(string(cur), unicode.IsSpace)
		cur = cur[:0]
		if s != "" {
			lines = append(lines, s)
		}
	}

	for _, tok := range tokenize(line) {
		runes := []rune(tok)
		if isSpace(tok) {
			if len(cur) == 0 && len(lines) > 0 {
				continue // whitespace at the start of a continuation line
			}
			if len(cur)+len(runes) > width {
				if len(cur) > 0 {
					flush()
				}
				continue
			}
			cur = append(cur, runes...)
			continue
		}

		if len(cur)+len(runes) > width && len(cur) > 0 {
			flush()
		}
		for len(runes) > width {
			cur = append(cur, runes[:width]...)
			flush()
			runes = runes[width:]
		}
		cur = append(cur, runes...)
	}

	flush()
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// tokenize splits s into alternating runs of whitespace and non-whitespace.
func tokenize(s string) []string {
	var toks []string
	start := 0
	for i, r := range s {
		if i == start {
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if unicode.IsSpace(prev) != unicode.IsSpace(r) {
			toks = append(toks, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		toks = append(toks, s[start:])
	}
	return toks
}

func isSpace(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsSpace(r)
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
