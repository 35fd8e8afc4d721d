// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/citexpert/internal/record"
)

const maxLineSize = 1024 * 1024

// block holds the trimmed lines of one record, header first.
type block struct {
	line  int
	lines []string
}

// scanBlocks splits input into record blocks. A block starts at a line
// beginning with "@" and ends at a line beginning with "}" or at the line
// where its braces balance again. Comment lines inside a block are kept but
// do not count toward the brace depth. Text outside blocks is ignored.
func scanBlocks(r io.Reader, name string) ([]block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		blocks  []block
		current *block
		depth   int
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "@") {
			if current != nil {
				return nil, &ParseError{File: name, Line: current.line, Err: ErrUnterminatedBlock}
			}
			current = &block{line: lineNo}
			depth = 0
		}
		if current == nil {
			continue
		}

		current.lines = append(current.lines, line)
		if len(current.lines) > 1 && strings.HasPrefix(line, "%") {
			continue
		}

		opened, end := braceDepth(line, depth)
		header := len(current.lines) == 1
		closed := strings.HasPrefix(line, "}") ||
			(strings.HasPrefix(line, ")") && depth == 0) ||
			(end <= 0 && (depth > 0 || (header && opened)))
		depth = end

		if closed {
			blocks = append(blocks, *current)
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if current != nil {
		return nil, &ParseError{File: name, Line: current.line, Err: ErrUnterminatedBlock}
	}
	return blocks, nil
}

// braceDepth returns the brace depth after line, starting from depth, and
// whether any brace was opened along the way.
func braceDepth(line string, depth int) (bool, int) {
	opened := false
	for _, r := range line {
		switch r {
		case '{':
			depth++
			opened = true
		case '}':
			depth--
		}
	}
	return opened, depth
}

// header splits an @-line into the record type and the text after the
// opening delimiter.
func header(line string) (string, string, error) {
	idx := strings.IndexAny(line, "{(")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: no opening delimiter in %q", ErrMalformedHeader, line)
	}
	return strings.TrimSpace(line[1:idx]), line[idx+1:], nil
}

// assignment is one "key = value" pair with its value already stripped.
type assignment struct {
	key   string
	value string
}

// splitAssignments breaks record body text into segments, one per line.
// A value continues onto the next line only while a brace is open. Within a
// line, a comma ends the segment only where endsSegment says so; other
// commas stay in bare values. A quote delimits only when it opens the value.
// An unmatched closing brace ends the body.
func splitAssignments(lines []string) []string {
	var (
		segments []string
		seg      strings.Builder
		depth    int
		inQuote  bool
	)
	flush := func() {
		if s := strings.TrimSpace(seg.String()); s != "" {
			segments = append(segments, s)
		}
		seg.Reset()
		inQuote = false
	}

	for _, line := range lines {
		if depth == 0 && (line == "" || strings.HasPrefix(line, "%")) {
			continue
		}
		for i, r := range line {
			switch {
			case inQuote:
				if r == '"' {
					inQuote = false
				}
			case r == '{':
				depth++
			case r == '}':
				if depth == 0 {
					flush()
					return segments
				}
				depth--
			case depth > 0:
			case r == '"' && atValueStart(seg.String()):
				inQuote = true
			case r == ',' && endsSegment(seg.String(), line[i+1:]):
				flush()
				continue
			}
			seg.WriteRune(r)
		}
		if depth == 0 {
			flush()
		} else {
			seg.WriteByte(' ')
		}
	}
	flush()
	return segments
}

var authorFields = map[string]bool{
	"first": true, "last": true, "affiliation": true, "email": true,
	"country_code": true, "citations": true, "keywords": true,
}

var fieldStart = regexp.MustCompile(`^\s*([A-Za-z][\w-]*)\s*=`)

// endsSegment reports whether a comma between seg and rest ends seg. It does
// when rest is blank or closes the record, or when rest begins an assignment
// and either names a known field or follows a delimited value.
func endsSegment(seg, rest string) bool {
	trimmed := strings.TrimSpace(rest)
	if trimmed == "" || trimmed[0] == '}' || trimmed[0] == ')' {
		return true
	}
	m := fieldStart.FindStringSubmatch(rest)
	if m == nil {
		return false
	}
	key := strings.ToLower(m[1])
	if _, known := record.LookupField(key); known || authorFields[key] {
		return true
	}
	_, value, _ := strings.Cut(seg, "=")
	value = strings.TrimSpace(value)
	return len(value) >= 2 &&
		((value[0] == '{' && value[len(value)-1] == '}') || (value[0] == '"' && value[len(value)-1] == '"'))
}

// atValueStart reports whether seg holds a key and "=" with no value yet.
func atValueStart(seg string) bool {
	_, value, ok := strings.Cut(seg, "=")
	return ok && strings.TrimSpace(value) == ""
}

// parseAssignment splits a segment at its first "=" and strips the value.
// It reports false for segments without a key.
func parseAssignment(segment string) (assignment, bool) {
	key, value, ok := strings.Cut(segment, "=")
	if !ok {
		return assignment{}, false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return assignment{}, false
	}
	if key == "howpublished" {
		value = strings.ReplaceAll(value, `\url{`, "")
		value = strings.ReplaceAll(value, "}}", "")
	}
	return assignment{key: key, value: stripValue(value)}, true
}

var delimiterStripper = strings.NewReplacer("{", "", "}", "", `"`, "")

// stripValue removes one layer of outer braces or quotes and then every
// remaining brace or quote character in the value. This is deliberately
// lenient: values that legitimately contain those characters lose them.
func stripValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, ",")
	if len(v) >= 2 {
		if (v[0] == '{' && v[len(v)-1] == '}') || (v[0] == '"' && v[len(v)-1] == '"') {
			v = v[1 : len(v)-1]
		}
	}
	return strings.TrimSpace(delimiterStripper.Replace(v))
}
