package report

import (
	"strings"
)

// section is the parser's current position in the report layout.
type section int

const (
	sectionNone section = iota
	sectionReasoning
	sectionTable
)

// ParseResult is the recovered content of a report. Rows includes the
// column-header row at index 0; callers wanting only data rows skip it.
// Malformed counts table candidate lines that were dropped.
type ParseResult struct {
	Reasoning []string   `json:"reasoning"`
	Rows      [][]string `json:"rows"`
	Malformed int        `json:"malformed"`
}

// DataRows returns the table rows without the column-header row.
func (p ParseResult) DataRows() [][]string {
	if len(p.Rows) == 0 {
		return nil
	}
	return p.Rows[1:]
}

// Parse recovers the reasoning lines and table rows from a report text
// that may carry extraneous formatting, header noise, or malformed rows.
// Parsing never fails: malformed rows are counted and dropped, and a
// missing table section simply yields no rows.
func Parse(text string) ParseResult {
	result := ParseResult{
		Reasoning: make([]string, 0),
		Rows:      make([][]string, 0),
	}

	state := sectionNone
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case matchesHeader(trimmed, "reasoning steps"):
			state = sectionReasoning
			continue
		case matchesHeader(trimmed, "final output table"):
			state = sectionTable
			continue
		}

		switch state {
		case sectionReasoning:
			if trimmed == "" || isHorizontalRule(trimmed) {
				continue
			}
			result.Reasoning = append(result.Reasoning, trimmed)

		case sectionTable:
			if !strings.HasPrefix(trimmed, "|") {
				continue
			}
			cells, separator := splitRow(trimmed)
			if separator {
				continue
			}
			if cells == nil {
				result.Malformed++
				continue
			}
			result.Rows = append(result.Rows, cells)
		}
	}

	return result
}

// matchesHeader reports whether a trimmed line is the given section
// header, ignoring case, markdown heading markers, and trailing
// decoration.
func matchesHeader(line, header string) bool {
	lower := strings.ToLower(line)
	lower = strings.TrimLeft(lower, "#")
	lower = strings.Trim(lower, " *:")
	return strings.HasPrefix(lower, header)
}

// isHorizontalRule reports whether a trimmed line is purely a markdown
// horizontal-rule marker.
func isHorizontalRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	first := rune(line[0])
	if first != '-' && first != '*' && first != '_' {
		return false
	}
	for _, r := range line {
		if r != first && r != ' ' {
			return false
		}
	}
	return true
}

// splitRow splits a pipe-delimited line into cells, trimming the empty
// boundary cells. A row is accepted only if it has exactly five cells and
// at least one cell is not purely a separator run, which excludes the
// markdown header-separator row while keeping the column-header row.
// Returns (nil, true) for a pure separator row, (nil, false) for a
// malformed row.
func splitRow(line string) (cells []string, separator bool) {
	parts := strings.Split(line, "|")
	// Leading boundary cell is always empty for a line starting with "|".
	parts = parts[1:]
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	trimmedCells := make([]string, len(parts))
	allSeparator := len(parts) > 0
	for i, part := range parts {
		trimmedCells[i] = strings.TrimSpace(part)
		if !isSeparatorToken(trimmedCells[i]) {
			allSeparator = false
		}
	}
	if allSeparator {
		return nil, true
	}
	if len(trimmedCells) != len(Columns) {
		return nil, false
	}
	return trimmedCells, false
}

// isSeparatorToken reports whether a cell is a run of hyphens, optionally
// with markdown alignment colons.
func isSeparatorToken(cell string) bool {
	if cell == "" {
		return false
	}
	hyphens := 0
	for _, r := range cell {
		switch r {
		case '-':
			hyphens++
		case ':':
		default:
			return false
		}
	}
	return hyphens > 0
}
