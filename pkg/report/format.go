// Package report renders and recovers the canonical analysis report: a
// "Reasoning Steps" section followed by a pipe-delimited "Final Output
// Table". The same layout is the wire format expected back from the
// completion service, so the parser tolerates formatting noise.
package report

import (
	"sort"
	"strconv"
	"strings"

	"vanshavali/pkg/lineage"
)

const (
	ReasoningHeader = "## Reasoning Steps"
	TableHeader     = "## Final Output Table"
)

// Columns is the fixed five-column table schema.
var Columns = []string{"Individual ID", "Name", "Relation", "Family Group ID", "Actions"}

// Rows renders individuals as table rows in ascending id order, header
// row first.
func Rows(individuals []*lineage.Individual) [][]string {
	sorted := make([]*lineage.Individual, len(individuals))
	copy(sorted, individuals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([][]string, 0, len(sorted)+1)
	rows = append(rows, Columns)
	for _, in := range sorted {
		rows = append(rows, []string{
			strconv.Itoa(in.ID),
			in.DisplayName,
			in.Relation,
			in.GroupString(),
			in.ActionString(),
		})
	}
	return rows
}

// Format renders the canonical report text from individuals and their
// reasoning trace. Rendering is deterministic and side-effect free.
func Format(individuals []*lineage.Individual, trace []string) string {
	var b strings.Builder

	b.WriteString(ReasoningHeader)
	b.WriteByte('\n')
	for _, line := range trace {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(TableHeader)
	b.WriteByte('\n')

	rows := Rows(individuals)
	writeRow(&b, rows[0])
	writeSeparator(&b, rows[0])
	for _, row := range rows[1:] {
		writeRow(&b, row)
	}

	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func writeSeparator(b *strings.Builder, header []string) {
	parts := make([]string, len(header))
	for i, cell := range header {
		parts[i] = strings.Repeat("-", len(cell)+2)
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(parts, "|"))
	b.WriteString("|\n")
}
