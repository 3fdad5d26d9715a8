// Package prompt builds the chain-of-thought payload sent to the
// completion service: a fixed instructional template, worked examples,
// and the canonical CSV rendering of the current record sequence.
package prompt

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"vanshavali/pkg/ingest"

	"github.com/pkoukk/tiktoken-go"
)

// Sampling parameter bounds for the completion call.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 1.0
	DefaultTemperature = 0.3

	MinMaxTokens     = 500
	MaxMaxTokens     = 4000
	DefaultMaxTokens = 2000
)

const cotTemplate = `**Family Data Processing - Chain of Thought**

# Chain-of-Thought Family Relationship Data Conversion Prompt

## Examples
%s

## Rules
- Assign every individual a numeric ID in order of appearance, starting at 1.
- Build the display name from the given name and surname; ignore surname markers like "-".
- Classify each relation phrase (son, daughter, father, mother, brother, sister, nephew, niece, cousin, wife, husband, or their Hindi equivalents) and link the individual to the named relative.
- When a relation implies an unlisted relative (a nephew implies a sibling of the named relative; a cousin implies a sibling in the parent generation), add a placeholder individual named UK1, UK2, ... and link it as the intermediate parent.
- Derive the Family Group ID from generation depth and role: "1P" for a parent in group 1, "1C" for a child in group 1, "1C,2P" for an individual that is both. Keep generation numbers contiguous.
- Disambiguate duplicate names with numbered suffixes "(1)", "(2)" in order of appearance.
- Note inferred placeholders and unverifiable generations in the Actions column.

**CSV Data:**
%s

**Required Output Format:**
## Reasoning Steps
[Detailed step-by-step analysis in markdown]

## Final Output Table
| Individual ID | Name | Relation | Family Group ID | Actions |
|---------------|------|----------|-----------------|---------|
[...table data...]`

// Build assembles the full prompt from worked examples and the CSV
// rendering of the input records.
func Build(examples []Example, csvData string) string {
	return fmt.Sprintf(cotTemplate, FormatExamples(examples), csvData)
}

// RenderCSV renders records as the canonical delimited text: header row
// plus one row per record. The same rendering serves as the table export
// format.
func RenderCSV(records []ingest.Record) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(ingest.Header)
	for _, rec := range records {
		_ = w.Write(rec.Fields())
	}
	w.Flush()

	return buf.String()
}

// ClampTemperature forces a temperature into the supported range,
// substituting the default for NaN-ish out-of-range garbage below zero.
func ClampTemperature(t float64) float64 {
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}

// ClampMaxTokens forces a completion budget into the supported range. A
// zero value selects the default.
func ClampMaxTokens(n int) int {
	if n == 0 {
		return DefaultMaxTokens
	}
	if n < MinMaxTokens {
		return MinMaxTokens
	}
	if n > MaxMaxTokens {
		return MaxMaxTokens
	}
	return n
}

// CountTokens estimates the token count of a prompt using the same
// encoding the completion models use.
func CountTokens(text string) (int, error) {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// FormatExamples renders worked examples the way the template expects.
func FormatExamples(examples []Example) string {
	var b strings.Builder
	for i, ex := range examples {
		fmt.Fprintf(&b, "### Example %d\n**Input CSV:**\n%s\n\n**Expected Output:**\n%s\n\n", i+1, ex.Input, ex.Output)
	}
	return b.String()
}
