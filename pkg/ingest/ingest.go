// Package ingest normalizes heterogeneous tabular input into the fixed
// eight-field record schema used by the resolver.
//
// Input may be a properly delimited text block, ragged whitespace-delimited
// text, or rows already decoded from a spreadsheet. Parsing is an explicit
// ordered chain of strategies: strict CSV first, then a tolerant tokenizer
// that never fails for non-empty input.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"vanshavali/pkg/logger"
)

var (
	// ErrEmptyInput is returned when the input contains no usable content.
	ErrEmptyInput = errors.New("ingest: empty input")

	// ErrSchemaMismatch is returned when row-structured input carries fewer
	// columns than the schema requires and padding was not requested.
	ErrSchemaMismatch = errors.New("ingest: row has fewer columns than schema")
)

// strategy is one step of the parsing fallback chain. Each step either
// produces a full record sequence or reports why it does not apply, so
// the chain stays inspectable and each step testable in isolation.
type strategy struct {
	name  string
	parse func(raw string) ([]Record, error)
}

// Ingest parses a raw text blob into records. Strict delimited parsing is
// attempted first; on any structural failure (inconsistent field counts,
// broken quoting, missing columns) the tolerant tokenizer takes over.
// Only entirely empty input produces an error.
func Ingest(raw string) ([]Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	chain := []strategy{
		{name: "strict-csv", parse: parseStrict},
		{name: "token-fallback", parse: parseTokens},
	}

	var lastErr error
	for _, s := range chain {
		records, err := s.parse(raw)
		if err == nil {
			logger.Debug("Ingested records", "strategy", s.name, "records", len(records))
			return records, nil
		}
		lastErr = err
		logger.Debug("Ingest strategy failed", "strategy", s.name, "err", err)
	}

	return nil, lastErr
}

// IngestRows maps externally decoded rows (e.g. from a spreadsheet
// adapter) positionally onto the schema. A header row is skipped. Rows
// narrower than the schema produce ErrSchemaMismatch.
func IngestRows(rows [][]string) ([]Record, error) {
	return ingestRows(rows, false)
}

// IngestRowsPadded behaves like IngestRows but right-pads narrow rows
// with empty strings instead of failing.
func IngestRowsPadded(rows [][]string) ([]Record, error) {
	return ingestRows(rows, true)
}

func ingestRows(rows [][]string, pad bool) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if rowEmpty(row) {
			continue
		}
		if len(row) < FieldCount && !pad {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrSchemaMismatch, i, len(row))
		}
		records = append(records, recordFromFields(row))
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return records, nil
}

// parseStrict reads the blob as CSV with lazy quoting. Field counts must
// be consistent and at least the schema width; anything else is a
// structural error that sends the caller to the next strategy.
func parseStrict(raw string) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader([]byte(raw)))
	reader.LazyQuotes = true

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rowEmpty(row) {
			continue
		}
		if len(row) < FieldCount {
			return nil, fmt.Errorf("%w: got %d columns", ErrSchemaMismatch, len(row))
		}
		rows = append(rows, row)
	}

	return ingestRows(rows, false)
}

// parseTokens splits the entire input on whitespace and regroups the flat
// token stream into rows of FieldCount tokens. A final partial group is
// right-padded with empty strings rather than dropped, trading precision
// for availability. This strategy never fails for non-empty input.
func parseTokens(raw string) ([]Record, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	records := make([]Record, 0, (len(tokens)+FieldCount-1)/FieldCount)
	for i := 0; i < len(tokens); i += FieldCount {
		end := i + FieldCount
		if end > len(tokens) {
			end = len(tokens)
		}
		records = append(records, recordFromFields(tokens[i:end]))
	}
	return records, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
