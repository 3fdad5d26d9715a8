package ingest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FieldCount is the fixed width of the canonical record schema.
const FieldCount = 8

// Header lists the canonical field names in column order. A delimited
// input block is expected to carry these names in its header row.
var Header = []string{
	"Caste",
	"Subcaste",
	"Given name",
	"Surname",
	"Relation",
	"Gender",
	"Place",
	"Date",
}

// Record is a single ingested row of genealogical data. All fields are
// free text and any field may be empty. A record is identified by its
// position in the ingested sequence and is never mutated after ingestion.
type Record struct {
	Caste     string `json:"caste"`
	Subcaste  string `json:"subcaste"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
	Relation  string `json:"relation"`
	Gender    string `json:"gender"`
	Place     string `json:"place"`
	Date      string `json:"date"`
}

// Fields returns the record's values in canonical column order.
func (r Record) Fields() []string {
	return []string{
		r.Caste,
		r.Subcaste,
		r.GivenName,
		r.Surname,
		r.Relation,
		r.Gender,
		r.Place,
		r.Date,
	}
}

// recordFromFields maps a row of at least FieldCount cells positionally
// onto the schema. Cells are trimmed and NFC-normalized so Devanagari
// input compares canonically regardless of how it was typed.
func recordFromFields(fields []string) Record {
	clean := make([]string, FieldCount)
	for i := 0; i < FieldCount && i < len(fields); i++ {
		clean[i] = Normalize(fields[i])
	}
	return Record{
		Caste:     clean[0],
		Subcaste:  clean[1],
		GivenName: clean[2],
		Surname:   clean[3],
		Relation:  clean[4],
		Gender:    clean[5],
		Place:     clean[6],
		Date:      clean[7],
	}
}

// Normalize trims surrounding whitespace and applies Unicode NFC
// normalization to a field value.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// isHeaderRow reports whether a parsed row is the canonical header row
// rather than data. Matching is case-insensitive on the first two columns.
func isHeaderRow(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(fields[0]))
	if first != "caste" {
		return false
	}
	if len(fields) > 1 {
		second := strings.ToLower(strings.TrimSpace(fields[1]))
		return second == "subcaste" || second == "sub-caste" || second == "sub caste"
	}
	return true
}
