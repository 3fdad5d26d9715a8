package lineage

import (
	"strings"

	"vanshavali/pkg/ingest"
)

// Category is the resolved class of a relation phrase.
type Category string

const (
	CategoryParentOf     Category = "direct-parent-of"
	CategoryChildOf      Category = "direct-child-of"
	CategorySiblingOf    Category = "sibling-of"
	CategoryNephewOf     Category = "nephew-of"
	CategoryCousinOf     Category = "cousin-of"
	CategorySpouseOf     Category = "spouse-of"
	CategoryHead         Category = "head"
	CategoryUnclassified Category = "unclassified"
)

// Pattern maps a set of relation keywords to a category. Matching is
// substring containment on the NFC-normalized phrase, so inflected forms
// ("चचेरा भाई", "चचेरी बहन") match on their stem keyword.
type Pattern struct {
	Keywords []string
	Category Category
}

// Table is an ordered relation-phrase classification table. Earlier
// patterns win, so more specific vocabularies (cousin contains the
// sibling word in Hindi) must precede general ones. The taxonomy is
// configuration: callers can extend or replace the default table without
// touching resolver logic.
type Table []Pattern

// DefaultTable covers the Hindi vocabulary of the source records plus
// English equivalents.
func DefaultTable() Table {
	return Table{
		{Keywords: []string{"चचेरा", "चचेरी", "ममेरा", "ममेरी", "फुफेरा", "फुफेरी", "मौसेरा", "मौसेरी", "cousin"}, Category: CategoryCousinOf},
		{Keywords: []string{"भतीजा", "भतीजी", "भांजा", "भांजी", "भान्जा", "भान्जी", "nephew", "niece"}, Category: CategoryNephewOf},
		{Keywords: []string{"पिता", "माता", "पिताजी", "माताजी", "father", "mother"}, Category: CategoryParentOf},
		{Keywords: []string{"बेटा", "बेटी", "पुत्र", "पुत्री", "पोता", "पोती", "son", "daughter"}, Category: CategoryChildOf},
		{Keywords: []string{"भाई", "बहन", "बहिन", "brother", "sister"}, Category: CategorySiblingOf},
		{Keywords: []string{"पत्नी", "पति", "wife", "husband"}, Category: CategorySpouseOf},
		{Keywords: []string{"मुखिया", "head", "self"}, Category: CategoryHead},
	}
}

// Match is the outcome of classifying a relation phrase: its category and
// the relative named in the phrase, when one could be extracted.
type Match struct {
	Category Category
	Relative string
}

// genitive markers separating the named relative from the relation word,
// as in "ओमप्रकाश के भतीजा" (nephew of Omprakash).
var genitiveMarkers = map[string]bool{
	"के": true,
	"का": true,
	"की": true,
	"को": true,
}

// Classify resolves a free-text relation phrase against the table. An
// empty phrase or a bare head marker ("-", "मुखिया") classifies as
// CategoryHead; a phrase matching no pattern is CategoryUnclassified with
// its relative still extracted when the phrase shape allows.
func (t Table) Classify(phrase string) Match {
	phrase = ingest.Normalize(phrase)
	if phrase == "" || phrase == "-" || phrase == "--" {
		return Match{Category: CategoryHead}
	}

	lower := strings.ToLower(phrase)
	category := CategoryUnclassified
	for _, p := range t {
		if matchesAny(lower, p.Keywords) {
			category = p.Category
			break
		}
	}

	relative := ""
	if category != CategoryHead {
		relative = extractRelative(phrase)
	}
	return Match{Category: category, Relative: relative}
}

func matchesAny(phrase string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(phrase, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// extractRelative pulls the named relative out of a phrase. Hindi phrases
// name the relative before a genitive marker ("X के भतीजा"); English
// phrases name it after "of" ("nephew of X").
func extractRelative(phrase string) string {
	tokens := strings.Fields(phrase)
	for i, tok := range tokens {
		if genitiveMarkers[tok] && i > 0 {
			return strings.Join(tokens[:i], " ")
		}
	}

	lower := strings.ToLower(phrase)
	if idx := strings.Index(lower, " of "); idx >= 0 {
		return strings.TrimSpace(phrase[idx+4:])
	}
	return ""
}
