package lineage

import (
	"fmt"
	"sort"
	"strings"
)

// Role marks which side of a generation pairing an individual occupies.
type Role string

const (
	RoleParent Role = "P"
	RoleChild  Role = "C"
)

// GroupCode is one (generation, role) token of a family group id.
// Tokens render as "1P", "2C" and join with commas, e.g. "1C,2P" for an
// individual that is a child in group 1 and a parent in group 2.
type GroupCode struct {
	Generation int  `json:"generation"`
	Role       Role `json:"role"`
}

func (g GroupCode) String() string {
	return fmt.Sprintf("%d%s", g.Generation, g.Role)
}

// Individual is a resolved person entity, real or synthesized. Individuals
// form a graph through id references into the resolution arena; they own
// no pointers to each other.
type Individual struct {
	ID          int         `json:"id"`
	DisplayName string      `json:"name"`
	Relation    string      `json:"relation"`
	GroupCodes  []GroupCode `json:"group_codes"`
	Placeholder bool        `json:"placeholder"`
	Actions     []string    `json:"actions,omitempty"`

	// given is the raw given name used for relative-reference matching,
	// before duplicate disambiguation touches DisplayName.
	given string

	// parentID references the arena individual acting as this one's
	// parent; 0 means no resolvable parent.
	parentID int

	// relativeRef is the relative named in the relation phrase, kept even
	// when no arena individual matches it.
	relativeRef string

	depth       int
	hasChildren bool
}

// GroupString renders the family group id: tokens ordered by generation
// ascending, Parent before Child at equal generation.
func (in *Individual) GroupString() string {
	codes := make([]GroupCode, len(in.GroupCodes))
	copy(codes, in.GroupCodes)
	sort.SliceStable(codes, func(i, j int) bool {
		if codes[i].Generation != codes[j].Generation {
			return codes[i].Generation < codes[j].Generation
		}
		return codes[i].Role == RoleParent && codes[j].Role == RoleChild
	})

	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// ActionString renders the Actions annotation cell for the report table.
func (in *Individual) ActionString() string {
	return strings.Join(in.Actions, "; ")
}

// DiagnosticKind classifies a non-fatal validation finding.
type DiagnosticKind string

const (
	// DiagUnresolvedGeneration marks an individual whose relation phrase
	// referenced nobody resolvable, so its generation defaulted to 0.
	DiagUnresolvedGeneration DiagnosticKind = "unresolved_generation"

	// DiagOrphanIndividual marks a non-root individual with no resolvable
	// parent-role relative, real or placeholder.
	DiagOrphanIndividual DiagnosticKind = "orphan_individual"
)

// Diagnostic is a non-fatal validation finding tied to an individual.
// Diagnostics are reported alongside the table; they never abort a run.
type Diagnostic struct {
	Kind         DiagnosticKind `json:"kind"`
	IndividualID int            `json:"individual_id"`
	Message      string         `json:"message"`
}

// Resolution is the frozen output of a resolver run: the individual
// arena in id order, validation diagnostics, and the human-readable
// inference trace.
type Resolution struct {
	Individuals []*Individual `json:"individuals"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Trace       []string      `json:"trace"`
}

// byID returns the arena individual with the given id, or nil. Ids are
// assigned 1..N in first-seen order, so the arena slice doubles as the
// index.
func (r *Resolution) byID(id int) *Individual {
	if id <= 0 || id > len(r.Individuals) {
		return nil
	}
	return r.Individuals[id-1]
}
