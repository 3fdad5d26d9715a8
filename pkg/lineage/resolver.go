// Package lineage resolves ingested genealogical records into a
// normalized family table: stable ids, canonical display names,
// generation-indexed family group codes, and synthesized placeholder
// individuals where a relation phrase implies an unlisted relative.
//
// Resolution is deterministic and never fails: malformed content becomes
// diagnostics on a best-effort table. All counters and the individual
// arena are per-run state; concurrent runs are fully isolated.
package lineage

import (
	"fmt"
	"sort"
	"strings"

	"vanshavali/pkg/ingest"
)

const (
	actionCreatedPlaceholder = "created placeholder"
	actionVerifyGeneration   = "verify generation"
	actionVerifyParentage    = "verify parentage"
)

// Options configures a resolver run.
type Options struct {
	Table Table
}

// Option is a functional option for Resolve.
type Option func(*Options)

// WithRelationTable replaces the default relation-phrase classification
// table for this run.
func WithRelationTable(t Table) Option {
	return func(o *Options) {
		o.Table = t
	}
}

type resolver struct {
	res          *Resolution
	table        Table
	placeholderN int
}

// Resolve processes records in input order and returns the frozen
// resolution: one individual per record plus zero or more placeholders,
// diagnostics for everything that could not be fully resolved, and a
// trace line per inference step.
func Resolve(records []ingest.Record, opts ...Option) *Resolution {
	options := Options{Table: DefaultTable()}
	for _, o := range opts {
		o(&options)
	}

	r := &resolver{
		res: &Resolution{
			Individuals: make([]*Individual, 0, len(records)),
			Diagnostics: make([]Diagnostic, 0),
			Trace:       make([]string, 0, len(records)*3),
		},
		table: options.Table,
	}

	for i, rec := range records {
		r.resolveRecord(i, rec)
	}
	r.finalize()

	return r.res
}

func (r *resolver) resolveRecord(idx int, rec ingest.Record) {
	in := r.newIndividual(rec)
	r.tracef("Record %d: created individual %d (%s)", idx+1, in.ID, in.DisplayName)

	match := r.table.Classify(rec.Relation)
	in.relativeRef = match.Relative
	if match.Category == CategoryHead {
		r.tracef("Record %d: relation %q marks a family head", idx+1, in.Relation)
	} else if match.Relative != "" {
		r.tracef("Record %d: classified relation %q as %s relative %q", idx+1, rec.Relation, match.Category, match.Relative)
	} else {
		r.tracef("Record %d: classified relation %q as %s with no named relative", idx+1, rec.Relation, match.Category)
	}

	target := r.findByName(match.Relative, in.ID)

	switch match.Category {
	case CategoryHead:
		in.depth = 0

	case CategoryParentOf:
		if target == nil {
			r.unresolvedGeneration(in, match.Relative)
			break
		}
		in.depth = target.depth - 1
		in.hasChildren = true
		if target.parentID == 0 {
			target.parentID = in.ID
		}
		r.tracef("Individual %d is a parent of individual %d, one generation above", in.ID, target.ID)

	case CategoryChildOf:
		if target == nil {
			r.unresolvedGeneration(in, match.Relative)
			break
		}
		in.depth = target.depth + 1
		in.parentID = target.ID
		target.hasChildren = true
		r.tracef("Individual %d is a child of individual %d, one generation below", in.ID, target.ID)

	case CategorySiblingOf:
		if target == nil {
			r.unresolvedGeneration(in, match.Relative)
			break
		}
		in.depth = target.depth
		in.parentID = target.parentID
		if parent := r.res.byID(in.parentID); parent != nil {
			parent.hasChildren = true
		}
		r.tracef("Individual %d is a sibling of individual %d, same generation", in.ID, target.ID)

	case CategorySpouseOf:
		if target == nil {
			r.unresolvedGeneration(in, match.Relative)
			break
		}
		in.depth = target.depth
		r.tracef("Individual %d is a spouse of individual %d, same generation", in.ID, target.ID)

	case CategoryNephewOf:
		// A nephew/niece implies an unlisted sibling of the named relative
		// acting as the record's parent.
		ph := r.newPlaceholder(fmt.Sprintf("Sibling of %s (inferred)", refName(match.Relative)))
		if target != nil {
			ph.depth = target.depth
			ph.parentID = target.parentID
			if parent := r.res.byID(ph.parentID); parent != nil {
				parent.hasChildren = true
			}
			in.depth = target.depth + 1
		} else {
			ph.depth = 0
			in.depth = 1
			r.unresolvedGeneration(in, match.Relative)
		}
		ph.relativeRef = match.Relative
		ph.hasChildren = true
		in.parentID = ph.ID
		r.tracef("Synthesized placeholder %s (individual %d) as sibling of %s and parent of individual %d",
			ph.DisplayName, ph.ID, refName(match.Relative), in.ID)

	case CategoryCousinOf:
		// A cousin implies an unlisted sibling in the parent generation
		// acting as the record's parent.
		ph := r.newPlaceholder(fmt.Sprintf("Sibling of parent of %s (inferred)", refName(match.Relative)))
		if target != nil {
			if grand := r.res.byID(target.parentID); grand != nil {
				ph.depth = grand.depth
				ph.parentID = grand.parentID
				ph.Relation = fmt.Sprintf("Sibling of %s (inferred)", grand.DisplayName)
			} else {
				ph.depth = target.depth - 1
			}
			in.depth = target.depth
		} else {
			ph.depth = 0
			in.depth = 1
			r.unresolvedGeneration(in, match.Relative)
		}
		ph.relativeRef = match.Relative
		ph.hasChildren = true
		in.parentID = ph.ID
		r.tracef("Synthesized placeholder %s (individual %d) in the parent generation of %s, parent of individual %d",
			ph.DisplayName, ph.ID, refName(match.Relative), in.ID)

	default:
		r.unresolvedGeneration(in, match.Relative)
	}
}

// newIndividual creates the arena entry for an input record. A record
// with no usable name gets a generated placeholder label.
func (r *resolver) newIndividual(rec ingest.Record) *Individual {
	given := ingest.Normalize(rec.GivenName)
	surname := ingest.Normalize(rec.Surname)

	name := given
	if surname != "" && !isNameMarker(surname) {
		if name != "" {
			name += " "
		}
		name += surname
	}

	in := &Individual{
		ID:       len(r.res.Individuals) + 1,
		Relation: relationText(rec.Relation),
		given:    given,
	}
	if name == "" {
		r.placeholderN++
		name = fmt.Sprintf("UK%d", r.placeholderN)
		in.Placeholder = true
		in.Actions = append(in.Actions, actionCreatedPlaceholder)
	}
	in.DisplayName = name

	r.res.Individuals = append(r.res.Individuals, in)
	return in
}

// newPlaceholder creates a synthesized individual satisfying a relational
// constraint. Placeholder labels share one per-run counter with unnamed
// records.
func (r *resolver) newPlaceholder(relation string) *Individual {
	r.placeholderN++
	in := &Individual{
		ID:          len(r.res.Individuals) + 1,
		DisplayName: fmt.Sprintf("UK%d", r.placeholderN),
		Relation:    relation,
		Placeholder: true,
		Actions:     []string{actionCreatedPlaceholder},
	}
	r.res.Individuals = append(r.res.Individuals, in)
	return in
}

// findByName resolves a relative reference against already-created
// individuals. Exact match on the raw given name or the display name;
// earliest id wins. Self-references are ignored.
func (r *resolver) findByName(name string, selfID int) *Individual {
	name = ingest.Normalize(name)
	if name == "" {
		return nil
	}
	for _, in := range r.res.Individuals {
		if in.ID == selfID {
			continue
		}
		if in.given == name || in.DisplayName == name {
			return in
		}
	}
	return nil
}

func (r *resolver) unresolvedGeneration(in *Individual, relative string) {
	in.depth = maxInt(in.depth, 0)
	msg := fmt.Sprintf("individual %d (%s): no resolvable relative, generation defaulted", in.ID, in.DisplayName)
	if relative != "" {
		msg = fmt.Sprintf("individual %d (%s): relative %q not found among records, generation defaulted", in.ID, in.DisplayName, relative)
	}
	r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
		Kind:         DiagUnresolvedGeneration,
		IndividualID: in.ID,
		Message:      msg,
	})
	in.Actions = append(in.Actions, actionVerifyGeneration)
	r.tracef("Individual %d: generation could not be inferred, defaulting to the root generation", in.ID)
}

// finalize renumbers generations contiguously, computes group codes,
// disambiguates duplicate names, and runs post-pass validation. After it
// returns the resolution is frozen.
func (r *resolver) finalize() {
	r.renumberGenerations()

	for _, in := range r.res.Individuals {
		if in.depth == 0 {
			in.GroupCodes = append(in.GroupCodes, GroupCode{Generation: 1, Role: RoleParent})
		} else {
			in.GroupCodes = append(in.GroupCodes, GroupCode{Generation: in.depth, Role: RoleChild})
			if in.hasChildren {
				in.GroupCodes = append(in.GroupCodes, GroupCode{Generation: in.depth + 1, Role: RoleParent})
			}
		}
		r.tracef("Individual %d (%s): family group %s", in.ID, in.DisplayName, in.GroupString())
	}

	r.disambiguateNames()

	for _, in := range r.res.Individuals {
		if in.depth > 0 && in.parentID == 0 {
			r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
				Kind:         DiagOrphanIndividual,
				IndividualID: in.ID,
				Message:      fmt.Sprintf("individual %d (%s) has no resolvable parent-role relative", in.ID, in.DisplayName),
			})
			in.Actions = append(in.Actions, actionVerifyParentage)
		}
	}
}

// renumberGenerations maps the observed depth values onto a contiguous
// 0..k range so no generation layer is skipped, and so parents discovered
// above the first-seen root shift the whole set instead of going negative.
func (r *resolver) renumberGenerations() {
	seen := make(map[int]bool)
	for _, in := range r.res.Individuals {
		seen[in.depth] = true
	}
	depths := make([]int, 0, len(seen))
	for d := range seen {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	rank := make(map[int]int, len(depths))
	for i, d := range depths {
		rank[d] = i
	}
	for _, in := range r.res.Individuals {
		in.depth = rank[in.depth]
	}
}

// disambiguateNames appends numbered suffixes to duplicate display names
// in first-seen order.
func (r *resolver) disambiguateNames() {
	counts := make(map[string]int)
	for _, in := range r.res.Individuals {
		counts[in.DisplayName]++
	}
	assigned := make(map[string]int)
	for _, in := range r.res.Individuals {
		if counts[in.DisplayName] < 2 {
			continue
		}
		name := in.DisplayName
		assigned[name]++
		in.DisplayName = fmt.Sprintf("%s (%d)", name, assigned[name])
	}
}

func (r *resolver) tracef(format string, args ...any) {
	r.res.Trace = append(r.res.Trace, fmt.Sprintf(format, args...))
}

// relationText keeps the phrase verbatim, substituting a readable label
// for head markers.
func relationText(phrase string) string {
	phrase = ingest.Normalize(phrase)
	if phrase == "" || phrase == "-" || phrase == "--" || phrase == "मुखिया" {
		return "Head"
	}
	return phrase
}

func refName(relative string) string {
	relative = strings.TrimSpace(relative)
	if relative == "" {
		return "unnamed relative"
	}
	return relative
}

func isNameMarker(s string) bool {
	return s == "-" || s == "--" || s == "."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
