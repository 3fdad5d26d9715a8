package lineage

import (
	"testing"

	"vanshavali/pkg/ingest"
)

func record(given, surname, relation string) ingest.Record {
	return ingest.Record{
		Caste:     "साहू",
		Subcaste:  "नगरिया",
		GivenName: given,
		Surname:   surname,
		Relation:  relation,
		Gender:    "Male",
		Place:     "रिछरा",
		Date:      "२०५१",
	}
}

func TestResolve_IdsAreMonotonicWithoutGaps(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("ओमप्रकाश", "साहू", "-"),
		record("राम", "साहू", "ओमप्रकाश का बेटा"),
		record("सुरेन्द्र", "-", "ओमप्रकाश के भतीजा"),
	})

	// 3 real + 1 synthesized placeholder for the nephew's implied parent.
	if len(res.Individuals) != 4 {
		t.Fatalf("expected 4 individuals, got %d", len(res.Individuals))
	}
	for i, in := range res.Individuals {
		if in.ID != i+1 {
			t.Fatalf("expected id %d at position %d, got %d", i+1, i, in.ID)
		}
	}
}

func TestResolve_NephewSynthesizesPlaceholder(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("सुरेन्द्र", "-", "ओमप्रकाश के भतीजा"),
	})

	if len(res.Individuals) != 2 {
		t.Fatalf("expected exactly 2 individuals (record + placeholder), got %d", len(res.Individuals))
	}

	nephew := res.Individuals[0]
	ph := res.Individuals[1]

	if nephew.ID != 1 || ph.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", nephew.ID, ph.ID)
	}
	if !ph.Placeholder {
		t.Fatal("expected synthesized individual to be a placeholder")
	}
	if ph.DisplayName != "UK1" {
		t.Fatalf("expected placeholder name UK1, got %q", ph.DisplayName)
	}
	if nephew.parentID != ph.ID {
		t.Fatalf("expected placeholder to be the nephew's parent, got parent %d", nephew.parentID)
	}
	if ph.relativeRef != "ओमप्रकाश" {
		t.Fatalf("expected placeholder linked as sibling of ओमप्रकाश, got %q", ph.relativeRef)
	}
	if ph.GroupString() != "1P" {
		t.Fatalf("expected placeholder group 1P, got %q", ph.GroupString())
	}
	if nephew.GroupString() != "1C" {
		t.Fatalf("expected nephew group 1C, got %q", nephew.GroupString())
	}
}

func TestResolve_NephewOfResolvedUncle(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("ओमप्रकाश", "साहू", "-"),
		record("सुरेन्द्र", "-", "ओमप्रकाश के भतीजा"),
	})

	if len(res.Individuals) != 3 {
		t.Fatalf("expected 3 individuals, got %d", len(res.Individuals))
	}

	uncle := res.Individuals[0]
	nephew := res.Individuals[1]
	ph := res.Individuals[2]

	if uncle.GroupString() != "1P" {
		t.Fatalf("expected uncle group 1P, got %q", uncle.GroupString())
	}
	if ph.GroupString() != "1P" {
		t.Fatalf("expected placeholder in uncle's generation, got %q", ph.GroupString())
	}
	if nephew.GroupString() != "1C" {
		t.Fatalf("expected nephew one generation below, got %q", nephew.GroupString())
	}
	for _, d := range res.Diagnostics {
		if d.Kind == DiagUnresolvedGeneration {
			t.Fatalf("generation should resolve through the uncle, got diagnostic %q", d.Message)
		}
	}
}

func TestResolve_DualRoleGroupCodes(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("ओमप्रकाश", "साहू", "-"),
		record("राम", "साहू", "ओमप्रकाश का बेटा"),
		record("मोहन", "साहू", "राम का बेटा"),
	})

	middle := res.Individuals[1]
	if middle.GroupString() != "1C,2P" {
		t.Fatalf("expected dual role 1C,2P for the middle generation, got %q", middle.GroupString())
	}
	leaf := res.Individuals[2]
	if leaf.GroupString() != "2C" {
		t.Fatalf("expected 2C for the grandchild, got %q", leaf.GroupString())
	}
}

func TestResolve_ParentOfShiftsGenerations(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("राम", "साहू", "-"),
		record("दीनदयाल", "साहू", "राम के पिता"),
	})

	father := res.Individuals[1]
	son := res.Individuals[0]

	// Generations renumber contiguously from the topmost layer.
	if father.GroupString() != "1P" {
		t.Fatalf("expected father at group 1P, got %q", father.GroupString())
	}
	if son.GroupString() != "1C" {
		t.Fatalf("expected son at group 1C after renumbering, got %q", son.GroupString())
	}
	if son.parentID != father.ID {
		t.Fatalf("expected father linked as parent, got %d", son.parentID)
	}
}

func TestResolve_DuplicateNamesDisambiguated(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("राम", "", "-"),
		record("राम", "", "-"),
	})

	if res.Individuals[0].DisplayName != "राम (1)" {
		t.Fatalf("expected first duplicate राम (1), got %q", res.Individuals[0].DisplayName)
	}
	if res.Individuals[1].DisplayName != "राम (2)" {
		t.Fatalf("expected second duplicate राम (2), got %q", res.Individuals[1].DisplayName)
	}
}

func TestResolve_UnresolvedRelativeEmitsDiagnostic(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("श्याम", "साहू", "किशन का बेटा"),
	})

	if len(res.Individuals) != 1 {
		t.Fatalf("expected 1 individual (named relatives are not materialized), got %d", len(res.Individuals))
	}

	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == DiagUnresolvedGeneration && d.IndividualID == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an UnresolvedGeneration diagnostic")
	}

	var orphan bool
	for _, d := range res.Diagnostics {
		if d.Kind == DiagOrphanIndividual {
			orphan = true
		}
	}
	if orphan {
		t.Fatal("a root-generation individual must not be reported as orphan")
	}
}

func TestResolve_OrphanDiagnosticForDeepUnparented(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("ओमप्रकाश", "साहू", "-"),
		record("राम", "साहू", "ओमप्रकाश का बेटा"),
		record("सीता", "", "राम की पत्नी"),
	})

	spouse := res.Individuals[2]
	if spouse.depth == 0 {
		t.Fatalf("spouse should share राम's generation, got depth %d", spouse.depth)
	}

	var orphan bool
	for _, d := range res.Diagnostics {
		if d.Kind == DiagOrphanIndividual && d.IndividualID == spouse.ID {
			orphan = true
		}
	}
	if !orphan {
		t.Fatal("expected OrphanIndividual diagnostic for a spouse with no parent link")
	}
}

func TestResolve_EmptyNameBecomesPlaceholderLabel(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("", "", "-"),
	})

	in := res.Individuals[0]
	if in.DisplayName != "UK1" {
		t.Fatalf("expected generated label UK1, got %q", in.DisplayName)
	}
	if !in.Placeholder {
		t.Fatal("expected unnamed record to be marked placeholder")
	}
}

func TestResolve_CousinSynthesizesParentGenerationSibling(t *testing.T) {
	res := Resolve([]ingest.Record{
		record("ओमप्रकाश", "साहू", "-"),
		record("राम", "साहू", "ओमप्रकाश का बेटा"),
		record("गोपाल", "साहू", "राम का चचेरा भाई"),
	})

	if len(res.Individuals) != 4 {
		t.Fatalf("expected 4 individuals, got %d", len(res.Individuals))
	}

	cousin := res.Individuals[2]
	ph := res.Individuals[3]

	if !ph.Placeholder {
		t.Fatal("expected a synthesized placeholder for the cousin's parent")
	}
	if ph.GroupString() != "1P" {
		t.Fatalf("expected placeholder in the parent generation, got %q", ph.GroupString())
	}
	if cousin.GroupString() != "1C" {
		t.Fatalf("expected cousin in राम's generation, got %q", cousin.GroupString())
	}
	if cousin.parentID != ph.ID {
		t.Fatalf("expected placeholder as cousin's parent, got %d", cousin.parentID)
	}
}

func TestClassify_Table(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		phrase   string
		category Category
		relative string
	}{
		{"ओमप्रकाश के भतीजा", CategoryNephewOf, "ओमप्रकाश"},
		{"राम का बेटा", CategoryChildOf, "राम"},
		{"राम के पिता", CategoryParentOf, "राम"},
		{"राम का चचेरा भाई", CategoryCousinOf, "राम"},
		{"राम का भाई", CategorySiblingOf, "राम"},
		{"राम की पत्नी", CategorySpouseOf, "राम"},
		{"nephew of Ram", CategoryNephewOf, "Ram"},
		{"-", CategoryHead, ""},
		{"", CategoryHead, ""},
		{"मुखिया", CategoryHead, ""},
		{"पड़ोसी", CategoryUnclassified, ""},
	}

	for _, tc := range cases {
		m := table.Classify(tc.phrase)
		if m.Category != tc.category {
			t.Errorf("Classify(%q) category = %s, want %s", tc.phrase, m.Category, tc.category)
		}
		if m.Relative != tc.relative {
			t.Errorf("Classify(%q) relative = %q, want %q", tc.phrase, m.Relative, tc.relative)
		}
	}
}

func TestClassify_CustomTable(t *testing.T) {
	table := Table{
		{Keywords: []string{"fils"}, Category: CategoryChildOf},
	}
	m := table.Classify("fils of Jean")
	if m.Category != CategoryChildOf {
		t.Fatalf("expected custom vocabulary to classify, got %s", m.Category)
	}
	if m.Relative != "Jean" {
		t.Fatalf("expected relative Jean, got %q", m.Relative)
	}
}
