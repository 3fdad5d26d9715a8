package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vanshavali/pkg/ingest"
)

func TestBuild_ContainsSectionsAndData(t *testing.T) {
	records := []ingest.Record{
		{Caste: "साहू", GivenName: "राम", Relation: "-"},
	}
	csvData := RenderCSV(records)
	text := Build(DefaultExamples(), csvData)

	for _, want := range []string{
		"## Examples",
		"### Example 1",
		"**CSV Data:**",
		"## Reasoning Steps",
		"## Final Output Table",
		"राम",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestRenderCSV_HeaderAndQuoting(t *testing.T) {
	records := []ingest.Record{
		{GivenName: "राम", Relation: "भाई, बड़ा"},
	}
	out := RenderCSV(records)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(ingest.Header, ",") {
		t.Fatalf("unexpected header row: %q", lines[0])
	}
	if !strings.Contains(lines[1], `"भाई, बड़ा"`) {
		t.Fatalf("comma-bearing field must be quoted, got %q", lines[1])
	}
}

func TestClamps(t *testing.T) {
	if got := ClampTemperature(-0.5); got != MinTemperature {
		t.Fatalf("expected temperature clamp to %v, got %v", MinTemperature, got)
	}
	if got := ClampTemperature(1.7); got != MaxTemperature {
		t.Fatalf("expected temperature clamp to %v, got %v", MaxTemperature, got)
	}
	if got := ClampTemperature(0.3); got != 0.3 {
		t.Fatalf("in-range temperature must pass through, got %v", got)
	}

	if got := ClampMaxTokens(0); got != DefaultMaxTokens {
		t.Fatalf("zero max tokens must select the default, got %d", got)
	}
	if got := ClampMaxTokens(10); got != MinMaxTokens {
		t.Fatalf("expected max tokens clamp to %d, got %d", MinMaxTokens, got)
	}
	if got := ClampMaxTokens(100000); got != MaxMaxTokens {
		t.Fatalf("expected max tokens clamp to %d, got %d", MaxMaxTokens, got)
	}
}

func TestLoadExamples_RepairsSloppyJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "examples.json")

	// Trailing comma: invalid JSON that the repair path must recover.
	sloppy := `[
		{"input": "a", "output": "b"},
	]`
	if err := os.WriteFile(path, []byte(sloppy), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	examples, err := LoadExamples(path)
	if err != nil {
		t.Fatalf("expected repaired load, got %v", err)
	}
	if len(examples) != 1 || examples[0].Input != "a" {
		t.Fatalf("unexpected examples: %+v", examples)
	}
}

func TestLoadExamples_MissingFile(t *testing.T) {
	if _, err := LoadExamples(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
