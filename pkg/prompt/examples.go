package prompt

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonrepair"
)

// Example is one worked example pair: an input table as CSV text and the
// expected report text.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// LoadExamples reads worked examples from a JSON file. The store is
// often hand-edited, so invalid JSON is repaired before giving up.
func LoadExamples(path string) ([]Example, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var examples []Example
	if err := json.Unmarshal(content, &examples); err == nil {
		return examples, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(content))
	if err != nil {
		return nil, fmt.Errorf("example store %s is not valid JSON: %w", path, err)
	}
	if err := json.Unmarshal([]byte(repaired), &examples); err != nil {
		return nil, fmt.Errorf("example store %s is not valid JSON after repair: %w", path, err)
	}
	return examples, nil
}

// DefaultExamples returns the built-in worked example used when no
// example store is configured.
func DefaultExamples() []Example {
	return []Example{
		{
			Input: `Caste,Subcaste,Given name,Surname,Relation,Gender,Place,Date
साहू,नगरिया,ओमप्रकाश,साहू,-,Male,रिछरा,२०२०
साहू,नगरिया,राम,साहू,ओमप्रकाश का बेटा,Male,रिछरा,२०५०
साहू,नगरिया,सुरेन्द्र,-,ओमप्रकाश के भतीजा,Male,रिछरा,२०५१`,
			Output: `## Reasoning Steps
Record 1 names ओमप्रकाश साहू with no relation phrase, so he heads the family at group 1 as a parent.
Record 2 names राम साहू as ओमप्रकाश का बेटा, placing him one generation below as a child in group 1.
Record 3 names सुरेन्द्र as ओमप्रकाश के भतीजा; a nephew requires an unlisted sibling of ओमप्रकाश as his parent, so placeholder UK1 is added in ओमप्रकाश's generation.

## Final Output Table
| Individual ID | Name | Relation | Family Group ID | Actions |
|---------------|------|----------|-----------------|---------|
| 1 | ओमप्रकाश साहू | Head | 1P | |
| 2 | राम साहू | ओमप्रकाश का बेटा | 1C | |
| 3 | सुरेन्द्र | ओमप्रकाश के भतीजा | 1C | |
| 4 | UK1 | Sibling of ओमप्रकाश (inferred) | 1P | created placeholder |`,
		},
	}
}
