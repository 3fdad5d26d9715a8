package analyze

import (
	"context"
	"errors"
	"testing"

	"vanshavali/pkg/ai"
	"vanshavali/pkg/ingest"
	"vanshavali/pkg/prompt"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	lastOpts ai.GenerateOptions
}

func (f *fakeClient) GenerateCompletion(_ context.Context, _ string, opts ...ai.GenerateOption) (string, error) {
	f.calls++
	options := ai.GenerateOptions{
		Temperature: prompt.DefaultTemperature,
		MaxTokens:   prompt.DefaultMaxTokens,
	}
	for _, o := range opts {
		o(&options)
	}
	f.lastOpts = options
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{TotalTokens: 42} }
func (f *fakeClient) ResetMetrics()               {}

func testRecords(t *testing.T) []ingest.Record {
	t.Helper()
	records, err := ingest.Ingest("साहू,नगरिया,ओमप्रकाश,साहू,मुखिया,Male,रिछरा फाटक,२०३०\nसाहू,नगरिया,राम,साहू,ओमप्रकाश का बेटा,Male,रिछरा फाटक,२०५५")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	return records
}

func TestRunLocal(t *testing.T) {
	a := NewAnalyzer(NewAnalyzerParams{})

	result, err := a.Run(context.Background(), testRecords(t), RunOptions{Mode: ModeLocal})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// header row plus one per individual
	if len(result.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(result.Rows))
	}
	if len(result.Reasoning) == 0 {
		t.Error("expected reasoning trace from local resolver")
	}
	if result.Report == "" {
		t.Error("expected formatted report text")
	}
	if result.Metrics != nil {
		t.Error("local mode should not report model metrics")
	}
}

func TestRunEmptyInput(t *testing.T) {
	a := NewAnalyzer(NewAnalyzerParams{})

	_, err := a.Run(context.Background(), nil, RunOptions{})
	if !errors.Is(err, ingest.ErrEmptyInput) {
		t.Fatalf("Run() error = %v, want ErrEmptyInput", err)
	}
}

func TestRunModel(t *testing.T) {
	client := &fakeClient{response: `## Reasoning Steps
1. Identified the family head.

## Final Output Table
| Individual ID | Name | Relation | Family Group ID | Actions |
|---|---|---|---|---|
| 1 | ओमप्रकाश साहू | Head | 1P | |
| 2 | राम साहू | ओमप्रकाश का बेटा | 1C | |
`}
	a := NewAnalyzer(NewAnalyzerParams{Client: client})

	result, err := a.Run(context.Background(), testRecords(t), RunOptions{Mode: ModeModel})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(result.Rows))
	}
	if result.Rows[1][1] != "ओमप्रकाश साहू" {
		t.Errorf("Rows[1][1] = %q", result.Rows[1][1])
	}
	if len(result.Reasoning) != 1 {
		t.Errorf("len(Reasoning) = %d, want 1", len(result.Reasoning))
	}
	if result.Metrics == nil || result.Metrics.TotalTokens != 42 {
		t.Errorf("Metrics = %+v, want total tokens 42", result.Metrics)
	}
}

func TestRunModelTemperatureOverride(t *testing.T) {
	response := `## Final Output Table
| Individual ID | Name | Relation | Family Group ID | Actions |
| 1 | ओमप्रकाश साहू | Head | 1P | |
`
	client := &fakeClient{response: response}
	a := NewAnalyzer(NewAnalyzerParams{Client: client})
	records := testRecords(t)

	// no override keeps the client default
	if _, err := a.Run(context.Background(), records, RunOptions{Mode: ModeModel}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.lastOpts.Temperature != prompt.DefaultTemperature {
		t.Errorf("Temperature = %v, want default %v", client.lastOpts.Temperature, prompt.DefaultTemperature)
	}

	// an explicit 0.0 must reach the client
	zero := 0.0
	if _, err := a.Run(context.Background(), records, RunOptions{Mode: ModeModel, Temperature: &zero}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.lastOpts.Temperature != 0.0 {
		t.Errorf("Temperature = %v, want 0.0", client.lastOpts.Temperature)
	}
}

func TestRunModelUnusableContent(t *testing.T) {
	client := &fakeClient{response: "I cannot produce a table for this input."}
	a := NewAnalyzer(NewAnalyzerParams{Client: client})

	_, err := a.Run(context.Background(), testRecords(t), RunOptions{Mode: ModeModel})
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("Run() error = %v, want ErrExternalService", err)
	}
}

func TestRunModelRetriesThenFails(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	a := NewAnalyzer(NewAnalyzerParams{Client: client, MaxTries: 3})

	_, err := a.Run(context.Background(), testRecords(t), RunOptions{Mode: ModeModel})
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("Run() error = %v, want ErrExternalService", err)
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
}

func TestRunModelNoClient(t *testing.T) {
	a := NewAnalyzer(NewAnalyzerParams{})

	_, err := a.Run(context.Background(), testRecords(t), RunOptions{Mode: ModeModel})
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("Run() error = %v, want ErrExternalService", err)
	}
}
