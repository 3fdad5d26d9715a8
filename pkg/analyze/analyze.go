// Package analyze orchestrates a full analysis cycle: ingested records
// through the local resolver (recommended), or through the opaque
// completion service with the report parser recovering the table from
// the model's text.
package analyze

import (
	"context"
	"errors"
	"fmt"

	"vanshavali/internal/util"
	"vanshavali/pkg/ai"
	"vanshavali/pkg/ingest"
	"vanshavali/pkg/lineage"
	"vanshavali/pkg/logger"
	"vanshavali/pkg/prompt"
	"vanshavali/pkg/report"
)

// Mode selects how a run produces its table.
type Mode string

const (
	// ModeLocal runs the deterministic resolver in-process.
	ModeLocal Mode = "local"
	// ModeModel sends the records to the completion service and parses
	// the returned report.
	ModeModel Mode = "model"
)

// ErrExternalService marks a model-mode run whose completion call failed
// or returned content with no recoverable table. Such a run fails with
// no partial table.
var ErrExternalService = errors.New("analyze: completion service failed or returned unusable content")

// Analyzer runs analysis cycles. The zero configuration (no client, no
// examples) supports local-only operation.
type Analyzer struct {
	client   ai.CompletionClient
	examples []prompt.Example
	table    lineage.Table
	maxTries int
}

// NewAnalyzerParams configures an Analyzer. Client may be nil for
// local-only use; Examples defaults to the built-in worked example;
// Table defaults to the built-in relation vocabulary.
type NewAnalyzerParams struct {
	Client   ai.CompletionClient
	Examples []prompt.Example
	Table    lineage.Table
	MaxTries int
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(params NewAnalyzerParams) *Analyzer {
	examples := params.Examples
	if len(examples) == 0 {
		examples = prompt.DefaultExamples()
	}
	table := params.Table
	if table == nil {
		table = lineage.DefaultTable()
	}
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 2
	}
	return &Analyzer{
		client:   params.Client,
		examples: examples,
		table:    table,
		maxTries: maxTries,
	}
}

// RunOptions are the per-run parameters. Temperature overrides the
// client's default only when non-nil, so an explicit 0.0 is expressible.
type RunOptions struct {
	Mode        Mode
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Result is the outcome of one analysis cycle. Rows always includes the
// column-header row at index 0. Diagnostics are populated in local mode
// only; the completion service reports findings inside its table's
// Actions column instead.
type Result struct {
	Records     []ingest.Record      `json:"records"`
	Reasoning   []string             `json:"reasoning"`
	Rows        [][]string           `json:"rows"`
	Diagnostics []lineage.Diagnostic `json:"diagnostics,omitempty"`
	Report      string               `json:"report"`
	Malformed   int                  `json:"malformed_rows"`
	Metrics     *ai.ModelMetrics     `json:"metrics,omitempty"`
}

// Run executes one analysis cycle over the given records.
func (a *Analyzer) Run(ctx context.Context, records []ingest.Record, opts RunOptions) (*Result, error) {
	if len(records) == 0 {
		return nil, ingest.ErrEmptyInput
	}

	switch opts.Mode {
	case ModeModel:
		return a.runModel(ctx, records, opts)
	default:
		return a.runLocal(records), nil
	}
}

func (a *Analyzer) runLocal(records []ingest.Record) *Result {
	res := lineage.Resolve(records, lineage.WithRelationTable(a.table))

	logger.Debug("Resolved records locally",
		"records", len(records),
		"individuals", len(res.Individuals),
		"diagnostics", len(res.Diagnostics),
	)

	return &Result{
		Records:     records,
		Reasoning:   res.Trace,
		Rows:        report.Rows(res.Individuals),
		Diagnostics: res.Diagnostics,
		Report:      report.Format(res.Individuals, res.Trace),
	}
}

func (a *Analyzer) runModel(ctx context.Context, records []ingest.Record, opts RunOptions) (*Result, error) {
	if a.client == nil {
		return nil, fmt.Errorf("%w: no completion client configured", ErrExternalService)
	}

	promptText := prompt.Build(a.examples, prompt.RenderCSV(records))
	if tokens, err := prompt.CountTokens(promptText); err == nil {
		logger.Debug("Built completion prompt", "tokens", tokens, "records", len(records))
	}

	genOpts := []ai.GenerateOption{}
	if opts.Model != "" {
		genOpts = append(genOpts, ai.WithModel(opts.Model))
	}
	if opts.Temperature != nil {
		genOpts = append(genOpts, ai.WithTemperature(*opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		genOpts = append(genOpts, ai.WithMaxTokens(opts.MaxTokens))
	}

	response, err := util.RetryWithContext(ctx, a.maxTries, func(ctx context.Context) (string, error) {
		return a.client.GenerateCompletion(ctx, promptText, genOpts...)
	})
	if err != nil {
		logger.Error("Completion call failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	parsed := report.Parse(response)
	if len(parsed.Rows) == 0 {
		logger.Error("Completion returned no recoverable table", "malformed_rows", parsed.Malformed)
		return nil, fmt.Errorf("%w: no table in response", ErrExternalService)
	}
	if parsed.Malformed > 0 {
		logger.Warn("Dropped malformed table rows from completion", "count", parsed.Malformed)
	}

	metrics := a.client.GetMetrics()
	return &Result{
		Records:   records,
		Reasoning: parsed.Reasoning,
		Rows:      parsed.Rows,
		Report:    response,
		Malformed: parsed.Malformed,
		Metrics:   &metrics,
	}, nil
}
