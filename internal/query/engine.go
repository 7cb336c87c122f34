// Package query runs jq expressions against captured bodies.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/pkg/har"
)

// ErrNoPostData is returned when a request body is queried but the request
// carried none.
var ErrNoPostData = errors.New("request has no post data")

// Engine executes jq queries against entry bodies.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Options tunes a query run.
type Options struct {
	Side        body.Side
	Expand      bool // run private data expansion before querying
	Deduplicate bool
	MaxResults  int // 0 means unlimited
}

// Result contains the values a query produced.
type Result struct {
	Values         []any          `json:"values"`
	Errors         []string       `json:"errors,omitempty"`          // per-entry errors
	RawCount       int            `json:"raw_count"`                 // count before deduplication
	MatchedEntries []int          `json:"matched_entries,omitempty"` // entries that produced values
	LabelCounts    map[string]int `json:"label_counts,omitempty"`    // value count per label
}

// Query runs expression against a single JSON document. Body text that is not
// JSON is an error.
func (e *Engine) Query(data []byte, expression string, opts Options) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	r := newRunner(code, opts)
	r.run(input, "query")
	return r.result, nil
}

// QueryEntry runs expression against the body of entry idx.
func (e *Engine) QueryEntry(doc *har.Document, idx int, expression string, opts Options) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	res, err := body.Extract(doc, idx, opts.Side, opts.Expand)
	if err != nil {
		return nil, err
	}
	if res.NoPostData {
		return nil, fmt.Errorf("entry %d: %w", idx, ErrNoPostData)
	}

	var input any
	if err := json.Unmarshal([]byte(res.Text), &input); err != nil {
		return nil, fmt.Errorf("entry %d %s body is not JSON: %w", idx, opts.Side, err)
	}

	r := newRunner(code, opts)
	result := r.result
	if r.run(input, entryLabel(idx)) {
		result.MatchedEntries = []int{idx}
	}
	return result, nil
}

// QueryAll runs expression against every entry's body. Requests without a
// body are skipped. Bodies that are not JSON, or fail expansion, are reported
// in Result.Errors labeled with their entry.
func (e *Engine) QueryAll(doc *har.Document, expression string, opts Options) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	r := newRunner(code, opts)
	result := r.result

	for i := range doc.Log.Entries {
		if r.full() {
			break
		}
		label := entryLabel(i)

		res, err := body.Extract(doc, i, opts.Side, opts.Expand)
		if err != nil {
			r.addError(fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if res.NoPostData {
			continue
		}

		var input any
		if err := json.Unmarshal([]byte(res.Text), &input); err != nil {
			r.addError(fmt.Sprintf("%s: invalid JSON: %v", label, err))
			continue
		}

		if r.run(input, label) {
			result.MatchedEntries = append(result.MatchedEntries, i)
		}
	}

	sort.Ints(result.MatchedEntries)
	return result, nil
}

func newRunner(code *gojq.Code, opts Options) *runner {
	return &runner{
		code: code,
		opts: opts,
		result: &Result{
			Values:      make([]any, 0),
			Errors:      make([]string, 0),
			LabelCounts: make(map[string]int),
		},
		seen:       make(map[string]bool),
		seenErrors: make(map[string]bool),
	}
}

func entryLabel(idx int) string {
	return fmt.Sprintf("entry[%d]", idx)
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

type runner struct {
	code       *gojq.Code
	opts       Options
	result     *Result
	seen       map[string]bool
	seenErrors map[string]bool // similar errors are reported once
}

func (r *runner) full() bool {
	return r.opts.MaxResults > 0 && len(r.result.Values) >= r.opts.MaxResults
}

func (r *runner) addError(msg string) {
	if r.seenErrors[msg] {
		return
	}
	r.seenErrors[msg] = true
	r.result.Errors = append(r.result.Errors, msg)
}

// run feeds input through the compiled query and reports whether it produced
// any non-null value.
func (r *runner) run(input any, label string) bool {
	matched := false
	iter := r.code.Run(input)

	for !r.full() {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			r.addError(formatJQError(label, err))
			continue
		}

		// Skip nil values
		if v == nil {
			continue
		}

		matched = true
		r.result.RawCount++
		r.result.LabelCounts[label]++

		if r.opts.Deduplicate {
			key := valueKey(v)
			if r.seen[key] {
				continue
			}
			r.seen[key] = true
		}

		r.result.Values = append(r.result.Values, v)
	}
	return matched
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors like "cannot iterate over: null" have no typed wrapper in
// gojq, so hints are picked by string matching. They only decorate messages.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this body)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}
