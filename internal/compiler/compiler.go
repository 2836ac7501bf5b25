// Package compiler is the boundary of the scene front end: source text in,
// a validated document, flat diagnostic records and the simplified tree out.
package compiler

import (
	"fmt"
	"sort"
	"time"

	"fortio.org/safecast"

	"scenec/internal/ast"
	"scenec/internal/canon"
	"scenec/internal/diag"
	"scenec/internal/grammar"
	"scenec/internal/sema"
	"scenec/internal/source"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageParse        Stage = "parse"
	StageCanonicalize Stage = "canonicalize"
	StageValidate     Stage = "validate"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageParse, StageCanonicalize, StageValidate}

// Hooks observe stage boundaries. Nil fields are skipped.
type Hooks struct {
	Begin func(stage Stage)
	End   func(stage Stage, elapsed time.Duration)
}

func (h Hooks) begin(s Stage) time.Time {
	if h.Begin != nil {
		h.Begin(s)
	}
	return time.Now()
}

func (h Hooks) end(s Stage, started time.Time) {
	if h.End != nil {
		h.End(s, time.Since(started))
	}
}

type Options struct {
	// File is stamped on every span produced for this source.
	File source.FileID
	// Strict turns on unknown-attribute warnings.
	Strict bool
	// CamelCase selects lowerCamelCase keys in Tree.
	CamelCase bool
	Hooks     Hooks
}

// Record is the flat diagnostic shape handed to callers outside the
// pipeline. Offsets are byte offsets into the source passed to Compile.
type Record struct {
	Message string `json:"message" yaml:"message" msgpack:"message"`
	Start   int    `json:"start" yaml:"start" msgpack:"start"`
	End     int    `json:"end" yaml:"end" msgpack:"end"`
	Warning bool   `json:"warning" yaml:"warning" msgpack:"warning"`
}

// Result is what one Compile call produced.
type Result struct {
	Name     string
	Raw      *grammar.Token
	Document *ast.Document
	// Diagnostics is the full-tree collection, deepest node first.
	Diagnostics []diag.Diagnostic
	Records     []Record
	IDs         map[string]*ast.Tag
	// Tree is nil when the document has no tag.
	Tree *ast.SimpleNode
}

// HasErrors reports whether any collected diagnostic is an error.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for i := range r.Diagnostics {
		if r.Diagnostics[i].IsError() {
			return true
		}
	}
	return false
}

// Compile runs grammar, canonicalization and validation over src. The
// returned error is non-nil only when the grammar engine produced no tree;
// malformed input is reported through Result.Diagnostics.
func Compile(name string, src []byte, opts Options) (*Result, error) {
	res := &Result{Name: name}

	started := opts.Hooks.begin(StageParse)
	res.Raw = grammar.Parse(src, opts.File)
	opts.Hooks.end(StageParse, started)

	started = opts.Hooks.begin(StageCanonicalize)
	doc, err := canon.Canonicalize(res.Raw)
	opts.Hooks.end(StageCanonicalize, started)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	res.Document = doc

	started = opts.Hooks.begin(StageValidate)
	vr := sema.Validate(doc, sema.Options{Strict: opts.Strict})
	opts.Hooks.end(StageValidate, started)

	res.IDs = vr.IDs
	res.Diagnostics = ast.CollectDiagnostics(doc)
	res.Records = Records(res.Diagnostics)
	res.Tree = ast.Simplify(doc, ast.SimplifyOptions{CamelCase: opts.CamelCase})
	return res, nil
}

// Records flattens diagnostics into boundary records, keeping their order.
func Records(diags []diag.Diagnostic) []Record {
	if len(diags) == 0 {
		return nil
	}
	out := make([]Record, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		out = append(out, Record{
			Message: d.Message,
			Start:   offset(d.Primary.Start),
			End:     offset(d.Primary.End),
			Warning: !d.IsError(),
		})
	}
	return out
}

// SortRecords orders records by position, keeping the collection order for
// records that share a start offset.
func SortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Start != recs[j].Start {
			return recs[i].Start < recs[j].Start
		}
		return recs[i].End < recs[j].End
	})
}

func offset(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0
	}
	return n
}
