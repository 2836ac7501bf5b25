package driver

import (
	"time"

	"scenec/internal/ast"
	"scenec/internal/compiler"
	"scenec/internal/diag"
	"scenec/internal/observ"
	"scenec/internal/source"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary for one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. In directory runs it is called from
// several goroutines at once.
type PhaseObserver func(PhaseEvent)

// Options содержит опции для диагностики
type Options struct {
	Strict         bool
	CamelCase      bool
	MaxDiagnostics int
	EnableTimings  bool
	// Cache is consulted before compiling and filled afterwards; nil disables it.
	Cache         *DiskCache
	PhaseObserver PhaseObserver
}

// Result is the outcome for one file.
type Result struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
	Tree    *ast.SimpleNode
	// Compile is nil when the diagnostics came from the disk cache.
	Compile      *compiler.Result
	Cached       bool
	TimingReport observ.Report
}

// HasErrors reports whether the file produced at least one error.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Records flattens the bag into boundary records.
func (r *Result) Records() []compiler.Record {
	if r == nil || r.Bag == nil {
		return nil
	}
	return compiler.Records(r.Bag.Filter(func(d *diag.Diagnostic) bool {
		return d.Code != diag.ObsTimings
	}))
}

func (o *Options) observe(ev PhaseEvent) {
	if o != nil && o.PhaseObserver != nil {
		o.PhaseObserver(ev)
	}
}
