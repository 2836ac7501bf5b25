package driver

import (
	"context"
	"fmt"
	"time"

	"scenec/internal/compiler"
	"scenec/internal/diag"
	"scenec/internal/observ"
	"scenec/internal/source"
	"scenec/internal/trace"
)

// Diagnose loads one file and runs the full pipeline on it.
func Diagnose(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return DiagnoseFile(ctx, fs, fileID, opts)
}

// DiagnoseSource runs the pipeline over in-memory content (stdin, editors).
func DiagnoseSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	return DiagnoseFile(ctx, fs, fs.AddVirtual(name, content), opts)
}

// DiagnoseFile runs the pipeline over a file already registered in fs.
// fs is only read, so several files of one set may be diagnosed concurrently.
func DiagnoseFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*Result, error) {
	file := fs.Get(fileID)
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.CurrentSpan(ctx).SpanID)

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		opts.observe(PhaseEvent{File: file.Path, Name: name, Status: PhaseStart})
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, name, note string, elapsed time.Duration) {
		opts.observe(PhaseEvent{File: file.Path, Name: name, Status: PhaseEnd, Elapsed: elapsed})
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	res := &Result{
		Path:    file.Path,
		FileSet: fs,
		FileID:  fileID,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	key := cacheKey(file.Hash, &opts)

	if opts.Cache != nil {
		started := time.Now()
		idx := begin("cache_lookup")
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		note := "miss"
		switch {
		case err != nil:
			note = "error"
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{},
				fmt.Sprintf("cache read failed for %s: %v", file.Path, err)))
		case hit:
			note = "hit"
		}
		end(idx, "cache_lookup", note, time.Since(started))
		if hit {
			res.Bag.AddAll(payload.diagnosticsFor(fileID))
			res.Tree = payload.Tree
			res.Cached = true
			finish(res, timer, fileSpan)
			return res, nil
		}
	}

	indices := make(map[compiler.Stage]int, len(compiler.Stages))
	spans := make(map[compiler.Stage]*trace.Span, len(compiler.Stages))
	hooks := compiler.Hooks{
		Begin: func(s compiler.Stage) {
			spans[s] = trace.Begin(tracer, trace.ScopePass, string(s), fileSpan.ID())
			indices[s] = begin(string(s))
		},
		End: func(s compiler.Stage, elapsed time.Duration) {
			spans[s].End("")
			end(indices[s], string(s), "", elapsed)
		},
	}

	cr, err := compiler.Compile(file.Path, file.Content, compiler.Options{
		File:      fileID,
		Strict:    opts.Strict,
		CamelCase: opts.CamelCase,
		Hooks:     hooks,
	})
	if err != nil {
		fileSpan.WithExtra("error", err.Error()).End("failed")
		return nil, err
	}
	res.Compile = cr
	res.Tree = cr.Tree
	res.Bag.AddAll(cr.Diagnostics)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, newDiskPayload(file.Path, file.Hash, &opts, cr)); err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{},
				fmt.Sprintf("cache write failed for %s: %v", file.Path, err)))
		}
	}
	finish(res, timer, fileSpan)
	return res, nil
}

func finish(res *Result, timer *observ.Timer, span *trace.Span) {
	span.WithExtra("diagnostics", fmt.Sprint(res.Bag.Len())).End("")
	if timer == nil {
		return
	}
	res.TimingReport = timer.Report()
	appendTimingDiagnostic(res.Bag, timingPayload{
		Kind:    "file",
		Path:    res.Path,
		Cached:  res.Cached,
		TotalMS: res.TimingReport.TotalMS,
		Phases:  res.TimingReport.Phases,
	})
}
