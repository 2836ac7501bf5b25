package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scenec/internal/driver"
	"scenec/internal/source"
	"scenec/internal/trace"
)

// Request configures one multi-file run.
type Request struct {
	// Paths are files or directories; directories are walked for scenes.
	Paths   []string
	BaseDir string
	Options driver.Options
	Jobs    int
	// Progress receives queued/working/done events; nil disables reporting.
	Progress ProgressSink
}

// Result holds every per-file outcome in input order.
type Result struct {
	FileSet  *source.FileSet
	Files    []*driver.Result
	Display  []string
	Timings  *Timings
	Errors   int // files with at least one error
	Warnings int // files with warnings only
	Elapsed  time.Duration
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Errors > 0
}

// Run diagnoses every scene named by req.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("missing pipeline request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := ExpandPaths(req.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no scene files found")
	}
	baseDir := req.baseDir()

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "pipeline")
	started := time.Now()
	names := displayNames(files, baseDir)
	res := &Result{
		FileSet: source.NewFileSetWithBase(baseDir),
		Display: normalizeProgressFiles(files, baseDir),
		Timings: &Timings{},
	}
	emitQueued(req.Progress, res.Display)

	opts := req.Options
	observer := &phaseObserver{sink: req.Progress, names: names, timings: res.Timings, next: opts.PhaseObserver}
	opts.PhaseObserver = observer.OnPhase

	res.Files, err = driver.DiagnoseFiles(ctx, res.FileSet, files, opts, req.Jobs)
	res.Elapsed = time.Since(started)
	if err != nil {
		emitRun(req.Progress, StatusError, err, res.Elapsed)
		span.WithExtra("error", err.Error()).End("failed")
		return res, err
	}

	for i, fr := range res.Files {
		status := StatusDone
		if fr.HasErrors() {
			status = StatusError
			res.Errors++
		} else if fr.Bag.HasWarnings() {
			res.Warnings++
		}
		if req.Progress != nil {
			req.Progress.OnEvent(Event{File: res.Display[i], Stage: StageValidate, Status: status})
		}
	}
	emitRun(req.Progress, StatusDone, nil, res.Elapsed)
	span.WithExtra("files", strconv.Itoa(len(files))).WithExtra("failed", strconv.Itoa(res.Errors)).End("")
	return res, nil
}

// DisplayFiles lists the names Run reports progress under, in run order.
func DisplayFiles(req *Request) ([]string, error) {
	if req == nil {
		return nil, errors.New("missing pipeline request")
	}
	files, err := ExpandPaths(req.Paths)
	if err != nil {
		return nil, err
	}
	return normalizeProgressFiles(files, req.baseDir()), nil
}

func (r *Request) baseDir() string {
	if r.BaseDir != "" || len(r.Paths) != 1 {
		return r.BaseDir
	}
	if isDir(r.Paths[0]) {
		return r.Paths[0]
	}
	return filepath.Dir(r.Paths[0])
}

// phaseObserver translates driver phase events into progress events.
type phaseObserver struct {
	sink    ProgressSink
	names   map[string]string
	timings *Timings
	next    driver.PhaseObserver
}

func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	stage, ok := stageOf(ev.Name)
	if !ok {
		return
	}
	if ev.Status == driver.PhaseEnd {
		p.timings.Add(stage, ev.Elapsed)
		return
	}
	if p.sink == nil {
		return
	}
	name, ok := p.names[ev.File]
	if !ok {
		name = ev.File
	}
	p.sink.OnEvent(Event{File: name, Stage: stage, Status: StatusWorking})
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

// emitRun reports the overall outcome (an event without File).
func emitRun(sink ProgressSink, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: StageValidate, Status: status, Err: err, Elapsed: elapsed})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
