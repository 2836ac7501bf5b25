package main

import (
	"fmt"
	"io"
	"time"

	"scenec/internal/buildpipeline"
)

// printStageTimings writes the summed per-stage durations of a run.
// Durations are CPU-ish sums over files, not wall time, in parallel runs.
func printStageTimings(out io.Writer, res *buildpipeline.Result) {
	if out == nil || res == nil || res.Timings == nil {
		return
	}
	t := res.Timings
	if t.Has(buildpipeline.StageCache) {
		fmt.Fprintf(out, "cache %.1f ms\n", toMillis(t.Duration(buildpipeline.StageCache)))
	}
	if t.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(t.Duration(buildpipeline.StageParse)))
	}
	if t.Has(buildpipeline.StageCanonicalize) || t.Has(buildpipeline.StageValidate) {
		checked := t.Sum(buildpipeline.StageCanonicalize, buildpipeline.StageValidate)
		fmt.Fprintf(out, "checked %.1f ms\n", toMillis(checked))
	}
	fmt.Fprintf(out, "total %.1f ms (%d files)\n", toMillis(res.Elapsed), len(res.Files))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
