package main

import (
	"context"
	"fmt"
	"os"

	"scenec/internal/buildpipeline"
	"scenec/internal/ui"
)

type runOutcome struct {
	result *buildpipeline.Result
	err    error
}

// runWithUI runs the pipeline while the progress view draws on stderr, so
// stdout keeps only the report.
func runWithUI(ctx context.Context, title string, req *buildpipeline.Request) (*buildpipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing pipeline request")
	}
	files, err := buildpipeline.DisplayFiles(req)
	if err != nil {
		return nil, err
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress(os.Stderr, title, files, events)
	// если UI упал раньше времени, не даём пайплайну заблокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
