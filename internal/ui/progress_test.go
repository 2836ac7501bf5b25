package ui

import (
	"fmt"
	"strings"
	"testing"

	"scenec/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("diag", []string{"a.scene", "b.scene"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.scene", Stage: buildpipeline.StageCanonicalize, Status: buildpipeline.StatusWorking})
	if got := m.items[0].status; got != "canonical" {
		t.Fatalf("status = %q", got)
	}
	if pct := m.percent(); pct != 0.25 {
		t.Fatalf("percent = %v", pct)
	}

	m.applyEvent(buildpipeline.Event{File: "a.scene", Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.scene", Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{File: "unknown.scene", Status: buildpipeline.StatusDone})
	if pct := m.percent(); pct != 1 {
		t.Fatalf("percent = %v", pct)
	}

	view := m.View()
	for _, want := range []string{"a.scene", "b.scene", "2/2 files", "1 with errors"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestRunLevelEventSetsHeader(t *testing.T) {
	m := NewProgressModel("diag", []string{"a.scene"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "validating" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("scenes/very/long/path.scene", 10); got != "scenes/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestViewWindowsLargeRuns(t *testing.T) {
	files := make([]string, 30)
	for i := range files {
		files[i] = fmt.Sprintf("s%02d.scene", i)
	}
	m := NewProgressModel("diag", files, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{File: "s29.scene", Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{File: "s20.scene", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

	rows, hidden := m.visibleItems()
	if len(rows) != maxVisibleRows || hidden != 30-maxVisibleRows {
		t.Fatalf("rows = %d, hidden = %d", len(rows), hidden)
	}
	if rows[0].path != "s20.scene" || rows[1].path != "s29.scene" || rows[2].path != "s00.scene" {
		t.Fatalf("unexpected order: %v %v %v", rows[0].path, rows[1].path, rows[2].path)
	}
	if view := m.View(); !strings.Contains(view, "18 more") {
		t.Fatalf("view misses hidden count:\n%s", view)
	}
}
