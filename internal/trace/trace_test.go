package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "Phase", "detail", "debug"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if !strings.EqualFold(l.String(), s) {
			t.Fatalf("round trip %q -> %q", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("want error for unknown level")
	}
}

func TestLevelFilters(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatal("phase level must stop at passes")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatal("detail level must stop at files")
	}
	if LevelError.ShouldEmit(ScopeDriver) || !LevelError.records(ScopeFile) {
		t.Fatal("error level records into the ring only")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, file := StartSpan(ctx, ScopeFile, "file:a.scene")
	_, pass := StartSpan(ctx, ScopePass, "validate")
	pass.WithExtra("diagnostics", "2").End("")
	file.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "validate" || ev.ParentID != file.ID() || ev.Extra["diagnostics"] != "2" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestStreamSkipsFinerScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopeFile, "file:a.scene", 0)
	span.End("")
	if span.ID() != 0 || buf.Len() != 0 {
		t.Fatalf("file span leaked at phase level: %q", buf.String())
	}
	Begin(tr, ScopePass, "parse", 0).End("ok")
	if !strings.Contains(buf.String(), "→ parse") || !strings.Contains(buf.String(), "← parse (ok)") {
		t.Fatalf("text output = %q", buf.String())
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		r.Emit(&Event{Seq: uint64(i), Kind: KindPoint, Scope: ScopeNode})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Seq != 2 || snap[2].Seq != 4 {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestNopIsInert(t *testing.T) {
	span := Begin(FromContext(context.Background()), ScopeDriver, "diag", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatal("nop span must be inert")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestNewBoth(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "diag", 0).End("")
	ring := tr.(*MultiTracer).Ring()
	if ring == nil || len(ring.Snapshot()) != 2 || buf.Len() == 0 {
		t.Fatalf("both mode did not reach both sinks")
	}
}

func TestHeartbeatStop(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Fatal("no heartbeats recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on nop tracer")
	}
}
