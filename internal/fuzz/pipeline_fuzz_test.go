package fuzztests

import (
	"context"
	"testing"
	"time"

	"scenec/internal/canon"
	"scenec/internal/compiler"
	"scenec/internal/grammar"
	"scenec/internal/source"
	"scenec/internal/testkit"
)

// compileTimeout bounds one input; exceeding it means recovery looped.
const compileTimeout = 5 * time.Second

func FuzzGrammarSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.scene", clampInput(input))
		content := fs.Get(id).Content

		root := grammar.Parse(content, id)
		if err := testkit.CheckTokenInvariants(root, content, id); err != nil {
			t.Fatalf("token invariants: %v\ninput: %q", err, truncateForLog(content, 200))
		}
		doc, err := canon.Canonicalize(root)
		if err != nil {
			t.Fatalf("canonicalize: %v", err)
		}
		if err := testkit.CheckNodeInvariants(doc); err != nil {
			t.Fatalf("node invariants: %v\ninput: %q", err, truncateForLog(content, 200))
		}
	})
}

// FuzzCompileNoHang runs the whole pipeline under a deadline and checks that
// it is deterministic.
func FuzzCompileNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), compileTimeout)
		defer cancel()

		type outcome struct {
			first, second []compiler.Record
			err           error
		}
		done := make(chan outcome, 1)
		go func() {
			var out outcome
			a, err := compiler.Compile("fuzz.scene", input, compiler.Options{Strict: true})
			if err != nil {
				out.err = err
				done <- out
				return
			}
			b, err := compiler.Compile("fuzz.scene", input, compiler.Options{Strict: true})
			out.first, out.second, out.err = a.Records, b.Records, err
			done <- out
		}()

		select {
		case out := <-done:
			if out.err != nil {
				t.Fatalf("compile failed: %v", out.err)
			}
			if len(out.first) != len(out.second) {
				t.Fatalf("non-deterministic: %d vs %d records", len(out.first), len(out.second))
			}
			for i := range out.first {
				if out.first[i] != out.second[i] {
					t.Fatalf("record %d differs: %+v vs %+v", i, out.first[i], out.second[i])
				}
				if out.first[i].Start < 0 || out.first[i].End > len(input) || out.first[i].Start > out.first[i].End {
					t.Fatalf("record %d out of bounds: %+v (input %d bytes)", i, out.first[i], len(input))
				}
			}
		case <-ctx.Done():
			t.Fatalf("compile hang: longer than %v\ninput (%d bytes): %q",
				compileTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
