package diag

import (
	"testing"

	"scenec/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("testdata/sample.scene", []byte("<scene>\n<box/>\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaUnknownAttribute,
			Message:  "Unknown attribute foo in box.",
			Primary:  source.Span{File: file, Start: 8, End: 14},
		},
		{
			Severity: SevError,
			Code:     SynTagNotClosed,
			Message:  "Syntax error: Tag <scene> is not closed",
			Primary:  source.Span{File: file, Start: 0, End: 15},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 15, End: 15}, Msg: "expected </scene>\nhere"},
			},
		},
	}

	want := "error SYN2001 testdata/sample.scene:1:1 Syntax error: Tag <scene> is not closed\n" +
		"warning SEM3007 testdata/sample.scene:2:1 Unknown attribute foo in box.\n" +
		"note SYN2001 testdata/sample.scene:3:1 expected </scene> here"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	b.Add(NewError(SemaUnknownTag, source.Span{Start: 9, End: 10}, "b"))
	b.Add(New(SevWarning, SemaUnknownAttribute, source.Span{Start: 1, End: 2}, "a"))
	if b.Add(NewError(SemaUnknownTag, source.Span{}, "c")) {
		t.Fatal("expected limit to reject third diagnostic")
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped = %d", b.Dropped())
	}
	b.Sort()
	if b.Items()[0].Message != "a" {
		t.Fatalf("unsorted: %+v", b.Items())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("severity flags")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rb := ReportError(BagReporter{Bag: bag}, SynTagNotClosed, source.Span{}, "x").
		WithNote(source.Span{}, "n").
		WithFix("insert", FixEdit{NewText: "</x>"})
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "</x>" {
		t.Fatalf("diag = %+v", d)
	}
}
