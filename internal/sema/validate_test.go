package sema

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scenec/internal/ast"
	"scenec/internal/canon"
	"scenec/internal/diag"
	"scenec/internal/grammar"
)

func build(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := canon.Canonicalize(grammar.Parse([]byte(src), 0))
	if err != nil {
		t.Fatalf("canonicalize %q: %v", src, err)
	}
	return doc
}

func validate(t *testing.T, src string) (*ast.Document, []string) {
	t.Helper()
	doc := build(t, src)
	Validate(doc, Options{})
	var msgs []string
	for _, d := range ast.CollectDiagnostics(doc) {
		msgs = append(msgs, d.Message)
	}
	return doc, msgs
}

func expectMessages(t *testing.T, src string, want ...string) *ast.Document {
	t.Helper()
	doc, got := validate(t, src)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("%s\ndiagnostics mismatch (-want +got):\n%s", src, diff)
	}
	return doc
}

func TestValidDocuments(t *testing.T) {
	sources := []string{
		`<scene attr="1 &amp; &gt;"><!-- c --><gltf-model/></scene>`,
		`<scene><gltf-model src="a.gltf"/></scene>`,
		`<scene position="0 0 0" scale="2"><box position="1 2 3" color="#fff" visible="true"/></scene>`,
		`<scene><cylinder radius-top="1" radius-bottom="2" open-ended="false" segments-radial="8" arc="360"/></scene>`,
		`<scene><text value="hi" h-align="left" v-align="top" outline-color="#00FF00" font-size="12"/></scene>`,
		`<scene><video src="v.mp4" loop="true" volume="10"/><obj-model src="m.obj"/></scene>`,
		`<scene><material id="red" albedo-color="#f00"/><box material="#red"/></scene>`,
		`<scene><box material="#late"/><material id="late"/></scene>`,
		`<scene><entity billboard="7" scale="1 1 1"><circle segments="32"/><plane uvs="1"/></entity></scene>`,
	}
	for _, src := range sources {
		expectMessages(t, src)
	}
}

func TestUnknownTagKeepsTraversing(t *testing.T) {
	doc := expectMessages(t, `<scene><ultrabox/></scene>`, "Type error: Tag <ultrabox> does not exist.")
	children := doc.Root().Tags()
	if len(children) != 1 || children[0].Name != "ultrabox" || len(children[0].Children) != 0 {
		t.Fatalf("unknown tag dropped from tree: %+v", children)
	}

	expectMessages(t, `<scene><ultrabox><box position="x"/></ultrabox></scene>`,
		"Invalid attribute position. Must be Vector3Component type.",
		"Type error: Tag <ultrabox> does not exist.",
	)
}

func TestUnknownTagSuggestsFix(t *testing.T) {
	doc := build(t, `<scene><boxx></boxx></scene>`)
	Validate(doc, Options{})
	d := doc.Root().Tags()[0].Diagnostics()[0]
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "did you mean <box>?" || len(d.Fixes[0].Edits) != 2 {
		t.Fatalf("fix = %+v", d.Fixes)
	}
	for _, e := range d.Fixes[0].Edits {
		if e.NewText != "box" || e.Span.Len() != 4 {
			t.Fatalf("edit = %+v", e)
		}
	}
}

func TestRootCheck(t *testing.T) {
	expectMessages(t, `<tag><box position="1 2 3"/></tag>`,
		"Type error: Invalid document. Scene must start and finish with <scene> tag.",
		"Type error: Tag <tag> does not exist.",
	)
	expectMessages(t, `<box/>`, "Type error: Invalid document. Scene must start and finish with <scene> tag.")
	expectMessages(t, ``, "Type error: Invalid document. Scene must start and finish with <scene> tag.")
	expectMessages(t, `<!-- only -->`, "Type error: Invalid document. Scene must start and finish with <scene> tag.")
}

func TestValueFormats(t *testing.T) {
	expectMessages(t, `<scene><box position="hola"/></scene>`,
		"Invalid attribute position. Must be Vector3Component type.")
	expectMessages(t, `<scene><box color="asd" position="1 2 3"/></scene>`,
		"Invalid attribute color. Must be hex number color type.")

	cases := []struct {
		attr, value, reason string
	}{
		{"position", "1 2", "Must be Vector3Component type"},
		{"rotation", "1 2 a", "Must be Vector3Component type"},
		{"look-at", "1 2 3 4", "Must be Vector3Component type"},
		{"scale", "big", "Must be as number or a Vector3Component type"},
		{"scale", "1 2", "Must be as number or a Vector3Component type"},
		{"visible", "yes", "Must be boolean value"},
		{"billboard", "8", "Must be number between 0 and 7"},
		{"billboard", "12", "Must be number between 0 and 7"},
		{"color", "#ffff", "Must be hex number color type"},
		{"color", "fff", "Must be hex number color type"},
		{"with-collisions", "no", "Must be boolean value"},
	}
	for _, tc := range cases {
		src := `<scene><box ` + tc.attr + `="` + tc.value + `"/></scene>`
		expectMessages(t, src, "Invalid attribute "+tc.attr+". "+tc.reason+".")
	}
}

func TestFormatCheck(t *testing.T) {
	cases := []struct {
		f     Format
		value string
		ok    bool
	}{
		{FormatVector3, "1 2 3", true},
		{FormatVector3, "-1 +2 3.5", true},
		{FormatVector3, " 1  2 3 ", true},
		{FormatVector3, "1 2 x", false},
		{FormatNumberOrVector3, "4", true},
		{FormatNumber, "10px", true},
		{FormatNumber, "-", false},
		{FormatNumber, "", false},
		{FormatNumber, "1 2", false},
		{FormatBoolean, "isfalse", true},
		{FormatBoolean, "TRUE", false},
		{FormatColor, "#ABC", true},
		{FormatColor, "#a1b2c3", true},
		{FormatColor, "#abcd", false},
		{FormatBillboard, "0", true},
		{FormatBillboard, "7", true},
		{FormatBillboard, "a7", false},
		{FormatAlignment, "top-left", true},
		{FormatAlignment, "center", false},
		{FormatNone, "anything", true},
	}
	for _, tc := range cases {
		if got := tc.f.Check(tc.value) == ""; got != tc.ok {
			t.Fatalf("format %d on %q: ok=%v want %v", tc.f, tc.value, got, tc.ok)
		}
	}
}

func TestRequiredAttributes(t *testing.T) {
	expectMessages(t, `<scene><text/><video/><gltf-model/><obj-model src="x"/><material/></scene>`,
		"Missing attribute value in text.",
		"Missing attribute src in video.",
		"Missing attribute id in material.",
	)
	// a syntactically broken attribute leaves its key absent
	expectMessages(t, `<scene><text value=x/></scene>`,
		`Syntax error: Invalid attribute "value"`,
		"Syntax error: Tag <text> is not closed",
		"Missing attribute value in text.",
	)
}

func TestDuplicateIDsReportedOnBoth(t *testing.T) {
	doc := build(t, `<scene><box id="3" position="1 2 3"/><sphere id="3"/><box id="4"/></scene>`)
	res := Validate(doc, Options{})
	if len(res.Diagnostics) != 2 {
		t.Fatalf("want 2 diagnostics, got %d: %+v", len(res.Diagnostics), res.Diagnostics)
	}
	if res.Diagnostics[0].Message != res.Diagnostics[1].Message {
		t.Fatal("duplicate diagnostics must share the message")
	}
	tags := doc.Root().Tags()
	for i, tag := range tags[:2] {
		id, _ := tag.Attr("id")
		if len(id.Diagnostics()) != 1 || id.Diagnostics()[0].Code != diag.SemaDuplicateID {
			t.Fatalf("tag %d id diagnostics = %+v", i, id.Diagnostics())
		}
		pos, ok := tag.Attr("position")
		if ok && len(pos.Diagnostics()) != 0 {
			t.Fatal("unrelated attribute got a diagnostic")
		}
	}
	if res.IDs["3"] != tags[0] || res.IDs["4"] != tags[2] {
		t.Fatalf("IDs = %v", res.IDs)
	}
}

func TestTripleDuplicateReportsEachOnce(t *testing.T) {
	res := Validate(build(t, `<scene id="a"><box id="a"/><box id="a"/></scene>`), Options{})
	if len(res.Diagnostics) != 3 {
		t.Fatalf("want 3, got %d", len(res.Diagnostics))
	}
}

func TestMaterialReferences(t *testing.T) {
	const msg = "Invalid attribute material. Must reference a <material> id declared in this document with the form #id."
	cases := []struct {
		src  string
		note string
	}{
		{`<scene><box material="red"/><material id="red"/></scene>`, `"red" is not of the form #id`},
		{`<scene><box material="#"/></scene>`, `"#" is not of the form #id`},
		{`<scene><box material="#nope"/></scene>`, `id "nope" is not declared in this document`},
		{`<scene><box id="b"/><sphere material="#b"/></scene>`, `id "b" is declared here on <box>`},
	}
	for _, tc := range cases {
		doc := expectMessages(t, tc.src, msg)
		d := ast.CollectDiagnostics(doc)[0]
		if d.Code != diag.SemaUnresolvedMaterial || len(d.Notes) != 1 || d.Notes[0].Msg != tc.note {
			t.Fatalf("%s: diagnostic = %+v", tc.src, d)
		}
	}
}

func TestMaterialNotePointsAtDeclaration(t *testing.T) {
	src := `<scene><box id="b"/><sphere material="#b"/></scene>`
	doc := build(t, src)
	res := Validate(doc, Options{})
	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
	note := res.Diagnostics[0].Notes[0].Span
	if got := src[note.Start:note.End]; got != `id="b"` {
		t.Fatalf("note covers %q", got)
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	doc := build(t, `<scene><box id="1" color="x"/><sphere id="1" material="#1"/><nope/></scene>`)
	first := Validate(doc, Options{})
	attached := ast.CollectDiagnostics(doc)
	second := Validate(doc, Options{})
	if len(first.Diagnostics) == 0 {
		t.Fatal("expected diagnostics")
	}
	if diff := cmp.Diff(first.Diagnostics, second.Diagnostics); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	// узлы не накапливают повторные находки
	if diff := cmp.Diff(attached, ast.CollectDiagnostics(doc)); diff != "" {
		t.Fatalf("node diagnostics accumulated (-first +second):\n%s", diff)
	}
	if len(attached) != len(first.Diagnostics) {
		t.Fatalf("attached %d, reported %d", len(attached), len(first.Diagnostics))
	}
}

func TestRegistryIsPerCall(t *testing.T) {
	srcA := `<scene><box id="shared"/></scene>`
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := canon.Canonicalize(grammar.Parse([]byte(srcA), 0))
			if err != nil {
				errs <- err.Error()
				return
			}
			if res := Validate(doc, Options{}); len(res.Diagnostics) != 0 {
				errs <- res.Diagnostics[0].Message
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatalf("ids leaked between documents: %s", msg)
	}
}

func TestStrictWarnsOnUnknownAttributes(t *testing.T) {
	doc := build(t, `<scene><box size="2" position="1 2 3"/></scene>`)
	res := Validate(doc, Options{Strict: true})
	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Severity != diag.SevWarning || d.Message != "Unknown attribute size in box." || res.HasErrors() {
		t.Fatalf("diagnostic = %+v", d)
	}
	if Validate(build(t, `<scene><box size="2"/></scene>`), Options{}).Diagnostics != nil {
		t.Fatal("non-strict mode must not warn")
	}
}

func TestRules(t *testing.T) {
	rules := Rules(CategoryCylinder)
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	want := []string{
		"id", "position", "scale", "rotation", "look-at", "key", "visible", "billboard",
		"color", "material", "with-collisions",
		"radius", "arc", "radius-top", "radius-bottom", "segments-radial", "segments-height", "open-ended",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("cylinder rules mismatch (-want +got):\n%s", diff)
	}
	for _, r := range Rules(CategoryMaterialDescriptor) {
		if r.Name == "id" && !r.Required {
			t.Fatal("material id must be required")
		}
		if r.Name == "position" {
			t.Fatal("material descriptor does not extend Basic")
		}
	}
	if len(TagNames()) != 14 {
		t.Fatalf("vocabulary = %v", TagNames())
	}
}
