package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"scenec/internal/diag"
	"scenec/internal/source"
)

// scene(box(position, bad), <!-- c -->, sphere)
func sampleDocument() (*Document, *Tag, *Tag) {
	doc := NewDocument(nil)
	scene := NewTag(nil, doc, "scene")
	doc.Children = append(doc.Children, scene)

	box := NewTag(nil, scene, "box")
	pos := NewAttribute(nil, box)
	pos.Key, pos.Value, pos.Valid = "position", "1 2 3", true
	bad := NewAttribute(nil, box)
	box.Attributes = []*Attribute{pos, bad}

	sphere := NewTag(nil, scene, "sphere")
	look := NewAttribute(nil, sphere)
	look.Key, look.Value, look.Valid = "look-at", "0 0 0", true
	sphere.Attributes = []*Attribute{look}

	scene.Children = []Node{box, NewComment(nil, scene, "<!-- c -->"), sphere}
	return doc, box, sphere
}

func TestWalkOrder(t *testing.T) {
	doc, _, _ := sampleDocument()
	var got []string
	Walk(doc, func(n Node) bool {
		switch n := n.(type) {
		case *Tag:
			got = append(got, n.Name)
		case *Attribute:
			got = append(got, "@"+n.Key)
		default:
			got = append(got, n.Kind().String())
		}
		return true
	})
	want := []string{"Document", "scene", "box", "@position", "@", "Comment", "sphere", "@look-at"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectDiagnosticsDeepestFirst(t *testing.T) {
	doc, box, sphere := sampleDocument()
	scene := doc.Root()
	report := func(n Node, msg string) {
		diag.ReportError(n.Reporter(), diag.SemaInvalidValue, source.Span{}, msg).Emit()
	}
	report(scene, "scene")
	report(box, "box")
	report(box.Attributes[0], "position")
	report(sphere, "sphere")
	report(doc, "document")

	var got []string
	for _, d := range CollectDiagnostics(doc) {
		got = append(got, d.Message)
	}
	want := []string{"position", "box", "sphere", "scene", "document"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collection order mismatch (-want +got):\n%s", diff)
	}
	if !HasErrors(doc) || HasErrors(sphere.Attributes[0]) {
		t.Fatal("HasErrors mismatch")
	}
}

func TestDiagnosticsReturnsCopy(t *testing.T) {
	doc := NewDocument(nil)
	doc.AddDiagnostic(diag.NewError(diag.SemaInvalidRoot, source.Span{}, "x"))
	ds := doc.Diagnostics()
	ds[0].Message = "changed"
	if doc.Diagnostics()[0].Message != "x" {
		t.Fatal("Diagnostics exposed internal slice")
	}
}

func TestSimplify(t *testing.T) {
	doc, _, _ := sampleDocument()
	got := Simplify(doc, SimplifyOptions{CamelCase: true})
	want := &SimpleNode{
		Tag:   "scene",
		Attrs: map[string]string{},
		Children: []*SimpleNode{
			{Tag: "box", Attrs: map[string]string{"position": "1 2 3"}, Children: []*SimpleNode{}},
			{Tag: "sphere", Attrs: map[string]string{"lookAt": "0 0 0"}, Children: []*SimpleNode{}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("simplified tree mismatch (-want +got):\n%s", diff)
	}
	if Simplify(NewDocument(nil), SimplifyOptions{}) != nil {
		t.Fatal("empty document should project to nil")
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"position":         "position",
		"look-at":          "lookAt",
		"with-collisions":  "withCollisions",
		"segments-radial":  "segmentsRadial",
		"albedo-color":     "albedoColor",
		"outline-width-px": "outlineWidthPx",
	}
	for in, want := range cases {
		if got := CamelCase(in); got != want {
			t.Fatalf("CamelCase(%q) = %q want %q", in, got, want)
		}
	}
}

func TestParentLinks(t *testing.T) {
	doc, box, _ := sampleDocument()
	if box.Parent() != Node(doc.Root()) {
		t.Fatal("box parent should be scene")
	}
	if box.Attributes[0].OwnerTag() != box {
		t.Fatal("attribute owner mismatch")
	}
	if doc.Parent() != nil {
		t.Fatal("document has no parent")
	}
	if NewAttribute(nil, nil).Parent() != nil {
		t.Fatal("detached attribute should have nil parent")
	}
}
