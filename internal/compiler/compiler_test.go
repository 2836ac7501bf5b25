package compiler

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"scenec/internal/ast"
)

func compile(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := Compile("test.scene", []byte(src), opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	if res.Document == nil {
		t.Fatalf("Compile(%q) returned no document", src)
	}
	return res
}

func messages(res *Result) []string {
	out := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, r.Message)
	}
	return out
}

func TestScenarioWellFormedTree(t *testing.T) {
	res := compile(t, `<scene attr="1 &amp; &gt;"><!-- c --><gltf-model/></scene>`, Options{})
	if len(res.Records) != 0 || res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", messages(res))
	}
	want := &ast.SimpleNode{
		Tag:   "scene",
		Attrs: map[string]string{"attr": "1 & >"},
		Children: []*ast.SimpleNode{
			{Tag: "gltf-model", Attrs: map[string]string{}, Children: []*ast.SimpleNode{}},
		},
	}
	if diff := cmp.Diff(want, res.Tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioModelWithSource(t *testing.T) {
	res := compile(t, `<scene><gltf-model src="a.gltf"/></scene>`, Options{})
	if len(res.Records) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(res))
	}
	if got := res.Tree.Children[0].Attrs["src"]; got != "a.gltf" {
		t.Fatalf("src = %q", got)
	}
}

func TestScenarioUnterminatedAttribute(t *testing.T) {
	src := `<scene attr="1`
	res := compile(t, src, Options{})
	want := []Record{
		{Message: `Syntax error: Invalid attribute "attr"`, Start: 7, End: len(src)},
		{Message: "Syntax error: Tag <scene> is not closed", Start: 0, End: len(src)},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if res.Document.Root() == nil || res.Document.Root().Name != "scene" {
		t.Fatal("scene root missing")
	}
}

func TestScenarioUnknownTag(t *testing.T) {
	res := compile(t, `<scene><ultrabox/></scene>`, Options{})
	want := []Record{{Message: "Type error: Tag <ultrabox> does not exist.", Start: 7, End: 18}}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if res.Tree.Children[0].Tag != "ultrabox" {
		t.Fatalf("tree = %+v", res.Tree)
	}
}

func TestScenarioValueFormats(t *testing.T) {
	res := compile(t, `<scene><box position="hola"/></scene>`, Options{})
	want := []Record{{Message: "Invalid attribute position. Must be Vector3Component type.", Start: 12, End: 27}}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	res = compile(t, `<scene><box color="asd" position="1 2 3"/></scene>`, Options{})
	if got := messages(res); len(got) != 1 || got[0] != "Invalid attribute color. Must be hex number color type." {
		t.Fatalf("messages = %v", got)
	}
}

func TestScenarioDuplicateIDs(t *testing.T) {
	res := compile(t, `<scene><box id="3"/><sphere id="3" position="1 2 3"/></scene>`, Options{})
	got := messages(res)
	if len(got) != 2 || got[0] != got[1] {
		t.Fatalf("messages = %v", got)
	}
	if res.Records[0].Start == res.Records[1].Start {
		t.Fatal("both occurrences should be reported at their own position")
	}
}

func TestStrictRecordsAreWarnings(t *testing.T) {
	res := compile(t, `<scene><box size="2"/></scene>`, Options{Strict: true})
	if len(res.Records) != 1 || !res.Records[0].Warning || res.HasErrors() {
		t.Fatalf("records = %+v", res.Records)
	}
}

func TestCamelCaseTree(t *testing.T) {
	res := compile(t, `<scene><box look-at="1 2 3" with-collisions="true"/></scene>`, Options{CamelCase: true})
	attrs := res.Tree.Children[0].Attrs
	if attrs["lookAt"] != "1 2 3" || attrs["withCollisions"] != "true" {
		t.Fatalf("attrs = %v", attrs)
	}
}

func TestHooksSeeEveryStage(t *testing.T) {
	var begun, ended []Stage
	_ = compile(t, `<scene/>`, Options{Hooks: Hooks{
		Begin: func(s Stage) { begun = append(begun, s) },
		End:   func(s Stage, _ time.Duration) { ended = append(ended, s) },
	}})
	if diff := cmp.Diff(Stages, begun); diff != "" {
		t.Fatalf("begin order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Stages, ended); diff != "" {
		t.Fatalf("end order (-want +got):\n%s", diff)
	}
}

func TestRecoveryAmongManySiblings(t *testing.T) {
	var b strings.Builder
	b.WriteString("<scene>")
	for i := range 40 {
		if i == 20 {
			b.WriteString(`<box position="1 2 3" @/>`)
			continue
		}
		b.WriteString(`<sphere color="#fff"/>`)
	}
	b.WriteString("</scene>")
	res := compile(t, b.String(), Options{})
	if len(res.Records) != 1 {
		t.Fatalf("want one diagnostic, got %v", messages(res))
	}
	if len(res.Tree.Children) != 40 {
		t.Fatalf("children = %d", len(res.Tree.Children))
	}
}

func TestSortRecords(t *testing.T) {
	recs := []Record{{Message: "b", Start: 5, End: 9}, {Message: "a", Start: 0, End: 3}, {Message: "c", Start: 5, End: 7}}
	SortRecords(recs)
	got := []string{recs[0].Message, recs[1].Message, recs[2].Message}
	if diff := cmp.Diff([]string{"a", "c", "b"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestCompileNeverFailsOnUserInput(t *testing.T) {
	for _, src := range []string{"", "<", "</scene>", "<<<>>>", `<a b="\u12"`, "<!--", "\x00\xff"} {
		if _, err := Compile("x", []byte(src), Options{}); err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}
	}
}
