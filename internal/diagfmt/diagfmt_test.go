package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"scenec/internal/ast"
	"scenec/internal/diag"
	"scenec/internal/source"
)

const sample = "<scene>\n\t<box position=\"hola\"/>\n</scene>\n"

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.scene", []byte(sample))
	start := uint32(strings.Index(sample, "position")) // #nosec G115
	sp := source.Span{File: id, Start: start, End: start + uint32(len(`position="hola"`))}

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaInvalidValue, sp, "Invalid attribute position. Must be Vector3Component type.").
		WithNote(source.Span{File: id, Start: 9, End: 13}, "on this tag").
		WithFix("use the origin", diag.FixEdit{Span: source.Span{File: id, Start: sp.Start + 10, End: sp.Start + 14}, NewText: "0 0 0"}))
	return bag, fs
}

func TestPrettyUnderlinesPrimarySpan(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})

	want := "test.scene:2:7: ERROR SEM3004: Invalid attribute position. Must be Vector3Component type.\n" +
		" 2 |     <box position=\"hola\"/>\n" +
		"   |          ^~~~~~~~~~~~~~~\n" +
		"  note: test.scene:2:2: on this tag\n" +
		"  fix: use the origin\n" +
		"       replace \"hola\" with \"0 0 0\" at 2:17\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	for _, line := range []string{" 1 | <scene>", " 3 | </scene>"} {
		if !strings.Contains(out, line) {
			t.Fatalf("missing context line %q in:\n%s", line, out)
		}
	}
	if strings.Contains(out, "note:") || strings.Contains(out, "\x1b[") {
		t.Fatalf("notes or color leaked:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("expected ANSI escapes with Color enabled")
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "error SEM3004 test.scene:2:7 Invalid attribute position. Must be Vector3Component type.\n"
	if buf.String() != want {
		t.Fatalf("short = %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3004" || d.Severity != "ERROR" || d.Location.StartLine != 2 || d.Location.StartCol != 7 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 0 {
		t.Fatal("notes are opt-in")
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].OldText != "hola" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.SemaUnknownTag, source.Span{}, "second"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "0.1.0", InvocationArgs: []string{"diag"}}); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
							CharLength  int `json:"charLength"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "scenec" || len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "SEM3004" {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatal("errors must mark the run unsuccessful")
	}
	res := run.Results[0]
	region := res.Locations[0].PhysicalLocation.Region
	if res.Level != "error" || region.StartLine != 2 || region.StartColumn != 7 || region.CharLength != 15 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.RelatedLocations) != 1 {
		t.Fatalf("related = %d", len(res.RelatedLocations))
	}
}

func sampleTree() *ast.SimpleNode {
	return &ast.SimpleNode{
		Tag:   "scene",
		Attrs: map[string]string{"id": "s"},
		Children: []*ast.SimpleNode{
			{Tag: "entity", Attrs: map[string]string{}, Children: []*ast.SimpleNode{
				{Tag: "box", Attrs: map[string]string{"position": "1 2 3", "color": "#fff"}, Children: []*ast.SimpleNode{}},
			}},
			{Tag: "sphere", Attrs: map[string]string{}, Children: []*ast.SimpleNode{}},
		},
	}
}

func TestFormatTree(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTree(&buf, sampleTree()); err != nil {
		t.Fatal(err)
	}
	want := "scene id=\"s\"\n" +
		"├── entity\n" +
		"│   └── box color=\"#fff\" position=\"1 2 3\"\n" +
		"└── sphere\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := FormatTree(&buf, nil); err != nil || buf.String() != "(empty document)\n" {
		t.Fatalf("nil tree: %q %v", buf.String(), err)
	}
}

func TestTreeEncodings(t *testing.T) {
	tree := sampleTree()

	var js bytes.Buffer
	if err := FormatTreeJSON(&js, tree); err != nil {
		t.Fatal(err)
	}
	var fromJSON ast.SimpleNode
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tree, &fromJSON); diff != "" {
		t.Fatalf("json tree mismatch (-want +got):\n%s", diff)
	}

	var ym bytes.Buffer
	if err := FormatTreeYAML(&ym, tree); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ym.String(), "tag: scene\n") {
		t.Fatalf("yaml = %s", ym.String())
	}
	var fromYAML ast.SimpleNode
	if err := yaml.Unmarshal(ym.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if fromYAML.Children[0].Children[0].Attrs["position"] != "1 2 3" {
		t.Fatalf("yaml round trip = %+v", fromYAML)
	}
}
