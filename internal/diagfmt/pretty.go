package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scenec/internal/diag"
	"scenec/internal/source"
)

const tabWidth = 4

type palette struct {
	sev    map[diag.Severity]*color.Color
	path   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
	fix    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		fix:    mk(color.FgGreen, color.Bold),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.sev[d.Severity]
	if sev == nil {
		sev = pal.sev[diag.SevInfo]
	}
	f := fileOf(fs, d.Primary)
	if f == nil || detached(d) {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			}
		}
		return
	}
	start, _ := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(w, "%s: %s %s: %s\n", pal.path.Sprint(loc), sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
	writeSnippet(w, fs, f, d.Primary, opts.Context, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprint("fix:"), fix.Title)
			for _, e := range fix.Edits {
				ef := fileOf(fs, e.Span)
				if ef == nil {
					continue
				}
				es, _ := fs.Resolve(e.Span)
				old := string(ef.Content[e.Span.Start:e.Span.End])
				switch {
				case e.Span.Empty():
					fmt.Fprintf(w, "       insert %q at %d:%d\n", e.NewText, es.Line, es.Col)
				default:
					fmt.Fprintf(w, "       replace %q with %q at %d:%d\n", old, e.NewText, es.Line, es.Col)
				}
			}
		}
	}
}

// writeSnippet prints the primary line with context and a caret underline
// aligned by display width.
func writeSnippet(w io.Writer, fs *source.FileSet, f *source.File, sp source.Span, context int8, pal palette) {
	start, end := fs.Resolve(sp)
	ctx := uint32(max(context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	if total := uint32(len(f.LineIdx)) + 1; last > total { // #nosec G115 -- bounded by file size
		last = total
	}
	gw := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := expandTabs(f.GetLine(ln))
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		col := max(min(int(start.Col)-1, len(raw)), 0)
		lead := runewidth.StringWidth(expandTabs(raw[:col]))
		endCol := len(raw)
		if end.Line == start.Line {
			endCol = min(max(int(end.Col)-1, col), len(raw))
		}
		width := max(runewidth.StringWidth(expandTabs(raw[col:endCol])), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", lead), pal.caret.Sprint(underline))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
