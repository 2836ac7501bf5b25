package main

import (
	"fmt"
	"io"
	"strings"

	"scenec/internal/buildpipeline"
	"scenec/internal/diag"
	"scenec/internal/diagfmt"
	"scenec/internal/version"
)

type diagFormat string

const (
	formatPretty diagFormat = "pretty"
	formatShort  diagFormat = "short"
	formatJSON   diagFormat = "json"
	formatSarif  diagFormat = "sarif"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatShort, formatJSON, formatSarif:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", value)
	}
}

// reportOptions controls how diagnostics of a run are printed.
type reportOptions struct {
	Format    diagFormat
	Color     bool
	FullPath  bool
	WithNotes bool
	Suggest   bool
	Args      []string
}

// printReport writes every file's diagnostics in run order. Pretty and
// short print file by file; json and sarif emit a single document.
func printReport(out io.Writer, res *buildpipeline.Result, opts reportOptions) error {
	pathMode := diagfmt.PathModeAuto
	if opts.FullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch opts.Format {
	case formatPretty, "":
		prettyOpts := diagfmt.PrettyOpts{
			Color:     opts.Color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: opts.WithNotes,
			ShowFixes: opts.Suggest,
		}
		for _, fr := range res.Files {
			diagfmt.Pretty(out, fr.Bag, res.FileSet, prettyOpts)
		}
		return nil
	case formatShort:
		for _, fr := range res.Files {
			if err := diagfmt.Short(out, fr.Bag, res.FileSet, opts.WithNotes); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		return diagfmt.JSON(out, mergedBag(res), res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.WithNotes,
			IncludeFixes:     opts.Suggest,
		})
	case formatSarif:
		return diagfmt.Sarif(out, mergedBag(res), res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "scenec",
			ToolVersion:    version.Version,
			InvocationArgs: opts.Args,
		})
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// mergedBag concatenates per-file bags; their own limits already applied.
func mergedBag(res *buildpipeline.Result) *diag.Bag {
	all := diag.NewBag(0)
	for _, fr := range res.Files {
		if fr != nil && fr.Bag != nil {
			all.AddAll(fr.Bag.Items())
		}
	}
	return all
}

// printSummary writes the one-line outcome of a run, e.g.
// "3 files: 1 with errors, 1 with warnings (cached 1)".
func printSummary(out io.Writer, res *buildpipeline.Result) {
	cached := 0
	for _, fr := range res.Files {
		if fr != nil && fr.Cached {
			cached++
		}
	}
	noun := "files"
	if len(res.Files) == 1 {
		noun = "file"
	}
	line := fmt.Sprintf("%d %s: %d with errors, %d with warnings", len(res.Files), noun, res.Errors, res.Warnings)
	if cached > 0 {
		line += fmt.Sprintf(" (cached %d)", cached)
	}
	fmt.Fprintln(out, line)
}
