// Package diag defines the diagnostic model shared by the grammar,
// canonicalizer and validator stages.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier printed as SYN2001, SEM3004 and so on.
//     2xxx codes come from parsing and canonicalization, 3xxx from the
//     validator, 4xxx from file loading, 6xxx from timing output.
//   - Message – the user-facing text. Messages are stable: tests and golden
//     files compare them verbatim.
//   - Primary – the source.Span of the node the diagnostic is attached to.
//   - Notes – secondary spans, e.g. the first occurrence of a duplicated id.
//   - Fixes – optional text edits such as inserting a missing closing tag.
//
// # Emitting diagnostics
//
// Stages emit through a Reporter. ReportError/ReportWarning return a
// ReportBuilder that chains WithNote / WithFix before Emit. The ast package
// provides a Reporter that appends to a node's diagnostic list, so the
// same builder serves both node-attached and bag-collected diagnostics.
//
// Diagnostics are never deduplicated: a duplicated id is reported on each
// occurrence and both records must survive collection.
//
// # Consumers
//
//   - internal/diagfmt renders pretty, short, json and sarif output.
//   - internal/driver gathers per-file bags for the CLI.
package diag
