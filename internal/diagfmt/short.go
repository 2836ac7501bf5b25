package diagfmt

import (
	"fmt"
	"io"

	"scenec/internal/diag"
	"scenec/internal/source"
)

// Short prints one line per diagnostic: `error SYN2001 path:line:col msg`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, withNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
