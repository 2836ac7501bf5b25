package buildpipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scenec/internal/driver"
)

// ExpandPaths turns command-line arguments into a sorted, de-duplicated list
// of scene files. Directories are walked; plain files are taken as given
// whatever their extension.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// отсутствующий файл станет I/O диагностикой, а не отказом всей команды
			add(arg)
			continue
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := driver.ListSceneFiles(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}

// displayNames maps each file's FileSet key to the name shown in progress
// output, relative to baseDir when the file lives under it.
func displayNames(files []string, baseDir string) map[string]string {
	names := make(map[string]string, len(files))
	display := normalizeProgressFiles(files, baseDir)
	for i, file := range files {
		names[filepath.ToSlash(filepath.Clean(file))] = display[i]
	}
	return names
}

// normalizeProgressFiles keeps the order of files so callers can zip the
// result with their input.
func normalizeProgressFiles(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, len(files))
	for i, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				if rel, err := filepath.Rel(base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
					path = rel
				}
			}
		}
		out[i] = filepath.ToSlash(path)
	}
	return out
}
