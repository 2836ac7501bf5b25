package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scenec/internal/diag"
	"scenec/internal/source"
)

// SceneExtensions lists the file suffixes picked up by directory runs.
var SceneExtensions = []string{".scene", ".xml"}

// ListSceneFiles walks dir and returns every scene document, sorted.
func ListSceneFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, .cache) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSceneFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range SceneExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// DiagnoseDir diagnoses every scene file under dir using up to jobs workers.
func DiagnoseDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []*Result, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	results, err := DiagnoseFiles(ctx, fileSet, files, opts, jobs)
	return fileSet, results, err
}

// DiagnoseFiles loads paths into fileSet and diagnoses them in parallel.
// Results keep the order of paths. A file that fails to load gets a result
// holding a single I/O diagnostic instead of aborting the whole run.
func DiagnoseFiles(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options, jobs int) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	// Предзагружаем все файлы последовательно: FileSet не потокобезопасен,
	// дальше горутины только читают.
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = &Result{Path: path, FileSet: fileSet, Bag: bag}
				return nil
			}

			res, err := DiagnoseFile(gctx, fileSet, fileIDs[path], opts)
			if err != nil {
				return err
			}
			// индекс i уникален, мьютекс не нужен
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
