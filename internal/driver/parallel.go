package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/source"
)

// listJSFiles returns every *.js file under dir, sorted for a
// deterministic unit order.
func listJSFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".js") {
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

// AnalyzeDir analyzes every *.js file under dir. Units are independent,
// so they run concurrently up to jobs goroutines (GOMAXPROCS when
// jobs <= 0); each unit stays single-threaded inside. Results come back
// in path order regardless of completion order.
func AnalyzeDir(ctx context.Context, dir string, cfg config.Config, cache *DiskCache, jobs int) ([]*Unit, error) {
	files, err := listJSFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	units := make([]*Unit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Each unit gets its own context: the FileSet is not
			// safe for concurrent mutation.
			c := &Context{Files: source.NewFileSet(), Config: cfg, Cache: cache}
			u, err := c.AnalyzeFile(path)
			if err != nil {
				// I/O failure becomes a diagnostic so one unreadable
				// file does not abort the remaining units.
				bag := diag.NewBag(1)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "cannot load file: " + err.Error(),
				})
				u = &Unit{Path: path, Bag: bag}
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return units, err
	}
	return units, nil
}
