package lint

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"hashalign/internal/diag"
	"hashalign/internal/source"
)

// SourceExt is the file extension the directory walker picks up.
const SourceExt = ".hsh"

// FileResult содержит результат проверки одного файла
type FileResult struct {
	Path   string // относительный путь к файлу
	FileID source.FileID
	Bag    *diag.Bag
}

// ListSourceFiles возвращает отсортированный список исходных файлов в директории.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Детерминированный порядок обхода
	sort.Strings(files)
	return files, nil
}

// CheckDir analyses every source file under dir. Files are loaded
// sequentially (the FileSet is not safe for concurrent Add) and checked in
// parallel; literals within one file keep their document order.
func (r *Runner) CheckDir(ctx context.Context, fileSet *source.FileSet, dir string, maxDiags int) ([]FileResult, error) {
	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(paths))
	for i, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			bag := diag.NewBag(1)
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
			results[i] = FileResult{Path: path, Bag: bag}
			continue
		}
		results[i] = FileResult{Path: path, FileID: id}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range results {
		if results[i].Bag != nil { // файл не загрузился
			continue
		}
		g.Go(func() error {
			results[i].Bag = r.CheckFile(fileSet, results[i].FileID, maxDiags)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
