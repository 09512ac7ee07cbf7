package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
	"wgslfront/internal/trace"
)

// Ext is the extension of source files picked up from directories.
const Ext = ".wgsl"

// DirOptions configure CheckDir.
type DirOptions struct {
	Options
	Jobs int
	// Select filters paths relative to the directory; nil keeps every file.
	Select func(rel string) bool
	// Disk and Mem are optional result caches, looked up in that order: Mem, Disk.
	Disk *DiskCache
	Mem  *MemCache
	// ToolVersion is part of the cache key.
	ToolVersion string
	Progress    ProgressSink
}

// ListFiles возвращает отсортированный список всех *.wgsl файлов в директории.
func ListFiles(dir string, sel func(rel string) bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, Ext) {
			return nil
		}
		if sel != nil {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil || !sel(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every source file under dir in parallel. Results are in
// ListFiles order. A file that cannot be read yields an IO7002 diagnostic,
// not an error; the error return is for cancellation and walk failures.
func CheckDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []*Result, error) {
	files, err := ListFiles(dir, opts.Select)
	if err != nil {
		return nil, nil, err
	}
	return CheckFiles(ctx, dir, files, opts)
}

// CheckFiles is CheckDir over an explicit file list.
func CheckFiles(ctx context.Context, baseDir string, files []string, opts DirOptions) (*source.FileSet, []*Result, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check-dir", trace.CurrentSpan(ctx).SpanID)
	defer span.End(fmt.Sprintf("files=%d", len(files)))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: грузим всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOReadFile, source.Span{},
					"failed to load file: "+loadErr.Error()).Emit()
				results[i] = &Result{Path: path, Bag: bag}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			res := checkCached(gctx, file, opts)
			results[i] = res

			stage, status := StageCheck, StatusDone
			if res.Cached {
				stage = StageCache
			}
			if !res.OK() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: stage, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func checkCached(ctx context.Context, file *source.File, opts DirOptions) *Result {
	useCache := (opts.Disk != nil || opts.Mem != nil) && !opts.Timings
	var key Digest
	if useCache {
		key = CacheKey(file.Hash, opts.Options, opts.ToolVersion)
		if payload, ok := opts.Mem.Get(file.Path, key); ok {
			return &Result{Path: file.Path, FileID: file.ID, Bag: bagFromPayload(payload, file.ID, opts.MaxDiagnostics), Cached: true}
		}
		var payload DiskPayload
		if ok, err := opts.Disk.Get(key, &payload); err == nil && ok {
			opts.Mem.Put(file.Path, key, &payload)
			return &Result{Path: file.Path, FileID: file.ID, Bag: bagFromPayload(&payload, file.ID, opts.MaxDiagnostics), Cached: true}
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageCheck, Status: StatusWorking})
	res := CheckLoaded(ctx, file, opts.Options)

	if useCache && !hasICE(res.Bag) {
		payload := payloadFromBag(file.Path, res.Bag)
		opts.Mem.Put(file.Path, key, payload)
		if err := opts.Disk.Put(key, payload); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache-put", err.Error(), trace.CurrentSpan(ctx).SpanID)
		}
	}
	return res
}

// hasICE: результат с внутренней ошибкой не кэшируем.
func hasICE(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Code == diag.IOInternal {
			return true
		}
	}
	return false
}
