package internals

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ShouldVisit decides whether a path (relative to the scan root, '/'
// separated) is included in the walk. Ignore-file parsing is left to the
// caller; Walk only ever consults this predicate.
type ShouldVisit func(relPath string) bool

// WalkOptions configures a Walk call.
type WalkOptions struct {
	Root        string
	ShouldVisit ShouldVisit
	Algos       []AlgoID
	Workers     int // 0 selects runtime.NumCPU()
}

// walkJob is one unit of work dispatched to the worker pool: a
// non-directory entry to be analyzed. Directories are recorded
// synchronously by the walking goroutine instead.
type walkJob struct {
	relPath string
	absPath string
	isLink  bool
}

// walkResult flows from a worker back to the collector.
type walkResult struct {
	relPath string
	entry   Entry
	err     error
}

// Walk recursively enumerates root, dispatches files and symlinks to a
// worker pool sized to Workers (default runtime.NumCPU()), and collects
// the results into a Database. It returns the database together with the
// list of per-entry IoErrors encountered; a non-empty error list does not
// prevent the database from being returned: one unreadable file should
// not abort a scan of everything else.
//
// A bounded dispatch channel feeds the fixed worker pool, whose results
// feed a single collector goroutine that is the map's sole writer.
func Walk(ctx context.Context, opts WalkOptions) (*Database, []error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if opts.ShouldVisit == nil {
		opts.ShouldVisit = func(string) bool { return true }
	}

	rootInfo, err := os.Lstat(opts.Root)
	if err != nil {
		return NewDatabase(), []error{&IoError{Path: opts.Root, Err: err}}
	}
	if !rootInfo.IsDir() {
		// The root itself is a single file (or symlink) to scan, e.g.
		// `build db README.md`. It is recorded under the empty path
		// key, the same key a directory root uses for its own
		// presence entry.
		db := NewDatabase()
		if rootInfo.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(opts.Root)
			if err != nil {
				return db, []error{&IoError{Path: opts.Root, Err: err}}
			}
			db.Insert("", &SymlinkEntry{Target: []byte(target)})
			return db, nil
		}
		entry, err := AnalyzeFile(opts.Root, opts.Algos)
		if err != nil {
			return db, []error{err}
		}
		db.Insert("", entry)
		return db, nil
	}

	db := NewDatabase()
	db.Insert("", &DirEntry{}) // the root itself is always present

	jobs := make(chan walkJob, workers*4)
	results := make(chan walkResult, workers*4)

	var workerWG sync.WaitGroup
	workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer workerWG.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					results <- walkResult{relPath: job.relPath, err: &CancelledError{}}
					continue
				default:
				}
				if job.isLink {
					target, err := os.Readlink(job.absPath)
					if err != nil {
						results <- walkResult{relPath: job.relPath, err: &IoError{Path: job.absPath, Err: err}}
						continue
					}
					results <- walkResult{relPath: job.relPath, entry: &SymlinkEntry{Target: []byte(target)}}
					continue
				}
				entry, err := AnalyzeFile(job.absPath, opts.Algos)
				if err != nil {
					results <- walkResult{relPath: job.relPath, err: err}
					continue
				}
				results <- walkResult{relPath: job.relPath, entry: entry}
			}
		}()
	}

	collectorDone := make(chan struct{})
	var errs []error
	go func() {
		defer close(collectorDone)
		for res := range results {
			if res.err != nil {
				errs = append(errs, res.err)
				continue
			}
			db.Insert(res.relPath, res.entry)
		}
	}()

	// Directories are discovered synchronously by this goroutine, but are
	// still routed through the results channel rather than inserted
	// directly, so the collector remains the map's sole writer with no
	// synchronization needed beyond the channel handoff.
	walkDir(ctx, opts.Root, "", opts.ShouldVisit, jobs, results)

	close(jobs)
	workerWG.Wait()
	close(results)
	<-collectorDone

	return db, errs
}

// walkDir recursively enumerates dir (absolute path, relPath relative to
// the scan root), sending a walkResult for every directory it discovers
// and dispatching files/symlinks onto jobs for the worker pool.
func walkDir(ctx context.Context, dir, relPath string, shouldVisit ShouldVisit, jobs chan<- walkJob, results chan<- walkResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		results <- walkResult{relPath: relPath, err: &IoError{Path: dir, Err: err}}
		return
	}

	for _, de := range entries {
		select {
		case <-ctx.Done():
			results <- walkResult{relPath: relPath, err: &CancelledError{}}
			return
		default:
		}

		childRel := de.Name()
		if relPath != "" {
			childRel = relPath + "/" + de.Name()
		}
		if !shouldVisit(childRel) {
			continue
		}
		childAbs := filepath.Join(dir, de.Name())

		info, err := os.Lstat(childAbs)
		if err != nil {
			results <- walkResult{relPath: childRel, err: &IoError{Path: childAbs, Err: err}}
			continue
		}

		switch {
		case info.IsDir():
			results <- walkResult{relPath: childRel, entry: &DirEntry{}}
			walkDir(ctx, childAbs, childRel, shouldVisit, jobs, results)
		case info.Mode()&os.ModeSymlink != 0:
			jobs <- walkJob{relPath: childRel, absPath: childAbs, isLink: true}
		case info.Mode().IsRegular():
			jobs <- walkJob{relPath: childRel, absPath: childAbs}
		default:
			// Device files, FIFOs, UNIX domain sockets: Entry has no
			// representation for these. Record and skip rather than
			// abort or silently drop.
			results <- walkResult{relPath: childRel, err: &IoError{Path: childAbs, Err: errUnsupportedEntryKind}}
		}
	}
}

type unsupportedEntryKindErr struct{}

func (unsupportedEntryKindErr) Error() string { return "unsupported entry kind" }

var errUnsupportedEntryKind error = unsupportedEntryKindErr{}
