// Package v1 is the stable programmatic surface over internals: Build,
// Check, Diff, and Selfcheck, the same four actions the CLI (package
// main, under cli/) exposes as subcommands.
package v1

import (
	"context"

	"github.com/elliottslaughter/integrity-checker/internals"
)

const VERSION_MAJOR = 2
const VERSION_MINOR = 0
const VERSION_PATCH = 0
const RELEASE_DATE = "2026-08-06"

// Build scans root and writes a new database artifact to out. It refuses
// to overwrite an existing target unless opts.Force is set.
func Build(ctx context.Context, out, root string, opts BuildOptions) (*BuildResult, error) {
	algos := opts.Algos
	if len(algos) == 0 {
		algos = []internals.AlgoID{internals.DefaultAlgo}
	}

	db, errs := internals.Walk(ctx, internals.WalkOptions{
		Root:        root,
		ShouldVisit: opts.ShouldVisit,
		Algos:       algos,
		Workers:     opts.Workers,
	})

	if err := internals.WriteDatabase(out, db, algos, opts.Force); err != nil {
		return nil, err
	}

	return &BuildResult{Errors: errs}, nil
}

// Check scans root and diffs the result against the database at db.
func Check(ctx context.Context, dbPath, root string, opts BuildOptions) ([]Change, []error, error) {
	algos := opts.Algos
	if len(algos) == 0 {
		algos = []internals.AlgoID{internals.DefaultAlgo}
	}

	stored, err := internals.ReadDatabase(dbPath, false)
	if err != nil {
		return nil, nil, err
	}

	live, scanErrs := internals.Walk(ctx, internals.WalkOptions{
		Root:        root,
		ShouldVisit: opts.ShouldVisit,
		Algos:       algos,
		Workers:     opts.Workers,
	})

	return internals.Diff(stored, live), scanErrs, nil
}

// Diff reads both database artifacts and diffs them.
func Diff(dbA, dbB string) ([]Change, error) {
	a, err := internals.ReadDatabase(dbA, false)
	if err != nil {
		return nil, err
	}
	b, err := internals.ReadDatabase(dbB, false)
	if err != nil {
		return nil, err
	}
	return internals.Diff(a, b), nil
}

// Selfcheck reads db and verifies its outer checksums only; it never
// decodes the body into a Database.
func Selfcheck(db string) error {
	_, err := internals.ReadDatabase(db, true)
	return err
}
