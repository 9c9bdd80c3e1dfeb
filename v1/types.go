package v1

import "github.com/elliottslaughter/integrity-checker/internals"

// Change and Classification alias the internals diff vocabulary under a
// distinct v1 name, so callers importing only v1 never need to know
// package internals exists.
type Change = internals.Change
type ChangeKind = internals.ChangeKind
type Classification = internals.Classification

// BuildOptions configures Build.
type BuildOptions struct {
	Algos       []internals.AlgoID
	Force       bool
	ShouldVisit internals.ShouldVisit
	Workers     int
}

// BuildResult carries a build's outcome once the artifact was written: any
// per-entry IoErrors the scan collected.
type BuildResult struct {
	Errors []error
}
