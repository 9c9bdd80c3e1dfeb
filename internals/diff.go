package internals

import "bytes"

// ChangeKind names one of the ways two entries at the same path can differ.
type ChangeKind string

const (
	ChangeAdded             ChangeKind = "added"
	ChangeRemoved           ChangeKind = "removed"
	ChangeKindChanged       ChangeKind = "kind_changed"
	ChangeSymlinkRetargeted ChangeKind = "symlink_retargeted"
	ChangeContentChanged    ChangeKind = "content_changed"
	ChangeMetadataOnly      ChangeKind = "metadata_only"
	ChangeHashDisagreement  ChangeKind = "hash_disagreement"
)

// Classification is the benign/suspicious verdict attached to every Change.
type Classification string

const (
	Benign     Classification = "benign"
	Suspicious Classification = "suspicious"
)

// Annotation names a secondary observation reported alongside a Change's
// primary Kind (Truncated, NulAppeared): these are additive, not
// alternatives to the Kind.
type Annotation string

const (
	AnnotationTruncated   Annotation = "truncated"
	AnnotationNulAppeared Annotation = "nul_appeared"
)

// Change is one path's diff record.
type Change struct {
	Path           string
	Old            Entry // nil if the path did not exist in A
	New            Entry // nil if the path does not exist in B
	Kind           ChangeKind
	Class          Classification
	Annotations    []Annotation
	DisagreementOn string // set only for ChangeHashDisagreement: the reason
}

// Diff compares two databases and returns their Change records in
// lexicographic path order.
//
// Both Paths() slices are already sorted, so a two-pointer merge finds
// additions, removals, and shared paths in one linear pass without
// building an intermediate set.
func Diff(a, b *Database) []Change {
	aPaths := a.Paths()
	bPaths := b.Paths()

	var changes []Change
	i, j := 0, 0
	for i < len(aPaths) && j < len(bPaths) {
		switch {
		case aPaths[i] < bPaths[j]:
			path := aPaths[i]
			old, _ := a.Get(path)
			changes = append(changes, Change{Path: path, Old: old, Kind: ChangeRemoved, Class: Benign})
			i++
		case aPaths[i] > bPaths[j]:
			path := bPaths[j]
			newEntry, _ := b.Get(path)
			changes = append(changes, Change{Path: path, New: newEntry, Kind: ChangeAdded, Class: Benign})
			j++
		default:
			path := aPaths[i]
			old, _ := a.Get(path)
			newEntry, _ := b.Get(path)
			if change, changed := diffEntry(path, old, newEntry); changed {
				changes = append(changes, change)
			}
			i++
			j++
		}
	}
	for ; i < len(aPaths); i++ {
		path := aPaths[i]
		old, _ := a.Get(path)
		changes = append(changes, Change{Path: path, Old: old, Kind: ChangeRemoved, Class: Benign})
	}
	for ; j < len(bPaths); j++ {
		path := bPaths[j]
		newEntry, _ := b.Get(path)
		changes = append(changes, Change{Path: path, New: newEntry, Kind: ChangeAdded, Class: Benign})
	}

	return changes
}

// diffEntry compares two entries known to share a path and returns the
// Change to report, if any. The second return value is false when old and
// newEntry are indistinguishable under this classifier. Diff emits no
// record at all in that case: Change is a stream of *differences*, not a
// record per shared path.
func diffEntry(path string, old, newEntry Entry) (Change, bool) {
	if old.Kind() != newEntry.Kind() {
		return Change{Path: path, Old: old, New: newEntry, Kind: ChangeKindChanged, Class: Suspicious}, true
	}

	switch oldTyped := old.(type) {
	case *DirEntry:
		// Directory entries are presence-only; both exist, nothing to compare.
		return Change{}, false

	case *SymlinkEntry:
		newTyped := newEntry.(*SymlinkEntry)
		if !bytes.Equal(oldTyped.Target, newTyped.Target) {
			return Change{Path: path, Old: old, New: newEntry, Kind: ChangeSymlinkRetargeted, Class: Benign}, true
		}
		return Change{}, false

	case *FileEntry:
		newTyped := newEntry.(*FileEntry)
		return diffFile(path, oldTyped, newTyped)
	}

	// unreachable: Kind() only ever returns one of the three cases above.
	return Change{}, false
}

func diffFile(path string, old, newEntry *FileEntry) (Change, bool) {
	shared := sharedAlgos(old.Hashes, newEntry.Hashes)

	change := Change{Path: path, Old: old, New: newEntry}
	changed := true

	if len(shared) == 0 {
		change.Kind = ChangeHashDisagreement
		change.Class = Suspicious
		change.DisagreementOn = "no-common-algorithm"
	} else {
		agreeEqual, agreeDiffer := false, false
		for _, algo := range shared {
			if bytes.Equal(old.Hashes[algo], newEntry.Hashes[algo]) {
				agreeEqual = true
			} else {
				agreeDiffer = true
			}
		}
		switch {
		case agreeEqual && agreeDiffer:
			change.Kind = ChangeHashDisagreement
			change.Class = Suspicious
			change.DisagreementOn = "shared algorithms disagree"
		case agreeDiffer:
			change.Kind = ChangeContentChanged
			change.Class = Benign
		case old.MtimeNs != newEntry.MtimeNs:
			change.Kind = ChangeMetadataOnly
			change.Class = Benign
		default:
			changed = false
		}
	}

	if newEntry.Size == 0 && old.Size > 0 {
		change.Annotations = append(change.Annotations, AnnotationTruncated)
		changed = true
	}
	if !old.HasFlag(FlagHasNul) && newEntry.HasFlag(FlagHasNul) {
		change.Annotations = append(change.Annotations, AnnotationNulAppeared)
		changed = true
	}

	return change, changed
}

func sharedAlgos(a, b map[AlgoID][]byte) []AlgoID {
	var shared []AlgoID
	for algo := range a {
		if _, ok := b[algo]; ok {
			shared = append(shared, algo)
		}
	}
	return shared
}

// IsSuspicious reports whether any change or annotation in changes is
// classified suspicious, used by the CLI to select exit code 2.
func IsSuspicious(changes []Change) bool {
	for _, c := range changes {
		if c.Class == Suspicious || len(c.Annotations) > 0 {
			return true
		}
	}
	return false
}

// HasChanges reports whether changes is non-empty, used by the CLI to
// select between exit code 0 and 1.
func HasChanges(changes []Change) bool {
	return len(changes) > 0
}
