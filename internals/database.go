package internals

import (
	"bytes"
	"sort"
)

// Database is a mapping from path key to Entry. Path keys are
// '/'-separated, relative to the scan root, and unique. The collector
// goroutine in Walk is the sole writer during a build; once handed to a
// consumer it is treated as immutable.
type Database struct {
	entries map[string]Entry
}

// NewDatabase returns an empty Database ready for Insert.
func NewDatabase() *Database {
	return &Database{entries: make(map[string]Entry)}
}

// Insert records entry under path, overwriting any prior entry at that key.
func (d *Database) Insert(path string, entry Entry) {
	d.entries[path] = entry
}

// Get returns the entry at path, and whether one was present.
func (d *Database) Get(path string) (Entry, bool) {
	e, ok := d.entries[path]
	return e, ok
}

// Paths returns every path key, in lexicographic byte order.
func (d *Database) Paths() []string {
	paths := make([]string, 0, len(d.entries))
	for p := range d.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of entries in the database.
func (d *Database) Len() int { return len(d.entries) }

// Equal reports whether d and other hold the same paths mapped to
// content-equal entries. Comparison is by content, not insertion order.
func (d *Database) Equal(other *Database) bool {
	if d.Len() != other.Len() {
		return false
	}
	for path, entry := range d.entries {
		otherEntry, ok := other.entries[path]
		if !ok || !entriesEqual(entry, otherEntry) {
			return false
		}
	}
	return true
}

func entriesEqual(a, b Entry) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *DirEntry:
		return true
	case *SymlinkEntry:
		bv := b.(*SymlinkEntry)
		return bytes.Equal(av.Target, bv.Target)
	case *FileEntry:
		bv := b.(*FileEntry)
		if av.Size != bv.Size || av.MtimeNs != bv.MtimeNs {
			return false
		}
		if len(av.Hashes) != len(bv.Hashes) {
			return false
		}
		for algo, digest := range av.Hashes {
			otherDigest, ok := bv.Hashes[algo]
			if !ok || !bytes.Equal(digest, otherDigest) {
				return false
			}
		}
		if len(av.Flags) != len(bv.Flags) {
			return false
		}
		for _, flag := range av.Flags {
			if !bv.HasFlag(flag) {
				return false
			}
		}
		return true
	}
	return false
}

// SortedAlgoIDs returns the keys of hashes in lexicographic order, the
// order canonical encoding emits them in.
func SortedAlgoIDs(hashes map[AlgoID][]byte) []AlgoID {
	ids := make([]AlgoID, 0, len(hashes))
	for id := range hashes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedFlags returns flags sorted lexicographically, so canonical
// encoding always emits them in the same order.
func SortedFlags(flags []ContentFlag) []ContentFlag {
	sorted := make([]ContentFlag, len(flags))
	copy(sorted, flags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
