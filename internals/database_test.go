package internals

import "testing"

func TestDatabasePathsSorted(t *testing.T) {
	db := NewDatabase()
	db.Insert("b", &DirEntry{})
	db.Insert("a", &DirEntry{})
	db.Insert("c", &DirEntry{})

	paths := db.Paths()
	want := []string{"a", "b", "c"}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("Paths()=%v, want %v", paths, want)
		}
	}
}

func TestDatabaseEqualByContentNotOrder(t *testing.T) {
	a := NewDatabase()
	a.Insert("x", &DirEntry{})
	a.Insert("y", &FileEntry{Size: 3, MtimeNs: 1, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: []byte{1, 2, 3}}})

	b := NewDatabase()
	b.Insert("y", &FileEntry{Size: 3, MtimeNs: 1, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: []byte{1, 2, 3}}})
	b.Insert("x", &DirEntry{})

	if !a.Equal(b) {
		t.Fatalf("expected content-equal databases inserted in different orders to be Equal")
	}
}

func TestDatabaseNotEqualOnDigestDifference(t *testing.T) {
	a := NewDatabase()
	a.Insert("f", &FileEntry{Size: 1, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: []byte{1}}})

	b := NewDatabase()
	b.Insert("f", &FileEntry{Size: 1, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: []byte{2}}})

	if a.Equal(b) {
		t.Fatalf("expected databases with differing digests to not be Equal")
	}
}
