package internals

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func buildFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "top.txt"), []byte("top level"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "nested.txt"), []byte("nested"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.Symlink("nested.txt", filepath.Join(root, "sub", "link")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return root
}

func TestWalkProducesExpectedEntries(t *testing.T) {
	root := buildFixtureTree(t)

	db, errs := Walk(context.Background(), WalkOptions{
		Root:  root,
		Algos: []AlgoID{AlgoSHA2_512_256},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected walk errors: %v", errs)
	}

	for _, path := range []string{"", "sub", "top.txt", "sub/nested.txt", "sub/link"} {
		if _, ok := db.Get(path); !ok {
			t.Errorf("expected database to contain path %q", path)
		}
	}

	fileEntry, ok := db.Get("top.txt")
	if !ok {
		t.Fatalf("missing top.txt")
	}
	if fileEntry.Kind() != KindFile {
		t.Errorf("expected top.txt to be a file entry")
	}

	linkEntry, ok := db.Get("sub/link")
	if !ok {
		t.Fatalf("missing sub/link")
	}
	if linkEntry.Kind() != KindSymlink {
		t.Errorf("expected sub/link to be a symlink entry")
	}
}

func TestWalkHonorsShouldVisit(t *testing.T) {
	root := buildFixtureTree(t)

	db, _ := Walk(context.Background(), WalkOptions{
		Root: root,
		ShouldVisit: func(rel string) bool {
			return rel != "sub"
		},
		Algos: []AlgoID{AlgoSHA2_512_256},
	})

	if _, ok := db.Get("sub"); ok {
		t.Errorf("expected sub to be excluded by ShouldVisit")
	}
	if _, ok := db.Get("sub/nested.txt"); ok {
		t.Errorf("expected sub's contents to be excluded when sub itself is excluded")
	}
	if _, ok := db.Get("top.txt"); !ok {
		t.Errorf("expected top.txt to still be present")
	}
}

func TestWalkDeterministicAcrossWorkerCounts(t *testing.T) {
	root := buildFixtureTree(t)

	db1, _ := Walk(context.Background(), WalkOptions{Root: root, Algos: []AlgoID{AlgoSHA2_512_256}, Workers: 1})
	db4, _ := Walk(context.Background(), WalkOptions{Root: root, Algos: []AlgoID{AlgoSHA2_512_256}, Workers: 4})

	if !db1.Equal(db4) {
		t.Fatalf("expected identical databases regardless of worker count")
	}
}
