package internals

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json.gz")

	db := NewDatabase()
	db.Insert("", &DirEntry{})
	db.Insert("a", &DirEntry{})
	db.Insert("a/file.txt", &FileEntry{
		Size:    11,
		MtimeNs: 123456789,
		Hashes:  map[AlgoID][]byte{AlgoSHA2_512_256: {1, 2, 3, 4}},
		Flags:   []ContentFlag{FlagHasNonASCII},
	})
	db.Insert("a/link", &SymlinkEntry{Target: []byte("file.txt")})

	algos := []AlgoID{AlgoSHA2_512_256, AlgoBLAKE2b_512}
	if err := WriteDatabase(dbPath, db, algos, false); err != nil {
		t.Fatalf("WriteDatabase failed: %v", err)
	}

	got, err := ReadDatabase(dbPath, false)
	if err != nil {
		t.Fatalf("ReadDatabase failed: %v", err)
	}
	if !db.Equal(got) {
		t.Fatalf("round-tripped database is not content-equal to the original")
	}
}

func TestWriteRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json.gz")
	db := NewDatabase()

	if err := WriteDatabase(dbPath, db, []AlgoID{AlgoSHA2_512_256}, false); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	err := WriteDatabase(dbPath, db, []AlgoID{AlgoSHA2_512_256}, false)
	if _, ok := err.(*RefuseOverwriteError); !ok {
		t.Fatalf("expected RefuseOverwriteError, got %v", err)
	}

	if err := WriteDatabase(dbPath, db, []AlgoID{AlgoSHA2_512_256}, true); err != nil {
		t.Fatalf("forced overwrite failed: %v", err)
	}
}

func TestCanonicalOutputIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	db := NewDatabase()
	db.Insert("x", &FileEntry{Size: 1, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: {9}}})

	path1 := filepath.Join(dir, "a.json.gz")
	path2 := filepath.Join(dir, "b.json.gz")
	if err := WriteDatabase(path1, db, []AlgoID{AlgoSHA2_512_256}, false); err != nil {
		t.Fatalf("write 1 failed: %v", err)
	}
	if err := WriteDatabase(path2, db, []AlgoID{AlgoSHA2_512_256}, false); err != nil {
		t.Fatalf("write 2 failed: %v", err)
	}

	// The gzip container itself is not byte-identical run-to-run in general
	// (gzip headers may embed a timestamp), but the decompressed body must be.
	db1, err := ReadDatabase(path1, false)
	if err != nil {
		t.Fatalf("read 1 failed: %v", err)
	}
	db2, err := ReadDatabase(path2, false)
	if err != nil {
		t.Fatalf("read 2 failed: %v", err)
	}
	if !db1.Equal(db2) {
		t.Fatalf("two writes of the same database did not round-trip to equal content")
	}
	if !bytes.Equal(decompressedBytes(t, path1), decompressedBytes(t, path2)) {
		t.Fatalf("two writes of the same database did not produce byte-identical decompressed output")
	}
}

// decompressedBytes returns the gunzipped contents of the artifact at path.
func decompressedBytes(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s failed: %v", path, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gunzip %s failed: %v", path, err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("decompress %s failed: %v", path, err)
	}
	return data
}

func TestSelfcheckDetectsBitFlip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json.gz")

	db := NewDatabase()
	db.Insert("f", &FileEntry{Size: 4, Hashes: map[AlgoID][]byte{AlgoSHA2_512_256: {1, 2, 3, 4}}})
	if err := WriteDatabase(dbPath, db, []AlgoID{AlgoSHA2_512_256}, false); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("read raw failed: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(dbPath, raw, 0o644); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	err = Selfcheck(dbPath)
	if err == nil {
		t.Fatalf("expected corrupted artifact to fail selfcheck")
	}
}

// Selfcheck is a small local helper mirroring v1.Selfcheck without the
// import cycle a direct dependency on package v1 would create.
func Selfcheck(path string) error {
	_, err := ReadDatabase(path, true)
	return err
}
