package internals

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// jsonEntry mirrors the on-disk entry schema, for decode purposes only.
// Decoding is order-tolerant (encoding/json handles that for us); encoding
// never uses this type directly, since canonical output requires
// byte-exact key order that Marshal on a struct with map fields cannot
// guarantee.
type jsonEntry struct {
	Path    string            `json:"path"`
	Kind    string            `json:"kind"`
	Size    *uint64           `json:"size,omitempty"`
	MtimeNs *int64            `json:"mtime_ns,omitempty"`
	Hashes  map[string]string `json:"hashes,omitempty"`
	Flags   []string          `json:"flags,omitempty"`
	Target  string            `json:"target,omitempty"`
}

type jsonDatabase struct {
	Entries []jsonEntry `json:"entries"`
}

type jsonHeader struct {
	Length uint64            `json:"length"`
	Hashes map[string]string `json:"hashes"`
}

// encodeBody serializes db to canonical JSON bytes: paths in
// lexicographic byte order, hashes lexicographic by AlgoID, flags
// lexicographic, and a fixed member order per entity. encoding/json does
// not guarantee any of that for map-typed struct fields, so the body is
// hand-assembled byte by byte instead of delegating to a generic marshaler.
func encodeBody(db *Database) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"entries":[`)
	paths := db.Paths()
	for i, path := range paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		entry, _ := db.Get(path)
		writeEntryJSON(&buf, path, entry)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func writeEntryJSON(buf *bytes.Buffer, path string, entry Entry) {
	buf.WriteString(`{"path":`)
	writeJSONString(buf, base64.StdEncoding.EncodeToString([]byte(path)))

	switch e := entry.(type) {
	case *DirEntry:
		buf.WriteString(`,"kind":"dir"`)
	case *SymlinkEntry:
		buf.WriteString(`,"kind":"symlink","target":`)
		writeJSONString(buf, base64.StdEncoding.EncodeToString(e.Target))
	case *FileEntry:
		buf.WriteString(`,"kind":"file","size":`)
		fmt.Fprintf(buf, "%d", e.Size)
		buf.WriteString(`,"mtime_ns":`)
		fmt.Fprintf(buf, "%d", e.MtimeNs)
		buf.WriteString(`,"hashes":{`)
		for i, algo := range SortedAlgoIDs(e.Hashes) {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, string(algo))
			buf.WriteByte(':')
			writeJSONString(buf, base64.StdEncoding.EncodeToString(e.Hashes[algo]))
		}
		buf.WriteString(`},"flags":[`)
		for i, flag := range SortedFlags(e.Flags) {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, string(flag))
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
}

func writeJSONString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s) // safe: json.Marshal on a string never fails or reorders.
	buf.Write(encoded)
}

// encodeHeader serializes a header object to canonical JSON, keys in a
// fixed order: length, then hashes with AlgoIDs lexicographically ordered.
func encodeHeader(bodyLen int, digests map[AlgoID][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"length":`)
	fmt.Fprintf(&buf, "%d", bodyLen)
	buf.WriteString(`,"hashes":{`)
	ids := SortedAlgoIDs(digests)
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, string(id))
		buf.WriteByte(':')
		writeJSONString(&buf, base64.StdEncoding.EncodeToString(digests[id]))
	}
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// WriteDatabase writes a canonical JSON body, a header carrying digests of
// that body under every algo in algos, gzip-compressed, written atomically
// via a temp file + rename.
func WriteDatabase(path string, db *Database, algos []AlgoID, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &RefuseOverwriteError{Path: path}
		} else if !os.IsNotExist(err) {
			return &IoError{Path: path, Err: err}
		}
	}

	body := encodeBody(db)

	digests := make(map[AlgoID][]byte, len(algos))
	for _, algo := range algos {
		h := algo.NewHasher()
		h.Update(body)
		digests[algo] = h.Finalize()
	}
	header := encodeHeader(len(body), digests)

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IoError{Path: tmpPath, Err: err}
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(header); err != nil {
		gz.Close()
		f.Close()
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}
	if _, err := gz.Write([]byte{'\n'}); err != nil {
		gz.Close()
		f.Close()
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}
	if _, err := gz.Write(body); err != nil {
		gz.Close()
		f.Close()
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return &IoError{Path: tmpPath, Err: err}
	}

	if force {
		os.Remove(path) // best-effort: rename below may still succeed cross-platform without this.
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IoError{Path: path, Err: err}
	}
	return nil
}

// ReadDatabase gunzips path, locates the header/body separator, verifies
// every intersecting algorithm's digest, then decodes the body's JSON
// schema into a Database.
//
// If verifyOnly is true, ReadDatabase performs the checksum verification
// (this is all Selfcheck needs) and returns without decoding the body
// into a Database.
func ReadDatabase(path string, verifyOnly bool) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, &MalformedError{Reason: fmt.Sprintf("not a valid gzip stream: %v", err)}
	}
	defer gz.Close()

	all, err := io.ReadAll(gz)
	if err != nil {
		return nil, &MalformedError{Reason: fmt.Sprintf("failed to decompress: %v", err)}
	}

	sep := bytes.IndexByte(all, '\n')
	if sep < 0 {
		return nil, &MalformedError{Reason: "missing header/body separator"}
	}
	headerBytes := all[:sep]
	body := all[sep+1:]

	var header jsonHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, &MalformedError{Reason: fmt.Sprintf("header is not valid JSON: %v", err)}
	}

	// Digests are compared before the length check, so extra or missing
	// body bytes are reported as a ChecksumMismatchError.
	knownAny := false
	for idStr, expectedB64 := range header.Hashes {
		algo, err := AlgoFromString(idStr)
		if err != nil {
			continue // unknown algorithm in header: verify only against algorithms we can compute
		}
		knownAny = true

		expected, err := base64.StdEncoding.DecodeString(expectedB64)
		if err != nil {
			return nil, &MalformedError{Reason: fmt.Sprintf("header digest for %q is not valid base64", idStr)}
		}
		h := algo.NewHasher()
		h.Update(body)
		actual := h.Finalize()
		if !bytes.Equal(actual, expected) {
			return nil, &ChecksumMismatchError{Algo: idStr}
		}
	}
	if !knownAny {
		return nil, &UnknownAlgorithmError{ID: "(none of the header's algorithms are known to this binary)"}
	}
	if header.Length != uint64(len(body)) {
		return nil, &MalformedError{Reason: "body length mismatch"}
	}

	if verifyOnly {
		return nil, nil
	}

	var jdb jsonDatabase
	if err := json.Unmarshal(body, &jdb); err != nil {
		return nil, &MalformedError{Reason: fmt.Sprintf("body is not valid JSON: %v", err)}
	}

	db := NewDatabase()
	for _, je := range jdb.Entries {
		pathBytes, err := base64.StdEncoding.DecodeString(je.Path)
		if err != nil {
			return nil, &MalformedError{Reason: fmt.Sprintf("entry path %q is not valid base64", je.Path)}
		}
		path := string(pathBytes)

		switch je.Kind {
		case "dir":
			db.Insert(path, &DirEntry{})
		case "symlink":
			target, err := base64.StdEncoding.DecodeString(je.Target)
			if err != nil {
				return nil, &MalformedError{Reason: fmt.Sprintf("symlink target for %q is not valid base64", path)}
			}
			db.Insert(path, &SymlinkEntry{Target: target})
		case "file":
			if je.Size == nil || je.MtimeNs == nil {
				return nil, &MalformedError{Reason: fmt.Sprintf("file entry %q missing size or mtime_ns", path)}
			}
			hashes := make(map[AlgoID][]byte, len(je.Hashes))
			for idStr, digestB64 := range je.Hashes {
				digest, err := base64.StdEncoding.DecodeString(digestB64)
				if err != nil {
					return nil, &MalformedError{Reason: fmt.Sprintf("digest for %q/%s is not valid base64", path, idStr)}
				}
				hashes[AlgoID(idStr)] = digest
			}
			flags := make([]ContentFlag, 0, len(je.Flags))
			for _, fl := range je.Flags {
				flags = append(flags, ContentFlag(fl))
			}
			if len(hashes) == 0 {
				return nil, &MalformedError{Reason: fmt.Sprintf("file entry %q has no hashes", path)}
			}
			db.Insert(path, &FileEntry{
				Size:    *je.Size,
				MtimeNs: *je.MtimeNs,
				Hashes:  hashes,
				Flags:   flags,
			})
		default:
			return nil, &MalformedError{Reason: fmt.Sprintf("entry %q has unknown kind %q", path, je.Kind)}
		}
	}

	return db, nil
}

// TempPathFor returns the temporary path WriteDatabase uses while writing
// target, exposed so tests and recovery tooling can locate it.
func TempPathFor(target string) string {
	return filepath.Clean(target) + ".tmp"
}
