package internals

import (
	"io"
	"os"
)

// analysisChunkSize is the read buffer size used by AnalyzeFile: large
// enough to amortize syscall overhead on big files without holding more
// than one buffer's worth of file content in memory at a time.
const analysisChunkSize = 64 * 1024

// AnalyzeFile reads path once, feeding every hasher named by algos and
// accumulating the has_nul/has_non_ascii content heuristics, and returns
// the resulting FileEntry. size reflects bytes actually read, not a prior
// stat call; mtimeNs is captured from the file's metadata after the read
// completes.
func AnalyzeFile(path string, algos []AlgoID) (*FileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	defer f.Close()

	hashers := make([]Hasher, len(algos))
	for i, algo := range algos {
		hashers[i] = algo.NewHasher()
	}

	var size uint64
	var hasNul, hasNonASCII bool
	buf := make([]byte, analysisChunkSize)

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			for _, h := range hashers {
				h.Update(chunk)
			}
			if !hasNul || !hasNonASCII {
				for _, b := range chunk {
					if b == 0x00 {
						hasNul = true
					}
					if b >= 0x80 {
						hasNonASCII = true
					}
				}
			}
			size += uint64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, &IoError{Path: path, Err: readErr}
		}
	}

	info, err := f.Stat()
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}

	hashes := make(map[AlgoID][]byte, len(hashers))
	for _, h := range hashers {
		hashes[h.ID()] = h.Finalize()
	}

	var flags []ContentFlag
	if hasNul {
		flags = append(flags, FlagHasNul)
	}
	if hasNonASCII {
		flags = append(flags, FlagHasNonASCII)
	}

	return &FileEntry{
		Size:    size,
		MtimeNs: info.ModTime().UnixNano(),
		Hashes:  hashes,
		Flags:   flags,
	}, nil
}
