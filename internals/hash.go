package internals

import (
	"fmt"
	"strings"
)

// AlgoID is an alias for string, but specifically can only
// be one of the identifiers for a compiled-in digest algorithm.
type AlgoID string

const (
	AlgoSHA2_512_256 AlgoID = `sha2-512-256`
	AlgoBLAKE2b_512  AlgoID = `blake2b-512`
	AlgoSHA3_512     AlgoID = `sha3-512`
)

// DefaultAlgo is the algorithm used when a caller configures none explicitly.
const DefaultAlgo AlgoID = AlgoSHA2_512_256

// SupportedAlgorithms returns the list of compiled-in algorithm identifiers,
// in lexicographic order.
func SupportedAlgorithms() []AlgoID {
	return []AlgoID{AlgoBLAKE2b_512, AlgoSHA2_512_256, AlgoSHA3_512}
}

// DigestSize returns the output size in bytes for a given algorithm.
func (a AlgoID) DigestSize() int {
	switch a {
	case AlgoSHA2_512_256:
		return 32
	case AlgoBLAKE2b_512:
		return 64
	case AlgoSHA3_512:
		return 64
	}
	return 0
}

// valid reports whether a is one of the algorithms this binary can compute.
func (a AlgoID) valid() bool {
	for _, known := range SupportedAlgorithms() {
		if known == a {
			return true
		}
	}
	return false
}

// NewHasher returns a fresh Hasher instance for the given algorithm.
// It never falls back to a default on an unrecognized identifier; callers
// must check AlgoFromString first, or accept a panic on an invalid
// literal used directly in code.
func (a AlgoID) NewHasher() Hasher {
	switch a {
	case AlgoSHA2_512_256:
		return newSHA2_512_256()
	case AlgoBLAKE2b_512:
		return newBLAKE2b512()
	case AlgoSHA3_512:
		return newSHA3_512()
	}
	panic(fmt.Sprintf("internals: no hasher registered for algorithm %q", string(a)))
}

// AlgoFromString returns an AlgoID, given the algorithm's name as a string.
// It never silently substitutes a default: an unrecognized name is an error.
func AlgoFromString(name string) (AlgoID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	candidate := AlgoID(name)
	if candidate.valid() {
		return candidate, nil
	}
	return "", &UnknownAlgorithmError{ID: name}
}

// Hasher is the minimal interface an algorithm needs to support to be
// usable both by the entry analyzer and by the container codec's header
// checksums: a small set of active instances fed each chunk, no dynamic
// registry.
type Hasher interface {
	// ID returns the AlgoID this instance computes.
	ID() AlgoID
	// Update feeds more bytes into the running digest.
	Update(data []byte)
	// Finalize returns the digest bytes. It does not reset state; callers
	// that need to reuse a Hasher must construct a new one.
	Finalize() []byte
}
