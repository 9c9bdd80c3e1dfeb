package internals

import (
	"crypto/sha512"
	"hash"
)

// sha2_512_256 wraps the truncated SHA-512/256 construction, the default
// algorithm named by the AlgoID sha2-512-256.
type sha2_512_256 struct {
	h hash.Hash
}

func newSHA2_512_256() Hasher {
	return &sha2_512_256{h: sha512.New512_256()}
}

func (s *sha2_512_256) ID() AlgoID { return AlgoSHA2_512_256 }

func (s *sha2_512_256) Update(data []byte) {
	s.h.Write(data)
}

func (s *sha2_512_256) Finalize() []byte {
	return s.h.Sum(nil)
}
