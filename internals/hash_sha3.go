package internals

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// sha3_512 wraps golang.org/x/crypto/sha3's 512-bit Keccak construction.
type sha3_512 struct {
	h hash.Hash
}

func newSHA3_512() Hasher {
	return &sha3_512{h: sha3.New512()}
}

func (s *sha3_512) ID() AlgoID { return AlgoSHA3_512 }

func (s *sha3_512) Update(data []byte) {
	s.h.Write(data)
}

func (s *sha3_512) Finalize() []byte {
	return s.h.Sum(nil)
}
