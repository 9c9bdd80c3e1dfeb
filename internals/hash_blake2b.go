package internals

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// blake2b512 wraps golang.org/x/crypto/blake2b's 512-bit output mode.
type blake2b512 struct {
	h hash.Hash
}

func newBLAKE2b512() Hasher {
	h, err := blake2b.New512(nil)
	if err != nil {
		// blake2b.New512 only errors for a too-long key; nil never does.
		panic(err)
	}
	return &blake2b512{h: h}
}

func (b *blake2b512) ID() AlgoID { return AlgoBLAKE2b_512 }

func (b *blake2b512) Update(data []byte) {
	b.h.Write(data)
}

func (b *blake2b512) Finalize() []byte {
	return b.h.Sum(nil)
}
