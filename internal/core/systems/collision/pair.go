package collision

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/snakecore/internal/core/models"
)

// Pair is an unordered entity pair, stored with A <= B by id.
type Pair struct {
	A, B *models.Entity
}

func newPair(a, b *models.Entity) Pair {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// pairKey hashes the ordered id pair so (a,b) and (b,a) share a key.
func pairKey(a, b models.EntityID) uint64 {
	if b < a {
		a, b = b, a
	}
	d := xxhash.New()
	_, _ = d.WriteString(string(a))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(string(b))
	return d.Sum64()
}
