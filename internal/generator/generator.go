package generator

import (
	"math/rand/v2"
	"strings"
)

const (
	// FileNameLength is the length of every generated base name.
	FileNameLength = 6
	// DataLength is the number of characters written to every file.
	DataLength = 4096
)

// Generator produces random names and content. Each instance owns its random
// source, so it must not be shared between goroutines.
type Generator struct {
	rand *rand.Rand
}

// New returns a Generator seeded from the runtime's random source.
func New() *Generator {
	return NewSeeded(rand.Uint64())
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return &Generator{rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Data returns length characters drawn from all four pools. The pool is chosen
// independently for every position.
func (g *Generator) Data(length int) string {
	return g.pick(length, ContentKinds)
}

// FileName returns a FileNameLength base name drawn from NameKinds.
func (g *Generator) FileName() string {
	return g.pick(FileNameLength, NameKinds)
}

func (g *Generator) pick(length int, kinds []CharSetKind) string {
	if length <= 0 || len(kinds) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length)
	for range length {
		pool := kinds[g.rand.IntN(len(kinds))].Chars()
		if pool == "" {
			continue
		}
		sb.WriteByte(pool[g.rand.IntN(len(pool))])
	}
	return sb.String()
}
