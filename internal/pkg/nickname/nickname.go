// Package nickname produces random display names of the form
// adjective_noun_NNN. Collisions are possible; callers retry against the
// store.
package nickname

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"amber", "bold", "calm", "clever", "crimson", "eager", "fuzzy",
	"gentle", "keen", "lively", "mellow", "noble", "quick", "quiet",
	"rustic", "silent", "swift", "vivid", "wild", "witty",
}

var nouns = []string{
	"badger", "comet", "falcon", "fox", "glacier", "harbor", "heron",
	"lynx", "maple", "meadow", "otter", "pine", "raven", "reef",
	"sparrow", "summit", "tiger", "trail", "willow", "wolf",
}

type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

func (Generator) Generate() string {
	return fmt.Sprintf("%s_%s_%03d",
		adjectives[randomIndex(len(adjectives))],
		nouns[randomIndex(len(nouns))],
		randomIndex(1000))
}

func randomIndex(n int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is gone
		panic(err)
	}
	return int(i.Int64())
}
