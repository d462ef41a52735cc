package nickname

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var nicknameShape = regexp.MustCompile(`^[a-z]+_[a-z]+_\d{3}$`)

func TestGenerator_Shape(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 50; i++ {
		assert.Regexp(t, nicknameShape, g.Generate())
	}
}

func TestGenerator_Varies(t *testing.T) {
	g := NewGenerator()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Generate()] = true
	}
	// 400k combinations; 200 draws collapsing to a handful would mean a
	// broken RNG
	assert.Greater(t, len(seen), 100)
}
