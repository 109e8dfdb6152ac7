package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults_Complete(t *testing.T) {
	seen := make(map[string]bool)
	for _, seed := range Defaults {
		assert.False(t, seen[seed.Slug], "duplicate slug %s", seed.Slug)
		seen[seed.Slug] = true

		for _, lang := range Languages {
			assert.NotEmpty(t, seed.Names[lang], "%s has no %s name", seed.Slug, lang)
		}
	}
}
