// Test Type: Unit Test
// Tests identifier derivation and GUID minting.
package snippet_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchcheck/pkg/snippet"
)

var hexSuffix = regexp.MustCompile(`\.[0-9a-f]{32}$`)

func TestIdentifier(t *testing.T) {
	t.Run("name_dot_hash_shape", func(t *testing.T) {
		id := snippet.Identifier("core.dll", "bin/core.dll")
		assert.True(t, strings.HasPrefix(id, "core.dll."))
		assert.Regexp(t, hexSuffix, id)
		assert.Len(t, id, len("core.dll")+1+32)
	})

	t.Run("deterministic_across_runs", func(t *testing.T) {
		a := snippet.Identifier("core.dll", "bin/core.dll")
		b := snippet.Identifier("core.dll", "bin/core.dll")
		assert.Equal(t, a, b)
	})

	t.Run("seed_disambiguates_equal_names", func(t *testing.T) {
		a := snippet.Identifier("core.dll", "bin/core.dll")
		b := snippet.Identifier("core.dll", "lib/core.dll")
		assert.NotEqual(t, a, b)
	})

	t.Run("sanitizes_forbidden_characters", func(t *testing.T) {
		id := snippet.Identifier("my file (x86).dll", "seed")
		assert.True(t, strings.HasPrefix(id, "my_file__x86_.dll."))
	})

	t.Run("forces_leading_character", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(snippet.Identifier("7zip.dll", "seed"), "_7zip.dll."))
		assert.True(t, strings.HasPrefix(snippet.Identifier(".hidden", "seed"), "_.hidden."))
		assert.True(t, strings.HasPrefix(snippet.Identifier("", "seed"), "_."))
	})

	t.Run("never_exceeds_72_characters", func(t *testing.T) {
		long := strings.Repeat("verylongname", 20)
		id := snippet.Identifier(long, "seed")
		assert.Len(t, id, 72)
		assert.Regexp(t, hexSuffix, id)
	})
}

func TestNewGUID(t *testing.T) {
	g := snippet.NewGUID()

	_, err := uuid.Parse(g)
	require.NoError(t, err)
	assert.Len(t, g, 36)
	assert.Equal(t, strings.ToUpper(g), g)
	assert.NotContains(t, g, "{")

	assert.NotEqual(t, g, snippet.NewGUID())
}
