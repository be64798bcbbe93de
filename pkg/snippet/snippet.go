// Package snippet synthesizes corrective manifest fragments for
// orphaned library components: a disabled reinstatement of the
// original component, an optional removal component for the leftover
// file or registry key, and the feature wiring for both.
//
// Fragments are suggestions. They are rendered into the report for a
// human to apply; nothing here touches the manifest sources.
package snippet

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// maxIdentifierLen bounds minted identifiers; installer toolchains
// reject longer ids.
const maxIdentifierLen = 72

// NewGUID mints a random component identity in the manifest's
// canonical form: uppercase, no braces.
func NewGUID() string {
	return strings.ToUpper(uuid.NewString())
}

// Identifier derives a stable id from a human-readable name and a
// unique seed: the sanitized name, a dot, and the 32-hex-character
// hash of the seed. The name part is truncated so the whole id never
// exceeds 72 characters. Same inputs, same id, across runs.
func Identifier(name, seed string) string {
	sum := md5.Sum([]byte(seed))
	suffix := hex.EncodeToString(sum[:])

	base := sanitize(name)
	if max := maxIdentifierLen - len(suffix) - 1; len(base) > max {
		base = base[:max]
	}
	return base + "." + suffix
}

// sanitize maps every character outside [A-Za-z0-9_.] to _ and forces
// the first character into [A-Za-z_]. The result is always ASCII, so
// byte truncation is rune-safe.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || !identStart(s[0]) {
		s = "_" + s
	}
	return s
}

func identStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
