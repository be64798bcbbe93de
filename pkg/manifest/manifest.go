// Package manifest builds a read-only index over an ordered list of
// installer manifest sources (WiX-shaped XML): components by GUID and
// id, feature-to-component references, and file declarations.
//
// Lookups scan sources in list order and return the first match, so a
// corrections overlay listed after the primary source supplies answers
// only where the primary is silent. Once built, an Index is immutable
// and safe for concurrent use.
package manifest

import (
	"strings"

	"patchcheck/pkg/logging"
)

var log = logging.GetLogger("manifest")

// ComponentRecord is one component declaration.
type ComponentRecord struct {
	// GUID is normalized: uppercase, no braces. Empty when the
	// declaration carries no GUID.
	GUID        string
	ID          string
	DirectoryID string
}

// NormalizeGUID uppercases a component GUID and strips braces so
// comparisons are case- and brace-insensitive.
func NormalizeGUID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return strings.ToUpper(s)
}
