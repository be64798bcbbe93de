// Package version implements the packed ordinal encoding the patch
// engine uses to compare file versions.
//
// A version string holds up to four dot-separated numeric segments,
// each in the range [0, 65535]. Segments are packed into a single
// 64-bit ordinal with the first segment most significant, so numeric
// comparison of two ordinals agrees with segment-wise comparison of
// the original strings. The patch engine ignores the fourth segment
// when deciding applicability; Truncate3 implements that projection.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Ordinal is the order-preserving packed encoding of a version string.
type Ordinal uint64

// Zero is the ordinal of the empty version string. It compares
// less-than-or-equal to every other ordinal.
const Zero Ordinal = 0

// maxSegments is fixed by the patch-tool convention: a version has at
// most four segments and each must fit in 16 bits.
const (
	maxSegments  = 4
	maxSegment   = 65535
	segmentWidth = 16
)

// InvalidVersionError reports a version string that cannot be encoded.
type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Encode packs a dot-separated version string into an Ordinal.
// The empty string encodes to Zero; it is used only for comparison
// short-circuits and is never reported as a real version.
func Encode(s string) (Ordinal, error) {
	if s == "" {
		return Zero, nil
	}

	segments := strings.Split(s, ".")
	if len(segments) > maxSegments {
		return Zero, &InvalidVersionError{
			Input:  s,
			Reason: fmt.Sprintf("has %d segments, at most %d are representable", len(segments), maxSegments),
		}
	}

	var ord Ordinal
	for i, seg := range segments {
		n, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			return Zero, &InvalidVersionError{
				Input:  s,
				Reason: fmt.Sprintf("segment %d (%q) is not numeric", i+1, seg),
			}
		}
		if n > maxSegment {
			return Zero, &InvalidVersionError{
				Input:  s,
				Reason: fmt.Sprintf("segment %d (%d) exceeds %d", i+1, n, maxSegment),
			}
		}
		shift := uint((maxSegments - 1 - i) * segmentWidth)
		ord |= Ordinal(n) << shift
	}

	return ord, nil
}

// Compare returns -1, 0 or +1 depending on whether a orders before,
// equal to, or after b.
func Compare(a, b Ordinal) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Truncate3 drops the fourth segment, implementing the patch engine's
// ignored-segment rule: two versions whose first three segments match
// are the same version as far as patch applicability is concerned.
func (o Ordinal) Truncate3() Ordinal {
	return o &^ Ordinal(maxSegment)
}

// Segment returns the i-th segment (0-based) of the ordinal.
func (o Ordinal) Segment(i int) uint16 {
	shift := uint((maxSegments - 1 - i) * segmentWidth)
	return uint16(o >> shift)
}

// String renders the canonical four-segment form, e.g. "1.2.3.4".
func (o Ordinal) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", o.Segment(0), o.Segment(1), o.Segment(2), o.Segment(3))
}

// IsZeroVersion reports whether s is a declared version equal to
// 0.0.0.0: non-empty and encoding to the zero ordinal. The empty
// string is not a zero version, it is the absence of one.
func IsZeroVersion(s string) bool {
	if s == "" {
		return false
	}
	ord, err := Encode(s)
	if err != nil {
		return false
	}
	return ord == Zero
}
