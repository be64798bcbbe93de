// Test Type: Unit Test
// Description: Tests for the version ordinal codec - encoding, ordering,
// and the ignored-fourth-segment projection

package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchcheck/pkg/version"
)

func TestEncode(t *testing.T) {
	t.Run("valid_versions", func(t *testing.T) {
		tests := []struct {
			input string
			want  version.Ordinal
		}{
			{"", 0},
			{"0", 0},
			{"1", 1 << 48},
			{"1.2", 1<<48 | 2<<32},
			{"1.2.3", 1<<48 | 2<<32 | 3<<16},
			{"1.2.3.4", 1<<48 | 2<<32 | 3<<16 | 4},
			{"65535.65535.65535.65535", 0xFFFFFFFFFFFFFFFF},
			{"0.0.0.0", 0},
		}

		for _, tt := range tests {
			got, err := version.Encode(tt.input)
			require.NoError(t, err, "Encode(%q)", tt.input)
			assert.Equal(t, tt.want, got, "Encode(%q)", tt.input)
		}
	})

	t.Run("invalid_versions", func(t *testing.T) {
		tests := []struct {
			input string
		}{
			{"1.2.3.4.5"},   // five segments
			{"65536"},       // segment out of range
			{"1.65536.0.0"}, // inner segment out of range
			{"1.x.3"},       // non-numeric
			{"1..3"},        // empty segment
			{"-1.0"},        // sign not permitted
			{"1.2.3.4 "},    // stray whitespace
			{"v1.2.3"},      // installer versions carry no prefix
		}

		for _, tt := range tests {
			_, err := version.Encode(tt.input)
			require.Error(t, err, "Encode(%q) should fail", tt.input)

			var invalid *version.InvalidVersionError
			require.ErrorAs(t, err, &invalid, "Encode(%q)", tt.input)
			assert.Equal(t, tt.input, invalid.Input)
			assert.NotEmpty(t, invalid.Reason)
		}
	})
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3.4", "1.2.3.4", 0},
		{"1.2.3.4", "1.2.3.5", -1},
		{"1.2.3.5", "1.2.3.4", 1},
		{"1.2.3", "1.2.3.0", 0}, // missing segments are zero
		{"2.0", "1.65535.65535.65535", 1},
		{"0.0.0.1", "0.0.1.0", -1},
		{"", "0.0.0.1", -1}, // empty string orders below everything non-zero
		{"", "0.0.0.0", 0},
	}

	for _, tt := range tests {
		a, err := version.Encode(tt.a)
		require.NoError(t, err)
		b, err := version.Encode(tt.b)
		require.NoError(t, err)

		assert.Equal(t, tt.want, version.Compare(a, b), "Compare(%q, %q)", tt.a, tt.b)
	}
}

// Compare must agree with segment-wise numeric comparison, most
// significant segment first.
func TestCompareAgreesWithSegmentOrder(t *testing.T) {
	versions := []string{
		"0", "0.0.0.1", "0.0.1", "0.1", "0.1.0.9", "1",
		"1.0.0.1", "1.2", "1.2.3", "1.2.3.4", "1.2.3.9",
		"1.10", "2", "65535.65535.65535.65535",
	}

	for i, vi := range versions {
		for j, vj := range versions {
			a, err := version.Encode(vi)
			require.NoError(t, err)
			b, err := version.Encode(vj)
			require.NoError(t, err)

			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			assert.Equal(t, want, version.Compare(a, b), "Compare(%q, %q)", vi, vj)
		}
	}
}

func TestTruncate3(t *testing.T) {
	t.Run("only_fourth_segment_differs", func(t *testing.T) {
		a, err := version.Encode("1.2.3.4")
		require.NoError(t, err)
		b, err := version.Encode("1.2.3.9")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Equal(t, a.Truncate3(), b.Truncate3())
	})

	t.Run("third_segment_differs", func(t *testing.T) {
		a, err := version.Encode("1.2.3.0")
		require.NoError(t, err)
		b, err := version.Encode("1.2.2.9")
		require.NoError(t, err)

		assert.NotEqual(t, a.Truncate3(), b.Truncate3())
	})

	t.Run("idempotent", func(t *testing.T) {
		a, err := version.Encode("7.0.5010.3")
		require.NoError(t, err)
		assert.Equal(t, a.Truncate3(), a.Truncate3().Truncate3())
	})
}

func TestString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.2.3.4", "1.2.3.4"},
		{"1.2", "1.2.0.0"},
		{"", "0.0.0.0"},
	}

	for _, tt := range tests {
		ord, err := version.Encode(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ord.String())
	}
}

func TestIsZeroVersion(t *testing.T) {
	assert.True(t, version.IsZeroVersion("0.0.0.0"))
	assert.True(t, version.IsZeroVersion("0"))
	assert.True(t, version.IsZeroVersion("0.0"))

	assert.False(t, version.IsZeroVersion(""), "absence of a version is not the zero version")
	assert.False(t, version.IsZeroVersion("0.0.0.1"))
	assert.False(t, version.IsZeroVersion("garbage"))
}
