package probe

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// fixedFileInfoSignature marks a VS_FIXEDFILEINFO block inside a PE
// image's version resource, stored little-endian.
var fixedFileInfoSignature = []byte{0xBD, 0x04, 0xEF, 0xFE}

// PEVersion extracts the file version from a PE image as the
// canonical a.b.c.d string: FileVersionMS holds the first two 16-bit
// segments, FileVersionLS the last two. Returns "" for non-PE data
// and for images without a version resource.
func PEVersion(data []byte) string {
	if len(data) < 2 || data[0] != 'M' || data[1] != 'Z' {
		return ""
	}

	i := bytes.Index(data, fixedFileInfoSignature)
	if i < 0 || i+16 > len(data) {
		return ""
	}

	ms := binary.LittleEndian.Uint32(data[i+8:])
	ls := binary.LittleEndian.Uint32(data[i+12:])
	return fmt.Sprintf("%d.%d.%d.%d", ms>>16, ms&0xFFFF, ls>>16, ls&0xFFFF)
}
