// pkg/testutil/project.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Build throwaway project trees (manifests, library
// snapshots, build outputs) for tests

package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Project is a real on-disk project tree rooted in t.TempDir().
// Tests write manifests, library snapshots, and build outputs into it
// and point the tool at Root.
type Project struct {
	Root string

	t *testing.T
}

// NewProject creates an empty project tree.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{Root: t.TempDir(), t: t}
}

// Path resolves a project-relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// WriteFile writes a file under the project root, creating parent
// directories as needed, and returns its absolute path.
func (p *Project) WriteFile(rel string, data []byte) string {
	p.t.Helper()
	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		p.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// WriteString writes a text file under the project root.
func (p *Project) WriteString(rel, content string) string {
	p.t.Helper()
	return p.WriteFile(rel, []byte(content))
}

// WritePE writes a minimal PE-shaped build output embedding the given
// file version. The pad bytes vary the content hash without touching
// the version.
func (p *Project) WritePE(rel string, a, b, c, d uint16, pad []byte) string {
	p.t.Helper()
	return p.WriteFile(rel, PEImage(a, b, c, d, pad))
}

// Touch sets a file's modification time.
func (p *Project) Touch(rel string, ts time.Time) {
	p.t.Helper()
	if err := os.Chtimes(p.Path(rel), ts, ts); err != nil {
		p.t.Fatalf("chtimes %s: %v", rel, err)
	}
}

// PEImage builds a blob the version probe reads as a PE image: the MZ
// magic, padding, and a VS_FIXEDFILEINFO block with the four version
// segments. Extra pad bytes are appended to vary the content.
func PEImage(a, b, c, d uint16, pad []byte) []byte {
	blob := []byte("MZ")
	blob = append(blob, make([]byte, 62)...)

	info := make([]byte, 16)
	binary.LittleEndian.PutUint32(info[0:], 0xFEEF04BD)
	binary.LittleEndian.PutUint32(info[4:], 0x00010000)
	binary.LittleEndian.PutUint32(info[8:], uint32(a)<<16|uint32(b))
	binary.LittleEndian.PutUint32(info[12:], uint32(c)<<16|uint32(d))
	blob = append(blob, info...)

	return append(blob, pad...)
}
