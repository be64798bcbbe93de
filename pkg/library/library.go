// Package library loads the file and registry library snapshots
// written at the previous release. The snapshots are the historical
// side of a reconciliation pass: what shipped, with which versions,
// hashes, and feature memberships.
//
// A missing snapshot file is not an error. It is the normal state of
// a first release and simply yields an empty snapshot, which skips
// the matching checks.
package library

import (
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"

	"patchcheck/pkg/errors"
	"patchcheck/pkg/logging"
)

var log = logging.GetLogger("library")

// FileEntry is one file known from a prior release. Entries are
// immutable for the run.
type FileEntry struct {
	// Path is the build-relative path, possibly containing the
	// flavor placeholder.
	Path string
	// ReleasedDate is the zero time when the snapshot carried no
	// parseable date; the date-regression check then cannot fire.
	ReleasedDate time.Time
	// ReleasedVersion may be empty: not every shipped file embeds
	// version information.
	ReleasedVersion string
	// ReleasedMD5 is normalized to lowercase hex.
	ReleasedMD5   string
	Features      []string
	ComponentGUID string
	ComponentID   string
	DirectoryID   string
	LongName      string
	ShortName     string
}

// RegistryEntry is one registry key component known from a prior
// release.
type RegistryEntry struct {
	Root          string
	KeyHeader     string
	Features      []string
	ComponentGUID string
	ComponentID   string
	DirectoryID   string
}

// Snapshot is the combined library state of the previous release.
type Snapshot struct {
	Files    []FileEntry
	Registry []RegistryEntry
}

// Load reads both snapshots. Either path may be empty or point at a
// missing file; both cases yield the corresponding empty slice.
func Load(filesPath, registryPath string) (Snapshot, error) {
	files, err := LoadFiles(filesPath)
	if err != nil {
		return Snapshot{}, err
	}
	registry, err := LoadRegistry(registryPath)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Files: files, Registry: registry}, nil
}

// LoadFiles reads the file library snapshot.
func LoadFiles(path string) ([]FileEntry, error) {
	data, ok, err := readSnapshot(path)
	if err != nil || !ok {
		return nil, err
	}
	return ParseFiles(path, data)
}

// LoadRegistry reads the registry library snapshot.
func LoadRegistry(path string) ([]RegistryEntry, error) {
	data, ok, err := readSnapshot(path)
	if err != nil || !ok {
		return nil, err
	}
	return ParseRegistry(path, data)
}

func readSnapshot(path string) ([]byte, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("No library snapshot, skipping its checks")
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrLibraryLoad, "failed to read library snapshot %s", path)
	}
	return data, true, nil
}

// ParseFiles parses a file library document. Entries are elements
// carrying a Path attribute, wherever they sit in the tree.
func ParseFiles(path string, data []byte) ([]FileEntry, error) {
	root, err := parseRoot(path, data)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	walkElements(root, func(el *etree.Element) {
		p := el.SelectAttrValue("Path", "")
		if p == "" {
			return
		}
		entries = append(entries, FileEntry{
			Path:            p,
			ReleasedDate:    parseDate(path, p, el.SelectAttrValue("Date", "")),
			ReleasedVersion: el.SelectAttrValue("Version", ""),
			ReleasedMD5:     strings.ToLower(el.SelectAttrValue("MD5", "")),
			Features:        splitFeatures(el.SelectAttrValue("FeatureList", "")),
			ComponentGUID:   el.SelectAttrValue("ComponentGuid", ""),
			ComponentID:     el.SelectAttrValue("ComponentId", ""),
			DirectoryID:     el.SelectAttrValue("DirectoryId", ""),
			LongName:        el.SelectAttrValue("LongName", ""),
			ShortName:       el.SelectAttrValue("ShortName", ""),
		})
	})

	log.Debug().Str("path", path).Int("entries", len(entries)).Msg("File library loaded")
	return entries, nil
}

// ParseRegistry parses a registry library document. Entries are
// elements carrying a KeyHeader attribute.
func ParseRegistry(path string, data []byte) ([]RegistryEntry, error) {
	root, err := parseRoot(path, data)
	if err != nil {
		return nil, err
	}

	var entries []RegistryEntry
	walkElements(root, func(el *etree.Element) {
		key := el.SelectAttrValue("KeyHeader", "")
		if key == "" {
			return
		}
		entries = append(entries, RegistryEntry{
			Root:          el.SelectAttrValue("Root", ""),
			KeyHeader:     key,
			Features:      splitFeatures(el.SelectAttrValue("FeatureList", "")),
			ComponentGUID: el.SelectAttrValue("ComponentGuid", ""),
			ComponentID:   el.SelectAttrValue("ComponentId", ""),
			DirectoryID:   el.SelectAttrValue("DirectoryId", ""),
		})
	})

	log.Debug().Str("path", path).Int("entries", len(entries)).Msg("Registry library loaded")
	return entries, nil
}

func parseRoot(path string, data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryParse, "failed to parse library snapshot %s", path)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.Newf(errors.ErrLibraryParse, "library snapshot %s has no root element", path)
	}
	return root, nil
}

func walkElements(el *etree.Element, visit func(*etree.Element)) {
	visit(el)
	for _, child := range el.ChildElements() {
		walkElements(child, visit)
	}
}

// dateFormats are the timestamp renderings historical snapshot
// writers used.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
}

// parseDate degrades a malformed date to the zero time rather than
// failing the load; one bad attribute should not block the whole
// pass.
func parseDate(source, entryPath, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if ts, err := time.Parse(format, s); err == nil {
			return ts
		}
	}
	log.Warn().
		Str("snapshot", source).
		Str("path", entryPath).
		Str("date", s).
		Msg("Unparseable release date, date checks disabled for this entry")
	return time.Time{}
}

func splitFeatures(s string) []string {
	if s == "" {
		return nil
	}
	var features []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			features = append(features, f)
		}
	}
	return features
}
