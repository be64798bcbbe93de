package manifest

import (
	"os"
	"strings"

	"github.com/beevik/etree"

	"patchcheck/pkg/errors"
)

// fileDecl is one File declaration with its resolved context.
type fileDecl struct {
	id          string
	longName    string
	shortName   string
	componentID string
	directoryID string
}

// Source is one parsed manifest document.
type Source struct {
	// Path identifies the source in diagnostics and lookup results.
	Path string

	components []ComponentRecord
	byGUID     map[string]int
	byID       map[string]int
	features   map[string][]string
	files      []fileDecl
}

// LoadSource reads and parses one manifest file.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path)
	}
	return ParseSource(path, data)
}

// ParseSource parses manifest XML. The path only labels the source.
func ParseSource(path string, data []byte) (*Source, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse manifest %s", path)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.Newf(errors.ErrManifestParse, "manifest %s has no root element", path)
	}

	s := &Source{
		Path:     path,
		byGUID:   make(map[string]int),
		byID:     make(map[string]int),
		features: make(map[string][]string),
	}
	s.walk(root, "", "", "")

	log.Debug().
		Str("path", path).
		Int("components", len(s.components)).
		Int("files", len(s.files)).
		Int("features", len(s.features)).
		Msg("Manifest source parsed")

	return s, nil
}

// walk collects declarations in document order. dirID, componentID and
// featureID carry the nearest enclosing Directory/DirectoryRef,
// Component, and Feature/FeatureRef context down the tree.
func (s *Source) walk(el *etree.Element, dirID, componentID, featureID string) {
	switch el.Tag {
	case "Directory", "DirectoryRef":
		if id := el.SelectAttrValue("Id", ""); id != "" {
			dirID = id
		}

	case "Component":
		rec := ComponentRecord{
			GUID:        NormalizeGUID(el.SelectAttrValue("Guid", "")),
			ID:          el.SelectAttrValue("Id", ""),
			DirectoryID: el.SelectAttrValue("Directory", ""),
		}
		if rec.DirectoryID == "" {
			rec.DirectoryID = dirID
		}
		idx := len(s.components)
		s.components = append(s.components, rec)
		if rec.GUID != "" {
			if _, seen := s.byGUID[rec.GUID]; !seen {
				s.byGUID[rec.GUID] = idx
			}
		}
		if rec.ID != "" {
			if _, seen := s.byID[rec.ID]; !seen {
				s.byID[rec.ID] = idx
			}
		}
		componentID = rec.ID

	case "File":
		name := el.SelectAttrValue("Name", "")
		long := el.SelectAttrValue("LongName", "")
		short := el.SelectAttrValue("ShortName", "")
		// Old-schema files put the short name in Name and the long
		// name in LongName; newer ones put the long name in Name.
		if long == "" {
			long = name
		} else if short == "" {
			short = name
		}
		s.files = append(s.files, fileDecl{
			id:          el.SelectAttrValue("Id", ""),
			longName:    long,
			shortName:   short,
			componentID: componentID,
			directoryID: dirID,
		})

	case "Feature", "FeatureRef":
		if id := el.SelectAttrValue("Id", ""); id != "" {
			featureID = id
		}

	case "ComponentRef":
		if featureID != "" {
			if id := el.SelectAttrValue("Id", ""); id != "" {
				s.features[featureID] = append(s.features[featureID], id)
			}
		}
	}

	for _, child := range el.ChildElements() {
		s.walk(child, dirID, componentID, featureID)
	}
}

// componentByGUID returns the first component declared with the
// normalized GUID.
func (s *Source) componentByGUID(guid string) (ComponentRecord, bool) {
	if idx, ok := s.byGUID[guid]; ok {
		return s.components[idx], true
	}
	return ComponentRecord{}, false
}

// featuresOf returns the feature ids whose reference lists contain
// componentID.
func (s *Source) featuresOf(componentID string) []string {
	var out []string
	for feature, refs := range s.features {
		for _, ref := range refs {
			if ref == componentID {
				out = append(out, feature)
				break
			}
		}
	}
	return out
}

// findFile returns true if the source declares a file with the given
// name (long or short, case-insensitive) under the directory.
func (s *Source) findFile(name, directoryID string) bool {
	for _, f := range s.files {
		if f.directoryID != directoryID {
			continue
		}
		if strings.EqualFold(f.longName, name) || strings.EqualFold(f.shortName, name) {
			return true
		}
	}
	return false
}
