package manifest

import (
	"sort"
)

// Index is the ordered collection of manifest sources a
// reconciliation pass queries.
type Index struct {
	sources []*Source
}

// NewIndex loads each manifest path in order. Any load failure is
// fatal: a reconciliation pass against a partial manifest would
// report phantom orphans.
func NewIndex(paths ...string) (*Index, error) {
	idx := &Index{}
	for _, path := range paths {
		src, err := LoadSource(path)
		if err != nil {
			return nil, err
		}
		idx.sources = append(idx.sources, src)
	}
	return idx, nil
}

// NewIndexFromSources builds an index over already-parsed sources, in
// the given order.
func NewIndexFromSources(sources ...*Source) *Index {
	return &Index{sources: sources}
}

// SourcePaths returns the source paths in lookup order.
func (idx *Index) SourcePaths() []string {
	out := make([]string, len(idx.sources))
	for i, s := range idx.sources {
		out[i] = s.Path
	}
	return out
}

// FindComponent reports whether any source declares a component with
// the GUID. Comparison is case- and brace-insensitive.
func (idx *Index) FindComponent(guid string) bool {
	_, ok := idx.ComponentByGUID(guid)
	return ok
}

// ComponentByGUID returns the first component, in source order,
// declared with the GUID.
func (idx *Index) ComponentByGUID(guid string) (ComponentRecord, bool) {
	guid = NormalizeGUID(guid)
	if guid == "" {
		return ComponentRecord{}, false
	}
	for _, s := range idx.sources {
		if rec, ok := s.componentByGUID(guid); ok {
			return rec, true
		}
	}
	return ComponentRecord{}, false
}

// FeaturesReferencing returns the sorted, deduplicated union of
// feature ids that reference componentID across all sources.
func (idx *Index) FeaturesReferencing(componentID string) []string {
	if componentID == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, s := range idx.sources {
		for _, feature := range s.featuresOf(componentID) {
			if !seen[feature] {
				seen[feature] = true
				out = append(out, feature)
			}
		}
	}
	sort.Strings(out)
	return out
}

// FindFileElsewhere searches all sources for a file declaration whose
// long or short name matches name (case-insensitive) under the given
// directory, returning the declaring source's path. A hit means the
// file moved between source locations but still lands in the same
// install directory, so removing it on upgrade would be wrong.
func (idx *Index) FindFileElsewhere(name, directoryID string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, s := range idx.sources {
		if s.findFile(name, directoryID) {
			return s.Path, true
		}
	}
	return "", false
}
