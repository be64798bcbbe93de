package snippet

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"

	"patchcheck/pkg/library"
	"patchcheck/pkg/logging"
	"patchcheck/pkg/manifest"
)

var log = logging.GetLogger("snippet")

// Synthesizer builds corrective fragments against the current
// manifest index.
type Synthesizer struct {
	index *manifest.Index
}

// NewSynthesizer returns a synthesizer querying idx for duplicate
// file declarations.
func NewSynthesizer(idx *manifest.Index) *Synthesizer {
	return &Synthesizer{index: idx}
}

// ForOrphanedFile builds the correction for a file entry whose
// component vanished from the manifest: reinstate the component
// disabled so the patch engine can retire it, and remove the leftover
// file on install unless the same file is still declared elsewhere in
// the same directory.
func (s *Synthesizer) ForOrphanedFile(e library.FileEntry) Fragment {
	name := fileName(e)

	doc := etree.NewDocument()
	dirRef := doc.CreateElement("DirectoryRef")
	dirRef.CreateAttr("Id", e.DirectoryID)

	disableID := Identifier(e.ComponentID, e.ComponentGUID)
	addDisabledComponent(dirRef, disableID, e.ComponentGUID)
	refs := []string{disableID}

	var notes []string
	if source, found := s.index.FindFileElsewhere(name, e.DirectoryID); found {
		notes = append(notes, fmt.Sprintf(
			"%s is also declared by %s; the file remains installed, so no removal component is emitted",
			name, source))
	} else {
		removeID := Identifier(name, e.Path)
		removal := dirRef.CreateElement("Component")
		removal.CreateAttr("Id", removeID)
		removal.CreateAttr("Guid", NewGUID())
		rm := removal.CreateElement("RemoveFile")
		rm.CreateAttr("Id", removeID)
		rm.CreateAttr("Name", name)
		rm.CreateAttr("On", "install")
		refs = append(refs, removeID)
	}

	notes = wireFeatures(doc, e.Features, refs, notes)

	log.Debug().Str("path", e.Path).Str("component", e.ComponentID).Msg("Synthesized file correction")

	return Fragment{
		Path: e.Path,
		Summary: fmt.Sprintf(
			"file %s: component %s (%s) is no longer declared by any manifest source; suggested correction:",
			e.Path, e.ComponentID, e.ComponentGUID),
		Notes: notes,
		XML:   render(doc),
	}
}

// ForOrphanedRegistry builds the correction for a registry entry
// whose component vanished. Registry keys have no equivalent of a
// file found elsewhere, so the removal component is always emitted.
func (s *Synthesizer) ForOrphanedRegistry(e library.RegistryEntry) Fragment {
	key := registryKey(e)

	doc := etree.NewDocument()
	dirRef := doc.CreateElement("DirectoryRef")
	dirRef.CreateAttr("Id", e.DirectoryID)

	disableID := Identifier(e.ComponentID, e.ComponentGUID)
	addDisabledComponent(dirRef, disableID, e.ComponentGUID)

	removeID := Identifier(e.KeyHeader, key)
	removal := dirRef.CreateElement("Component")
	removal.CreateAttr("Id", removeID)
	removal.CreateAttr("Guid", NewGUID())
	rm := removal.CreateElement("RemoveRegistryKey")
	rm.CreateAttr("Root", e.Root)
	rm.CreateAttr("Key", e.KeyHeader)
	rm.CreateAttr("Action", "removeOnInstall")

	notes := wireFeatures(doc, e.Features, []string{disableID, removeID}, nil)

	log.Debug().Str("key", key).Str("component", e.ComponentID).Msg("Synthesized registry correction")

	return Fragment{
		Path: key,
		Summary: fmt.Sprintf(
			"registry key %s: component %s (%s) is no longer declared by any manifest source; suggested correction:",
			key, e.ComponentID, e.ComponentGUID),
		Notes: notes,
		XML:   render(doc),
	}
}

// addDisabledComponent reinstates the original component identity,
// transitive and with an always-false condition, so the patch engine
// re-evaluates it and then skips it.
func addDisabledComponent(parent *etree.Element, id, guid string) {
	disable := parent.CreateElement("Component")
	disable.CreateAttr("Id", id)
	disable.CreateAttr("Guid", guid)
	disable.CreateAttr("Transitive", "yes")
	disable.CreateElement("Condition").SetText("1 = 0")
}

// wireFeatures appends one FeatureRef per feature referencing every
// synthesized component. With no features to wire, the fragment gets
// a note instead: the wiring has to be written by hand.
func wireFeatures(doc *etree.Document, features, refs []string, notes []string) []string {
	if len(features) == 0 {
		return append(notes, "no feature list was recorded for this component; wire the ComponentRef entries by hand")
	}
	for _, feature := range features {
		featureRef := doc.CreateElement("FeatureRef")
		featureRef.CreateAttr("Id", feature)
		for _, ref := range refs {
			componentRef := featureRef.CreateElement("ComponentRef")
			componentRef.CreateAttr("Id", ref)
		}
	}
	return notes
}

// fileName prefers the library's long name, falling back to the last
// path element.
func fileName(e library.FileEntry) string {
	if e.LongName != "" {
		return e.LongName
	}
	return path.Base(strings.ReplaceAll(e.Path, `\`, "/"))
}

// registryKey is the full key the correction retires.
func registryKey(e library.RegistryEntry) string {
	return e.Root + `\` + e.KeyHeader
}
