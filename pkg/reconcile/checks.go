package reconcile

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"patchcheck/pkg/config"
	"patchcheck/pkg/diagnostics"
	"patchcheck/pkg/library"
	"patchcheck/pkg/version"
)

// dateSkewTolerance is the patch engine's clock-skew allowance: a
// build output older than the released date by more than this is a
// genuine regression, not a timezone artifact.
const dateSkewTolerance = 24 * time.Hour

const timeLayout = "2006-01-02 15:04:05"

func (eng *Engine) checkFile(entry library.FileEntry) {
	display := displayPath(entry.Path, eng.opts.Flavor)

	if config.MatchesAny(display, eng.opts.SkipPaths, eng.opts.Flavor) {
		log.Debug().Str("path", display).Msg("Entry skipped by configuration")
		return
	}

	if entry.ComponentGUID == "" {
		log.Warn().Str("path", display).Msg("Library entry carries no component guid, checks skipped")
		return
	}

	if !eng.opts.Index.FindComponent(entry.ComponentGUID) {
		orphan := entry
		orphan.Path = display
		frag := eng.synth.ForOrphanedFile(orphan)
		eng.opts.Log.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityInfo,
			Path:     display,
			Message:  frag.Message(),
		})
		return
	}

	eng.checkFeatures(display, entry)
	eng.checkDetail(display, entry)
}

// checkFeatures compares the feature set the manifest currently
// associates with the component against the set recorded at release
// time. Both sides are treated as unordered sets.
func (eng *Engine) checkFeatures(display string, entry library.FileEntry) {
	if len(entry.Features) == 0 {
		eng.opts.Log.Errorf(diagnostics.ErrMissingFeatureList, display,
			"%s: no feature list recorded for component %s", display, entry.ComponentID)
		return
	}

	current := eng.opts.Index.FeaturesReferencing(entry.ComponentID)
	added, removed := diffFeatures(entry.Features, current)
	if len(added) > 0 {
		eng.opts.Log.Errorf(diagnostics.ErrFeatureAdded, display,
			"%s: component %s was added to feature(s) %s since the last release",
			display, entry.ComponentID, strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		eng.opts.Log.Errorf(diagnostics.ErrFeatureRemoved, display,
			"%s: component %s was removed from feature(s) %s since the last release",
			display, entry.ComponentID, strings.Join(removed, ", "))
	}
}

// checkDetail runs the hash, date and version checks against the file
// on disk. A file absent from the build tree is not an error here;
// presence in the install is the manifest's concern, not the build
// tree's. Probe failures are logged and end the entry's detail checks
// since the taxonomy has no code for an unreadable build output.
func (eng *Engine) checkDetail(display string, entry library.FileEntry) {
	full := filepath.Join(eng.opts.Root, filepath.FromSlash(display))
	if !eng.opts.Prober.Exists(full) {
		log.Debug().Str("path", display).Msg("Not present in the build tree, detail checks skipped")
		return
	}

	current, err := eng.opts.Prober.Version(full)
	if err != nil {
		log.Warn().Err(err).Str("path", display).Msg("Version probe failed, detail checks skipped")
		return
	}

	// A differing hash alone is the normal release flow. It becomes an
	// error only when the version failed to move with the content. An
	// empty released hash means the snapshot never captured one, so no
	// change can be claimed.
	if entry.ReleasedMD5 != "" && entry.ReleasedVersion != "" && current != "" {
		sum, err := eng.opts.Prober.MD5(full)
		if err != nil {
			log.Warn().Err(err).Str("path", display).Msg("Hash probe failed, detail checks skipped")
			return
		}
		if sum != entry.ReleasedMD5 {
			if current == entry.ReleasedVersion {
				eng.opts.Log.Errorf(diagnostics.ErrModifiedNoVersionBump, display,
					"%s was modified but the version is still %s; a binary patch needs a version bump",
					display, current)
			} else if curOrd, cerr := version.Encode(current); cerr == nil {
				if libOrd, lerr := version.Encode(entry.ReleasedVersion); lerr == nil &&
					curOrd.Truncate3() == libOrd.Truncate3() {
					eng.opts.Log.Errorf(diagnostics.ErrIgnoredSegmentOnly, display,
						"%s version went from %s to %s; a change confined to the 4th segment is ignored by the patch engine",
						display, entry.ReleasedVersion, current)
				}
			}
		}
	}

	mtime, err := eng.opts.Prober.ModTime(full)
	if err != nil {
		log.Warn().Err(err).Str("path", display).Msg("Timestamp probe failed, detail checks skipped")
		return
	}
	if entry.ReleasedDate.Sub(mtime) > dateSkewTolerance {
		eng.opts.Log.Errorf(diagnostics.ErrDateRegression, display,
			"%s is dated %s, more than 24 hours before the released build date %s",
			display, mtime.Format(timeLayout), entry.ReleasedDate.Format(timeLayout))
	}

	if version.IsZeroVersion(current) &&
		!config.MatchesAny(display, eng.opts.ZeroVersionExempt, eng.opts.Flavor) {
		eng.opts.Log.Warningf(diagnostics.WarnZeroVersion, display,
			"%s has the zero version %s", display, current)
	}

	if entry.ReleasedVersion != "" && current == "" {
		eng.opts.Log.Errorf(diagnostics.ErrVersionInfoRemoved, display,
			"%s no longer carries version information; the released build had %s",
			display, entry.ReleasedVersion)
		return
	}

	libOrd, libErr := version.Encode(entry.ReleasedVersion)
	curOrd, curErr := version.Encode(current)
	switch {
	case curErr != nil:
		eng.opts.Log.Errorf(diagnostics.ErrInvalidVersion, display,
			"%s: current build: %v", display, curErr)
	case libErr != nil:
		eng.opts.Log.Errorf(diagnostics.ErrInvalidVersion, display,
			"%s: library snapshot: %v", display, libErr)
	case version.Compare(curOrd, libOrd) < 0:
		eng.opts.Log.Errorf(diagnostics.ErrVersionLowered, display,
			"%s version was lowered from %s to %s",
			display, entry.ReleasedVersion, current)
	}
}

// checkRegistry is a presence check only: registry keys have no build
// output to probe, so an entry either still has its component in the
// manifest or needs a corrective fragment.
func (eng *Engine) checkRegistry(entry library.RegistryEntry) {
	if entry.ComponentGUID == "" {
		log.Warn().
			Str("root", entry.Root).
			Str("key", entry.KeyHeader).
			Msg("Registry entry carries no component guid, check skipped")
		return
	}

	if eng.opts.Index.FindComponent(entry.ComponentGUID) {
		return
	}

	frag := eng.synth.ForOrphanedRegistry(entry)
	eng.opts.Log.Add(diagnostics.Diagnostic{
		Severity: diagnostics.SeverityInfo,
		Path:     frag.Path,
		Message:  frag.Message(),
	})
}

// diffFeatures returns the manifest-only features as added and the
// library-only features as removed, both sorted. Swapping the inputs
// swaps the two results.
func diffFeatures(libFeatures, manifestFeatures []string) (added, removed []string) {
	lib := make(map[string]bool, len(libFeatures))
	for _, f := range libFeatures {
		lib[f] = true
	}
	cur := make(map[string]bool, len(manifestFeatures))
	for _, f := range manifestFeatures {
		cur[f] = true
	}

	for f := range cur {
		if !lib[f] {
			added = append(added, f)
		}
	}
	for f := range lib {
		if !cur[f] {
			removed = append(removed, f)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// displayPath expands the flavor placeholder and normalizes the
// separators of a snapshot path, which may have been recorded on
// Windows.
func displayPath(p, flavor string) string {
	return strings.ReplaceAll(config.ExpandFlavor(p, flavor), `\`, "/")
}
