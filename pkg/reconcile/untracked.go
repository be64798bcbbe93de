package reconcile

import (
	"sort"
	"strings"

	"patchcheck/pkg/config"
	"patchcheck/pkg/diagnostics"
)

// CheckUntracked folds the result of the source-control query into
// the log. A failed query degrades to a warning, since the rest of
// the pass is still meaningful without this one check. Untracked
// paths covered by an exemption pattern are dropped; whatever remains
// is reported as a single warning listing the sorted paths.
func (eng *Engine) CheckUntracked(untracked []string, queryErr error) {
	if queryErr != nil {
		eng.opts.Log.Warningf(diagnostics.WarnVCSQueryFailed, "",
			"source control query for untracked files failed: %v", queryErr)
		return
	}

	var offending []string
	for _, p := range untracked {
		if p == "" {
			continue
		}
		if !config.MatchesAny(p, eng.opts.UntrackedExempt, eng.opts.Flavor) {
			offending = append(offending, p)
		}
	}
	if len(offending) == 0 {
		return
	}
	sort.Strings(offending)

	eng.opts.Log.Warningf(diagnostics.WarnUntrackedFiles, "",
		"%d file(s) not checked into source control:\n  %s",
		len(offending), strings.Join(offending, "\n  "))
}
