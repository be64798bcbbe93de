// Package reconcile runs the reconciliation pass: every library entry
// from the previous release is checked against the current manifest
// index and the build outputs on disk, and every inconsistency that
// would break an incremental patch becomes a diagnostic.
//
// The pass is a read-only traversal over immutable inputs. Per-entry
// work is independent, so file entries are fanned out across a
// bounded worker pool; the diagnostic log accepts concurrent appends
// and is sorted by path afterwards for deterministic rendering.
package reconcile

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"patchcheck/pkg/diagnostics"
	"patchcheck/pkg/errors"
	"patchcheck/pkg/library"
	"patchcheck/pkg/logging"
	"patchcheck/pkg/manifest"
	"patchcheck/pkg/probe"
	"patchcheck/pkg/snippet"
)

var log = logging.GetLogger("reconcile")

// Options wires an Engine. Index and Log are required; a nil Prober
// defaults to the real file system.
type Options struct {
	Index    *manifest.Index
	Snapshot library.Snapshot
	Prober   probe.Prober
	Log      *diagnostics.Log

	// Root is the build tree the entry paths resolve against.
	Root string
	// Flavor replaces the flavor placeholder in paths and patterns.
	Flavor string

	// Exemption patterns, matched as substrings after flavor
	// substitution.
	SkipPaths         []string
	ZeroVersionExempt []string
	UntrackedExempt   []string

	// Workers bounds the pool; 0 means one worker per CPU.
	Workers int
}

// Engine runs reconciliation passes for one set of options.
type Engine struct {
	opts  Options
	synth *snippet.Synthesizer
}

// New validates the options and builds an engine.
func New(opts Options) (*Engine, error) {
	if opts.Index == nil {
		return nil, errors.New(errors.ErrInvalidInput, "manifest index is required")
	}
	if opts.Log == nil {
		return nil, errors.New(errors.ErrInvalidInput, "diagnostic log is required")
	}
	if opts.Prober == nil {
		opts.Prober = probe.FS{}
	}
	return &Engine{
		opts:  opts,
		synth: snippet.NewSynthesizer(opts.Index),
	}, nil
}

// Run checks every file entry across the worker pool, then every
// registry entry, and finally orders the log by path. Individual
// check findings never abort the pass; only context cancellation
// does.
func (eng *Engine) Run(ctx context.Context) error {
	defer logging.LogOperationStart(log, "reconciliation pass")()

	files := eng.opts.Snapshot.Files
	if len(files) > 0 {
		jobs := eng.opts.Workers
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		if jobs > len(files) {
			jobs = len(files)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(jobs)

		for _, entry := range files {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				eng.checkFile(entry)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for _, entry := range eng.opts.Snapshot.Registry {
		eng.checkRegistry(entry)
	}

	eng.opts.Log.SortByPath()

	log.Debug().
		Int("files", len(files)).
		Int("registry", len(eng.opts.Snapshot.Registry)).
		Int("diagnostics", eng.opts.Log.Len()).
		Msg("Reconciliation pass complete")

	return nil
}
