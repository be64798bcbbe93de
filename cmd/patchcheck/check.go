package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"patchcheck/pkg/config"
	"patchcheck/pkg/diagnostics"
	"patchcheck/pkg/errors"
	"patchcheck/pkg/library"
	"patchcheck/pkg/manifest"
	"patchcheck/pkg/reconcile"
	"patchcheck/pkg/report"
	"patchcheck/pkg/vcs"
)

func newCheckCmd() *cobra.Command {
	var (
		rootFlag   string
		flavorFlag string
		formatFlag string
		fileFlag   string
		mailFlag   bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		Example: MsgCheckExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			overrides := map[string]interface{}{}
			if rootFlag != "" {
				overrides["build.root"] = rootFlag
			}
			if flavorFlag != "" {
				overrides["build.flavor"] = flavorFlag
			}
			if fileFlag != "" {
				overrides["report.file"] = fileFlag
			}
			if workers > 0 {
				overrides["check.workers"] = workers
			}

			return runCheck(cmd.Context(), overrides, format, mailFlag)
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", MsgFlagRoot)
	cmd.Flags().StringVar(&flavorFlag, "flavor", "", MsgFlagFlavor)
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "auto", MsgFlagFormat)
	cmd.Flags().StringVar(&fileFlag, "report-file", "", MsgFlagReportFile)
	cmd.Flags().BoolVar(&mailFlag, "mail", false, MsgFlagMail)
	cmd.Flags().IntVar(&workers, "workers", 0, MsgFlagWorkers)

	return cmd
}

// runCheck is the fatal-error path of the pipeline. Per-entry trouble
// becomes diagnostics inside the pass; only broken inputs or sinks
// surface here.
func runCheck(ctx context.Context, overrides map[string]interface{}, format report.Format, mail bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, errors.ErrRootResolve, "resolving working directory")
	}

	cfg, err := config.LoadWithOverrides(cwd, overrides)
	if err != nil {
		return err
	}

	root := cfg.Build.Root
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrRootResolve, "project root %s is not a directory", root)
	}

	log.Info().
		Str("root", root).
		Str("flavor", cfg.Build.Flavor).
		Msg("Starting reconciliation pass")

	var sourcePaths []string
	for _, s := range cfg.Manifest.Sources {
		sourcePaths = append(sourcePaths, resolvePath(root, config.ExpandFlavor(s, cfg.Build.Flavor)))
	}
	idx, err := manifest.NewIndex(sourcePaths...)
	if err != nil {
		return err
	}

	snap, err := library.Load(
		resolvePath(root, config.ExpandFlavor(cfg.Library.Files, cfg.Build.Flavor)),
		resolvePath(root, config.ExpandFlavor(cfg.Library.Registry, cfg.Build.Flavor)),
	)
	if err != nil {
		return err
	}

	dlog := diagnostics.NewLog()
	eng, err := reconcile.New(reconcile.Options{
		Index:             idx,
		Snapshot:          snap,
		Log:               dlog,
		Root:              root,
		Flavor:            cfg.Build.Flavor,
		SkipPaths:         cfg.Exemptions.Skip,
		ZeroVersionExempt: cfg.Exemptions.ZeroVersion,
		UntrackedExempt:   cfg.Exemptions.Untracked,
		Workers:           cfg.Check.Workers,
	})
	if err != nil {
		return err
	}
	if err := eng.Run(ctx); err != nil {
		return err
	}

	git := vcs.Git{}
	untracked, vcsErr := git.Untracked(ctx, root)
	eng.CheckUntracked(untracked, vcsErr)

	branch, err := git.Branch(ctx, root)
	if err != nil {
		log.Warn().Err(err).Msg("Branch lookup failed; report carries no branch")
		branch = ""
	}

	// The untracked warnings land after the pass sorted itself; one
	// more pass puts the path-less globals back up front.
	dlog.SortByPath()

	if dlog.Empty() {
		log.Info().Msg("No inconsistencies found")
		return nil
	}

	rendered, err := report.Render(dlog, branch, format)
	if err != nil {
		return err
	}
	fmt.Print(rendered)

	if cfg.Report.File != "" {
		text, err := report.Render(dlog, branch, report.FormatText)
		if err != nil {
			return err
		}
		if err := report.WriteFile(resolvePath(root, cfg.Report.File), text); err != nil {
			return err
		}
	}

	if mail {
		if err := mailReport(dlog, branch, cfg.Report); err != nil {
			return err
		}
	}

	if dlog.HasErrors() {
		errs, warns := report.Summary(dlog)
		return errors.Newf(errors.ErrChecksFailed, "%d error(s), %d warning(s)", errs, warns)
	}
	return nil
}

func mailReport(dlog *diagnostics.Log, branch string, cfg config.ReportConfig) error {
	body, err := report.Render(dlog, branch, report.FormatText)
	if err != nil {
		return err
	}

	errs, warns := report.Summary(dlog)
	subject := fmt.Sprintf("patchcheck: %d error(s), %d warning(s)", errs, warns)
	if branch != "" {
		subject += " on " + branch
	}

	mailer := report.SMTPMailer{Addr: cfg.SMTPHost, From: cfg.SMTPFrom}
	return mailer.Send(subject, body, cfg.Recipients)
}

// resolvePath anchors rel at the project root unless it is empty or
// already absolute.
func resolvePath(root, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
