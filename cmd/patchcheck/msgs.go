package main

// Command descriptions.
const (
	MsgRootShort = "Reconcile installer manifests against the released file library"
	MsgRootLong  = `patchcheck compares the previous release's file and registry library
against the current manifest sources and the build tree, and reports
every inconsistency that would break an incremental patch: silent
modifications, version regressions, feature drift, and components
that dropped out of the manifests entirely.

A clean tree produces no output and exits zero.`

	MsgCheckShort = "Run the reconciliation pass"
	MsgCheckLong  = `Check loads the manifest sources and the library snapshots named in
the configuration, walks every library entry, and prints a report of
the inconsistencies found. Orphaned components come with a suggested
manifest correction embedded in the report.

The exit status is non-zero when the pass reports errors; warnings
alone exit zero.`
	MsgCheckExample = `  # Check the tree the config points at
  patchcheck check

  # Check a different build flavor, machine-readable output
  patchcheck check --flavor debug --format json

  # Write the report to a file and mail it to the configured recipients
  patchcheck check --report-file out/patchcheck.txt --mail`

	MsgGenConfigShort = "Generate a default configuration file"
	MsgGenConfigLong  = `Prints a fully commented configuration with every option set to its
default value. Use -w to write it to .patchcheck.toml in the current
directory instead.`
	MsgGenConfigExample = `  # Print the default config
  patchcheck gen-config

  # Write it next to the manifest sources
  patchcheck gen-config -w`

	MsgVersionShort = "Show version information"
)

// Flag descriptions.
const (
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot       = "Project root holding the manifest sources and build outputs"
	MsgFlagFlavor     = "Build flavor substituted for the {flavor} placeholder"
	MsgFlagFormat     = "Report format: auto, term, text, json, yaml"
	MsgFlagReportFile = "Also write the report to this file (always plain text)"
	MsgFlagMail       = "Mail the report to the configured recipients"
	MsgFlagWorkers    = "Concurrent file checks (0 = one per CPU)"
	MsgFlagWrite      = "Write to .patchcheck.toml instead of stdout"
)

// Status messages.
const (
	MsgNoCommand     = "no command specified"
	MsgConfigWritten = "Configuration written to %s\n"
	MsgConfigExists  = "%s already exists; remove it first or edit it in place"
)
