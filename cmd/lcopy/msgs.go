package lcopy

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A declarative, label-driven file copier"
	MsgCopyShort       = "Resolve config documents and copy the mapped files"
	MsgListLabelsShort = "List the labels reachable from config documents"
	MsgListLabelsLong  = "List every label defined by the given documents and by the documents they include, sorted and deduplicated."
	MsgDocsShort       = "Show the configuration format manual"
	MsgDocsLong        = "Render the built-in manual describing .lcopy.yaml documents: labels, patterns, directives, variable keys, includes, snippets, and options."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE); also lists every mapped file"
	MsgFlagDryRun      = "Preview the run without touching the filesystem"
	MsgFlagConfig      = "Config document or directory containing one (repeatable)"
	MsgFlagDest        = "Destination directory ({labels} expands to the requested labels)"
	MsgFlagLabel       = "Label to resolve (repeatable; default all)"
	MsgFlagConflict    = "Existing-file policy: overwrite, skip, or prompt"
	MsgFlagPurge       = "Delete destination files that are not part of the run"
	MsgFlagConcat      = "Also bundle copied text files into this single output file"
	MsgFlagIgnore      = "Extra ignore pattern (repeatable)"
	MsgFlagOptions     = "Options file (YAML or TOML)"
	MsgFlagPrintRoutes = "Print every source -> destination route before the summary"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/copy-long.txt
	msgCopyLongRaw string
	MsgCopyLong    = strings.TrimSpace(msgCopyLongRaw)

	//go:embed msgs/copy-example.txt
	msgCopyExampleRaw string
	MsgCopyExample    = strings.TrimSpace(msgCopyExampleRaw)

	//go:embed msgs/list-labels-example.txt
	msgListLabelsExampleRaw string
	MsgListLabelsExample    = strings.TrimSpace(msgListLabelsExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
