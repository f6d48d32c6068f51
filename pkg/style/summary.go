package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/lcopy/pkg/types"
)

// RenderSummary renders the one-line run summary, followed by any
// per-file errors. FormatText keeps the same layout without styling.
func RenderSummary(result *types.CopyResult, format Format) string {
	styled := format == FormatTerminal

	line := fmt.Sprintf("%d copied, %d skipped", result.Copied, result.Skipped)
	if result.PurgedFiles > 0 || result.PurgedDirs > 0 {
		line = fmt.Sprintf("%s, %d purged (%d dirs)", line, result.PurgedFiles, result.PurgedDirs)
	}
	if len(result.Errors) > 0 {
		line = fmt.Sprintf("%s, %d errors", line, len(result.Errors))
	}
	if result.DryRun {
		line = "[dry-run] " + line
	}

	icon := "✓"
	if result.Failed() {
		icon = "!"
	}
	if styled {
		icon = SuccessIndicator
		if result.Failed() {
			icon = WarningIndicator
		}
	}

	var b strings.Builder
	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(line)

	for _, fe := range result.Errors {
		errIcon := "✗"
		path := fe.Path
		if styled {
			errIcon = ErrorIndicator
			path = PathStyle.Render(path)
		}
		fmt.Fprintf(&b, "\n  %s %s: %v", errIcon, path, fe.Err)
	}
	return b.String()
}

// RenderProblems renders node-local resolution problems as warning
// lines. Problems are advisories: the run continued past them.
func RenderProblems(problems []error, format Format) string {
	styled := format == FormatTerminal

	var b strings.Builder
	for i, p := range problems {
		if i > 0 {
			b.WriteString("\n")
		}
		icon := "!"
		if styled {
			icon = WarningIndicator
		}
		fmt.Fprintf(&b, "%s %v", icon, p)
	}
	return b.String()
}

// RenderRoutes renders the resolved mapping, one source to destination
// route per line.
func RenderRoutes(entries []types.MappingEntry, format Format) string {
	if len(entries) == 0 {
		return "no files mapped"
	}

	styled := format == FormatTerminal
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		source, dest := entry.Source, entry.Dest
		if styled {
			source = PathStyle.Render(source)
			dest = PathStyle.Render(dest)
		}
		fmt.Fprintf(&b, "%s -> %s", source, dest)
	}
	return b.String()
}

// RenderLabels renders a label listing, one per line.
func RenderLabels(labels []string, format Format) string {
	if len(labels) == 0 {
		return "no labels found"
	}

	styled := format == FormatTerminal
	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteString("\n")
		}
		if styled {
			b.WriteString(LabelStyle.Render(label))
		} else {
			b.WriteString(label)
		}
	}
	return b.String()
}
