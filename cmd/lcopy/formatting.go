package lcopy

import (
	"os"
	"strings"
	"text/template"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/lcopy/pkg/style"
)

// formatBold returns s bolded when stdout is a rich terminal.
func formatBold(s string) string {
	if style.DetectFormat(os.Stdout) != style.FormatTerminal {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatUpper returns s in uppercase.
func formatUpper(s string) string {
	return strings.ToUpper(s)
}

// formatBoldUpper returns s uppercased, bolded when stdout is a rich
// terminal.
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting registers the functions the usage template
// uses for its section headers.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}
