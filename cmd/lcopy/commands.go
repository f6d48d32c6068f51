// Package lcopy wires the command line interface. Command bodies stay
// thin: flags merge into the layered option set and delegate to the
// functions under pkg/commands.
package lcopy

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/lcopy/docs"
	"github.com/arthur-debert/lcopy/internal/version"
	"github.com/arthur-debert/lcopy/pkg/commands/copy"
	"github.com/arthur-debert/lcopy/pkg/commands/listlabels"
	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/copier"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/style"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "lcopy",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().Bool("dry-run", false, MsgFlagDryRun)

	// Add all commands
	rootCmd.AddCommand(newCopyCmd())
	rootCmd.AddCommand(newListLabelsCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	return rootCmd
}

func newCopyCmd() *cobra.Command {
	var (
		configs     []string
		dest        string
		labels      []string
		conflict    string
		purge       bool
		concat      string
		ignore      []string
		optionsFile string
		printRoutes bool
	)

	cmd := &cobra.Command{
		Use:     "copy [config...]",
		Short:   MsgCopyShort,
		Long:    MsgCopyLong,
		Example: MsgCopyExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")

			opts, err := config.LoadOptions(optionsFile)
			if err != nil {
				return err
			}

			// Flags override every other option layer
			if refs := append(append([]string{}, configs...), args...); len(refs) > 0 {
				opts.Configs = refs
			}
			if cmd.Flags().Changed("dest") {
				opts.Destination = dest
			}
			if cmd.Flags().Changed("label") {
				opts.Labels = labels
			}
			if cmd.Flags().Changed("conflict") {
				opts.Conflict = types.ConflictPolicy(conflict)
			}
			if cmd.Flags().Changed("purge") {
				opts.Purge = purge
			}
			if cmd.Flags().Changed("concat") {
				opts.ConcatOutput = concat
			}
			opts.ExtraIgnore = append(opts.ExtraIgnore, ignore...)
			if dryRun {
				opts.DryRun = true
			}
			if verbosity > 0 {
				opts.Verbose = true
			}

			result, err := copy.Copy(copy.CopyOptions{
				Options:   *opts,
				Confirmer: copier.NewTTYConfirmer(),
			})
			if err != nil {
				return err
			}

			format := style.DetectFormat(os.Stdout)

			if len(result.Problems) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), style.RenderProblems(result.Problems, format))
			}
			if printRoutes || result.Options.Verbose {
				fmt.Fprintln(cmd.OutOrStdout(), style.RenderRoutes(result.Mapping.Entries(), format))
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.RenderSummary(result.Copy, format))

			// Per-file failures are part of the summary, not the exit
			// code; only configuration failures exit non-zero.
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&configs, "config", "c", nil, MsgFlagConfig)
	cmd.Flags().StringVarP(&dest, "dest", "d", "", MsgFlagDest)
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, MsgFlagLabel)
	cmd.Flags().StringVar(&conflict, "conflict", "", MsgFlagConflict)
	cmd.Flags().BoolVar(&purge, "purge", false, MsgFlagPurge)
	cmd.Flags().StringVar(&concat, "concat", "", MsgFlagConcat)
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, MsgFlagIgnore)
	cmd.Flags().StringVar(&optionsFile, "options", "", MsgFlagOptions)
	cmd.Flags().BoolVar(&printRoutes, "print-routes", false, MsgFlagPrintRoutes)

	return cmd
}

func newListLabelsCmd() *cobra.Command {
	var configs []string

	cmd := &cobra.Command{
		Use:     "list-labels [config...]",
		Short:   MsgListLabelsShort,
		Long:    MsgListLabelsLong,
		Example: MsgListLabelsExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := listlabels.ListLabels(listlabels.ListLabelsOptions{
				Configs: append(append([]string{}, configs...), args...),
			})
			if err != nil {
				return err
			}

			format := style.DetectFormat(os.Stdout)
			fmt.Fprintln(cmd.OutOrStdout(), style.RenderLabels(result.Labels, format))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&configs, "config", "c", nil, MsgFlagConfig)

	return cmd
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: MsgDocsShort,
		Long:  MsgDocsLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if style.DetectFormat(os.Stdout) != style.FormatTerminal {
				fmt.Fprintln(out, docs.ConfigFormat)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
			if err != nil {
				// Fallback to plain text on error
				fmt.Fprintln(out, docs.ConfigFormat)
				return nil
			}
			rendered, err := renderer.Render(docs.ConfigFormat)
			if err != nil {
				fmt.Fprintln(out, docs.ConfigFormat)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lcopy version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
