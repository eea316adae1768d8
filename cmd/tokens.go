package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"josephlewis.net/jsh/core/pipeline"
	"josephlewis.net/jsh/core/shell"
)

var (
	stageColor = color.New(color.FgCyan, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
)

// tokensCmd shows how the shell tokenises a line, for debugging the grammar.
var tokensCmd = &cobra.Command{
	Use:   "tokens LINE...",
	Short: "Show how a command line tokenises into pipeline stages.",
	Long: `Tokenises the given line exactly as the interactive shell would and
prints one row per stage. Nothing is executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		p := shell.Parse(strings.Join(args, " "))
		w := cmd.OutOrStdout()

		if len(p) == 0 {
			fmt.Fprintln(w, "(empty pipeline)")
			return nil
		}

		for k, stage := range p {
			stageColor.Fprintf(w, "stage %d:", k)
			if len(stage) == 0 {
				fmt.Fprint(w, " ")
				errColor.Fprint(w, "(empty)")
			}
			for _, arg := range stage {
				fmt.Fprintf(w, " %q", arg)
			}
			fmt.Fprintln(w)
		}

		if err := pipeline.Validate(p); err != nil {
			errColor.Fprintf(w, "invalid: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
