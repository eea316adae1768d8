package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"josephlewis.net/jsh/core/shell"
)

var commandLine string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsh",
	Short: "A minimal pipeline shell.",
	Long: `jsh reads one command line at a time, runs it as a pipeline of
processes connected by '|', and reports the exit status of the
last stage as "jsh status: N". The builtin "exit" quits.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		s, err := shell.NewShell(os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}

		if commandLine != "" {
			if err := s.RunCommand(commandLine); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "jsh error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(s.LastStatus())
		}

		if code := s.RunInteractive(); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit with its status")
}
