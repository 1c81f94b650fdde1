package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/devbush/daybrief/internal/adapters/cli/tui"
	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
)

var (
	// Global flags
	configFlag  string
	verboseFlag bool
	logFileFlag string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daybrief",
		Short: "Build a printable daily briefing",
		Long: `daybrief collects news feeds, webcomics and the weather forecast into
a typeset PDF. Expensive fetches are cached on disk between runs.

Run without arguments for an interactive menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verboseFlag {
				level = "debug"
			}
			return logger.Init(level, logFileFlag)
		},
		RunE: runRoot,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.daybrief/config.yaml, .toml also accepted)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewDepsCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return cmd.Help()
	}
	return runInteractiveMenu(cmd)
}

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Build brief", Value: "build", Hint: "fetch, render and typeset"},
		{Label: "Build official brief", Value: "official", Hint: "next brief starts after this one"},
		{Label: "Choose sections and build", Value: "pick"},
		{Label: "Cache status", Value: "cache"},
		{Label: "Remove expired cache entries", Value: "clean"},
	}

	selected, err := tui.RunMenu(options)
	if err != nil {
		return err
	}

	switch selected {
	case "build":
		return runBuild(cmd, nil)
	case "official":
		officialFlag = true
		return runBuild(cmd, nil)
	case "pick":
		pickFlag = true
		return runBuild(cmd, nil)
	case "cache":
		return runCacheStatus(cmd, nil)
	case "clean":
		return runCacheClear(cmd, nil)
	case "":
		fmt.Println("Cancelled")
	}

	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrTypesetterNotFound):
		return 127
	case errors.Is(err, domain.ErrEntrypointNotFound):
		return 2
	default:
		return 1
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if cerr := logger.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error: closing log file:", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}
