package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbush/daybrief/internal/config"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show external dependency status (sile, OpenRouter token)",
		RunE:  runDepsStatus,
	}
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Dependency Status:")
	fmt.Println()

	if app.Typesetter.IsAvailable() {
		fmt.Printf("  sile:        installed (%s)\n", app.Typesetter.GetBinaryPath())
	} else {
		fmt.Printf("  sile:        not found (searched %s and PATH)\n", config.BinDir())
	}

	if _, err := os.Stat(app.Config.Paths.SileMain); err == nil {
		fmt.Printf("  entrypoint:  %s\n", app.Config.Paths.SileMain)
	} else {
		fmt.Printf("  entrypoint:  missing (%s)\n", app.Config.Paths.SileMain)
	}

	if app.Config.LLM.Token != "" {
		fmt.Printf("  openrouter:  token configured (model %s)\n", app.Config.LLM.Model)
	} else {
		fmt.Printf("  openrouter:  no token, set %s to parse comics\n", config.TokenEnv)
	}
	fmt.Println()

	return nil
}
