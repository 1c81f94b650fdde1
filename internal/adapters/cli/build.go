package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbush/daybrief/internal/adapters/cli/tui"
	"github.com/devbush/daybrief/internal/application"
	"github.com/devbush/daybrief/internal/domain"
)

var (
	outputFlag      string
	dataJSONFlag    string
	sileFlag        string
	feedsFileFlag   string
	officialFlag    bool
	skipTypesetFlag bool
	pickFlag        bool
	sectionsFlag    []string
)

// NewBuildCmd creates the build subcommand
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build today's brief",
		Long: `Fetch every section, write the SILE markup and data JSON, and typeset
the PDF. Sections that fail are replaced by a short notice; only a missing
or failing typesetter aborts the build.

An --official build also moves the cutoff: the next brief only includes
items published after it.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "PDF output path (default from config)")
	cmd.Flags().StringVar(&dataJSONFlag, "data-json", "", "Data JSON path (default from config)")
	cmd.Flags().StringVar(&sileFlag, "sile", "", "Path to the sile binary")
	cmd.Flags().StringVar(&feedsFileFlag, "feeds-file", "", "Extra RSS feeds, one URL per line")
	cmd.Flags().BoolVar(&officialFlag, "official", false, "Record this run as the official brief")
	cmd.Flags().BoolVar(&skipTypesetFlag, "skip-typeset", false, "Write markup and data only")
	cmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose sections interactively")
	cmd.Flags().StringSliceVar(&sectionsFlag, "section", nil, "Build only these sections (rss, comics, weather)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	opts := application.BuildOptions{
		Official:    officialFlag,
		SkipTypeset: skipTypesetFlag,
		Sections:    sectionsFlag,
		BuildDir:    app.Config.Paths.BuildDir,
		Entrypoint:  app.Config.Paths.SileMain,
		Output:      firstNonEmpty(outputFlag, app.Config.Paths.Output),
		DataJSON:    firstNonEmpty(dataJSONFlag, app.Config.Paths.DataJSON),
	}

	if pickFlag {
		picked, err := pickSections(app)
		if err != nil {
			return err
		}
		if picked == nil {
			fmt.Println("Cancelled")
			return nil
		}
		opts.Sections = picked
	}

	if !opts.SkipTypeset && !app.Typesetter.IsAvailable() {
		return fmt.Errorf("%w: install SILE or pass --sile (use --skip-typeset to only write markup)",
			domain.ErrTypesetterNotFound)
	}

	total := len(opts.Sections)
	if total == 0 {
		total = len(app.BuildSvc.SectionNames())
	}
	if total == 0 {
		return errors.New("nothing to build: configure feeds or enable weather")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := tui.NewSectionProgress(os.Stdout, total, isTerminal(os.Stdout))
	result, err := app.BuildSvc.Build(ctx, opts, progress)
	if err != nil {
		return err
	}

	progress.Complete(result)
	return nil
}

func pickSections(app *App) ([]string, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return nil, errors.New("--pick needs an interactive terminal, use --section instead")
	}

	var options []tui.CheckboxOption
	for _, name := range app.BuildSvc.SectionNames() {
		options = append(options, tui.CheckboxOption{
			Label:   name,
			Value:   name,
			Hint:    app.SectionHint(name),
			Checked: true,
		})
	}
	return tui.RunCheckbox("Sections to build:", options)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
