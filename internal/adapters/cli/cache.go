package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/daybrief/internal/adapters/cli/tui"
)

var clearAllFlag bool

// NewCacheCmd creates the cache subcommand
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show cache status and the current cutoff",
		RunE:  runCacheStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove expired cache entries",
		RunE:  runCacheClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Remove every cache entry, fresh or not")

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List cache entries, newest first",
		RunE:  runCacheList,
	}

	cmd.AddCommand(clearCmd, lsCmd)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	ctx := context.Background()
	stats, err := app.CacheSvc.Stats(ctx)
	if err != nil {
		return err
	}
	last, err := app.CutoffSvc.Last(ctx)
	if err != nil {
		return err
	}
	cutoff, err := app.CutoffSvc.Cutoff(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Cache Statistics:")
	fmt.Printf("  Dir:    %s\n", app.Config.Paths.CacheDir)
	fmt.Printf("  Items:  %d\n", stats.ItemCount)
	fmt.Printf("  Size:   %s\n", tui.FormatSize(stats.TotalSize))
	fmt.Println()
	fmt.Println("Official Runs:")
	if last == nil {
		fmt.Println("  Last:   never")
	} else {
		fmt.Printf("  Last:   %s (%s ago)\n", tui.FormatTime(last.LastOfficial), tui.FormatAge(time.Since(last.LastOfficial)))
	}
	fmt.Printf("  Cutoff: %s (window %s)\n", tui.FormatTime(cutoff), tui.FormatAge(app.CutoffSvc.Window()))
	fmt.Println()

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if clearAllFlag {
		if err := app.CacheSvc.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("All cache entries cleared")
	} else {
		cleaned, err := app.CacheSvc.CleanExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries\n", cleaned)
	}

	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	entries, err := app.CacheSvc.List(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Cache is empty")
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		state := "fresh"
		if !e.IsFresh(now) {
			state = "stale"
		}
		fmt.Printf("%-60s  %5s  ttl %-4s  %s\n",
			tui.Truncate(e.Key, 60),
			tui.FormatAge(e.Age(now)),
			tui.FormatAge(time.Duration(e.TTL)*time.Second),
			state)
	}
	fmt.Printf("\n%d entries\n", len(entries))

	return nil
}
