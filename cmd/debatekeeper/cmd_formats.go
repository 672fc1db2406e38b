package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"debatekeeper/internal/formats"

	"github.com/spf13/cobra"
)

var formatsWatch bool

// formatsCmd lists the available formats
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available debate formats",
	Long: `Lists the format files in the formats directory with the format name
and speech count of each. With --watch, keeps running and revalidates
files as they change.`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	formatsCmd.Flags().BoolVar(&formatsWatch, "watch", false, "Watch the directory and revalidate on change")
}

func runFormats(cmd *cobra.Command, args []string) error {
	manager := formats.NewManager(cfg.FormatsDir, nil)

	results, err := manager.ValidateAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("no format files found in %s\n", cfg.FormatsDir)
	}
	for _, res := range results {
		printFormatLine(res)
	}

	if !formatsWatch {
		return nil
	}

	watcher, err := formats.NewWatcher(manager, func(res formats.ValidationResult) {
		printFormatLine(res)
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(context.Background()); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("watching %s, Ctrl-C to stop\n", cfg.FormatsDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh

	return nil
}

func printFormatLine(res formats.ValidationResult) {
	if res.Err != nil {
		fmt.Printf("%-20s (invalid: %v)\n", res.Info.Name, res.Err)
		return
	}
	fmt.Printf("%-20s %q, %d speeches\n", res.Info.Name, res.FormatName, res.Speeches)
}
