package main

import (
	"fmt"

	"debatekeeper/internal/formats"

	"github.com/spf13/cobra"
)

// validateCmd checks format files in the formats directory
var validateCmd = &cobra.Command{
	Use:   "validate [format]",
	Short: "Validate format files in the formats directory",
	Long: `Parses format files and reports files that do not produce a usable
debate format, along with any recoverable errors found while parsing.
With no argument every .xml file in the formats directory is checked;
with an argument only the named format is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	manager := formats.NewManager(cfg.FormatsDir, nil)

	if len(args) == 1 {
		return validateOne(manager, args[0])
	}

	results, err := manager.ValidateAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("no format files found in %s\n", cfg.FormatsDir)
		return nil
	}

	bad := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			bad++
			fmt.Printf("FAIL  %s: %v\n", res.Info.Name, res.Err)
		case len(res.Errors) > 0:
			fmt.Printf("WARN  %s: %q, %d speeches, %d errors\n",
				res.Info.Name, res.FormatName, res.Speeches, len(res.Errors))
		default:
			fmt.Printf("OK    %s: %q, %d speeches\n",
				res.Info.Name, res.FormatName, res.Speeches)
		}
		for _, e := range res.Errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d format files are not valid", bad, len(results))
	}
	return nil
}

func validateOne(manager *formats.Manager, name string) error {
	df, errs, err := manager.Load(name)
	for _, e := range errs {
		fmt.Printf("  - %s\n", e)
	}
	if err != nil {
		return fmt.Errorf("format %q is not valid: %w", name, err)
	}
	fmt.Printf("OK    %s: %q, %d speeches\n", name, df.Name(), df.SpeechCount())
	return nil
}
