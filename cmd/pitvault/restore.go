// Restore command: replace all stored data with a backup file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/minetrics/pitvault/internal/backup"
	"github.com/minetrics/pitvault/pkg/types"
)

var flagRestoreYes bool

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with the contents of a backup file",
	Long: `Validate a backup file and replace every stored collection and photo
with its contents. Existing data is overwritten, not merged. An invalid
file is rejected before anything is touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup file: %w", err)
		}

		doc, err := backup.Decode(raw)
		if err != nil {
			if errors.Is(err, types.ErrInvalidBackup) {
				return err
			}
			return fmt.Errorf("decode backup file: %w", err)
		}

		a, closeApp, err := openApp(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(exitSysError)
		}
		defer closeApp()

		if !flagRestoreYes {
			current, err := a.Summarize(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "restore:", err)
				os.Exit(exitSysError)
			}
			fmt.Printf("Current data to be overwritten:\n")
			fmt.Printf("  productivity samples: %d\n", current.Productivity)
			fmt.Printf("  match factor samples: %d\n", current.MatchFactor)
			fmt.Printf("  issues:               %d\n", current.Issues)
			fmt.Printf("  photos:               %d (%s)\n", current.Photos.Count,
				humanize.Bytes(uint64(current.Photos.TotalBytes)))
			if current.LastUpdate != "" {
				fmt.Printf("  last update:          %s\n", current.LastUpdate)
			}
			if !confirm("Restore will replace everything above. Continue?") {
				fmt.Println("Restore cancelled.")
				return nil
			}
		}

		summary, err := a.RestoreBackup(ctx, doc)
		if err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(summary)
		}
		fmt.Println("Restore complete")
		fmt.Printf("  productivity samples: %d\n", summary.Productivity)
		fmt.Printf("  match factor samples: %d\n", summary.MatchFactor)
		fmt.Printf("  issues:               %d\n", summary.Issues)
		fmt.Printf("  photos imported:      %d\n", summary.ImagesImported)
		if summary.ImagesFailed > 0 {
			fmt.Printf("  photos failed:        %d\n", summary.ImagesFailed)
		}
		warnSoftLimit(a)
		return nil
	},
}

func init() {
	restoreCmd.Flags().BoolVar(&flagRestoreYes, "yes", false, "skip the confirmation prompt")
}
