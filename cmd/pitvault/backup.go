// Backup command: export all stored data to a single JSON file.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/minetrics/pitvault/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Export all data to a backup file",
	Long: `Export productivity samples, match factor samples, issues, photos,
and settings to a single self-contained JSON file. Photos are embedded
base64-encoded so the file can be moved between machines on its own.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, closeApp, err := openApp(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "backup:", err)
			os.Exit(exitSysError)
		}
		defer closeApp()

		doc, err := a.ExportBackup(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "backup:", err)
			os.Exit(exitSysError)
		}

		data, err := backup.Encode(doc)
		if err != nil {
			fmt.Fprintln(os.Stderr, "backup:", err)
			os.Exit(exitSysError)
		}

		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "backup:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(doc.Metadata)
		}
		fmt.Printf("Backup written to %s (%s)\n", args[0], humanize.Bytes(uint64(len(data))))
		fmt.Printf("  productivity samples: %d\n", doc.Metadata.TotalProductivity)
		fmt.Printf("  match factor samples: %d\n", doc.Metadata.TotalMatchFactor)
		fmt.Printf("  issues:               %d\n", doc.Metadata.TotalIssues)
		fmt.Printf("  photos:               %d\n", doc.Metadata.TotalImages)
		return nil
	},
}
