// Stats command: report stored data volumes.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored data counts and sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, closeApp, err := openApp(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}
		defer closeApp()

		summary, err := a.Summarize(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}
		overLimit, recordBytes := a.OverSoftLimit()

		if flagJSON {
			return printJSON(struct {
				Productivity int    `json:"productivity"`
				MatchFactor  int    `json:"matchFactor"`
				Issues       int    `json:"issues"`
				PhotoCount   int    `json:"photoCount"`
				PhotoBytes   int64  `json:"photoBytes"`
				RecordBytes  int64  `json:"recordBytes"`
				OverLimit    bool   `json:"overSoftLimit"`
				LastUpdate   string `json:"lastUpdate,omitempty"`
			}{
				Productivity: summary.Productivity,
				MatchFactor:  summary.MatchFactor,
				Issues:       summary.Issues,
				PhotoCount:   summary.Photos.Count,
				PhotoBytes:   summary.Photos.TotalBytes,
				RecordBytes:  recordBytes,
				OverLimit:    overLimit,
				LastUpdate:   summary.LastUpdate,
			})
		}

		fmt.Printf("Productivity samples: %d\n", summary.Productivity)
		fmt.Printf("Match factor samples: %d\n", summary.MatchFactor)
		fmt.Printf("Issues:               %d\n", summary.Issues)
		fmt.Printf("Photos:               %d (%s)\n", summary.Photos.Count,
			humanize.Bytes(uint64(summary.Photos.TotalBytes)))
		fmt.Printf("Records on disk:      %s\n", humanize.Bytes(uint64(recordBytes)))
		if summary.LastUpdate != "" {
			fmt.Printf("Last update:          %s\n", summary.LastUpdate)
		}
		if overLimit {
			fmt.Println("Warning: record store is over the soft limit; back up and prune old data.")
		}
		return nil
	},
}
