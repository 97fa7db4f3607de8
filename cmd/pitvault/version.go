// Version command for the pitvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minetrics/pitvault/pkg/pitvault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pitvault version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pitvault", pitvault.Version)
	},
}
