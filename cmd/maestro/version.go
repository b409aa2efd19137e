package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uxforge/maestro"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of maestro",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("maestro version %s\n", strings.TrimSpace(maestro.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
