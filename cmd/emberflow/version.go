package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberflow/emberflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of emberflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("emberflow version %s\n", strings.TrimSpace(emberflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
